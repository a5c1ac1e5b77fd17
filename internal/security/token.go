package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrExpiredToken   = errors.New("token has expired")
	ErrWrongTokenType = errors.New("wrong token type for this endpoint")
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

const issuer = "equiprent-gateway"

// UserClaims are the session claims. Subject carries the identity ID. An
// access token and its refresh token share a SessionID, which is what sign-out
// revokes; ID (jti) is unique per token so a used refresh token can be retired.
type UserClaims struct {
	Email     string    `json:"email,omitempty"`
	Type      TokenType `json:"type"`
	SessionID string    `json:"session_id"`
	jwt.RegisteredClaims
}

// UserID returns the identity the token was issued to.
func (c *UserClaims) UserID() string {
	return c.Subject
}

// Expiry returns the expiry time, or the zero time if the token has none.
func (c *UserClaims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

type TokenManager interface {
	GenerateAccessToken(userID, email, sessionID string) (string, error)
	GenerateRefreshToken(userID, email, sessionID string) (string, error)
	ValidateToken(tokenString string) (*UserClaims, error)
	AccessTTL() time.Duration
	RefreshTTL() time.Duration
}

type tokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) TokenManager {
	return &tokenManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (m *tokenManager) AccessTTL() time.Duration {
	return m.accessTTL
}

func (m *tokenManager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

func (m *tokenManager) GenerateAccessToken(userID, email, sessionID string) (string, error) {
	return m.sign(userID, email, sessionID, TokenTypeAccess, m.accessTTL, "api-access")
}

func (m *tokenManager) GenerateRefreshToken(userID, email, sessionID string) (string, error) {
	return m.sign(userID, email, sessionID, TokenTypeRefresh, m.refreshTTL, "token-refresh")
}

func (m *tokenManager) sign(userID, email, sessionID string, typ TokenType, ttl time.Duration, audience string) (string, error) {
	now := m.now()
	claims := UserClaims{
		Email:     email,
		Type:      typ,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audience},
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *tokenManager) ValidateToken(tokenString string) (*UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(m.now))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || !token.Valid || claims.Subject == "" || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
