package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/logger"
	"equiprent/internal/repository"
	"equiprent/internal/security"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type authService struct {
	identityRepo repository.IdentityRepository
	revokedRepo  repository.RevokedTokenRepository
	tokens       security.TokenManager
	now          func() time.Time
}

func NewAuthService(identityRepo repository.IdentityRepository, revokedRepo repository.RevokedTokenRepository, tokens security.TokenManager) AuthService {
	return &authService{
		identityRepo: identityRepo,
		revokedRepo:  revokedRepo,
		tokens:       tokens,
		now:          time.Now,
	}
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", invalid("invalid email address")
	}
	return email, nil
}

func (s *authService) SignUp(ctx context.Context, email, password string) (*Tokens, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, invalid("password must be at least %d characters", minPasswordLength)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.Identity{
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.identityRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflict("email already registered")
		}
		return nil, err
	}

	logger.Info("Identity created", "user_id", user.ID)
	return s.issue(*user, uuid.NewString())
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*Tokens, error) {
	user, err := s.identityRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issue(*user, uuid.NewString())
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	claims, err := s.tokens.ValidateToken(refreshToken)
	if err != nil || claims.Type != security.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	if err := s.checkRevoked(ctx, claims.SessionID, claims.ID); err != nil {
		return nil, err
	}

	user, err := s.identityRepo.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// Retire the used refresh token; the session itself carries on.
	if err := s.revokedRepo.Revoke(ctx, claims.ID, claims.Expiry()); err != nil {
		return nil, err
	}
	return s.issue(*user, claims.SessionID)
}

func (s *authService) SignOut(ctx context.Context, claims *security.UserClaims) error {
	if claims == nil || claims.SessionID == "" {
		return ErrInvalidToken
	}
	// The refresh token of this session outlives the access token.
	expiresAt := s.now().Add(s.tokens.RefreshTTL())
	if claims.IssuedAt != nil {
		expiresAt = claims.IssuedAt.Add(s.tokens.RefreshTTL())
	}
	if err := s.revokedRepo.Revoke(ctx, claims.SessionID, expiresAt); err != nil {
		return err
	}
	logger.Info("Session revoked", "user_id", claims.UserID())
	return nil
}

func (s *authService) Authenticate(ctx context.Context, accessToken string) (*security.UserClaims, error) {
	claims, err := s.tokens.ValidateToken(accessToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Type != security.TokenTypeAccess {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, security.ErrWrongTokenType)
	}
	if err := s.checkRevoked(ctx, claims.SessionID); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *authService) checkRevoked(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		revoked, err := s.revokedRepo.IsRevoked(ctx, id)
		if err != nil {
			return err
		}
		if revoked {
			return ErrInvalidToken
		}
	}
	return nil
}

func (s *authService) GetUser(ctx context.Context, userID string) (*domain.Identity, error) {
	user, err := s.identityRepo.GetByID(ctx, userID)
	return user, fromRepo(err)
}

// DeleteUser removes the identity. Profile, roles, listings and bookings go
// with it.
func (s *authService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.identityRepo.Delete(ctx, userID); err != nil {
		return fromRepo(err)
	}
	logger.Info("Identity deleted", "user_id", userID)
	return nil
}

func (s *authService) issue(user domain.Identity, sessionID string) (*Tokens, error) {
	access, err := s.tokens.GenerateAccessToken(user.ID, user.Email, sessionID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.ID, user.Email, sessionID)
	if err != nil {
		return nil, err
	}
	return &Tokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    s.tokens.AccessTTL(),
		User:         user,
	}, nil
}
