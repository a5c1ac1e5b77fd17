package rest

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/gateway"
	"equiprent/internal/logger"
)

type authClient struct {
	c *Client
}

func (a *authClient) SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error) {
	var tr gateway.TokenResponse
	status, err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/token",
		query:  url.Values{"grant_type": {"password"}},
		body:   gateway.Credentials{Email: email, Password: password},
	}, &tr)
	if err != nil {
		return nil, authErr("sign_in", status, err)
	}

	s := a.c.sessionFromToken(tr)
	a.c.setSession(s)
	a.c.events.Publish(gateway.EventSignedIn, s)
	return s, nil
}

// SignUp creates the identity. The gateway signs the new identity in straight
// away so the follow-up profile and role inserts run as that identity.
func (a *authClient) SignUp(ctx context.Context, email, password string) (*domain.Identity, error) {
	var tr gateway.TokenResponse
	status, err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/signup",
		body:   gateway.Credentials{Email: email, Password: password},
	}, &tr)
	if err != nil {
		return nil, authErr("sign_up", status, err)
	}

	s := a.c.sessionFromToken(tr)
	a.c.setSession(s)
	a.c.events.Publish(gateway.EventSignedIn, s)
	identity := s.Identity
	return &identity, nil
}

// SignOut always drops the local session, even when the remote call fails.
func (a *authClient) SignOut(ctx context.Context) error {
	if a.c.currentSession() == nil {
		return nil
	}
	status, err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/v1/logout",
		cred:   credSession,
	}, nil)

	a.c.setSession(nil)
	a.c.events.Publish(gateway.EventSignedOut, nil)
	if err != nil {
		return authErr("sign_out", status, err)
	}
	return nil
}

func (a *authClient) GetSession(ctx context.Context) (*domain.Session, error) {
	s := a.c.currentSession()
	if s == nil {
		return nil, nil
	}
	if !s.ExpiresAt.IsZero() && !a.c.now().Before(s.ExpiresAt) {
		logger.Debug("Dropping expired session", "user_id", s.Identity.ID)
		a.c.setSession(nil)
		a.c.events.Publish(gateway.EventSignedOut, nil)
		return nil, nil
	}
	return s, nil
}

// DeleteIdentity removes an identity. The caller's own identity is deleted with
// its session token; anyone else's needs the service key.
func (a *authClient) DeleteIdentity(ctx context.Context, identityID string) error {
	cred := credSession
	s := a.c.currentSession()
	if s == nil || s.Identity.ID != identityID {
		if a.c.serviceKey == "" {
			return authErr("delete_user", 0, gateway.ErrNoServiceKey)
		}
		cred = credService
	}

	status, err := a.c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/auth/v1/admin/users/" + url.PathEscape(identityID),
		cred:   cred,
	}, nil)
	if err != nil {
		return authErr("delete_user", status, err)
	}

	if s != nil && s.Identity.ID == identityID {
		a.c.setSession(nil)
		a.c.events.Publish(gateway.EventUserDeleted, nil)
	}
	return nil
}

func (a *authClient) OnAuthStateChange(fn gateway.AuthListener) func() {
	return a.c.events.Subscribe(fn)
}

func (c *Client) sessionFromToken(tr gateway.TokenResponse) *domain.Session {
	s := &domain.Session{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		Identity:     tr.User,
	}
	if tr.ExpiresIn > 0 {
		s.ExpiresAt = c.now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}
	return s
}
