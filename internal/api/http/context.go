package http

import (
	"context"

	"equiprent/internal/security"
)

// Principal is the caller the auth middleware resolved for a request.
type Principal struct {
	UserID string
	Email  string
	Claims *security.UserClaims
	// Service is set for callers holding the service key.
	Service bool
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the request's caller, or nil for anonymous requests.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// userID returns the signed-in identity, or "" for anonymous and service callers.
func userID(ctx context.Context) string {
	if p := PrincipalFrom(ctx); p != nil {
		return p.UserID
	}
	return ""
}
