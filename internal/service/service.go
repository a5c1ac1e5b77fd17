package service

import (
	"context"
	"io"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/security"
)

// Tokens is a freshly issued session.
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    time.Duration
	User         domain.Identity
}

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*Tokens, error)
	SignIn(ctx context.Context, email, password string) (*Tokens, error)
	// Refresh exchanges a refresh token for a new pair in the same session.
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
	// SignOut revokes every token of the caller's session.
	SignOut(ctx context.Context, claims *security.UserClaims) error
	// Authenticate validates an access token and rejects revoked sessions.
	Authenticate(ctx context.Context, accessToken string) (*security.UserClaims, error)
	GetUser(ctx context.Context, userID string) (*domain.Identity, error)
	DeleteUser(ctx context.Context, userID string) error
}

// AccountService owns the role and profile rows. Callers only touch their own.
type AccountService interface {
	ListRoles(ctx context.Context, actorID, userID string) ([]domain.RoleAssignment, error)
	AssignRole(ctx context.Context, actorID string, a *domain.RoleAssignment) error
	CreateProfile(ctx context.Context, actorID string, p *domain.Profile) error
}

type EquipmentService interface {
	Search(ctx context.Context, filter domain.EquipmentFilter) ([]domain.Equipment, error)
	Get(ctx context.Context, id string) (*domain.Equipment, error)
	Create(ctx context.Context, actorID string, e *domain.Equipment) error
	UpdateStatus(ctx context.Context, actorID, id string, status domain.EquipmentStatus) error
}

type BookingService interface {
	ListForOwner(ctx context.Context, actorID, ownerID string) ([]domain.Booking, error)
	ListForRenter(ctx context.Context, actorID, renterID string) ([]domain.Booking, error)
	Create(ctx context.Context, actorID string, b *domain.Booking) error
	// UpdateStatus moves a booking on behalf of the equipment owner. A non-empty
	// expected status must match the stored one.
	UpdateStatus(ctx context.Context, actorID, id string, to, expected domain.BookingStatus) error
	// CompleteElapsed completes active bookings whose end date is before now
	// and returns how many were completed.
	CompleteElapsed(ctx context.Context, now time.Time) (int, error)
}

type ImageService interface {
	// Upload stores an equipment image and returns its key and public URL.
	Upload(ctx context.Context, actorID, filename, contentType string, body io.Reader) (key, url string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}
