package repository

import (
	"context"
	"errors"
	"time"

	"equiprent/internal/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
	// ErrStale means a conditional update matched no row because the stored
	// status changed since the caller read it.
	ErrStale = errors.New("record changed since it was read")
)

type IdentityRepository interface {
	Create(ctx context.Context, identity *domain.Identity) error
	GetByID(ctx context.Context, id string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	// Delete removes the identity together with its profile and roles.
	Delete(ctx context.Context, id string) error
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)
}

type RoleRepository interface {
	Create(ctx context.Context, assignment *domain.RoleAssignment) error
	// ListByUser returns assignments oldest first.
	ListByUser(ctx context.Context, userID string) ([]domain.RoleAssignment, error)
}

type EquipmentRepository interface {
	Create(ctx context.Context, e *domain.Equipment) error
	GetByID(ctx context.Context, id string) (*domain.Equipment, error)
	// Search lists equipment newest first. OwnerID in the filter scopes it.
	Search(ctx context.Context, filter domain.EquipmentFilter) ([]domain.Equipment, error)
	UpdateStatus(ctx context.Context, id string, status domain.EquipmentStatus) error
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	// GetByID returns the booking joined with its equipment row.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// ListByOwner returns bookings on the owner's equipment joined with the
	// equipment row and renter profile, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	// ListByRenter returns the renter's bookings joined with the equipment row, newest first.
	ListByRenter(ctx context.Context, renterID string) ([]domain.Booking, error)
	// UpdateStatus writes to only while the stored status equals from; otherwise ErrStale.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error
	// ListElapsedActive returns active bookings whose end date is before cutoff,
	// joined with equipment and renter profile.
	ListElapsedActive(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
	// Complete moves an active booking to completed with its final amount.
	Complete(ctx context.Context, id string, totalAmountCents int64) error
}

type RevokedTokenRepository interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
