// Package gateway describes the remote backend the client depends on: hosted
// auth, relational tables and object storage. Durability, consistency and
// row-level authorization live behind these interfaces; the client only
// issues requests and re-fetches.
package gateway

import (
	"context"
	"io"

	"equiprent/internal/domain"
)

type Auth interface {
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, email, password string) (*domain.Identity, error)
	SignOut(ctx context.Context) error
	// GetSession returns the current session, or nil when signed out.
	GetSession(ctx context.Context) (*domain.Session, error)
	DeleteIdentity(ctx context.Context, identityID string) error
	OnAuthStateChange(fn AuthListener) (unsubscribe func())
}

type EquipmentTable interface {
	// ListByOwner returns the owner's listings, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Equipment, error)
	Browse(ctx context.Context, filter domain.EquipmentFilter) ([]domain.Equipment, error)
	Get(ctx context.Context, id string) (*domain.Equipment, error)
	Insert(ctx context.Context, e *domain.Equipment) error
	UpdateStatus(ctx context.Context, id string, status domain.EquipmentStatus) error
}

type BookingTable interface {
	// ListForOwner returns bookings on the owner's equipment joined with the
	// equipment row and the renter profile, newest first.
	ListForOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	// ListForRenter returns the renter's bookings joined with the equipment row.
	ListForRenter(ctx context.Context, renterID string) ([]domain.Booking, error)
	Insert(ctx context.Context, b *domain.Booking) error
	// UpdateStatus writes to only when the stored status still equals from.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error
}

type RoleTable interface {
	// List returns role assignments ordered by creation, oldest first.
	List(ctx context.Context, userID string) ([]domain.RoleAssignment, error)
	Insert(ctx context.Context, a domain.RoleAssignment) error
}

type ProfileTable interface {
	Insert(ctx context.Context, p domain.Profile) error
}

type Storage interface {
	// UploadImage stores an equipment image and returns its public URL.
	UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// Gateway bundles the collaborator surfaces handed to the application root.
type Gateway struct {
	Auth      Auth
	Equipment EquipmentTable
	Bookings  BookingTable
	Roles     RoleTable
	Profiles  ProfileTable
	Storage   Storage
}
