// Package dashboard composes the owner and renter views from the equipment and
// booking components. Views re-fetch after every mutation and keep no shared
// cache.
package dashboard

import (
	"context"
	"errors"
	"sync"

	"equiprent/internal/booking"
	"equiprent/internal/domain"
	"equiprent/internal/equipment"
	"equiprent/internal/gateway"
)

var (
	ErrNotSignedIn    = errors.New("not signed in")
	ErrNoRoles        = errors.New("identity holds no roles")
	ErrRoleNotHeld    = errors.New("role not held by identity")
	ErrClosed         = errors.New("dashboard closed")
	ErrUnknownBooking = errors.New("booking not in view")
	ErrUnknownListing = errors.New("equipment not in view")
)

// Dashboard is a mounted role view.
type Dashboard interface {
	Role() domain.Role
	Load(ctx context.Context) error
	Close()
}

// Deps are the components both dashboards are built from.
type Deps struct {
	Listing   *equipment.Listing
	Bookings  gateway.BookingTable
	Lifecycle *booking.Lifecycle
}

func NewDeps(gw *gateway.Gateway) Deps {
	return Deps{
		Listing:   equipment.NewListing(gw.Equipment, gw.Storage),
		Bookings:  gw.Bookings,
		Lifecycle: booking.NewLifecycle(gw.Bookings),
	}
}

// lifetime ties every fetch a dashboard issues to the dashboard itself, so
// Close aborts in-flight requests and stops late results from landing.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once
}

func newLifetime(parent context.Context) *lifetime {
	ctx, cancel := context.WithCancel(parent)
	return &lifetime{ctx: ctx, cancel: cancel}
}

// scope returns ctx additionally cancelled when the dashboard closes.
func (l *lifetime) scope(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (l *lifetime) closed() bool { return l.ctx.Err() != nil }

func (l *lifetime) Close() {
	l.once.Do(l.cancel)
}
