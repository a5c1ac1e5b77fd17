package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"equiprent/internal/booking"
	"equiprent/internal/domain"
	"equiprent/internal/logger"

	"golang.org/x/sync/errgroup"
)

type OwnerStats struct {
	TotalEquipment  int
	ActiveBookings  int
	PendingRequests int
	TotalEarnings   int64
}

type OwnerView struct {
	Equipment []domain.Equipment
	Bookings  []domain.Booking
	Stats     OwnerStats
	// LastError is the most recent failed fetch; nil after a clean load.
	LastError error
}

type Owner struct {
	*lifetime
	ownerID string
	deps    Deps
	log     *slog.Logger

	mu   sync.RWMutex
	view OwnerView
}

func NewOwner(parent context.Context, ownerID string, deps Deps) *Owner {
	return &Owner{
		lifetime: newLifetime(parent),
		ownerID:  ownerID,
		deps:     deps,
		log:      logger.WithComponent("owner_dashboard").With("owner_id", ownerID),
	}
}

func (o *Owner) Role() domain.Role { return domain.RoleOwner }

func (o *Owner) View() OwnerView {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v := o.view
	v.Equipment = append([]domain.Equipment(nil), o.view.Equipment...)
	v.Bookings = append([]domain.Booking(nil), o.view.Bookings...)
	return v
}

// Load fetches listings and bookings concurrently. Each fetch that succeeds
// replaces its part of the view; a failed one keeps the previous data.
func (o *Owner) Load(ctx context.Context) error {
	ctx, cancel := o.scope(ctx)
	defer cancel()

	var (
		g          errgroup.Group
		items      []domain.Equipment
		bookings   []domain.Booking
		itemsErr   error
		bookingErr error
	)
	g.Go(func() error {
		items, itemsErr = o.deps.Listing.ListOwned(ctx, o.ownerID)
		return itemsErr
	})
	g.Go(func() error {
		bookings, bookingErr = o.deps.Bookings.ListForOwner(ctx, o.ownerID)
		return bookingErr
	})
	err := g.Wait()

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed() {
		return ErrClosed
	}
	if itemsErr == nil {
		o.view.Equipment = items
	} else {
		o.log.Error("Failed to fetch equipment", "error", itemsErr)
	}
	if bookingErr == nil {
		o.view.Bookings = bookings
	} else {
		o.log.Error("Failed to fetch bookings", "error", bookingErr)
	}
	o.view.LastError = err
	o.view.Stats = ownerStats(o.view.Equipment, o.view.Bookings)
	return err
}

func ownerStats(items []domain.Equipment, bookings []domain.Booking) OwnerStats {
	s := booking.Summarize(bookings)
	return OwnerStats{
		TotalEquipment:  len(items),
		ActiveBookings:  s.ActiveBookings,
		PendingRequests: s.PendingBookings,
		TotalEarnings:   s.TotalEarnings,
	}
}

// Requests returns the booking rows matching status; empty means all.
func (o *Owner) Requests(status domain.BookingStatus) []domain.Booking {
	return booking.Filter(o.View().Bookings, status)
}

func (o *Owner) Approve(ctx context.Context, bookingID string) error {
	return o.act(ctx, bookingID, o.deps.Lifecycle.Approve)
}

func (o *Owner) Reject(ctx context.Context, bookingID string) error {
	return o.act(ctx, bookingID, o.deps.Lifecycle.Reject)
}

// act awaits the write before reloading, so the reload always observes it.
func (o *Owner) act(ctx context.Context, bookingID string, fn func(context.Context, domain.Booking) error) error {
	b, ok := o.findBooking(bookingID)
	if !ok {
		return fmt.Errorf("%s: %w", bookingID, ErrUnknownBooking)
	}

	sctx, cancel := o.scope(ctx)
	err := fn(sctx, b)
	cancel()
	if err != nil {
		return err
	}
	return o.Load(ctx)
}

// ToggleEquipment flips a listing between available and maintenance and
// replaces the listing set with the re-fetched one.
func (o *Owner) ToggleEquipment(ctx context.Context, equipmentID string) error {
	e, ok := o.findEquipment(equipmentID)
	if !ok {
		return fmt.Errorf("%s: %w", equipmentID, ErrUnknownListing)
	}

	sctx, cancel := o.scope(ctx)
	defer cancel()
	items, err := o.deps.Listing.ToggleStatus(sctx, o.ownerID, e.ID, e.Status)
	if err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed() {
		return ErrClosed
	}
	o.view.Equipment = items
	o.view.Stats = ownerStats(o.view.Equipment, o.view.Bookings)
	return nil
}

func (o *Owner) findBooking(id string) (domain.Booking, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, b := range o.view.Bookings {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Booking{}, false
}

func (o *Owner) findEquipment(id string) (domain.Equipment, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, e := range o.view.Equipment {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Equipment{}, false
}
