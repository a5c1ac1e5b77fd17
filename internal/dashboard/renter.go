package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"equiprent/internal/booking"
	"equiprent/internal/domain"
	"equiprent/internal/logger"
)

type RenterStats struct {
	ActiveBookings  int
	TotalBookings   int
	PendingBookings int
}

// RenterBooking is a booking row with the amount to display for it.
type RenterBooking struct {
	domain.Booking
	DisplayTotal int64
}

type RenterView struct {
	Bookings  []RenterBooking
	Stats     RenterStats
	LastError error
}

type Renter struct {
	*lifetime
	renterID string
	deps     Deps
	log      *slog.Logger

	mu   sync.RWMutex
	view RenterView
}

func NewRenter(parent context.Context, renterID string, deps Deps) *Renter {
	return &Renter{
		lifetime: newLifetime(parent),
		renterID: renterID,
		deps:     deps,
		log:      logger.WithComponent("renter_dashboard").With("renter_id", renterID),
	}
}

func (r *Renter) Role() domain.Role { return domain.RoleRenter }

func (r *Renter) View() RenterView {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v := r.view
	v.Bookings = append([]RenterBooking(nil), r.view.Bookings...)
	return v
}

func (r *Renter) Load(ctx context.Context) error {
	ctx, cancel := r.scope(ctx)
	defer cancel()

	rows, err := r.deps.Bookings.ListForRenter(ctx, r.renterID)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed() {
		return ErrClosed
	}
	r.view.LastError = err
	if err != nil {
		r.log.Error("Failed to fetch bookings", "error", err)
		return err
	}

	view := make([]RenterBooking, 0, len(rows))
	for _, b := range rows {
		view = append(view, RenterBooking{Booking: b, DisplayTotal: booking.DisplayTotal(b)})
	}
	s := booking.Summarize(rows)
	r.view.Bookings = view
	r.view.Stats = RenterStats{
		ActiveBookings:  s.ActiveBookings,
		TotalBookings:   s.TotalBookings,
		PendingBookings: s.PendingBookings,
	}
	return nil
}

// Book requests a rental of equipmentID and reloads the view.
func (r *Renter) Book(ctx context.Context, equipmentID string, start, end time.Time) (*domain.Booking, error) {
	sctx, cancel := r.scope(ctx)
	e, err := r.deps.Listing.Get(sctx, equipmentID)
	if err != nil {
		cancel()
		return nil, err
	}
	b, err := r.deps.Lifecycle.Request(sctx, booking.Draft{
		RenterID:  r.renterID,
		Equipment: e,
		StartDate: start,
		EndDate:   end,
	})
	cancel()
	if err != nil {
		return nil, err
	}
	return b, r.Load(ctx)
}
