// Package booking drives rental requests through their status transitions and
// reduces booking sets to dashboard figures.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/gateway"
	"equiprent/internal/logger"
)

var (
	ErrNotPending       = errors.New("booking is not pending")
	ErrInvalidDates     = errors.New("end date is before start date")
	ErrNotAvailable     = errors.New("equipment is not available")
	ErrOwnEquipment     = errors.New("cannot book your own equipment")
	ErrMissingRenter    = errors.New("renter is required")
	ErrMissingEquipment = errors.New("equipment is required")
)

type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
)

// Actions lists what a view may offer for b. Only pending bookings can be acted on.
func Actions(b domain.Booking) []Action {
	if b.Status != domain.BookingStatusPending {
		return nil
	}
	return []Action{ActionApprove, ActionReject}
}

type Lifecycle struct {
	bookings gateway.BookingTable
	log      *slog.Logger
}

func NewLifecycle(bookings gateway.BookingTable) *Lifecycle {
	return &Lifecycle{
		bookings: bookings,
		log:      logger.WithComponent("booking"),
	}
}

// Approve moves a pending booking to active.
func (l *Lifecycle) Approve(ctx context.Context, b domain.Booking) error {
	return l.transition(ctx, b, domain.BookingStatusActive)
}

// Reject moves a pending booking to rejected.
func (l *Lifecycle) Reject(ctx context.Context, b domain.Booking) error {
	return l.transition(ctx, b, domain.BookingStatusRejected)
}

// transition issues no write for a booking that is not pending. The gateway
// update is conditional on the stored status still being pending, so a
// booking changed elsewhere since the last fetch comes back as a conflict.
func (l *Lifecycle) transition(ctx context.Context, b domain.Booking, to domain.BookingStatus) error {
	if b.Status != domain.BookingStatusPending {
		return fmt.Errorf("%s booking %s: %w (status %s)", actionFor(to), b.ID, ErrNotPending, b.Status)
	}

	if err := l.bookings.UpdateStatus(ctx, b.ID, b.Status, to); err != nil {
		l.log.Error("Failed to update booking status", "booking_id", b.ID, "to", to, "error", err)
		return err
	}
	l.log.Info("Booking status updated", "booking_id", b.ID, "from", b.Status, "to", to)
	return nil
}

func actionFor(to domain.BookingStatus) Action {
	if to == domain.BookingStatusRejected {
		return ActionReject
	}
	return ActionApprove
}

// Draft is a renter's booking request.
type Draft struct {
	RenterID  string
	Equipment *domain.Equipment
	StartDate time.Time
	EndDate   time.Time
}

// Request creates a pending booking priced at the listing's current rate.
func (l *Lifecycle) Request(ctx context.Context, d Draft) (*domain.Booking, error) {
	if strings.TrimSpace(d.RenterID) == "" {
		return nil, ErrMissingRenter
	}
	if d.Equipment == nil || d.Equipment.ID == "" {
		return nil, ErrMissingEquipment
	}
	if d.Equipment.OwnerID == d.RenterID {
		return nil, ErrOwnEquipment
	}
	if d.Equipment.Status != domain.EquipmentStatusAvailable {
		return nil, fmt.Errorf("%w: %s", ErrNotAvailable, d.Equipment.Status)
	}
	if d.EndDate.Before(d.StartDate) {
		return nil, ErrInvalidDates
	}

	b := &domain.Booking{
		EquipmentID:      d.Equipment.ID,
		RenterID:         d.RenterID,
		StartDate:        d.StartDate,
		EndDate:          d.EndDate,
		Status:           domain.BookingStatusPending,
		TotalAmountCents: domain.DerivedTotal(d.Equipment.DailyRateCents, d.StartDate, d.EndDate),
	}
	if err := l.bookings.Insert(ctx, b); err != nil {
		l.log.Error("Failed to create booking", "equipment_id", d.Equipment.ID, "error", err)
		return nil, err
	}
	l.log.Info("Booking requested", "booking_id", b.ID, "equipment_id", b.EquipmentID)
	return b, nil
}
