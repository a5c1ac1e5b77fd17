package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/logger"
	"equiprent/internal/metrics"
	"equiprent/internal/notify"
	"equiprent/internal/repository"
)

type bookingService struct {
	bookingRepo   repository.BookingRepository
	equipmentRepo repository.EquipmentRepository
	roleRepo      repository.RoleRepository
	notifier      notify.Notifier
	log           *slog.Logger
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	equipmentRepo repository.EquipmentRepository,
	roleRepo repository.RoleRepository,
	notifier notify.Notifier,
) BookingService {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &bookingService{
		bookingRepo:   bookingRepo,
		equipmentRepo: equipmentRepo,
		roleRepo:      roleRepo,
		notifier:      notifier,
		log:           logger.WithService("booking"),
	}
}

func (s *bookingService) ListForOwner(ctx context.Context, actorID, ownerID string) ([]domain.Booking, error) {
	if ownerID != actorID {
		return nil, forbidden("bookings of another owner")
	}
	bookings, err := s.bookingRepo.ListByOwner(ctx, ownerID)
	return bookings, fromRepo(err)
}

func (s *bookingService) ListForRenter(ctx context.Context, actorID, renterID string) ([]domain.Booking, error) {
	if renterID != actorID {
		return nil, forbidden("bookings of another renter")
	}
	bookings, err := s.bookingRepo.ListByRenter(ctx, renterID)
	return bookings, fromRepo(err)
}

// Create files a pending request. The total is always computed here from the
// stored daily rate; whatever the caller sent is ignored.
func (s *bookingService) Create(ctx context.Context, actorID string, b *domain.Booking) error {
	if b.RenterID == "" {
		b.RenterID = actorID
	}
	if b.RenterID != actorID {
		return forbidden("booking for another renter")
	}
	if b.EquipmentID == "" {
		return invalid("equipment_id is required")
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() || !b.EndDate.After(b.StartDate) {
		return invalid("end date must be after start date")
	}
	if err := requireRole(ctx, s.roleRepo, actorID, domain.RoleRenter); err != nil {
		return err
	}

	e, err := s.equipmentRepo.GetByID(ctx, b.EquipmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return invalid("unknown equipment %s", b.EquipmentID)
		}
		return err
	}
	if e.OwnerID == actorID {
		return forbidden("cannot book your own equipment")
	}
	if e.Status != domain.EquipmentStatusAvailable {
		return conflict("equipment is %s", e.Status)
	}

	b.Status = domain.BookingStatusPending
	b.TotalAmountCents = domain.DerivedTotal(e.DailyRateCents, b.StartDate, b.EndDate)
	if err := s.bookingRepo.Create(ctx, b); err != nil {
		return fromRepo(err)
	}
	b.Equipment = e

	s.log.InfoContext(ctx, "Booking requested", "booking_id", b.ID, "equipment_id", e.ID, "renter_id", actorID)
	return nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, actorID, id string, to, expected domain.BookingStatus) error {
	if !to.Valid() {
		return invalid("unknown status %q", to)
	}
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return fromRepo(err)
	}
	if b.Equipment == nil || b.Equipment.OwnerID != actorID {
		return forbidden("not the owner of this equipment")
	}
	if expected != "" && expected != b.Status {
		metrics.BookingConflictsTotal.Inc()
		return conflict("booking is %s, not %s", b.Status, expected)
	}
	if !b.Status.CanTransitionTo(to) {
		return conflict("cannot move booking from %s to %s", b.Status, to)
	}

	if to == domain.BookingStatusCompleted {
		b.TotalAmountCents = domain.DerivedTotal(b.Equipment.DailyRateCents, b.StartDate, b.EndDate)
		err = s.bookingRepo.Complete(ctx, id, b.TotalAmountCents)
	} else {
		err = s.bookingRepo.UpdateStatus(ctx, id, b.Status, to)
	}
	if err != nil {
		if errors.Is(err, repository.ErrStale) {
			metrics.BookingConflictsTotal.Inc()
		}
		return fromRepo(err)
	}

	s.log.InfoContext(ctx, "Booking status changed", "booking_id", id, "from", b.Status, "to", to)
	b.Status = to
	s.transitioned(ctx, b)
	return nil
}

func (s *bookingService) CompleteElapsed(ctx context.Context, now time.Time) (int, error) {
	due, err := s.bookingRepo.ListElapsedActive(ctx, now)
	if err != nil {
		return 0, fromRepo(err)
	}

	var (
		completed int
		errs      []error
	)
	for i := range due {
		b := &due[i]
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		rate := int64(0)
		if b.Equipment != nil {
			rate = b.Equipment.DailyRateCents
		}
		b.TotalAmountCents = domain.DerivedTotal(rate, b.StartDate, b.EndDate)

		err := s.bookingRepo.Complete(ctx, b.ID, b.TotalAmountCents)
		if errors.Is(err, repository.ErrStale) {
			// Moved on since the list query; nothing to do.
			continue
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("complete booking %s: %w", b.ID, err))
			continue
		}
		b.Status = domain.BookingStatusCompleted
		s.transitioned(ctx, b)
		completed++
	}

	if completed > 0 || len(errs) > 0 {
		s.log.InfoContext(ctx, "Completed elapsed bookings", "due", len(due), "completed", completed, "failed", len(errs))
	}
	return completed, errors.Join(errs...)
}

// transitioned records the change and tells the renter. Notification failures
// are logged only.
func (s *bookingService) transitioned(ctx context.Context, b *domain.Booking) {
	metrics.BookingTransitionsTotal.WithLabelValues(string(b.Status)).Inc()

	if b.Renter == nil || b.Renter.Email == "" {
		return
	}
	n := notify.BookingNotice{
		RenterEmail:      b.Renter.Email,
		Status:           b.Status,
		StartDate:        b.StartDate,
		EndDate:          b.EndDate,
		TotalAmountCents: b.TotalAmountCents,
	}
	if b.Equipment != nil {
		n.EquipmentTitle = b.Equipment.Title
	}
	if err := s.notifier.BookingStatusChanged(ctx, n); err != nil {
		metrics.NotificationErrorsTotal.Inc()
		s.log.WarnContext(ctx, "Booking e-mail failed", "booking_id", b.ID, "error", err)
	}
}
