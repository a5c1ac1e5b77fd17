package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/notify"
	"equiprent/internal/repository"
	"equiprent/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	bookingRepo   *MockBookingRepo
	equipmentRepo *MockEquipmentRepo
	roleRepo      *MockRoleRepo
	notifier      *MockNotifier
	svc           service.BookingService
}

func newBookingFixture() *bookingFixture {
	f := &bookingFixture{
		bookingRepo:   new(MockBookingRepo),
		equipmentRepo: new(MockEquipmentRepo),
		roleRepo:      new(MockRoleRepo),
		notifier:      new(MockNotifier),
	}
	f.svc = service.NewBookingService(f.bookingRepo, f.equipmentRepo, f.roleRepo, f.notifier)
	return f
}

var jan1 = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)

func drill() *domain.Equipment {
	return &domain.Equipment{ID: "e1", OwnerID: "o1", Title: "Drill", DailyRateCents: 100, Status: domain.EquipmentStatusAvailable}
}

func TestBookingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Server computes the total", func(t *testing.T) {
		f := newBookingFixture()
		f.roleRepo.holds("r1", domain.RoleRenter)
		f.equipmentRepo.On("GetByID", ctx, "e1").Return(drill(), nil)
		f.bookingRepo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		b := &domain.Booking{EquipmentID: "e1", StartDate: jan1, EndDate: jan1.AddDate(0, 0, 3), TotalAmountCents: 1, Status: domain.BookingStatusActive}
		require.NoError(t, f.svc.Create(ctx, "r1", b))
		assert.Equal(t, "r1", b.RenterID)
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.Equal(t, int64(300), b.TotalAmountCents)
		assert.Equal(t, "Drill", b.Equipment.Title)
	})

	t.Run("Own equipment", func(t *testing.T) {
		f := newBookingFixture()
		f.roleRepo.holds("o1", domain.RoleOwner, domain.RoleRenter)
		f.equipmentRepo.On("GetByID", ctx, "e1").Return(drill(), nil)

		err := f.svc.Create(ctx, "o1", &domain.Booking{EquipmentID: "e1", StartDate: jan1, EndDate: jan1.AddDate(0, 0, 1)})
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("Not available", func(t *testing.T) {
		f := newBookingFixture()
		f.roleRepo.holds("r1", domain.RoleRenter)
		e := drill()
		e.Status = domain.EquipmentStatusMaintenance
		f.equipmentRepo.On("GetByID", ctx, "e1").Return(e, nil)

		err := f.svc.Create(ctx, "r1", &domain.Booking{EquipmentID: "e1", StartDate: jan1, EndDate: jan1.AddDate(0, 0, 1)})
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("Reversed dates", func(t *testing.T) {
		f := newBookingFixture()
		err := f.svc.Create(ctx, "r1", &domain.Booking{EquipmentID: "e1", StartDate: jan1, EndDate: jan1.AddDate(0, 0, -1)})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})

	t.Run("Owner without renter role", func(t *testing.T) {
		f := newBookingFixture()
		f.roleRepo.holds("o2", domain.RoleOwner)
		err := f.svc.Create(ctx, "o2", &domain.Booking{EquipmentID: "e1", StartDate: jan1, EndDate: jan1.AddDate(0, 0, 1)})
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("Unknown equipment", func(t *testing.T) {
		f := newBookingFixture()
		f.roleRepo.holds("r1", domain.RoleRenter)
		f.equipmentRepo.On("GetByID", ctx, "nope").Return(nil, repository.ErrNotFound)
		err := f.svc.Create(ctx, "r1", &domain.Booking{EquipmentID: "nope", StartDate: jan1, EndDate: jan1.AddDate(0, 0, 1)})
		assert.ErrorIs(t, err, service.ErrInvalidInput)
	})
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:          "b1",
		EquipmentID: "e1",
		RenterID:    "r1",
		StartDate:   jan1,
		EndDate:     jan1.AddDate(0, 0, 3),
		Status:      domain.BookingStatusPending,
		Equipment:   drill(),
		Renter:      &domain.Profile{UserID: "r1", Email: "r@test.com"},
	}
}

func TestBookingService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve notifies the renter", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(pendingBooking(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, "b1", domain.BookingStatusPending, domain.BookingStatusActive).Return(nil)
		f.notifier.On("BookingStatusChanged", ctx, mock.MatchedBy(func(n notify.BookingNotice) bool {
			return n.RenterEmail == "r@test.com" && n.Status == domain.BookingStatusActive && n.EquipmentTitle == "Drill"
		})).Return(nil)

		err := f.svc.UpdateStatus(ctx, "o1", "b1", domain.BookingStatusActive, domain.BookingStatusPending)
		require.NoError(t, err)
		f.notifier.AssertExpectations(t)
	})

	t.Run("Notification failure is not an error", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(pendingBooking(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, "b1", domain.BookingStatusPending, domain.BookingStatusRejected).Return(nil)
		f.notifier.On("BookingStatusChanged", ctx, mock.Anything).Return(errors.New("smtp down"))

		assert.NoError(t, f.svc.UpdateStatus(ctx, "o1", "b1", domain.BookingStatusRejected, ""))
	})

	t.Run("Expected status mismatch", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusRejected
		f.bookingRepo.On("GetByID", ctx, "b1").Return(b, nil)

		err := f.svc.UpdateStatus(ctx, "o1", "b1", domain.BookingStatusActive, domain.BookingStatusPending)
		assert.ErrorIs(t, err, service.ErrConflict)
		f.bookingRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Lost race", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(pendingBooking(), nil)
		f.bookingRepo.On("UpdateStatus", ctx, "b1", domain.BookingStatusPending, domain.BookingStatusActive).Return(repository.ErrStale)

		err := f.svc.UpdateStatus(ctx, "o1", "b1", domain.BookingStatusActive, domain.BookingStatusPending)
		assert.ErrorIs(t, err, service.ErrConflict)
		f.notifier.AssertNotCalled(t, "BookingStatusChanged", mock.Anything, mock.Anything)
	})

	t.Run("Not the owner", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(pendingBooking(), nil)

		err := f.svc.UpdateStatus(ctx, "r1", "b1", domain.BookingStatusActive, "")
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("Illegal transition", func(t *testing.T) {
		f := newBookingFixture()
		f.bookingRepo.On("GetByID", ctx, "b1").Return(pendingBooking(), nil)

		err := f.svc.UpdateStatus(ctx, "o1", "b1", domain.BookingStatusCompleted, "")
		assert.ErrorIs(t, err, service.ErrConflict)
	})

	t.Run("Owner completes an active booking", func(t *testing.T) {
		f := newBookingFixture()
		b := pendingBooking()
		b.Status = domain.BookingStatusActive
		f.bookingRepo.On("GetByID", ctx, "b1").Return(b, nil)
		f.bookingRepo.On("Complete", ctx, "b1", int64(300)).Return(nil)
		f.notifier.On("BookingStatusChanged", ctx, mock.Anything).Return(nil)

		assert.NoError(t, f.svc.UpdateStatus(ctx, "o1", "b1", domain.BookingStatusCompleted, domain.BookingStatusActive))
	})
}

func TestBookingService_CompleteElapsed(t *testing.T) {
	ctx := context.Background()
	now := jan1.AddDate(0, 0, 10)

	f := newBookingFixture()
	active := func(id string, days int) domain.Booking {
		b := *pendingBooking()
		b.ID = id
		b.Status = domain.BookingStatusActive
		b.EndDate = jan1.AddDate(0, 0, days)
		return b
	}
	f.bookingRepo.On("ListElapsedActive", ctx, now).Return([]domain.Booking{
		active("b1", 3), active("b2", 5), active("b3", 2),
	}, nil)
	f.bookingRepo.On("Complete", ctx, "b1", int64(300)).Return(nil)
	f.bookingRepo.On("Complete", ctx, "b2", int64(500)).Return(repository.ErrStale)
	f.bookingRepo.On("Complete", ctx, "b3", int64(200)).Return(errors.New("db down"))
	f.notifier.On("BookingStatusChanged", ctx, mock.MatchedBy(func(n notify.BookingNotice) bool {
		return n.Status == domain.BookingStatusCompleted && n.TotalAmountCents == 300
	})).Return(nil).Once()

	n, err := f.svc.CompleteElapsed(ctx, now)
	assert.Equal(t, 1, n)
	assert.ErrorContains(t, err, "b3")
	f.notifier.AssertExpectations(t)
}

func TestBookingService_Lists(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture()
	f.bookingRepo.On("ListByOwner", ctx, "o1").Return([]domain.Booking{*pendingBooking()}, nil)
	f.bookingRepo.On("ListByRenter", ctx, "r1").Return([]domain.Booking{}, nil)

	owned, err := f.svc.ListForOwner(ctx, "o1", "o1")
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	_, err = f.svc.ListForRenter(ctx, "r1", "r1")
	require.NoError(t, err)

	_, err = f.svc.ListForOwner(ctx, "r1", "o1")
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, err = f.svc.ListForRenter(ctx, "o1", "r1")
	assert.ErrorIs(t, err, service.ErrForbidden)
}
