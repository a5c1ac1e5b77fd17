package postgres

import (
	"context"
	"testing"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bookingJoinColumns = []string{
	"id", "equipment_id", "user_id", "start_date", "end_date", "status", "total_amount_cents", "created_at", "updated_at",
	"e_id", "owner_id", "title", "type", "description", "location", "rate_cents", "e_status", "image_url", "e_created_at", "e_updated_at",
	"email",
}

func bookingRow(rows *sqlmock.Rows, id, status, email string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, "e1", "r1", now, now.Add(48*time.Hour), status, 0, now, now,
		"e1", "o1", "Drill", "power-tool", "", "", 1500, "available", "", now, now,
		email)
}

func TestEquipmentRepository_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()
	cols := []string{"id", "owner_id", "title", "type", "description", "location", "rate_cents", "status", "image_url", "created_at", "updated_at"}

	t.Run("Owner scoped, newest first", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(cols).
			AddRow("e2", "o1", "Saw", "saw", "", "", 900, "available", "", now, now).
			AddRow("e1", "o1", "Drill", "drill", "", "", 1500, "maintenance", "", now.Add(-time.Hour), now)
		mock.ExpectQuery("SELECT (.+) FROM equipment WHERE owner_id = \\$1 ORDER BY created_at DESC LIMIT \\$2 OFFSET \\$3").
			WithArgs("o1", 100, 0).
			WillReturnRows(rows)

		items, err := repo.Search(ctx, domain.EquipmentFilter{OwnerID: "o1"})
		require.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, int64(1500), items[1].DailyRateCents)
		assert.Equal(t, domain.EquipmentStatusMaintenance, items[1].Status)
	})

	t.Run("All filters", func(t *testing.T) {
		mock.ExpectQuery("WHERE type = \\$1 AND status = \\$2 AND rate_cents <= \\$3 AND \\(title ILIKE \\$4 OR description ILIKE \\$4\\) ORDER BY created_at DESC LIMIT \\$5 OFFSET \\$6").
			WithArgs("drill", domain.EquipmentStatusAvailable, int64(2000), "%cordless%", 10, 20).
			WillReturnRows(sqlmock.NewRows(cols))

		items, err := repo.Search(ctx, domain.EquipmentFilter{
			Type: "Drill", Status: domain.EquipmentStatusAvailable, MaxRate: 2000, Query: "cordless", Limit: 10, Offset: 20,
		})
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEquipmentRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewEquipmentRepository(db)
	ctx := context.Background()

	mock.ExpectExec("UPDATE equipment SET status = \\$1").
		WithArgs(domain.EquipmentStatusMaintenance, sqlmock.AnyArg(), "e1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.UpdateStatus(ctx, "e1", domain.EquipmentStatusMaintenance))

	mock.ExpectExec("UPDATE equipment SET status = \\$1").
		WithArgs(domain.EquipmentStatusAvailable, sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", domain.EquipmentStatusAvailable), repository.ErrNotFound)
}

func TestBookingRepository_ListByOwner(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	rows := sqlmock.NewRows(bookingJoinColumns)
	bookingRow(rows, "b2", "pending", "renter@test.com")
	bookingRow(rows, "b1", "completed", "")

	mock.ExpectQuery("FROM bookings b\\s+JOIN equipment e ON e.id = b.equipment_id\\s+LEFT JOIN user_profiles p (.+) WHERE e.owner_id = \\$1 ORDER BY b.created_at DESC").
		WithArgs("o1").
		WillReturnRows(rows)

	bookings, err := repo.ListByOwner(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	assert.Equal(t, domain.BookingStatusPending, bookings[0].Status)
	require.NotNil(t, bookings[0].Equipment)
	assert.Equal(t, "Drill", bookings[0].Equipment.Title)
	assert.Equal(t, int64(1500), bookings[0].Equipment.DailyRateCents)
	require.NotNil(t, bookings[0].Renter)
	assert.Equal(t, "renter@test.com", bookings[0].Renter.Email)
	assert.Nil(t, bookings[1].Renter)
}

func TestBookingRepository_UpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status = \\$1, updated_at = \\$2 WHERE id = \\$3 AND status = \\$4").
			WithArgs(domain.BookingStatusActive, sqlmock.AnyArg(), "b1", domain.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateStatus(ctx, "b1", domain.BookingStatusPending, domain.BookingStatusActive))
	})

	t.Run("Stale", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status").
			WithArgs(domain.BookingStatusRejected, sqlmock.AnyArg(), "b1", domain.BookingStatusPending).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateStatus(ctx, "b1", domain.BookingStatusPending, domain.BookingStatusRejected)
		assert.ErrorIs(t, err, repository.ErrStale)
	})

	t.Run("Complete", func(t *testing.T) {
		mock.ExpectExec("UPDATE bookings SET status = 'completed', total_amount_cents = \\$1").
			WithArgs(int64(3000), sqlmock.AnyArg(), "b2").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Complete(ctx, "b2", 3000))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewBookingRepository(db)
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	b := &domain.Booking{
		EquipmentID:      "e1",
		RenterID:         "r1",
		StartDate:        start,
		EndDate:          start.Add(72 * time.Hour),
		Status:           domain.BookingStatusPending,
		TotalAmountCents: 300,
	}
	mock.ExpectExec("INSERT INTO bookings").
		WithArgs(sqlmock.AnyArg(), "e1", "r1", b.StartDate, b.EndDate, b.Status, int64(300), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), b))
	assert.NotEmpty(t, b.ID)
}

func TestRevokedTokenRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := NewRevokedTokenRepository(db)
	ctx := context.Background()
	exp := time.Now().Add(time.Hour)

	mock.ExpectExec("INSERT INTO revoked_tokens").
		WithArgs("jti-1", exp).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Revoke(ctx, "jti-1", exp))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	mock.ExpectExec("DELETE FROM revoked_tokens WHERE expires_at < \\$1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	n, err := repo.DeleteExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
