package postgres

import (
	"context"
	"database/sql"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/logger"
	"equiprent/internal/repository"

	"github.com/google/uuid"
)

// bookingSelect joins each booking with its equipment row and the renter's
// profile e-mail.
const bookingSelect = `SELECT b.id, b.equipment_id, b.user_id, b.start_date, b.end_date, b.status, b.total_amount_cents, b.created_at, b.updated_at,
       e.id, e.owner_id, e.title, e.type, COALESCE(e.description, ''), COALESCE(e.location, ''), e.rate_cents, e.status, COALESCE(e.image_url, ''), e.created_at, e.updated_at,
       COALESCE(p.email, '')
  FROM bookings b
  JOIN equipment e ON e.id = b.equipment_id
  LEFT JOIN user_profiles p ON p.user_id = b.user_id`

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

func scanBooking(row scanner) (domain.Booking, error) {
	var (
		b           domain.Booking
		e           domain.Equipment
		renterEmail string
	)
	err := row.Scan(&b.ID, &b.EquipmentID, &b.RenterID, &b.StartDate, &b.EndDate, &b.Status, &b.TotalAmountCents, &b.CreatedAt, &b.UpdatedAt,
		&e.ID, &e.OwnerID, &e.Title, &e.Type, &e.Description, &e.Location, &e.DailyRateCents, &e.Status, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt,
		&renterEmail)
	if err != nil {
		return b, err
	}
	b.Equipment = &e
	if renterEmail != "" {
		b.Renter = &domain.Profile{UserID: b.RenterID, Email: renterEmail}
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	b.ID = uuid.NewString()
	now := time.Now().UTC()
	b.CreatedAt, b.UpdatedAt = now, now

	query := `INSERT INTO bookings (id, equipment_id, user_id, start_date, end_date, status, total_amount_cents, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	logger.DatabaseCall("INSERT", "bookings", "equipment_id", b.EquipmentID, "user_id", b.RenterID)
	_, err := r.db.ExecContext(ctx, query, b.ID, b.EquipmentID, b.RenterID, b.StartDate, b.EndDate, b.Status, b.TotalAmountCents, b.CreatedAt, b.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "booking_id", b.ID)
	return mapError(err)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = $1`, id))
	if err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE e.owner_id = $1 ORDER BY b.created_at DESC`, ownerID)
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID string) ([]domain.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE b.user_id = $1 ORDER BY b.created_at DESC`, renterID)
}

func (r *bookingRepository) ListElapsedActive(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE b.status = 'active' AND b.end_date < $1 ORDER BY b.end_date ASC`, cutoff)
}

func (r *bookingRepository) list(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	logger.DatabaseCall("UPDATE", "bookings", "booking_id", id, "from", from, "to", to)
	result, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	return r.conditional(result, err, id)
}

func (r *bookingRepository) Complete(ctx context.Context, id string, totalAmountCents int64) error {
	query := `UPDATE bookings SET status = 'completed', total_amount_cents = $1, updated_at = $2 WHERE id = $3 AND status = 'active'`
	logger.DatabaseCall("UPDATE", "bookings", "booking_id", id, "to", domain.BookingStatusCompleted)
	result, err := r.db.ExecContext(ctx, query, totalAmountCents, time.Now().UTC(), id)
	return r.conditional(result, err, id)
}

func (r *bookingRepository) conditional(result sql.Result, err error, id string) error {
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "booking_id", id)
		return mapError(err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "booking_id", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrStale
	}
	return nil
}
