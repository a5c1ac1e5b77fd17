package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"equiprent/internal/domain"
	"equiprent/internal/logger"
	"equiprent/internal/repository"

	"github.com/google/uuid"
)

const equipmentColumns = `id, owner_id, title, type, COALESCE(description, ''), COALESCE(location, ''), rate_cents, status, COALESCE(image_url, ''), created_at, updated_at`

const defaultSearchLimit = 100

type equipmentRepository struct {
	db *sql.DB
}

func NewEquipmentRepository(db *sql.DB) repository.EquipmentRepository {
	return &equipmentRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEquipment(row scanner, e *domain.Equipment) error {
	return row.Scan(&e.ID, &e.OwnerID, &e.Title, &e.Type, &e.Description, &e.Location,
		&e.DailyRateCents, &e.Status, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
}

func (r *equipmentRepository) Create(ctx context.Context, e *domain.Equipment) error {
	e.ID = uuid.NewString()
	now := time.Now().UTC()
	e.CreatedAt, e.UpdatedAt = now, now
	if e.Status == "" {
		e.Status = domain.EquipmentStatusAvailable
	}

	query := `INSERT INTO equipment (id, owner_id, title, type, description, location, rate_cents, status, image_url, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	logger.DatabaseCall("INSERT", "equipment", "owner_id", e.OwnerID)
	_, err := r.db.ExecContext(ctx, query, e.ID, e.OwnerID, e.Title, e.Type, nullString(e.Description),
		nullString(e.Location), e.DailyRateCents, e.Status, nullString(e.ImageURL), e.CreatedAt, e.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "equipment_id", e.ID)
	return mapError(err)
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.Equipment, error) {
	e := &domain.Equipment{}
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`
	if err := scanEquipment(r.db.QueryRowContext(ctx, query, id), e); err != nil {
		return nil, mapError(err)
	}
	return e, nil
}

func (r *equipmentRepository) Search(ctx context.Context, f domain.EquipmentFilter) ([]domain.Equipment, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.OwnerID != "" {
		add("owner_id = $%d", f.OwnerID)
	}
	if f.Type != "" {
		add("type = $%d", strings.ToLower(f.Type))
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.MaxRate > 0 {
		add("rate_cents <= $%d", f.MaxRate)
	}
	if f.Query != "" {
		add("(title ILIKE $%[1]d OR description ILIKE $%[1]d)", "%"+f.Query+"%")
	}

	query := `SELECT ` + equipmentColumns + ` FROM equipment`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	args = append(args, limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	items := []domain.Equipment{}
	for rows.Next() {
		var e domain.Equipment
		if err := scanEquipment(rows, &e); err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

func (r *equipmentRepository) UpdateStatus(ctx context.Context, id string, status domain.EquipmentStatus) error {
	query := `UPDATE equipment SET status = $1, updated_at = $2 WHERE id = $3`
	logger.DatabaseCall("UPDATE", "equipment", "equipment_id", id, "status", status)
	result, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return mapError(err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err, "equipment_id", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
