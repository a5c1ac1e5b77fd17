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

type identityRepository struct {
	db *sql.DB
}

func NewIdentityRepository(db *sql.DB) repository.IdentityRepository {
	return &identityRepository{db: db}
}

func (r *identityRepository) Create(ctx context.Context, u *domain.Identity) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = time.Now().UTC()

	query := `INSERT INTO identities (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`
	logger.DatabaseCall("INSERT", "identities", "email", u.Email)
	_, err := r.db.ExecContext(ctx, query, u.ID, u.Email, u.PasswordHash, u.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "user_id", u.ID)
	return mapError(err)
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*domain.Identity, error) {
	u := &domain.Identity{}
	query := `SELECT id, email, password_hash, created_at FROM identities WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	u := &domain.Identity{}
	query := `SELECT id, email, password_hash, created_at FROM identities WHERE LOWER(email) = LOWER($1)`
	err := r.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return u, nil
}

func (r *identityRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM identities WHERE id = $1`
	logger.DatabaseCall("DELETE", "identities", "user_id", id)
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err, "user_id", id)
		return mapError(err)
	}
	rows, err := result.RowsAffected()
	logger.DatabaseResult("DELETE", rows, err, "user_id", id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	p.CreatedAt = time.Now().UTC()
	query := `INSERT INTO user_profiles (user_id, email, created_at) VALUES ($1, $2, $3)`
	logger.DatabaseCall("INSERT", "user_profiles", "user_id", p.UserID)
	_, err := r.db.ExecContext(ctx, query, p.UserID, p.Email, p.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "user_id", p.UserID)
	return mapError(err)
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	p := &domain.Profile{}
	query := `SELECT user_id, email, created_at FROM user_profiles WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.Email, &p.CreatedAt); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

type roleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) repository.RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, a *domain.RoleAssignment) error {
	a.CreatedAt = time.Now().UTC()
	query := `INSERT INTO user_roles (user_id, role, created_at) VALUES ($1, $2, $3)`
	logger.DatabaseCall("INSERT", "user_roles", "user_id", a.UserID, "role", a.Role)
	_, err := r.db.ExecContext(ctx, query, a.UserID, a.Role, a.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "user_id", a.UserID)
	return mapError(err)
}

func (r *roleRepository) ListByUser(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	query := `SELECT user_id, role, created_at FROM user_roles WHERE user_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var roles []domain.RoleAssignment
	for rows.Next() {
		var a domain.RoleAssignment
		if err := rows.Scan(&a.UserID, &a.Role, &a.CreatedAt); err != nil {
			return nil, err
		}
		roles = append(roles, a)
	}
	return roles, rows.Err()
}
