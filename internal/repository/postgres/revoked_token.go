package postgres

import (
	"context"
	"database/sql"
	"time"

	"equiprent/internal/logger"
	"equiprent/internal/repository"
)

type revokedTokenRepository struct {
	db *sql.DB
}

func NewRevokedTokenRepository(db *sql.DB) repository.RevokedTokenRepository {
	return &revokedTokenRepository{db: db}
}

func (r *revokedTokenRepository) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	query := `INSERT INTO revoked_tokens (token_id, expires_at) VALUES ($1, $2) ON CONFLICT (token_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, tokenID, expiresAt)
	return mapError(err)
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1)`
	if err := r.db.QueryRowContext(ctx, query, tokenID).Scan(&revoked); err != nil {
		return false, mapError(err)
	}
	return revoked, nil
}

func (r *revokedTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `DELETE FROM revoked_tokens WHERE expires_at < $1`
	logger.DatabaseCall("DELETE", "revoked_tokens")
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return 0, mapError(err)
	}
	n, err := result.RowsAffected()
	logger.DatabaseResult("DELETE", n, err)
	return n, err
}
