package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/teraclinic/clinic-api/internal/repository"
)

type tokenRepository struct {
	db *sqlx.DB
}

func NewTokenRepository(db *sqlx.DB) repository.TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) Invalidate(ctx context.Context, token string, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (token, expires_at, revoked_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO NOTHING
	`
	if _, err := r.db.ExecContext(ctx, query, token, expiresAt, time.Now()); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (r *tokenRepository) IsInvalidated(ctx context.Context, token string) (bool, error) {
	query := `SELECT COUNT(*) FROM revoked_tokens WHERE token = $1 AND expires_at > $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, token, time.Now()); err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return count > 0, nil
}
