package repository

import (
	"context"
	"fmt"
	"time"

	"go-blog-api/internal/model"
)

// TokenRepository manages the session columns of the users table: the single
// live refresh token and the isActive flag.
type TokenRepository struct {
	db DBTX
}

func NewTokenRepository(db DBTX) *TokenRepository {
	return &TokenRepository{db: db}
}

// Store replaces any previous refresh token and marks the user active.
func (r *TokenRepository) Store(ctx context.Context, userID string, token string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token = $2, is_active = TRUE, updated_at = $3 WHERE id = $1`,
		userID, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

// Rotate swaps current for next only while current is still the stored value.
// A concurrent rotation or a revoked session yields ErrRefreshTokenMismatch.
func (r *TokenRepository) Rotate(ctx context.Context, userID string, current string, next string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token = $3, is_active = TRUE, updated_at = $4
		 WHERE id = $1 AND refresh_token = $2`,
		userID, current, next, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRefreshTokenMismatch
	}
	return nil
}

// Revoke clears the refresh token and marks the user inactive. Revoking an
// already revoked session is not an error.
func (r *TokenRepository) Revoke(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET refresh_token = NULL, is_active = FALSE, updated_at = $2 WHERE id = $1`,
		userID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}
