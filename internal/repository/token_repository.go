package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitchside/api/internal/models"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExpired  = errors.New("token expired")
)

// TokenRepository stores single-use tokens for email verification and
// password reset flows.
type TokenRepository struct {
	pool *pgxpool.Pool
}

func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{pool: pool}
}

func (r *TokenRepository) Create(ctx context.Context, token models.SingleUseToken) error {
	const query = `
		INSERT INTO single_use_tokens (token, user_id, kind, expires_at, created_at)
		VALUES ($1, $2, $3, $4, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		token.Token,
		token.UserID,
		token.Kind,
		token.ExpiresAt,
	)
	return err
}

// Redeem removes the token row and returns its owner. The delete-and-return
// is a single statement, so two concurrent redemptions of the same token
// cannot both succeed. An expired token is removed by the same statement and
// reported as ErrTokenExpired without granting anything.
func (r *TokenRepository) Redeem(ctx context.Context, token string, kind models.TokenKind) (string, error) {
	const query = `
		DELETE FROM single_use_tokens
		WHERE token = $1 AND kind = $2
		RETURNING user_id, expires_at
	`

	var (
		userID    string
		expiresAt time.Time
	)
	if err := r.pool.QueryRow(ctx, query, token, kind).Scan(&userID, &expiresAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrTokenNotFound
		}
		return "", err
	}

	if expiresAt.Before(time.Now()) {
		return "", ErrTokenExpired
	}
	return userID, nil
}

// DeleteByUser drops outstanding tokens of one kind for a user, used when a
// new token supersedes older issuances.
func (r *TokenRepository) DeleteByUser(ctx context.Context, userID string, kind models.TokenKind) error {
	const query = `DELETE FROM single_use_tokens WHERE user_id = $1 AND kind = $2`
	_, err := r.pool.Exec(ctx, query, userID, kind)
	return err
}

// DeleteExpired sweeps tokens past their window.
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM single_use_tokens WHERE expires_at < NOW()`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
