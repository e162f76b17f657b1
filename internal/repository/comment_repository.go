package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"pitchside/api/internal/models"
)

var ErrCommentNotFound = errors.New("comment not found")

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, comment models.Comment) error {
	const query = `
		INSERT INTO comments (id, match_id, user_id, body, timecode_sec, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		comment.ID,
		comment.MatchID,
		comment.UserID,
		comment.Body,
		comment.TimecodeSec,
	)
	return err
}

func (r *CommentRepository) ListByMatch(ctx context.Context, matchID string) ([]models.Comment, error) {
	const query = `
		SELECT id, match_id, user_id, body, timecode_sec, created_at
		FROM comments WHERE match_id = $1 ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(
			&comment.ID,
			&comment.MatchID,
			&comment.UserID,
			&comment.Body,
			&comment.TimecodeSec,
			&comment.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// DeleteOwned removes a comment only when it belongs to the given user.
func (r *CommentRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	const query = `DELETE FROM comments WHERE id = $1 AND user_id = $2`
	cmd, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}
