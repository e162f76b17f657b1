package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitchside/api/internal/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository struct {
	pool *pgxpool.Pool
}

func NewMatchRepository(pool *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{pool: pool}
}

const matchColumns = `id, team_id, opponent, competition, venue, kickoff_at, home_score, away_score, video_path, notes, created_at, updated_at`

func (r *MatchRepository) Create(ctx context.Context, match models.Match) error {
	const query = `
		INSERT INTO matches (
			id, team_id, opponent, competition, venue, kickoff_at, home_score, away_score, video_path, notes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		match.ID,
		match.TeamID,
		match.Opponent,
		match.Competition,
		match.Venue,
		match.KickoffAt,
		match.HomeScore,
		match.AwayScore,
		match.VideoPath,
		match.Notes,
	)
	return err
}

func (r *MatchRepository) GetByID(ctx context.Context, id string) (models.Match, error) {
	const query = `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`
	return r.scanMatch(r.pool.QueryRow(ctx, query, id))
}

// Exists is the cheap existence probe used by the upload flow before any
// staging work happens.
func (r *MatchRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM matches WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *MatchRepository) List(ctx context.Context, teamID string) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches ORDER BY kickoff_at DESC`
	args := []any{}
	if teamID != "" {
		query = `SELECT ` + matchColumns + ` FROM matches WHERE team_id = $1 ORDER BY kickoff_at DESC`
		args = append(args, teamID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []models.Match
	for rows.Next() {
		match, err := r.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

func (r *MatchRepository) Update(ctx context.Context, match models.Match) error {
	const query = `
		UPDATE matches
		SET team_id = $2, opponent = $3, competition = $4, venue = $5, kickoff_at = $6,
		    home_score = $7, away_score = $8, notes = $9, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		match.ID,
		match.TeamID,
		match.Opponent,
		match.Competition,
		match.Venue,
		match.KickoffAt,
		match.HomeScore,
		match.AwayScore,
		match.Notes,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *MatchRepository) SetVideoPath(ctx context.Context, id, videoPath string) error {
	const query = `UPDATE matches SET video_path = $2, updated_at = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id, videoPath)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM matches WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *MatchRepository) scanMatch(row pgx.Row) (models.Match, error) {
	var match models.Match
	if err := row.Scan(
		&match.ID,
		&match.TeamID,
		&match.Opponent,
		&match.Competition,
		&match.Venue,
		&match.KickoffAt,
		&match.HomeScore,
		&match.AwayScore,
		&match.VideoPath,
		&match.Notes,
		&match.CreatedAt,
		&match.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Match{}, ErrMatchNotFound
		}
		return models.Match{}, err
	}
	return match, nil
}
