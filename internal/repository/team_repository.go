package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitchside/api/internal/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository struct {
	pool *pgxpool.Pool
}

func NewTeamRepository(pool *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{pool: pool}
}

func (r *TeamRepository) Create(ctx context.Context, team models.Team) error {
	const query = `
		INSERT INTO teams (id, name, division, season, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query, team.ID, team.Name, team.Division, team.Season)
	return err
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (models.Team, error) {
	const query = `
		SELECT id, name, division, season, created_at, updated_at
		FROM teams WHERE id = $1
	`
	var team models.Team
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Division,
		&team.Season,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Team{}, ErrTeamNotFound
		}
		return models.Team{}, err
	}
	return team, nil
}

func (r *TeamRepository) List(ctx context.Context) ([]models.Team, error) {
	const query = `
		SELECT id, name, division, season, created_at, updated_at
		FROM teams ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var team models.Team
		if err := rows.Scan(
			&team.ID,
			&team.Name,
			&team.Division,
			&team.Season,
			&team.CreatedAt,
			&team.UpdatedAt,
		); err != nil {
			return nil, err
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) Update(ctx context.Context, team models.Team) error {
	const query = `
		UPDATE teams SET name = $2, division = $3, season = $4, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, team.ID, team.Name, team.Division, team.Season)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}

func (r *TeamRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM teams WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTeamNotFound
	}
	return nil
}
