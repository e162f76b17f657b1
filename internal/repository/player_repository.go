package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pitchside/api/internal/models"
)

var ErrPlayerNotFound = errors.New("player not found")

type PlayerRepository struct {
	pool *pgxpool.Pool
}

func NewPlayerRepository(pool *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{pool: pool}
}

func (r *PlayerRepository) Create(ctx context.Context, player models.Player) error {
	const query = `
		INSERT INTO players (id, team_id, name, position, shirt_number, birth_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.pool.Exec(ctx, query,
		player.ID,
		player.TeamID,
		player.Name,
		player.Position,
		player.ShirtNumber,
		player.BirthYear,
	)
	return err
}

func (r *PlayerRepository) GetByID(ctx context.Context, id string) (models.Player, error) {
	const query = `
		SELECT id, team_id, name, position, shirt_number, birth_year, created_at, updated_at
		FROM players WHERE id = $1
	`
	var player models.Player
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&player.ID,
		&player.TeamID,
		&player.Name,
		&player.Position,
		&player.ShirtNumber,
		&player.BirthYear,
		&player.CreatedAt,
		&player.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Player{}, ErrPlayerNotFound
		}
		return models.Player{}, err
	}
	return player, nil
}

func (r *PlayerRepository) ListByTeam(ctx context.Context, teamID string) ([]models.Player, error) {
	const query = `
		SELECT id, team_id, name, position, shirt_number, birth_year, created_at, updated_at
		FROM players WHERE team_id = $1 ORDER BY shirt_number
	`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var player models.Player
		if err := rows.Scan(
			&player.ID,
			&player.TeamID,
			&player.Name,
			&player.Position,
			&player.ShirtNumber,
			&player.BirthYear,
			&player.CreatedAt,
			&player.UpdatedAt,
		); err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *PlayerRepository) Update(ctx context.Context, player models.Player) error {
	const query = `
		UPDATE players
		SET team_id = $2, name = $3, position = $4, shirt_number = $5, birth_year = $6, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		player.ID,
		player.TeamID,
		player.Name,
		player.Position,
		player.ShirtNumber,
		player.BirthYear,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM players WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrPlayerNotFound
	}
	return nil
}
