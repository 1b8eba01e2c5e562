package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/match-oracle/internal/database"
	"github.com/yourusername/match-oracle/internal/models"
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// GetRating returns the stored rating for a team. Unseen teams are seeded at
// the default rating as a side effect of the read.
func (t *PostgresTeamRepository) GetRating(ctx context.Context, teamID int64) (float64, error) {
	var rating float64
	err := t.db.GetPool().QueryRow(ctx,
		`SELECT rating FROM teams WHERE id = $1`, teamID,
	).Scan(&rating)
	if err == nil {
		return rating, nil
	}
	if err != pgx.ErrNoRows {
		return 0, fmt.Errorf("failed to get rating: %w", err)
	}

	_, err = t.db.GetPool().Exec(ctx,
		`INSERT INTO teams (id, rating) VALUES ($1, $2) ON CONFLICT (id) DO NOTHING`,
		teamID, models.DefaultRating,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to seed team rating: %w", err)
	}
	return models.DefaultRating, nil
}

// SetRating updates a single team's rating
func (t *PostgresTeamRepository) SetRating(ctx context.Context, teamID int64, rating float64) error {
	_, err := t.db.GetPool().Exec(ctx,
		`INSERT INTO teams (id, rating, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (id) DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()`,
		teamID, rating,
	)
	if err != nil {
		return fmt.Errorf("failed to set rating: %w", err)
	}
	return nil
}

// UpdateRatingPair writes both post-match ratings in one transaction so a
// partial failure never leaves a half-updated pair.
func (t *PostgresTeamRepository) UpdateRatingPair(ctx context.Context, homeID int64, homeRating float64, awayID int64, awayRating float64) error {
	return t.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, upd := range []struct {
			id     int64
			rating float64
		}{{homeID, homeRating}, {awayID, awayRating}} {
			if _, err := tx.Exec(ctx,
				`INSERT INTO teams (id, rating, updated_at) VALUES ($1, $2, now())
				 ON CONFLICT (id) DO UPDATE SET rating = EXCLUDED.rating, updated_at = now()`,
				upd.id, upd.rating,
			); err != nil {
				return fmt.Errorf("failed to update rating for team %d: %w", upd.id, err)
			}
		}
		return nil
	})
}

// ResetRatings sets every team back to the default rating. Used before a
// deterministic replay of the settled fixture history.
func (t *PostgresTeamRepository) ResetRatings(ctx context.Context, defaultRating float64) error {
	_, err := t.db.GetPool().Exec(ctx,
		`UPDATE teams SET rating = $1, updated_at = now()`, defaultRating,
	)
	if err != nil {
		return fmt.Errorf("failed to reset ratings: %w", err)
	}
	return nil
}

// Upsert inserts or updates a team record
func (t *PostgresTeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	_, err := t.db.GetPool().Exec(ctx,
		`INSERT INTO teams (id, name, competition_id, rating, updated_at)
		 VALUES ($1, $2, $3, $4, now())
		 ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			competition_id = EXCLUDED.competition_id,
			updated_at = now()`,
		team.ID, team.Name, team.CompetitionID, team.Rating,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// GetByID retrieves a team by its identifier
func (t *PostgresTeamRepository) GetByID(ctx context.Context, teamID int64) (*models.Team, error) {
	team := &models.Team{}
	err := t.db.GetPool().QueryRow(ctx,
		`SELECT id, name, competition_id, rating, updated_at FROM teams WHERE id = $1`, teamID,
	).Scan(&team.ID, &team.Name, &team.CompetitionID, &team.Rating, &team.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}
