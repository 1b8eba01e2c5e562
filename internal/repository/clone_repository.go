package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/match-oracle/internal/database"
	"github.com/yourusername/match-oracle/internal/models"
)

// PostgresCloneRepository implements CloneRepository for PostgreSQL
type PostgresCloneRepository struct {
	db *database.DB
}

// NewPostgresCloneRepository creates a new clone pair repository
func NewPostgresCloneRepository(db *database.DB) CloneRepository {
	return &PostgresCloneRepository{db: db}
}

// InsertBatch appends one detection run's clone pairs in a single
// transaction. The table is an append-only time series; re-detections on
// later runs are new rows, not updates.
func (c *PostgresCloneRepository) InsertBatch(ctx context.Context, pairs []*models.ClonePair) error {
	if len(pairs) == 0 {
		return nil
	}

	return c.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, pair := range pairs {
			if pair.ID == uuid.Nil {
				pair.ID = uuid.New()
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO clone_pairs (id, fixture_id_1, fixture_id_2, score, factors, detected_at)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				pair.ID, pair.FixtureID1, pair.FixtureID2, pair.Score, pair.Factors, pair.DetectedAt,
			); err != nil {
				return fmt.Errorf("failed to insert clone pair: %w", err)
			}
		}
		return nil
	})
}

// GetByDate retrieves the clone pairs detected on the given UTC day
func (c *PostgresCloneRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.ClonePair, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := c.db.GetPool().Query(ctx,
		`SELECT id, fixture_id_1, fixture_id_2, score, factors, detected_at
		 FROM clone_pairs
		 WHERE detected_at >= $1 AND detected_at < $2
		 ORDER BY score DESC`,
		dayStart, dayEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query clone pairs: %w", err)
	}
	defer rows.Close()

	var pairs []*models.ClonePair
	for rows.Next() {
		pair := &models.ClonePair{}
		if err := rows.Scan(&pair.ID, &pair.FixtureID1, &pair.FixtureID2, &pair.Score, &pair.Factors, &pair.DetectedAt); err != nil {
			return nil, fmt.Errorf("failed to scan clone pair: %w", err)
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}
