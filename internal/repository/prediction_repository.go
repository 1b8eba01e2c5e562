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

const predictionColumns = `id, fixture_id, method, market, selection, probability, price, expected_value, confidence, sample_size, created_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// ReplaceForFixture regenerates the full prediction set for a fixture:
// delete plus insert in one transaction, so readers never observe a
// partially regenerated set.
func (p *PostgresPredictionRepository) ReplaceForFixture(ctx context.Context, fixtureID int64, records []*models.PredictionRecord) error {
	return p.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM predictions WHERE fixture_id = $1`, fixtureID); err != nil {
			return fmt.Errorf("failed to delete predictions: %w", err)
		}

		for _, rec := range records {
			if rec.ID == uuid.Nil {
				rec.ID = uuid.New()
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO predictions (id, fixture_id, method, market, selection, probability, price, expected_value, confidence, sample_size, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())`,
				rec.ID, rec.FixtureID, rec.Method, rec.Market, rec.Selection,
				rec.Probability, rec.Price, rec.ExpectedValue, rec.Confidence, rec.SampleSize,
			); err != nil {
				return fmt.Errorf("failed to insert prediction: %w", err)
			}
		}
		return nil
	})
}

// GetByFixture retrieves all prediction records for a fixture
func (p *PostgresPredictionRepository) GetByFixture(ctx context.Context, fixtureID int64) ([]*models.PredictionRecord, error) {
	rows, err := p.db.GetPool().Query(ctx,
		`SELECT `+predictionColumns+` FROM predictions
		 WHERE fixture_id = $1
		 ORDER BY method, market, selection`,
		fixtureID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// GetByMethod retrieves prediction records for a method in a time range
func (p *PostgresPredictionRepository) GetByMethod(ctx context.Context, method string, start, end time.Time) ([]*models.PredictionRecord, error) {
	rows, err := p.db.GetPool().Query(ctx,
		`SELECT `+predictionColumns+` FROM predictions
		 WHERE method = $1 AND created_at >= $2 AND created_at <= $3
		 ORDER BY created_at ASC`,
		method, start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by method: %w", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

func collectPredictions(rows pgx.Rows) ([]*models.PredictionRecord, error) {
	var records []*models.PredictionRecord
	for rows.Next() {
		rec := &models.PredictionRecord{}
		err := rows.Scan(
			&rec.ID, &rec.FixtureID, &rec.Method, &rec.Market, &rec.Selection,
			&rec.Probability, &rec.Price, &rec.ExpectedValue, &rec.Confidence,
			&rec.SampleSize, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
