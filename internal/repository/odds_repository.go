package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/match-oracle/internal/database"
	"github.com/yourusername/match-oracle/internal/models"
)

const oddsColumns = `fixture_id, source_id, source_name, home_price, draw_price, away_price, over25_price, under25_price, btts_yes_price, btts_no_price, updated_at`

// PostgresOddsRepository implements OddsRepository for PostgreSQL
type PostgresOddsRepository struct {
	db *database.DB
}

// NewPostgresOddsRepository creates a new odds repository
func NewPostgresOddsRepository(db *database.DB) OddsRepository {
	return &PostgresOddsRepository{db: db}
}

// Upsert writes a quote with last-write-wins per price field: a missing
// price in the incoming quote never blanks a previously stored one.
func (o *PostgresOddsRepository) Upsert(ctx context.Context, quote *models.OddsQuote) error {
	_, err := o.db.GetPool().Exec(ctx,
		`INSERT INTO odds_quotes (fixture_id, source_id, source_name, home_price, draw_price, away_price, over25_price, under25_price, btts_yes_price, btts_no_price, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		 ON CONFLICT (fixture_id, source_id) DO UPDATE SET
			source_name = EXCLUDED.source_name,
			home_price = COALESCE(EXCLUDED.home_price, odds_quotes.home_price),
			draw_price = COALESCE(EXCLUDED.draw_price, odds_quotes.draw_price),
			away_price = COALESCE(EXCLUDED.away_price, odds_quotes.away_price),
			over25_price = COALESCE(EXCLUDED.over25_price, odds_quotes.over25_price),
			under25_price = COALESCE(EXCLUDED.under25_price, odds_quotes.under25_price),
			btts_yes_price = COALESCE(EXCLUDED.btts_yes_price, odds_quotes.btts_yes_price),
			btts_no_price = COALESCE(EXCLUDED.btts_no_price, odds_quotes.btts_no_price),
			updated_at = now()`,
		quote.FixtureID, quote.SourceID, quote.SourceName,
		quote.Home, quote.Draw, quote.Away,
		quote.Over25, quote.Under25, quote.BTTSYes, quote.BTTSNo,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert odds quote: %w", err)
	}
	return nil
}

// GetByFixture retrieves every source's quote for a fixture
func (o *PostgresOddsRepository) GetByFixture(ctx context.Context, fixtureID int64) ([]*models.OddsQuote, error) {
	rows, err := o.db.GetPool().Query(ctx,
		`SELECT `+oddsColumns+` FROM odds_quotes WHERE fixture_id = $1 ORDER BY source_id ASC`,
		fixtureID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query odds by fixture: %w", err)
	}
	defer rows.Close()

	var quotes []*models.OddsQuote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan odds quote: %w", err)
		}
		quotes = append(quotes, quote)
	}
	return quotes, rows.Err()
}

// GetBySource retrieves one source's quote for a fixture
func (o *PostgresOddsRepository) GetBySource(ctx context.Context, fixtureID, sourceID int64) (*models.OddsQuote, error) {
	row := o.db.GetPool().QueryRow(ctx,
		`SELECT `+oddsColumns+` FROM odds_quotes WHERE fixture_id = $1 AND source_id = $2`,
		fixtureID, sourceID,
	)
	quote, err := scanQuote(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get odds quote: %w", err)
	}
	return quote, nil
}

// GetSettledHistory retrieves the analogue reference pool for one source:
// settled fixtures with full 1X2 prices from that source, restricted to
// kickoffs strictly before the cutoff so backtests never see the future.
func (o *PostgresOddsRepository) GetSettledHistory(ctx context.Context, sourceID int64, before time.Time) ([]SettledQuote, error) {
	rows, err := o.db.GetPool().Query(ctx,
		`SELECT f.id, f.goals_home, f.goals_away, q.home_price, q.draw_price, q.away_price
		 FROM fixtures f
		 JOIN odds_quotes q ON q.fixture_id = f.id AND q.source_id = $1
		 WHERE f.goals_home IS NOT NULL AND f.goals_away IS NOT NULL
		   AND f.kickoff < $2
		   AND q.home_price IS NOT NULL AND q.draw_price IS NOT NULL AND q.away_price IS NOT NULL`,
		sourceID, before,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled history: %w", err)
	}
	defer rows.Close()

	var history []SettledQuote
	for rows.Next() {
		var sq SettledQuote
		if err := rows.Scan(&sq.FixtureID, &sq.GoalsHome, &sq.GoalsAway, &sq.HomePrice, &sq.DrawPrice, &sq.AwayPrice); err != nil {
			return nil, fmt.Errorf("failed to scan settled quote: %w", err)
		}
		history = append(history, sq)
	}
	return history, rows.Err()
}

func scanQuote(row pgx.Row) (*models.OddsQuote, error) {
	quote := &models.OddsQuote{}
	err := row.Scan(
		&quote.FixtureID, &quote.SourceID, &quote.SourceName,
		&quote.Home, &quote.Draw, &quote.Away,
		&quote.Over25, &quote.Under25, &quote.BTTSYes, &quote.BTTSNo,
		&quote.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return quote, nil
}
