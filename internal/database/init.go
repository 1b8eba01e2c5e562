package database

import (
	"context"
	"fmt"

	"github.com/yourusername/match-oracle/internal/config"
)

// schema holds the bootstrap DDL. The ingestion collaborator owns richer
// migrations; this only guarantees the five row shapes the engine reads and
// writes exist on a fresh database.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id             BIGINT PRIMARY KEY,
		name           TEXT NOT NULL DEFAULT '',
		competition_id BIGINT NOT NULL DEFAULT 0,
		rating         DOUBLE PRECISION NOT NULL DEFAULT 1500,
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS fixtures (
		id             BIGINT PRIMARY KEY,
		home_team_id   BIGINT NOT NULL,
		away_team_id   BIGINT NOT NULL,
		competition_id BIGINT NOT NULL DEFAULT 0,
		kickoff        TIMESTAMPTZ NOT NULL,
		goals_home     INT,
		goals_away     INT,
		status         TEXT NOT NULL DEFAULT 'NS',
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fixtures_kickoff ON fixtures (kickoff)`,
	`CREATE INDEX IF NOT EXISTS idx_fixtures_teams ON fixtures (home_team_id, away_team_id)`,
	`CREATE TABLE IF NOT EXISTS odds_quotes (
		fixture_id     BIGINT NOT NULL,
		source_id      BIGINT NOT NULL,
		source_name    TEXT NOT NULL DEFAULT '',
		home_price     NUMERIC(8,3),
		draw_price     NUMERIC(8,3),
		away_price     NUMERIC(8,3),
		over25_price   NUMERIC(8,3),
		under25_price  NUMERIC(8,3),
		btts_yes_price NUMERIC(8,3),
		btts_no_price  NUMERIC(8,3),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (fixture_id, source_id)
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id             UUID PRIMARY KEY,
		fixture_id     BIGINT NOT NULL,
		method         TEXT NOT NULL,
		market         TEXT NOT NULL,
		selection      TEXT NOT NULL,
		probability    DOUBLE PRECISION NOT NULL,
		price          DOUBLE PRECISION,
		expected_value DOUBLE PRECISION,
		confidence     DOUBLE PRECISION NOT NULL DEFAULT 0,
		sample_size    INT NOT NULL DEFAULT 0,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_fixture ON predictions (fixture_id)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_method ON predictions (method)`,
	`CREATE TABLE IF NOT EXISTS clone_pairs (
		id           UUID PRIMARY KEY,
		fixture_id_1 BIGINT NOT NULL,
		fixture_id_2 BIGINT NOT NULL,
		score        DOUBLE PRECISION NOT NULL,
		factors      TEXT[] NOT NULL DEFAULT '{}',
		detected_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_clone_pairs_detected ON clone_pairs (detected_at)`,
}

// Initialize creates a database connection pool and ensures the engine's
// tables exist.
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to bootstrap schema: %w", err)
		}
	}

	return db, nil
}
