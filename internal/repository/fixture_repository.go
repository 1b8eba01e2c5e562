package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/match-oracle/internal/database"
	"github.com/yourusername/match-oracle/internal/models"
)

const fixtureColumns = `id, home_team_id, away_team_id, competition_id, kickoff, goals_home, goals_away, status, created_at, updated_at`

// PostgresFixtureRepository implements FixtureRepository for PostgreSQL
type PostgresFixtureRepository struct {
	db *database.DB
}

// NewPostgresFixtureRepository creates a new fixture repository
func NewPostgresFixtureRepository(db *database.DB) FixtureRepository {
	return &PostgresFixtureRepository{db: db}
}

// GetByID retrieves a fixture by its identifier
func (f *PostgresFixtureRepository) GetByID(ctx context.Context, id int64) (*models.Fixture, error) {
	row := f.db.GetPool().QueryRow(ctx,
		`SELECT `+fixtureColumns+` FROM fixtures WHERE id = $1`, id,
	)
	fixture, err := scanFixture(row)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fixture: %w", err)
	}
	return fixture, nil
}

// GetByDate retrieves all fixtures kicking off on the given UTC day
func (f *PostgresFixtureRepository) GetByDate(ctx context.Context, date time.Time) ([]*models.Fixture, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	rows, err := f.db.GetPool().Query(ctx,
		`SELECT `+fixtureColumns+` FROM fixtures
		 WHERE kickoff >= $1 AND kickoff < $2
		 ORDER BY kickoff ASC`,
		dayStart, dayEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query fixtures by date: %w", err)
	}
	defer rows.Close()

	return collectFixtures(rows)
}

// GetSettledOrdered retrieves every settled fixture ordered by kickoff. The
// ordering makes rating replay deterministic.
func (f *PostgresFixtureRepository) GetSettledOrdered(ctx context.Context) ([]*models.Fixture, error) {
	rows, err := f.db.GetPool().Query(ctx,
		`SELECT `+fixtureColumns+` FROM fixtures
		 WHERE goals_home IS NOT NULL AND goals_away IS NOT NULL
		 ORDER BY kickoff ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled fixtures: %w", err)
	}
	defer rows.Close()

	return collectFixtures(rows)
}

// GetUnratedSettled retrieves settled fixtures since the given time whose
// ratings have not been applied yet (status not yet marked rated).
func (f *PostgresFixtureRepository) GetUnratedSettled(ctx context.Context, since time.Time) ([]*models.Fixture, error) {
	rows, err := f.db.GetPool().Query(ctx,
		`SELECT `+fixtureColumns+` FROM fixtures
		 WHERE goals_home IS NOT NULL AND goals_away IS NOT NULL
		   AND status <> 'RATED' AND kickoff >= $1
		 ORDER BY kickoff ASC, id ASC`,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query unrated fixtures: %w", err)
	}
	defer rows.Close()

	return collectFixtures(rows)
}

// Upsert inserts or updates a fixture. Score fields are only filled in, never
// overwritten, preserving settled-result immutability.
func (f *PostgresFixtureRepository) Upsert(ctx context.Context, fixture *models.Fixture) error {
	_, err := f.db.GetPool().Exec(ctx,
		`INSERT INTO fixtures (id, home_team_id, away_team_id, competition_id, kickoff, goals_home, goals_away, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		 ON CONFLICT (id) DO UPDATE SET
			kickoff = EXCLUDED.kickoff,
			goals_home = COALESCE(fixtures.goals_home, EXCLUDED.goals_home),
			goals_away = COALESCE(fixtures.goals_away, EXCLUDED.goals_away),
			status = EXCLUDED.status,
			updated_at = now()`,
		fixture.ID, fixture.HomeTeamID, fixture.AwayTeamID, fixture.CompetitionID,
		fixture.Kickoff, fixture.GoalsHome, fixture.GoalsAway, fixture.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fixture: %w", err)
	}
	return nil
}

// SetScore records the final score of a fixture. Settled fixtures are
// immutable; attempting to change an existing score fails.
func (f *PostgresFixtureRepository) SetScore(ctx context.Context, id int64, goalsHome, goalsAway int) error {
	tag, err := f.db.GetPool().Exec(ctx,
		`UPDATE fixtures
		 SET goals_home = $2, goals_away = $3, status = 'FT', updated_at = now()
		 WHERE id = $1 AND goals_home IS NULL AND goals_away IS NULL`,
		id, goalsHome, goalsAway,
	)
	if err != nil {
		return fmt.Errorf("failed to set score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		existing, err := f.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.Settled() {
			return models.ErrFixtureSettled
		}
		return models.ErrNotFound
	}
	return nil
}

// MarkRated flags a settled fixture as consumed by the rating replay.
func (f *PostgresFixtureRepository) MarkRated(ctx context.Context, id int64) error {
	_, err := f.db.GetPool().Exec(ctx,
		`UPDATE fixtures SET status = 'RATED', updated_at = now() WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark fixture rated: %w", err)
	}
	return nil
}

func scanFixture(row pgx.Row) (*models.Fixture, error) {
	fixture := &models.Fixture{}
	err := row.Scan(
		&fixture.ID, &fixture.HomeTeamID, &fixture.AwayTeamID, &fixture.CompetitionID,
		&fixture.Kickoff, &fixture.GoalsHome, &fixture.GoalsAway, &fixture.Status,
		&fixture.CreatedAt, &fixture.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return fixture, nil
}

func collectFixtures(rows pgx.Rows) ([]*models.Fixture, error) {
	var fixtures []*models.Fixture
	for rows.Next() {
		fixture, err := scanFixture(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fixture: %w", err)
		}
		fixtures = append(fixtures, fixture)
	}
	return fixtures, rows.Err()
}
