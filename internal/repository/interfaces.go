package repository

import (
	"context"
	"time"

	"github.com/yourusername/match-oracle/internal/models"
)

// SettledQuote is one settled historical fixture together with the 1X2
// prices a single source quoted for it. Input row for the analogue
// estimator.
type SettledQuote struct {
	FixtureID int64
	GoalsHome int
	GoalsAway int
	HomePrice float64
	DrawPrice float64
	AwayPrice float64
}

// TeamRepository defines the interface for team and rating data access.
// GetRating seeds unseen teams at the default rating on first read.
type TeamRepository interface {
	GetRating(ctx context.Context, teamID int64) (float64, error)
	SetRating(ctx context.Context, teamID int64, rating float64) error
	UpdateRatingPair(ctx context.Context, homeID int64, homeRating float64, awayID int64, awayRating float64) error
	ResetRatings(ctx context.Context, defaultRating float64) error
	Upsert(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, teamID int64) (*models.Team, error)
}

// FixtureRepository defines the interface for fixture data access
type FixtureRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Fixture, error)
	GetByDate(ctx context.Context, date time.Time) ([]*models.Fixture, error)
	GetSettledOrdered(ctx context.Context) ([]*models.Fixture, error)
	GetUnratedSettled(ctx context.Context, since time.Time) ([]*models.Fixture, error)
	Upsert(ctx context.Context, fixture *models.Fixture) error
	SetScore(ctx context.Context, id int64, goalsHome, goalsAway int) error
	MarkRated(ctx context.Context, id int64) error
}

// OddsRepository defines the interface for bookmaker quote access
type OddsRepository interface {
	Upsert(ctx context.Context, quote *models.OddsQuote) error
	GetByFixture(ctx context.Context, fixtureID int64) ([]*models.OddsQuote, error)
	GetBySource(ctx context.Context, fixtureID, sourceID int64) (*models.OddsQuote, error)
	GetSettledHistory(ctx context.Context, sourceID int64, before time.Time) ([]SettledQuote, error)
}

// PredictionRepository defines the interface for prediction data access.
// ReplaceForFixture regenerates a fixture's record set atomically.
type PredictionRepository interface {
	ReplaceForFixture(ctx context.Context, fixtureID int64, records []*models.PredictionRecord) error
	GetByFixture(ctx context.Context, fixtureID int64) ([]*models.PredictionRecord, error)
	GetByMethod(ctx context.Context, method string, start, end time.Time) ([]*models.PredictionRecord, error)
}

// CloneRepository defines the interface for clone pair access
type CloneRepository interface {
	InsertBatch(ctx context.Context, pairs []*models.ClonePair) error
	GetByDate(ctx context.Context, date time.Time) ([]*models.ClonePair, error)
}
