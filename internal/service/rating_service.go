// Package service orchestrates the engines against the repositories: rating
// maintenance, prediction runs and clone detection.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/match-oracle/internal/metrics"
	"github.com/yourusername/match-oracle/internal/models"
	"github.com/yourusername/match-oracle/internal/rating"
	"github.com/yourusername/match-oracle/internal/repository"
)

// RatingService applies settled results to team ratings and rebuilds the
// rating table from scratch when needed.
type RatingService struct {
	engine   *rating.Engine
	cached   *rating.CachedStore
	teams    repository.TeamRepository
	fixtures repository.FixtureRepository
	logger   *logrus.Logger
}

// NewRatingService creates a rating service. The cached store may be nil when
// the engine reads the repository directly.
func NewRatingService(
	engine *rating.Engine,
	cached *rating.CachedStore,
	teams repository.TeamRepository,
	fixtures repository.FixtureRepository,
	logger *logrus.Logger,
) *RatingService {
	return &RatingService{
		engine:   engine,
		cached:   cached,
		teams:    teams,
		fixtures: fixtures,
		logger:   logger,
	}
}

// ApplyResult folds one settled fixture into the two team ratings. The pair
// update is transactional; the fixture is then marked as consumed so it is
// never applied twice.
func (s *RatingService) ApplyResult(ctx context.Context, fixture *models.Fixture) error {
	if !fixture.Settled() {
		return fmt.Errorf("fixture %d: %w", fixture.ID, models.ErrFixtureNotSettled)
	}

	homeRating, err := s.teams.GetRating(ctx, fixture.HomeTeamID)
	if err != nil {
		return fmt.Errorf("failed to load home rating: %w", err)
	}
	awayRating, err := s.teams.GetRating(ctx, fixture.AwayTeamID)
	if err != nil {
		return fmt.Errorf("failed to load away rating: %w", err)
	}

	newHome, newAway := s.engine.UpdateRatings(homeRating, awayRating, *fixture.GoalsHome, *fixture.GoalsAway)

	if err := s.teams.UpdateRatingPair(ctx, fixture.HomeTeamID, newHome, fixture.AwayTeamID, newAway); err != nil {
		return fmt.Errorf("failed to store rating pair: %w", err)
	}
	if s.cached != nil {
		s.cached.Put(fixture.HomeTeamID, newHome)
		s.cached.Put(fixture.AwayTeamID, newAway)
	}

	if err := s.fixtures.MarkRated(ctx, fixture.ID); err != nil {
		return fmt.Errorf("failed to mark fixture rated: %w", err)
	}

	metrics.RecordRatingUpdate()
	s.logger.WithFields(logrus.Fields{
		"fixture_id":  fixture.ID,
		"home_rating": newHome,
		"away_rating": newAway,
	}).Debug("Applied result to ratings")

	return nil
}

// ApplyPending applies every settled-but-unrated fixture since the given
// time, oldest first. Returns the number applied; stops at the first error so
// the kickoff ordering of applied results is never broken.
func (s *RatingService) ApplyPending(ctx context.Context, since time.Time) (int, error) {
	fixtures, err := s.fixtures.GetUnratedSettled(ctx, since)
	if err != nil {
		return 0, fmt.Errorf("failed to load unrated fixtures: %w", err)
	}

	applied := 0
	for _, fixture := range fixtures {
		if err := s.ApplyResult(ctx, fixture); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// RebuildRatings resets every team to the default rating and replays all
// settled fixtures in kickoff order. The replay is deterministic: same
// fixtures, same order, same ratings.
func (s *RatingService) RebuildRatings(ctx context.Context) (int, error) {
	if err := s.teams.ResetRatings(ctx, models.DefaultRating); err != nil {
		return 0, fmt.Errorf("failed to reset ratings: %w", err)
	}
	if s.cached != nil {
		s.cached.Flush()
	}

	fixtures, err := s.fixtures.GetSettledOrdered(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load settled fixtures: %w", err)
	}

	s.logger.WithField("fixtures", len(fixtures)).Info("Rebuilding ratings from settled history")

	applied := 0
	for _, fixture := range fixtures {
		if err := s.ApplyResult(ctx, fixture); err != nil {
			return applied, fmt.Errorf("replay stopped at fixture %d: %w", fixture.ID, err)
		}
		applied++
	}

	s.logger.WithField("applied", applied).Info("Rating rebuild completed")
	return applied, nil
}
