package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/match-oracle/internal/clones"
	"github.com/yourusername/match-oracle/internal/metrics"
	"github.com/yourusername/match-oracle/internal/models"
	"github.com/yourusername/match-oracle/internal/odds"
	"github.com/yourusername/match-oracle/internal/rating"
	"github.com/yourusername/match-oracle/internal/repository"
)

// CloneService finds same-day fixture pairs the market prices as
// statistically indistinguishable and appends them to the clone log.
type CloneService struct {
	detector *clones.Detector
	ratings  *rating.Engine
	repos    *repository.Repositories
	logger   *logrus.Logger
}

// NewCloneService creates a clone detection service.
func NewCloneService(
	detector *clones.Detector,
	ratings *rating.Engine,
	repos *repository.Repositories,
	log *logrus.Logger,
) *CloneService {
	return &CloneService{
		detector: detector,
		ratings:  ratings,
		repos:    repos,
		logger:   log,
	}
}

// DetectForDate compares every pair of fixtures on the given UTC day and
// appends the qualifying pairs to the clone log. Returns the number of pairs
// found. Each run appends its own rows; earlier detections are never
// rewritten.
func (s *CloneService) DetectForDate(ctx context.Context, date time.Time) (int, error) {
	start := time.Now()

	fixtures, err := s.repos.Fixture.GetByDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("failed to load fixtures: %w", err)
	}
	if len(fixtures) < 2 {
		return 0, nil
	}

	candidates := make([]*clones.Candidate, 0, len(fixtures))
	for _, fixture := range fixtures {
		candidate, err := s.buildCandidate(ctx, fixture)
		if err != nil {
			s.logger.WithField("fixture_id", fixture.ID).WithError(err).Warn("Fixture excluded from clone detection")
			continue
		}
		candidates = append(candidates, candidate)
	}

	detectedAt := time.Now().UTC()
	var pairs []*models.ClonePair
	for i, target := range candidates {
		for _, match := range s.detector.FindClones(target, candidates[i+1:]) {
			pairs = append(pairs, &models.ClonePair{
				FixtureID1: target.Fixture.ID,
				FixtureID2: match.Other.Fixture.ID,
				Score:      match.Score,
				Factors:    match.Factors,
				DetectedAt: detectedAt,
			})
		}
	}

	if err := s.repos.Clone.InsertBatch(ctx, pairs); err != nil {
		return 0, fmt.Errorf("failed to store clone pairs: %w", err)
	}

	metrics.RecordClonePairs(len(pairs))
	metrics.CloneDetectionDuration.Observe(time.Since(start).Seconds())
	metrics.RecordRunCompleted("clones", time.Now())

	s.logger.WithFields(logrus.Fields{
		"date":       date.Format("2006-01-02"),
		"candidates": len(candidates),
		"pairs":      len(pairs),
	}).Info("Clone detection completed")

	return len(pairs), nil
}

// buildCandidate assembles the comparison features for one fixture. A
// missing market quote leaves MarketProbs nil; the detector then drops that
// factor instead of penalizing the pair.
func (s *CloneService) buildCandidate(ctx context.Context, fixture *models.Fixture) (*clones.Candidate, error) {
	homeRating, err := s.ratings.Rating(ctx, fixture.HomeTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load home rating: %w", err)
	}
	awayRating, err := s.ratings.Rating(ctx, fixture.AwayTeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load away rating: %w", err)
	}

	candidate := &clones.Candidate{
		Fixture:   fixture,
		RatingGap: homeRating - awayRating,
		Probs:     s.ratings.PredictFromRatings(homeRating, awayRating),
	}

	quotes, err := s.repos.Odds.GetByFixture(ctx, fixture.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quotes: %w", err)
	}
	if sharpest := odds.LowestOverroundQuote(quotes); sharpest != nil {
		h, d, a := sharpest.MatchOddsPrices()
		probs := odds.NormalizeOverround(h, d, a)
		candidate.MarketProbs = &probs
	}

	return candidate, nil
}
