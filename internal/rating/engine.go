// Package rating maintains per-team strength ratings and derives 1X2
// probabilities from them using a logistic expected-score model.
package rating

import (
	"context"
	"fmt"
	"math"

	"github.com/yourusername/match-oracle/internal/models"
)

// Draw policies supported by Predict.
const (
	DrawPolicyFixed    = "fixed"
	DrawPolicyDavidson = "davidson"
)

// Store abstracts the persisted team ratings. GetRating seeds unseen teams
// at the default rating as a side effect of the first read.
type Store interface {
	GetRating(ctx context.Context, teamID int64) (float64, error)
	SetRating(ctx context.Context, teamID int64, rating float64) error
}

// Params holds the tunable constants of the rating model.
type Params struct {
	KFactor       float64
	HomeAdvantage float64
	MarginScaling bool
	DrawPolicy    string
	DrawMass      float64
	DrawParam     float64
}

// DefaultParams returns the constants observed to work in production.
func DefaultParams() Params {
	return Params{
		KFactor:       25,
		HomeAdvantage: 80,
		MarginScaling: true,
		DrawPolicy:    DrawPolicyFixed,
		DrawMass:      0.25,
		DrawParam:     0.28,
	}
}

// Engine computes and updates ratings against a Store.
type Engine struct {
	store  Store
	params Params
}

// NewEngine creates a rating engine backed by the given store.
func NewEngine(store Store, params Params) *Engine {
	return &Engine{store: store, params: params}
}

// Rating returns the stored rating for a team, seeding it at the default
// when unseen.
func (e *Engine) Rating(ctx context.Context, teamID int64) (float64, error) {
	return e.store.GetRating(ctx, teamID)
}

// ExpectedScore returns the logistic win expectation for the home side,
// including the home-advantage offset.
func (e *Engine) ExpectedScore(ratingHome, ratingAway float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (ratingAway-ratingHome-e.params.HomeAdvantage)/400.0))
}

// UpdateRatings returns the post-match rating pair. Pure function: no I/O,
// zero-sum under equal K.
func (e *Engine) UpdateRatings(ratingHome, ratingAway float64, goalsHome, goalsAway int) (float64, float64) {
	expectedHome := e.ExpectedScore(ratingHome, ratingAway)

	var actualHome float64
	switch {
	case goalsHome > goalsAway:
		actualHome = 1.0
	case goalsHome < goalsAway:
		actualHome = 0.0
	default:
		actualHome = 0.5
	}

	delta := e.params.KFactor * e.marginMultiplier(goalsHome, goalsAway) * (actualHome - expectedHome)
	return ratingHome + delta, ratingAway - delta
}

// marginMultiplier scales the K factor with goal difference. Differences of
// one goal or less are unscaled; larger margins grow logarithmically and cap
// at 2.
func (e *Engine) marginMultiplier(goalsHome, goalsAway int) float64 {
	if !e.params.MarginScaling {
		return 1.0
	}
	diff := goalsHome - goalsAway
	if diff < 0 {
		diff = -diff
	}
	if diff <= 1 {
		return 1.0
	}
	m := 1.0 + math.Log2(float64(diff)+1.0)
	if m > 2.0 {
		m = 2.0
	}
	return m
}

// Predict derives a 1X2 distribution for a fixture from the two stored
// ratings.
func (e *Engine) Predict(ctx context.Context, homeTeamID, awayTeamID int64) (models.OutcomeProbs, error) {
	home, err := e.store.GetRating(ctx, homeTeamID)
	if err != nil {
		return models.OutcomeProbs{}, fmt.Errorf("failed to load home rating: %w", err)
	}
	away, err := e.store.GetRating(ctx, awayTeamID)
	if err != nil {
		return models.OutcomeProbs{}, fmt.Errorf("failed to load away rating: %w", err)
	}
	return e.PredictFromRatings(home, away), nil
}

// PredictFromRatings derives the distribution from explicit ratings.
func (e *Engine) PredictFromRatings(ratingHome, ratingAway float64) models.OutcomeProbs {
	rawHome := e.ExpectedScore(ratingHome, ratingAway)
	rawAway := 1.0 - rawHome

	switch e.params.DrawPolicy {
	case DrawPolicyDavidson:
		return davidsonSplit(rawHome, rawAway, e.params.DrawParam)
	default:
		return fixedDrawSplit(rawHome, rawAway, e.params.DrawMass)
	}
}

// RatingGap returns ratingHome - ratingAway for a fixture.
func (e *Engine) RatingGap(ctx context.Context, homeTeamID, awayTeamID int64) (float64, error) {
	home, err := e.store.GetRating(ctx, homeTeamID)
	if err != nil {
		return 0, err
	}
	away, err := e.store.GetRating(ctx, awayTeamID)
	if err != nil {
		return 0, err
	}
	return home - away, nil
}

// fixedDrawSplit reserves a fixed draw mass and splits the remainder
// proportionally between the raw win probabilities.
func fixedDrawSplit(rawHome, rawAway, drawMass float64) models.OutcomeProbs {
	total := rawHome + rawAway
	if total <= 0 {
		return neutralSplit()
	}
	remaining := 1.0 - drawMass
	return models.OutcomeProbs{
		Home: rawHome / total * remaining,
		Draw: drawMass,
		Away: rawAway / total * remaining,
	}
}

// davidsonSplit applies the symmetric Davidson correction: the draw mass
// grows with the geometric mean of the two win probabilities.
func davidsonSplit(rawHome, rawAway, d float64) models.OutcomeProbs {
	z := d * math.Sqrt(rawHome*rawAway)
	sum := rawHome + rawAway + 2*z
	if sum <= 0 {
		return neutralSplit()
	}
	return models.OutcomeProbs{
		Home: rawHome / sum,
		Draw: 2 * z / sum,
		Away: rawAway / sum,
	}
}

func neutralSplit() models.OutcomeProbs {
	return models.OutcomeProbs{Home: 0.375, Draw: 0.25, Away: 0.375}
}
