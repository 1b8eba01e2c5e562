package analogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/match-oracle/internal/models"
)

func record(id int64, home, draw, away float64, gh, ga int) Record {
	return Record{
		FixtureID: id,
		Probs:     models.OutcomeProbs{Home: home, Draw: draw, Away: away},
		GoalsHome: gh,
		GoalsAway: ga,
	}
}

func TestEstimateSelectsByDistance(t *testing.T) {
	estimator := NewEstimator(0.06, 2)
	target := models.OutcomeProbs{Home: 0.50, Draw: 0.28, Away: 0.22}

	history := []Record{
		// Within tolerance (distance ~0.017)
		record(1, 0.51, 0.27, 0.22, 2, 0),
		record(2, 0.49, 0.29, 0.22, 1, 1),
		// Far away (distance ~0.37)
		record(3, 0.20, 0.30, 0.50, 0, 3),
	}

	est, ok := estimator.Estimate(target, history)
	require.True(t, ok)

	assert.Equal(t, 2, est.SampleSize)
	assert.InDelta(t, 0.5, est.Probs.Home, 1e-9)
	assert.InDelta(t, 0.5, est.Probs.Draw, 1e-9)
	assert.Equal(t, 0.0, est.Probs.Away)
}

func TestEstimateMinSampleGate(t *testing.T) {
	estimator := NewEstimator(0.06, 5)
	target := models.OutcomeProbs{Home: 0.50, Draw: 0.28, Away: 0.22}

	history := []Record{
		record(1, 0.51, 0.27, 0.22, 2, 0),
		record(2, 0.49, 0.29, 0.22, 1, 1),
	}

	est, ok := estimator.Estimate(target, history)
	assert.False(t, ok)
	assert.Nil(t, est)
}

func TestEstimateEmptyHistory(t *testing.T) {
	estimator := NewEstimator(0.06, 1)
	_, ok := estimator.Estimate(models.OutcomeProbs{Home: 0.4, Draw: 0.3, Away: 0.3}, nil)
	assert.False(t, ok)
}

func TestEstimateRates(t *testing.T) {
	estimator := NewEstimator(0.5, 1)
	target := models.OutcomeProbs{Home: 0.4, Draw: 0.3, Away: 0.3}

	history := []Record{
		record(1, 0.4, 0.3, 0.3, 2, 1), // over, btts, home win
		record(2, 0.4, 0.3, 0.3, 0, 0), // under, no btts, draw
		record(3, 0.4, 0.3, 0.3, 1, 2), // over, btts, away win
		record(4, 0.4, 0.3, 0.3, 2, 0), // under (exactly 2), no btts, home win
	}

	est, ok := estimator.Estimate(target, history)
	require.True(t, ok)

	assert.Equal(t, 4, est.SampleSize)
	assert.InDelta(t, 0.5, est.Probs.Home, 1e-9)
	assert.InDelta(t, 0.25, est.Probs.Draw, 1e-9)
	assert.InDelta(t, 0.25, est.Probs.Away, 1e-9)
	assert.InDelta(t, 0.5, est.Over25Rate, 1e-9)
	assert.InDelta(t, 0.5, est.BTTSYesRate, 1e-9)

	// Empirical frequencies always form a distribution
	assert.InDelta(t, 1.0, est.Probs.Sum(), 1e-9)
}

func TestEstimateBoundaryDistance(t *testing.T) {
	// A record exactly at the tolerance boundary is included
	estimator := NewEstimator(0.06, 1)
	target := models.OutcomeProbs{Home: 0.50, Draw: 0.25, Away: 0.25}

	history := []Record{
		record(1, 0.56, 0.25, 0.25, 1, 0),
	}

	est, ok := estimator.Estimate(target, history)
	require.True(t, ok)
	assert.Equal(t, 1, est.SampleSize)
}
