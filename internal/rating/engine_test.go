package rating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/match-oracle/internal/models"
)

// mapStore is an in-memory Store seeded like the repository: unseen teams
// read as the default rating.
type mapStore struct {
	ratings map[int64]float64
}

func newMapStore() *mapStore {
	return &mapStore{ratings: make(map[int64]float64)}
}

func (m *mapStore) GetRating(_ context.Context, teamID int64) (float64, error) {
	if r, ok := m.ratings[teamID]; ok {
		return r, nil
	}
	m.ratings[teamID] = models.DefaultRating
	return models.DefaultRating, nil
}

func (m *mapStore) SetRating(_ context.Context, teamID int64, rating float64) error {
	m.ratings[teamID] = rating
	return nil
}

func TestExpectedScore(t *testing.T) {
	engine := NewEngine(newMapStore(), DefaultParams())

	// 100-point edge plus 80 home advantage
	assert.InDelta(t, 0.7381, engine.ExpectedScore(1600, 1500), 0.001)

	// Equal ratings still favor the home side
	assert.InDelta(t, 0.6131, engine.ExpectedScore(1500, 1500), 0.001)

	// Symmetric without home advantage
	params := DefaultParams()
	params.HomeAdvantage = 0
	neutral := NewEngine(newMapStore(), params)
	assert.InDelta(t, 0.5, neutral.ExpectedScore(1500, 1500), 1e-9)
}

func TestUpdateRatingsZeroSum(t *testing.T) {
	engine := NewEngine(newMapStore(), DefaultParams())

	newHome, newAway := engine.UpdateRatings(1520, 1480, 2, 0)

	assert.InDelta(t, 1520+1480, newHome+newAway, 1e-9)
	assert.Greater(t, newHome, 1520.0)
	assert.Less(t, newAway, 1480.0)
}

func TestUpdateRatingsUpsetMovesMore(t *testing.T) {
	engine := NewEngine(newMapStore(), DefaultParams())

	// Away win against a stronger home side moves ratings further than the
	// expected home win does.
	expHome, _ := engine.UpdateRatings(1600, 1400, 1, 0)
	upsHome, _ := engine.UpdateRatings(1600, 1400, 0, 1)

	expectedGain := expHome - 1600
	upsetLoss := 1600 - upsHome
	assert.Greater(t, upsetLoss, expectedGain)
}

func TestUpdateRatingsDraw(t *testing.T) {
	engine := NewEngine(newMapStore(), DefaultParams())

	// A draw costs the favored home side rating points
	newHome, newAway := engine.UpdateRatings(1500, 1500, 1, 1)
	assert.Less(t, newHome, 1500.0)
	assert.Greater(t, newAway, 1500.0)
	assert.InDelta(t, 3000, newHome+newAway, 1e-9)
}

func TestMarginMultiplier(t *testing.T) {
	engine := NewEngine(newMapStore(), DefaultParams())

	assert.InDelta(t, 1.0, engine.marginMultiplier(1, 0), 1e-9)
	assert.InDelta(t, 1.0, engine.marginMultiplier(2, 1), 1e-9)
	assert.InDelta(t, 1.0, engine.marginMultiplier(1, 1), 1e-9)

	// Two-goal margin: 1 + log2(3), capped at 2
	assert.InDelta(t, 2.0, engine.marginMultiplier(3, 1), 1e-9)
	assert.InDelta(t, 2.0, engine.marginMultiplier(6, 0), 1e-9)
	assert.InDelta(t, 2.0, engine.marginMultiplier(0, 5), 1e-9)
}

func TestMarginScalingDisabled(t *testing.T) {
	params := DefaultParams()
	params.MarginScaling = false
	engine := NewEngine(newMapStore(), params)

	assert.InDelta(t, 1.0, engine.marginMultiplier(6, 0), 1e-9)
}

func TestPredictFromRatingsFixedDraw(t *testing.T) {
	engine := NewEngine(newMapStore(), DefaultParams())

	probs := engine.PredictFromRatings(1600, 1500)

	assert.InDelta(t, 1.0, probs.Sum(), 1e-9)
	assert.InDelta(t, 0.25, probs.Draw, 1e-9)
	assert.InDelta(t, 0.7381*0.75, probs.Home, 0.001)
	assert.Greater(t, probs.Home, probs.Away)
}

func TestPredictFromRatingsDavidson(t *testing.T) {
	params := DefaultParams()
	params.DrawPolicy = DrawPolicyDavidson
	engine := NewEngine(newMapStore(), params)

	even := engine.PredictFromRatings(1500, 1500)
	lopsided := engine.PredictFromRatings(1800, 1300)

	assert.InDelta(t, 1.0, even.Sum(), 1e-9)
	assert.InDelta(t, 1.0, lopsided.Sum(), 1e-9)

	// Davidson gives evenly matched sides a larger draw share
	assert.Greater(t, even.Draw, lopsided.Draw)
}

func TestPredictSeedsUnseenTeams(t *testing.T) {
	store := newMapStore()
	engine := NewEngine(store, DefaultParams())

	probs, err := engine.Predict(context.Background(), 10, 20)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, probs.Sum(), 1e-9)
	assert.Equal(t, models.DefaultRating, store.ratings[10])
	assert.Equal(t, models.DefaultRating, store.ratings[20])
}

func TestRatingGap(t *testing.T) {
	store := newMapStore()
	store.ratings[1] = 1580
	store.ratings[2] = 1470
	engine := NewEngine(store, DefaultParams())

	gap, err := engine.RatingGap(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.InDelta(t, 110, gap, 1e-9)
}
