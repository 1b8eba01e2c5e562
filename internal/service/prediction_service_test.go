package service

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/match-oracle/internal/models"
	"github.com/yourusername/match-oracle/internal/repository"
)

var testDay = time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestPredictionService(t *testing.T, repos *repository.Repositories) *PredictionService {
	t.Helper()
	cfg := testEngineConfig()
	engines := NewEngines(cfg, repos.Team)
	return NewPredictionService(cfg, engines.Rating, engines.Estimator, engines.Combiner, repos, testLogger())
}

// settledAt builds one settled historical quote whose prices match the
// current fixture's, so the analogue estimator always includes it.
func settledAt(id int64, gh, ga int) repository.SettledQuote {
	return repository.SettledQuote{
		FixtureID: id,
		GoalsHome: gh,
		GoalsAway: ga,
		HomePrice: 2.10,
		DrawPrice: 3.40,
		AwayPrice: 3.80,
	}
}

func TestGenerateForDateFullPipeline(t *testing.T) {
	fixture := &models.Fixture{ID: 100, HomeTeamID: 1, AwayTeamID: 2, CompetitionID: 5, Kickoff: testDay.Add(15 * time.Hour)}

	oddsRepo := newFakeOddsRepo()
	oddsRepo.quotes[100] = []*models.OddsQuote{fullQuote(100, 1)}
	oddsRepo.history[1] = []repository.SettledQuote{
		settledAt(90, 2, 0),
		settledAt(91, 1, 1),
		settledAt(92, 0, 1),
	}

	predictionRepo := newFakePredictionRepo()
	repos := &repository.Repositories{
		Team:       newFakeTeamRepo(),
		Fixture:    newFakeFixtureRepo(fixture),
		Odds:       oddsRepo,
		Prediction: predictionRepo,
		Clone:      &fakeCloneRepo{},
	}

	svc := newTestPredictionService(t, repos)
	require.NoError(t, svc.GenerateForDate(context.Background(), testDay))

	records := predictionRepo.stored[100]
	require.NotEmpty(t, records)

	byMethod := make(map[string][]*models.PredictionRecord)
	for _, rec := range records {
		byMethod[rec.Method] = append(byMethod[rec.Method], rec)
	}

	// Rating contributes 1X2 only; the analogue source and the ensemble
	// cover all three markets.
	assert.Len(t, byMethod[models.MethodRating], 3)
	assert.Len(t, byMethod["B365"], 7)
	assert.Len(t, byMethod[models.MethodFused], 7)

	for method, recs := range byMethod {
		var sum1x2 float64
		for _, rec := range recs {
			assert.GreaterOrEqual(t, rec.Probability, 0.0, method)
			assert.LessOrEqual(t, rec.Probability, 1.0, method)
			if rec.Market == models.MarketMatchOdds {
				sum1x2 += rec.Probability
			}
		}
		assert.InDelta(t, 1.0, sum1x2, 1e-6, method)
	}

	// The analogue sample is disclosed on the source's records
	for _, rec := range byMethod["B365"] {
		assert.Equal(t, 3, rec.SampleSize)
	}

	// Quoted selections carry a price and expected value
	for _, rec := range records {
		require.NotNil(t, rec.Price, "selection %s/%s", rec.Market, rec.Selection)
		require.NotNil(t, rec.ExpectedValue)
		assert.InDelta(t, rec.Probability*(*rec.Price), *rec.ExpectedValue, 1e-9)
	}
}

func TestGenerateForDateNoQuotes(t *testing.T) {
	fixture := &models.Fixture{ID: 100, HomeTeamID: 1, AwayTeamID: 2, Kickoff: testDay.Add(12 * time.Hour)}

	predictionRepo := newFakePredictionRepo()
	repos := &repository.Repositories{
		Team:       newFakeTeamRepo(),
		Fixture:    newFakeFixtureRepo(fixture),
		Odds:       newFakeOddsRepo(),
		Prediction: predictionRepo,
		Clone:      &fakeCloneRepo{},
	}

	svc := newTestPredictionService(t, repos)
	require.NoError(t, svc.GenerateForDate(context.Background(), testDay))

	// Without quotes there is no analogue input: rating plus a
	// rating-only ensemble, 1X2 only, no prices.
	records := predictionRepo.stored[100]
	require.Len(t, records, 6)
	for _, rec := range records {
		assert.Equal(t, models.MarketMatchOdds, rec.Market)
		assert.Nil(t, rec.Price)
		assert.Nil(t, rec.ExpectedValue)
	}
}

func TestGenerateForDateBelowMinSample(t *testing.T) {
	fixture := &models.Fixture{ID: 100, HomeTeamID: 1, AwayTeamID: 2, Kickoff: testDay.Add(12 * time.Hour)}

	oddsRepo := newFakeOddsRepo()
	oddsRepo.quotes[100] = []*models.OddsQuote{fullQuote(100, 1)}
	oddsRepo.history[1] = []repository.SettledQuote{settledAt(90, 2, 0)}

	predictionRepo := newFakePredictionRepo()
	repos := &repository.Repositories{
		Team:       newFakeTeamRepo(),
		Fixture:    newFakeFixtureRepo(fixture),
		Odds:       oddsRepo,
		Prediction: predictionRepo,
		Clone:      &fakeCloneRepo{},
	}

	svc := newTestPredictionService(t, repos)
	require.NoError(t, svc.GenerateForDate(context.Background(), testDay))

	// One analogue is below the minimum sample: the source method is
	// excluded entirely rather than stored with low confidence.
	for _, rec := range predictionRepo.stored[100] {
		assert.NotEqual(t, "B365", rec.Method)
	}
}

func TestGenerateForDatePartialBatchFailure(t *testing.T) {
	good := &models.Fixture{ID: 100, HomeTeamID: 1, AwayTeamID: 2, Kickoff: testDay.Add(12 * time.Hour)}
	bad := &models.Fixture{ID: 101, HomeTeamID: 3, AwayTeamID: 4, Kickoff: testDay.Add(14 * time.Hour)}

	predictionRepo := newFakePredictionRepo()
	predictionRepo.failFor[101] = true

	repos := &repository.Repositories{
		Team:       newFakeTeamRepo(),
		Fixture:    newFakeFixtureRepo(good, bad),
		Odds:       newFakeOddsRepo(),
		Prediction: predictionRepo,
		Clone:      &fakeCloneRepo{},
	}

	svc := newTestPredictionService(t, repos)

	// One failing fixture does not fail the run
	require.NoError(t, svc.GenerateForDate(context.Background(), testDay))
	assert.NotEmpty(t, predictionRepo.stored[100])
	assert.Empty(t, predictionRepo.stored[101])
}

func TestGenerateForDateNoFixtures(t *testing.T) {
	repos := &repository.Repositories{
		Team:       newFakeTeamRepo(),
		Fixture:    newFakeFixtureRepo(),
		Odds:       newFakeOddsRepo(),
		Prediction: newFakePredictionRepo(),
		Clone:      &fakeCloneRepo{},
	}

	svc := newTestPredictionService(t, repos)
	assert.NoError(t, svc.GenerateForDate(context.Background(), testDay))
}
