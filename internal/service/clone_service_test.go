package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/match-oracle/internal/models"
	"github.com/yourusername/match-oracle/internal/repository"
)

func newTestCloneService(t *testing.T, repos *repository.Repositories) *CloneService {
	t.Helper()
	engines := NewEngines(testEngineConfig(), repos.Team)
	return NewCloneService(engines.Detector, engines.Rating, repos, testLogger())
}

func TestDetectForDateFindsTwins(t *testing.T) {
	kickoff := testDay.Add(15 * time.Hour)

	// Two fixtures in the same competition, same kickoff, identical
	// ratings and identical market prices; a third is nothing alike.
	twinA := &models.Fixture{ID: 1, HomeTeamID: 10, AwayTeamID: 20, CompetitionID: 5, Kickoff: kickoff}
	twinB := &models.Fixture{ID: 2, HomeTeamID: 30, AwayTeamID: 40, CompetitionID: 5, Kickoff: kickoff}
	outlier := &models.Fixture{ID: 3, HomeTeamID: 50, AwayTeamID: 60, CompetitionID: 9, Kickoff: kickoff.Add(8 * time.Hour)}

	teams := newFakeTeamRepo()
	teams.ratings[50] = 1800
	teams.ratings[60] = 1350

	oddsRepo := newFakeOddsRepo()
	oddsRepo.quotes[1] = []*models.OddsQuote{fullQuote(1, 1)}
	oddsRepo.quotes[2] = []*models.OddsQuote{fullQuote(2, 1)}
	oddsRepo.quotes[3] = []*models.OddsQuote{{
		FixtureID: 3, SourceID: 1,
		Home: dec(1.20), Draw: dec(6.50), Away: dec(15.0),
	}}

	cloneRepo := &fakeCloneRepo{}
	repos := &repository.Repositories{
		Team:       teams,
		Fixture:    newFakeFixtureRepo(twinA, twinB, outlier),
		Odds:       oddsRepo,
		Prediction: newFakePredictionRepo(),
		Clone:      cloneRepo,
	}

	svc := newTestCloneService(t, repos)
	found, err := svc.DetectForDate(context.Background(), testDay)
	require.NoError(t, err)

	require.Equal(t, 1, found)
	require.Len(t, cloneRepo.pairs, 1)

	pair := cloneRepo.pairs[0]
	assert.Equal(t, int64(1), pair.FixtureID1)
	assert.Equal(t, int64(2), pair.FixtureID2)
	assert.GreaterOrEqual(t, pair.Score, 0.8)
	assert.NotEmpty(t, pair.Factors)
	assert.False(t, pair.DetectedAt.IsZero())
}

func TestDetectForDateMissingQuotes(t *testing.T) {
	kickoff := testDay.Add(15 * time.Hour)
	twinA := &models.Fixture{ID: 1, HomeTeamID: 10, AwayTeamID: 20, CompetitionID: 5, Kickoff: kickoff}
	twinB := &models.Fixture{ID: 2, HomeTeamID: 30, AwayTeamID: 40, CompetitionID: 5, Kickoff: kickoff}

	cloneRepo := &fakeCloneRepo{}
	repos := &repository.Repositories{
		Team:       newFakeTeamRepo(),
		Fixture:    newFakeFixtureRepo(twinA, twinB),
		Odds:       newFakeOddsRepo(),
		Prediction: newFakePredictionRepo(),
		Clone:      cloneRepo,
	}

	// Identical unseen teams, no quotes: the market factor drops out and
	// the remaining factors still identify the pair.
	svc := newTestCloneService(t, repos)
	found, err := svc.DetectForDate(context.Background(), testDay)
	require.NoError(t, err)
	assert.Equal(t, 1, found)
}

func TestDetectForDateTooFewFixtures(t *testing.T) {
	repos := &repository.Repositories{
		Team:       newFakeTeamRepo(),
		Fixture:    newFakeFixtureRepo(&models.Fixture{ID: 1, HomeTeamID: 10, AwayTeamID: 20, Kickoff: testDay.Add(time.Hour)}),
		Odds:       newFakeOddsRepo(),
		Prediction: newFakePredictionRepo(),
		Clone:      &fakeCloneRepo{},
	}

	svc := newTestCloneService(t, repos)
	found, err := svc.DetectForDate(context.Background(), testDay)
	require.NoError(t, err)
	assert.Zero(t, found)
}

func TestDetectForDateAppendsAcrossRuns(t *testing.T) {
	kickoff := testDay.Add(15 * time.Hour)
	twinA := &models.Fixture{ID: 1, HomeTeamID: 10, AwayTeamID: 20, CompetitionID: 5, Kickoff: kickoff}
	twinB := &models.Fixture{ID: 2, HomeTeamID: 30, AwayTeamID: 40, CompetitionID: 5, Kickoff: kickoff}

	cloneRepo := &fakeCloneRepo{}
	repos := &repository.Repositories{
		Team:       newFakeTeamRepo(),
		Fixture:    newFakeFixtureRepo(twinA, twinB),
		Odds:       newFakeOddsRepo(),
		Prediction: newFakePredictionRepo(),
		Clone:      cloneRepo,
	}

	svc := newTestCloneService(t, repos)
	_, err := svc.DetectForDate(context.Background(), testDay)
	require.NoError(t, err)
	_, err = svc.DetectForDate(context.Background(), testDay)
	require.NoError(t, err)

	// The clone log is a time series: re-detection appends, never rewrites
	assert.Len(t, cloneRepo.pairs, 2)
}
