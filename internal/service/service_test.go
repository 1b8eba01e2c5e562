package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/yourusername/match-oracle/internal/config"
	"github.com/yourusername/match-oracle/internal/models"
	"github.com/yourusername/match-oracle/internal/repository"
)

// In-memory repository fakes shared by the service tests.

type fakeTeamRepo struct {
	ratings map[int64]float64
}

func newFakeTeamRepo() *fakeTeamRepo {
	return &fakeTeamRepo{ratings: make(map[int64]float64)}
}

func (f *fakeTeamRepo) GetRating(_ context.Context, teamID int64) (float64, error) {
	if r, ok := f.ratings[teamID]; ok {
		return r, nil
	}
	f.ratings[teamID] = models.DefaultRating
	return models.DefaultRating, nil
}

func (f *fakeTeamRepo) SetRating(_ context.Context, teamID int64, rating float64) error {
	f.ratings[teamID] = rating
	return nil
}

func (f *fakeTeamRepo) UpdateRatingPair(_ context.Context, homeID int64, homeRating float64, awayID int64, awayRating float64) error {
	f.ratings[homeID] = homeRating
	f.ratings[awayID] = awayRating
	return nil
}

func (f *fakeTeamRepo) ResetRatings(_ context.Context, defaultRating float64) error {
	for id := range f.ratings {
		f.ratings[id] = defaultRating
	}
	return nil
}

func (f *fakeTeamRepo) Upsert(_ context.Context, team *models.Team) error {
	if _, ok := f.ratings[team.ID]; !ok {
		f.ratings[team.ID] = team.Rating
	}
	return nil
}

func (f *fakeTeamRepo) GetByID(_ context.Context, teamID int64) (*models.Team, error) {
	r, ok := f.ratings[teamID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &models.Team{ID: teamID, Rating: r}, nil
}

type fakeFixtureRepo struct {
	fixtures map[int64]*models.Fixture
}

func newFakeFixtureRepo(fixtures ...*models.Fixture) *fakeFixtureRepo {
	repo := &fakeFixtureRepo{fixtures: make(map[int64]*models.Fixture)}
	for _, f := range fixtures {
		repo.fixtures[f.ID] = f
	}
	return repo
}

func (f *fakeFixtureRepo) GetByID(_ context.Context, id int64) (*models.Fixture, error) {
	fixture, ok := f.fixtures[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return fixture, nil
}

func (f *fakeFixtureRepo) GetByDate(_ context.Context, date time.Time) ([]*models.Fixture, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	var result []*models.Fixture
	for _, fixture := range f.fixtures {
		if !fixture.Kickoff.Before(dayStart) && fixture.Kickoff.Before(dayEnd) {
			result = append(result, fixture)
		}
	}
	sortFixtures(result)
	return result, nil
}

func (f *fakeFixtureRepo) GetSettledOrdered(_ context.Context) ([]*models.Fixture, error) {
	var result []*models.Fixture
	for _, fixture := range f.fixtures {
		if fixture.Settled() {
			result = append(result, fixture)
		}
	}
	sortFixtures(result)
	return result, nil
}

func (f *fakeFixtureRepo) GetUnratedSettled(_ context.Context, since time.Time) ([]*models.Fixture, error) {
	var result []*models.Fixture
	for _, fixture := range f.fixtures {
		if fixture.Settled() && fixture.Status != "RATED" && !fixture.Kickoff.Before(since) {
			result = append(result, fixture)
		}
	}
	sortFixtures(result)
	return result, nil
}

func (f *fakeFixtureRepo) Upsert(_ context.Context, fixture *models.Fixture) error {
	f.fixtures[fixture.ID] = fixture
	return nil
}

func (f *fakeFixtureRepo) SetScore(_ context.Context, id int64, goalsHome, goalsAway int) error {
	fixture, ok := f.fixtures[id]
	if !ok {
		return models.ErrNotFound
	}
	if fixture.Settled() {
		return models.ErrFixtureSettled
	}
	fixture.GoalsHome = &goalsHome
	fixture.GoalsAway = &goalsAway
	fixture.Status = "FT"
	return nil
}

func (f *fakeFixtureRepo) MarkRated(_ context.Context, id int64) error {
	fixture, ok := f.fixtures[id]
	if !ok {
		return models.ErrNotFound
	}
	fixture.Status = "RATED"
	return nil
}

func sortFixtures(fixtures []*models.Fixture) {
	sort.Slice(fixtures, func(i, j int) bool {
		if fixtures[i].Kickoff.Equal(fixtures[j].Kickoff) {
			return fixtures[i].ID < fixtures[j].ID
		}
		return fixtures[i].Kickoff.Before(fixtures[j].Kickoff)
	})
}

type fakeOddsRepo struct {
	quotes  map[int64][]*models.OddsQuote
	history map[int64][]repository.SettledQuote
}

func newFakeOddsRepo() *fakeOddsRepo {
	return &fakeOddsRepo{
		quotes:  make(map[int64][]*models.OddsQuote),
		history: make(map[int64][]repository.SettledQuote),
	}
}

func (f *fakeOddsRepo) Upsert(_ context.Context, quote *models.OddsQuote) error {
	f.quotes[quote.FixtureID] = append(f.quotes[quote.FixtureID], quote)
	return nil
}

func (f *fakeOddsRepo) GetByFixture(_ context.Context, fixtureID int64) ([]*models.OddsQuote, error) {
	return f.quotes[fixtureID], nil
}

func (f *fakeOddsRepo) GetBySource(_ context.Context, fixtureID, sourceID int64) (*models.OddsQuote, error) {
	for _, q := range f.quotes[fixtureID] {
		if q.SourceID == sourceID {
			return q, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeOddsRepo) GetSettledHistory(_ context.Context, sourceID int64, _ time.Time) ([]repository.SettledQuote, error) {
	return f.history[sourceID], nil
}

type fakePredictionRepo struct {
	stored  map[int64][]*models.PredictionRecord
	failFor map[int64]bool
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{
		stored:  make(map[int64][]*models.PredictionRecord),
		failFor: make(map[int64]bool),
	}
}

func (f *fakePredictionRepo) ReplaceForFixture(_ context.Context, fixtureID int64, records []*models.PredictionRecord) error {
	if f.failFor[fixtureID] {
		return fmt.Errorf("storage unavailable")
	}
	f.stored[fixtureID] = records
	return nil
}

func (f *fakePredictionRepo) GetByFixture(_ context.Context, fixtureID int64) ([]*models.PredictionRecord, error) {
	return f.stored[fixtureID], nil
}

func (f *fakePredictionRepo) GetByMethod(_ context.Context, method string, _, _ time.Time) ([]*models.PredictionRecord, error) {
	var result []*models.PredictionRecord
	for _, records := range f.stored {
		for _, rec := range records {
			if rec.Method == method {
				result = append(result, rec)
			}
		}
	}
	return result, nil
}

type fakeCloneRepo struct {
	pairs []*models.ClonePair
}

func (f *fakeCloneRepo) InsertBatch(_ context.Context, pairs []*models.ClonePair) error {
	f.pairs = append(f.pairs, pairs...)
	return nil
}

func (f *fakeCloneRepo) GetByDate(_ context.Context, _ time.Time) ([]*models.ClonePair, error) {
	return f.pairs, nil
}

// testEngineConfig returns a working engine configuration with one source.
func testEngineConfig() *config.EngineConfig {
	return &config.EngineConfig{
		Rating: config.RatingConfig{
			KFactor:       25,
			HomeAdvantage: 80,
			MarginScaling: true,
			DrawPolicy:    "fixed",
			DrawMass:      0.25,
			DrawParam:     0.28,
		},
		Analogue: config.AnalogueConfig{Tolerance: 0.06, MinSample: 2},
		Fusion: config.FusionConfig{
			RatingBase:          0.40,
			RatingGapBonus:      0.001,
			RatingMaxBonus:      0.30,
			AnalogueBase:        0.30,
			AnalogueSampleBonus: 0.01,
			AnalogueMaxBonus:    0.40,
		},
		Clones: config.ClonesConfig{
			RatingWeight:      0.30,
			ProbabilityWeight: 0.30,
			MarketWeight:      0.25,
			CompetitionWeight: 0.10,
			KickoffWeight:     0.05,
			RatingScale:       100,
			ProbabilityScale:  0.25,
			MarketScale:       0.25,
			ScoreThreshold:    0.8,
			TimeWindowHours:   24,
		},
		Sources: []config.SourceConfig{{ID: 1, Name: "Bet365", MethodTag: "B365"}},
		Value:   config.ValueConfig{MinExpectedValue: 1.05},
	}
}

func dec(f float64) *decimal.Decimal {
	d := decimal.NewFromFloat(f)
	return &d
}

func fullQuote(fixtureID, sourceID int64) *models.OddsQuote {
	return &models.OddsQuote{
		FixtureID: fixtureID,
		SourceID:  sourceID,
		Home:      dec(2.10),
		Draw:      dec(3.40),
		Away:      dec(3.80),
		Over25:    dec(1.90),
		Under25:   dec(1.95),
		BTTSYes:   dec(1.85),
		BTTSNo:    dec(2.00),
	}
}
