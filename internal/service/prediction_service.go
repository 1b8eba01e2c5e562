package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/match-oracle/internal/analogue"
	"github.com/yourusername/match-oracle/internal/config"
	"github.com/yourusername/match-oracle/internal/fusion"
	"github.com/yourusername/match-oracle/internal/logger"
	"github.com/yourusername/match-oracle/internal/metrics"
	"github.com/yourusername/match-oracle/internal/models"
	"github.com/yourusername/match-oracle/internal/odds"
	"github.com/yourusername/match-oracle/internal/rating"
	"github.com/yourusername/match-oracle/internal/repository"
)

// PredictionService generates the full prediction set for a day's fixtures:
// the rating estimate, one analogue estimate per configured odds source, and
// the fused ensemble, each stored as its own method.
type PredictionService struct {
	cfg       *config.EngineConfig
	ratings   *rating.Engine
	estimator *analogue.Estimator
	combiner  *fusion.Combiner
	repos     *repository.Repositories
	logger    *logrus.Logger
}

// NewPredictionService creates a prediction service.
func NewPredictionService(
	cfg *config.EngineConfig,
	ratings *rating.Engine,
	estimator *analogue.Estimator,
	combiner *fusion.Combiner,
	repos *repository.Repositories,
	log *logrus.Logger,
) *PredictionService {
	return &PredictionService{
		cfg:       cfg,
		ratings:   ratings,
		estimator: estimator,
		combiner:  combiner,
		repos:     repos,
		logger:    log,
	}
}

// sourceEstimate is one source's analogue output for a fixture.
type sourceEstimate struct {
	source   config.SourceConfig
	estimate *analogue.Estimate
}

// GenerateForDate regenerates predictions for every fixture kicking off on
// the given UTC day. A failing fixture is logged and skipped; the rest of the
// batch still runs. The analogue reference pools are cut off at the start of
// the day, so no estimate ever sees a result from its own day or later.
func (s *PredictionService) GenerateForDate(ctx context.Context, date time.Time) error {
	start := time.Now()
	runLog := logger.NewRunLogger(s.logger, "predictions", date)

	fixtures, err := s.repos.Fixture.GetByDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}
	if len(fixtures) == 0 {
		runLog.Info("No fixtures scheduled")
		return nil
	}

	cutoff := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	pools, err := s.loadHistoryPools(ctx, cutoff)
	if err != nil {
		return err
	}

	processed, failed := 0, 0
	for _, fixture := range fixtures {
		if err := s.generateForFixture(ctx, fixture, pools); err != nil {
			runLog.LogFixtureFailure(fixture.ID, err)
			metrics.RecordPredictionFailure()
			failed++
			continue
		}
		metrics.RecordFixtureProcessed()
		processed++
	}

	runLog.LogCompletion(processed, failed)
	metrics.PredictionRunDuration.Observe(time.Since(start).Seconds())
	metrics.RecordRunCompleted("predictions", time.Now())
	return nil
}

// loadHistoryPools fetches each source's settled history once per run and
// converts the raw prices into de-vigged analogue records.
func (s *PredictionService) loadHistoryPools(ctx context.Context, cutoff time.Time) (map[int64][]analogue.Record, error) {
	pools := make(map[int64][]analogue.Record, len(s.cfg.Sources))
	for _, source := range s.cfg.Sources {
		history, err := s.repos.Odds.GetSettledHistory(ctx, source.ID, cutoff)
		if err != nil {
			return nil, fmt.Errorf("failed to load history for source %s: %w", source.Name, err)
		}

		records := make([]analogue.Record, 0, len(history))
		for _, sq := range history {
			records = append(records, analogue.Record{
				FixtureID: sq.FixtureID,
				Probs:     odds.NormalizeOverround(sq.HomePrice, sq.DrawPrice, sq.AwayPrice),
				GoalsHome: sq.GoalsHome,
				GoalsAway: sq.GoalsAway,
			})
		}
		pools[source.ID] = records
		metrics.AnaloguePoolSize.WithLabelValues(source.MethodTag).Set(float64(len(records)))
	}
	return pools, nil
}

func (s *PredictionService) generateForFixture(ctx context.Context, fixture *models.Fixture, pools map[int64][]analogue.Record) error {
	homeRating, err := s.ratings.Rating(ctx, fixture.HomeTeamID)
	if err != nil {
		return fmt.Errorf("failed to load home rating: %w", err)
	}
	awayRating, err := s.ratings.Rating(ctx, fixture.AwayTeamID)
	if err != nil {
		return fmt.Errorf("failed to load away rating: %w", err)
	}

	ratingProbs := s.ratings.PredictFromRatings(homeRating, awayRating)
	ratingGap := homeRating - awayRating
	ratingWeight := s.combiner.RatingWeight(ratingGap)

	quotes, err := s.repos.Odds.GetByFixture(ctx, fixture.ID)
	if err != nil {
		return fmt.Errorf("failed to load quotes: %w", err)
	}

	estimates := s.estimateFromSources(quotes, pools)

	var records []*models.PredictionRecord

	records = append(records, s.matchOddsRecords(
		fixture.ID, models.MethodRating, ratingProbs, ratingWeight, 0, quotes,
	)...)

	for _, se := range estimates {
		weight := s.combiner.AnalogueWeight(se.source.MethodTag, se.estimate.SampleSize)
		records = append(records, s.analogueRecords(fixture.ID, se, weight, quotes)...)
	}

	records = append(records, s.fusedRecords(fixture.ID, ratingProbs, ratingWeight, estimates, quotes)...)

	if err := s.repos.Prediction.ReplaceForFixture(ctx, fixture.ID, records); err != nil {
		return fmt.Errorf("failed to store predictions: %w", err)
	}

	byMethod := make(map[string]int)
	for _, rec := range records {
		byMethod[rec.Method]++
	}
	for method, count := range byMethod {
		metrics.RecordPredictions(method, count)
	}
	return nil
}

// estimateFromSources runs the analogue estimator once per configured source
// that quoted full 1X2 prices for the fixture. Sources with too few analogues
// are excluded entirely rather than contributing a noisy estimate.
func (s *PredictionService) estimateFromSources(quotes []*models.OddsQuote, pools map[int64][]analogue.Record) []sourceEstimate {
	var estimates []sourceEstimate
	for _, quote := range quotes {
		source, ok := s.cfg.SourceByID(quote.SourceID)
		if !ok || !quote.HasMatchOdds() {
			continue
		}

		h, d, a := quote.MatchOddsPrices()
		target := odds.NormalizeOverround(h, d, a)

		est, ok := s.estimator.Estimate(target, pools[quote.SourceID])
		if !ok {
			continue
		}
		metrics.ObserveAnalogueSample(est.SampleSize)
		estimates = append(estimates, sourceEstimate{source: source, estimate: est})
	}
	return estimates
}

// matchOddsRecords builds the three 1X2 records for one method, attaching the
// best available price and expected value per selection.
func (s *PredictionService) matchOddsRecords(
	fixtureID int64, method string, probs models.OutcomeProbs,
	confidence float64, sampleSize int, quotes []*models.OddsQuote,
) []*models.PredictionRecord {
	best := odds.BestPrices(quotes, models.MarketMatchOdds)

	records := make([]*models.PredictionRecord, 0, 3)
	for _, sel := range models.MarketMatchOdds.Selections() {
		records = append(records, s.newRecord(
			fixtureID, method, models.MarketMatchOdds, sel,
			probs.Get(sel), confidence, sampleSize, best[sel],
		))
	}
	return records
}

// analogueRecords builds one source's full record set: 1X2 plus the two
// binary markets the analogue set also answers.
func (s *PredictionService) analogueRecords(
	fixtureID int64, se sourceEstimate, confidence float64, quotes []*models.OddsQuote,
) []*models.PredictionRecord {
	est := se.estimate
	records := s.matchOddsRecords(fixtureID, se.source.MethodTag, est.Probs, confidence, est.SampleSize, quotes)
	records = append(records, s.binaryRecords(
		fixtureID, se.source.MethodTag, models.MarketOverUnder, est.Over25Rate, confidence, est.SampleSize, quotes,
	)...)
	records = append(records, s.binaryRecords(
		fixtureID, se.source.MethodTag, models.MarketBTTS, est.BTTSYesRate, confidence, est.SampleSize, quotes,
	)...)
	return records
}

// fusedRecords builds the ensemble records. The 1X2 ensemble always includes
// the rating estimate; the binary markets fuse the analogue estimates alone
// because the rating model says nothing about goal counts.
func (s *PredictionService) fusedRecords(
	fixtureID int64, ratingProbs models.OutcomeProbs, ratingWeight float64,
	estimates []sourceEstimate, quotes []*models.OddsQuote,
) []*models.PredictionRecord {
	inputs := []fusion.Input{{Method: models.MethodRating, Probs: ratingProbs, Weight: ratingWeight}}

	var (
		overProbs   []float64
		bttsProbs   []float64
		binWeights  []float64
		totalSample int
	)
	for _, se := range estimates {
		weight := s.combiner.AnalogueWeight(se.source.MethodTag, se.estimate.SampleSize)
		inputs = append(inputs, fusion.Input{
			Method: se.source.MethodTag,
			Probs:  se.estimate.Probs,
			Weight: weight,
		})
		overProbs = append(overProbs, se.estimate.Over25Rate)
		bttsProbs = append(bttsProbs, se.estimate.BTTSYesRate)
		binWeights = append(binWeights, weight)
		totalSample += se.estimate.SampleSize
	}

	fused, ok := s.combiner.Fuse(inputs)
	if !ok {
		return nil
	}

	records := s.matchOddsRecords(
		fixtureID, models.MethodFused, fused.Probs, fused.Confidence, totalSample, quotes,
	)

	if over, ok := s.combiner.FuseBinary(overProbs, binWeights); ok {
		records = append(records, s.binaryRecords(
			fixtureID, models.MethodFused, models.MarketOverUnder, over, fused.Confidence, totalSample, quotes,
		)...)
	}
	if btts, ok := s.combiner.FuseBinary(bttsProbs, binWeights); ok {
		records = append(records, s.binaryRecords(
			fixtureID, models.MethodFused, models.MarketBTTS, btts, fused.Confidence, totalSample, quotes,
		)...)
	}
	return records
}

// binaryRecords builds both sides of a two-outcome market from the
// probability of the first selection.
func (s *PredictionService) binaryRecords(
	fixtureID int64, method string, market models.Market, probFirst float64,
	confidence float64, sampleSize int, quotes []*models.OddsQuote,
) []*models.PredictionRecord {
	best := odds.BestPrices(quotes, market)
	sels := market.Selections()
	if len(sels) != 2 {
		return nil
	}

	return []*models.PredictionRecord{
		s.newRecord(fixtureID, method, market, sels[0], probFirst, confidence, sampleSize, best[sels[0]]),
		s.newRecord(fixtureID, method, market, sels[1], 1.0-probFirst, confidence, sampleSize, best[sels[1]]),
	}
}

// newRecord builds one prediction row. A positive best price attaches the
// price and expected value; value signals are counted but never acted on
// here.
func (s *PredictionService) newRecord(
	fixtureID int64, method string, market models.Market, sel models.Selection,
	probability, confidence float64, sampleSize int, bestPrice float64,
) *models.PredictionRecord {
	rec := &models.PredictionRecord{
		FixtureID:   fixtureID,
		Method:      method,
		Market:      market,
		Selection:   sel,
		Probability: probability,
		Confidence:  confidence,
		SampleSize:  sampleSize,
	}
	if bestPrice > 0 {
		price := bestPrice
		rec.Price = &price
		rec.ExpectedValue = odds.ExpectedValue(probability, price)
		if rec.ExpectedValue != nil && *rec.ExpectedValue >= s.valueThreshold() {
			metrics.RecordValueSignal(string(market))
		}
	}
	return rec
}

func (s *PredictionService) valueThreshold() float64 {
	if s.cfg.Value.MinExpectedValue > 0 {
		return s.cfg.Value.MinExpectedValue
	}
	return 1.05
}
