package service

import (
	"github.com/yourusername/match-oracle/internal/analogue"
	"github.com/yourusername/match-oracle/internal/clones"
	"github.com/yourusername/match-oracle/internal/config"
	"github.com/yourusername/match-oracle/internal/fusion"
	"github.com/yourusername/match-oracle/internal/rating"
	"github.com/yourusername/match-oracle/internal/repository"
)

// Engines bundles the configured engine instances the services share.
type Engines struct {
	RatingStore *rating.CachedStore
	Rating      *rating.Engine
	Estimator   *analogue.Estimator
	Combiner    *fusion.Combiner
	Detector    *clones.Detector
}

// NewEngines builds every engine from configuration. The rating engine reads
// through a shared cache in front of the team repository.
func NewEngines(cfg *config.EngineConfig, teams repository.TeamRepository) *Engines {
	cached := rating.NewCachedStore(teams, cfg.Rating.RatingCacheTTL())

	return &Engines{
		RatingStore: cached,
		Rating:      rating.NewEngine(cached, ratingParams(&cfg.Rating)),
		Estimator:   analogue.NewEstimator(cfg.Analogue.Tolerance, cfg.Analogue.MinSample),
		Combiner:    fusion.NewCombiner(fusionWeights(&cfg.Fusion)),
		Detector:    clones.NewDetector(cloneParams(&cfg.Clones)),
	}
}

func ratingParams(cfg *config.RatingConfig) rating.Params {
	return rating.Params{
		KFactor:       cfg.KFactor,
		HomeAdvantage: cfg.HomeAdvantage,
		MarginScaling: cfg.MarginScaling,
		DrawPolicy:    cfg.DrawPolicy,
		DrawMass:      cfg.DrawMass,
		DrawParam:     cfg.DrawParam,
	}
}

func fusionWeights(cfg *config.FusionConfig) fusion.Weights {
	return fusion.Weights{
		RatingBase:          cfg.RatingBase,
		RatingGapBonus:      cfg.RatingGapBonus,
		RatingMaxBonus:      cfg.RatingMaxBonus,
		AnalogueBase:        cfg.AnalogueBase,
		AnalogueSampleBonus: cfg.AnalogueSampleBonus,
		AnalogueMaxBonus:    cfg.AnalogueMaxBonus,
		SourceSharpness:     cfg.SourceSharpness,
	}
}

func cloneParams(cfg *config.ClonesConfig) clones.Params {
	params := clones.DefaultParams()
	params.RatingWeight = cfg.RatingWeight
	params.ProbabilityWeight = cfg.ProbabilityWeight
	params.MarketWeight = cfg.MarketWeight
	params.CompetitionWeight = cfg.CompetitionWeight
	params.KickoffWeight = cfg.KickoffWeight
	params.RatingScale = cfg.RatingScale
	params.ProbabilityScale = cfg.ProbabilityScale
	params.MarketScale = cfg.MarketScale
	params.ScoreThreshold = cfg.ScoreThreshold
	params.TimeWindowHours = cfg.TimeWindowHours
	return params
}
