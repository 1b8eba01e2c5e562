// Package clones detects pairs of same-day fixtures whose market behavior is
// statistically indistinguishable.
package clones

import (
	"math"

	"github.com/yourusername/match-oracle/internal/models"
)

// Factor labels disclosed in clone pairs.
const (
	FactorRatingGap   = "similar rating gap"
	FactorProbability = "near-identical 1X2 probabilities"
	FactorMarket      = "near-identical market prices"
	FactorCompetition = "same competition"
	FactorKickoff     = "close kickoff times"
)

// Params holds the similarity weights, decay scales and thresholds. The
// weights are empirical constants; they must sum to 1 across the five
// factors for the score to stay bounded.
type Params struct {
	RatingWeight      float64
	ProbabilityWeight float64
	MarketWeight      float64
	CompetitionWeight float64
	KickoffWeight     float64

	RatingScale      float64 // rating points
	ProbabilityScale float64 // probability-space distance
	MarketScale      float64

	ScoreThreshold    float64
	TimeWindowHours   float64
	DisclosureDefault float64 // rating / probability / market factors
	DisclosureKickoff float64
}

// DefaultParams returns the production constants.
func DefaultParams() Params {
	return Params{
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
		DisclosureDefault: 0.8,
		DisclosureKickoff: 0.7,
	}
}

// Candidate carries everything the detector needs to know about one fixture.
// MarketProbs is nil when the fixture has no usable quote; that factor is
// then dropped from the comparison instead of penalizing the score.
type Candidate struct {
	Fixture     *models.Fixture
	RatingGap   float64
	Probs       models.OutcomeProbs
	MarketProbs *models.OutcomeProbs
}

// Match is one reported clone pair.
type Match struct {
	Other   *Candidate
	Score   float64
	Factors []string
}

// Detector scores candidate pairs.
type Detector struct {
	params Params
}

// NewDetector creates a detector.
func NewDetector(params Params) *Detector {
	return &Detector{params: params}
}

// Compare returns the bounded similarity score for a pair and the factor
// labels whose sub-scores cleared their disclosure thresholds. The score is
// a weighted average over the factors available on both sides, so it is
// symmetric and stays in [0,1] regardless of missing inputs.
func (d *Detector) Compare(a, b *Candidate) (float64, []string) {
	var (
		score     float64
		weightSum float64
		factors   []string
	)

	p := d.params

	sRating := decaySimilarity(math.Abs(a.RatingGap-b.RatingGap), p.RatingScale)
	score += p.RatingWeight * sRating
	weightSum += p.RatingWeight
	if sRating > p.DisclosureDefault {
		factors = append(factors, FactorRatingGap)
	}

	sProb := decaySimilarity(a.Probs.Distance(b.Probs), p.ProbabilityScale)
	score += p.ProbabilityWeight * sProb
	weightSum += p.ProbabilityWeight
	if sProb > p.DisclosureDefault {
		factors = append(factors, FactorProbability)
	}

	if a.MarketProbs != nil && b.MarketProbs != nil {
		sMarket := decaySimilarity(a.MarketProbs.Distance(*b.MarketProbs), p.MarketScale)
		score += p.MarketWeight * sMarket
		weightSum += p.MarketWeight
		if sMarket > p.DisclosureDefault {
			factors = append(factors, FactorMarket)
		}
	}

	sComp := 0.5
	if a.Fixture.CompetitionID == b.Fixture.CompetitionID {
		sComp = 1.0
	}
	score += p.CompetitionWeight * sComp
	weightSum += p.CompetitionWeight
	if sComp == 1.0 {
		factors = append(factors, FactorCompetition)
	}

	if p.TimeWindowHours > 0 {
		sTime := math.Exp(-a.Fixture.HoursApart(b.Fixture) / p.TimeWindowHours)
		score += p.KickoffWeight * sTime
		weightSum += p.KickoffWeight
		if sTime > p.DisclosureKickoff {
			factors = append(factors, FactorKickoff)
		}
	}

	if weightSum <= 0 {
		return 0, nil
	}
	return score / weightSum, factors
}

// FindClones compares the target against every pool candidate within the
// time window and returns the pairs meeting the score threshold. Pairwise
// comparison is quadratic; daily fixture volumes keep that cheap.
func (d *Detector) FindClones(target *Candidate, pool []*Candidate) []Match {
	var matches []Match
	for _, other := range pool {
		if other.Fixture.ID == target.Fixture.ID {
			continue
		}
		if target.Fixture.HoursApart(other.Fixture) > d.params.TimeWindowHours {
			continue
		}
		score, factors := d.Compare(target, other)
		if score >= d.params.ScoreThreshold {
			matches = append(matches, Match{Other: other, Score: score, Factors: factors})
		}
	}
	return matches
}

// decaySimilarity maps a non-negative distance to (0,1] with exponential
// decay at the given scale.
func decaySimilarity(distance, scale float64) float64 {
	if scale <= 0 {
		scale = 1e-6
	}
	return math.Exp(-distance / scale)
}
