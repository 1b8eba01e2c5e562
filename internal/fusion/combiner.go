// Package fusion merges the rating model's estimate with the per-source
// historical analogue estimates into one confidence-weighted distribution.
package fusion

import (
	"math"

	"github.com/yourusername/match-oracle/internal/models"
)

// Weights holds the ensemble weighting constants. The values are empirical
// knobs, not derived quantities; they are configured, never hard-coded by
// callers.
type Weights struct {
	RatingBase          float64
	RatingGapBonus      float64 // weight added per rating point of gap
	RatingMaxBonus      float64
	AnalogueBase        float64
	AnalogueSampleBonus float64 // weight added per analogue in the sample
	AnalogueMaxBonus    float64
	SourceSharpness     map[string]float64 // extra weight per method tag
}

// DefaultWeights returns the production ensemble constants.
func DefaultWeights() Weights {
	return Weights{
		RatingBase:          0.40,
		RatingGapBonus:      0.001,
		RatingMaxBonus:      0.30,
		AnalogueBase:        0.30,
		AnalogueSampleBonus: 0.01,
		AnalogueMaxBonus:    0.40,
		SourceSharpness:     map[string]float64{"PINNACLE": 0.15},
	}
}

// Input is one method's contribution to the ensemble.
type Input struct {
	Method string
	Probs  models.OutcomeProbs
	Weight float64
}

// Result is the fused distribution with its aggregate confidence.
type Result struct {
	Probs      models.OutcomeProbs
	Confidence float64
}

// Combiner fuses method outputs using the configured weights.
type Combiner struct {
	weights Weights
}

// NewCombiner creates a combiner.
func NewCombiner(weights Weights) *Combiner {
	return &Combiner{weights: weights}
}

// RatingWeight returns the confidence weight of the rating estimate. More
// separated ratings carry more information, so the gap earns a capped bonus.
func (c *Combiner) RatingWeight(ratingGap float64) float64 {
	bonus := math.Abs(ratingGap) * c.weights.RatingGapBonus
	if bonus > c.weights.RatingMaxBonus {
		bonus = c.weights.RatingMaxBonus
	}
	return clampWeight(c.weights.RatingBase + bonus)
}

// AnalogueWeight returns the confidence weight of an analogue estimate.
// Larger samples earn a capped bonus; sources configured as historically
// sharper earn an extra one.
func (c *Combiner) AnalogueWeight(method string, sampleSize int) float64 {
	bonus := float64(sampleSize) * c.weights.AnalogueSampleBonus
	if bonus > c.weights.AnalogueMaxBonus {
		bonus = c.weights.AnalogueMaxBonus
	}
	return clampWeight(c.weights.AnalogueBase + bonus + c.weights.SourceSharpness[method])
}

// Fuse combines the available method outputs into one distribution. Weights
// are renormalized across available methods; a zero total weight falls back
// to the first input unchanged. The fused confidence is the weight-weighted
// mean of the input weights.
func (c *Combiner) Fuse(inputs []Input) (Result, bool) {
	if len(inputs) == 0 {
		return Result{}, false
	}

	var totalWeight float64
	for _, in := range inputs {
		totalWeight += in.Weight
	}
	if totalWeight <= 0 {
		return Result{Probs: inputs[0].Probs, Confidence: 0}, true
	}

	var fused models.OutcomeProbs
	var weightedConfidence float64
	for _, in := range inputs {
		share := in.Weight / totalWeight
		fused.Home += share * in.Probs.Home
		fused.Draw += share * in.Probs.Draw
		fused.Away += share * in.Probs.Away
		weightedConfidence += share * in.Weight
	}

	return Result{Probs: fused, Confidence: clampWeight(weightedConfidence)}, true
}

// FuseBinary combines two-outcome probabilities (over/under, BTTS) with the
// same renormalized weighting.
func (c *Combiner) FuseBinary(probs []float64, weights []float64) (float64, bool) {
	if len(probs) == 0 || len(probs) != len(weights) {
		return 0, false
	}
	var total float64
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return probs[0], true
	}
	var fused float64
	for i, p := range probs {
		fused += weights[i] / total * p
	}
	return fused, true
}

func clampWeight(w float64) float64 {
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}
