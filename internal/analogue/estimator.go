// Package analogue estimates outcome probabilities from the empirical record
// of historically settled fixtures whose market prices resembled the current
// ones. It answers "what usually happens when the market prices a game like
// this", independently of the rating model.
package analogue

import (
	"github.com/yourusername/match-oracle/internal/models"
)

// Record is one settled historical fixture with the de-vigged 1X2 vector a
// single source quoted for it.
type Record struct {
	FixtureID int64
	Probs     models.OutcomeProbs
	GoalsHome int
	GoalsAway int
}

// Estimate holds the empirical outcome frequencies over the analogue set.
type Estimate struct {
	Probs       models.OutcomeProbs
	Over25Rate  float64
	BTTSYesRate float64
	SampleSize  int
}

// Estimator selects the analogue reference class by distance in probability
// space.
type Estimator struct {
	tolerance float64
	minSample int
}

// NewEstimator creates an estimator. Tolerance is the maximum Euclidean
// distance between implied-probability vectors for a historical fixture to
// count as an analogue; minSample is the smallest analogue set considered
// usable.
func NewEstimator(tolerance float64, minSample int) *Estimator {
	return &Estimator{tolerance: tolerance, minSample: minSample}
}

// Estimate computes empirical outcome frequencies over the historical
// fixtures within tolerance of the target vector. The second return value is
// false when too few analogues exist; callers must then exclude the method
// rather than use an unreliable estimate.
func (e *Estimator) Estimate(target models.OutcomeProbs, history []Record) (*Estimate, bool) {
	var (
		n     int
		homes int
		draws int
		aways int
		overs int
		btts  int
	)

	for _, rec := range history {
		if target.Distance(rec.Probs) > e.tolerance {
			continue
		}
		n++
		switch {
		case rec.GoalsHome > rec.GoalsAway:
			homes++
		case rec.GoalsHome < rec.GoalsAway:
			aways++
		default:
			draws++
		}
		if rec.GoalsHome+rec.GoalsAway > 2 {
			overs++
		}
		if rec.GoalsHome > 0 && rec.GoalsAway > 0 {
			btts++
		}
	}

	if n < e.minSample {
		return nil, false
	}

	total := float64(n)
	return &Estimate{
		Probs: models.OutcomeProbs{
			Home: float64(homes) / total,
			Draw: float64(draws) / total,
			Away: float64(aways) / total,
		},
		Over25Rate:  float64(overs) / total,
		BTTSYesRate: float64(btts) / total,
		SampleSize:  n,
	}, true
}
