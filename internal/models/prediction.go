package models

import (
	"time"

	"github.com/google/uuid"
)

// PredictionRecord is one probability estimate for a (fixture, market,
// selection) produced by a single method. The full set for a fixture is
// regenerated atomically on every run.
type PredictionRecord struct {
	ID            uuid.UUID `db:"id" json:"id"`
	FixtureID     int64     `db:"fixture_id" json:"fixture_id" validate:"required"`
	Method        string    `db:"method" json:"method" validate:"required"`
	Market        Market    `db:"market" json:"market" validate:"required"`
	Selection     Selection `db:"selection" json:"selection" validate:"required"`
	Probability   float64   `db:"probability" json:"probability" validate:"gte=0,lte=1"`
	Price         *float64  `db:"price" json:"price"`
	ExpectedValue *float64  `db:"expected_value" json:"expected_value"`
	Confidence    float64   `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	SampleSize    int       `db:"sample_size" json:"sample_size"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// MeetsConfidence checks the record against a confidence threshold.
func (p *PredictionRecord) MeetsConfidence(threshold float64) bool {
	return p.Confidence >= threshold
}
