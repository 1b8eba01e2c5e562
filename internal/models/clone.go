package models

import (
	"time"

	"github.com/google/uuid"
)

// ClonePair records that two same-day fixtures exhibited statistically
// near-identical market behavior. The table is an append-only time series:
// every detection run inserts fresh rows stamped with DetectedAt so that
// similarity can be tracked across days.
type ClonePair struct {
	ID         uuid.UUID `db:"id" json:"id"`
	FixtureID1 int64     `db:"fixture_id_1" json:"fixture_id_1" validate:"required"`
	FixtureID2 int64     `db:"fixture_id_2" json:"fixture_id_2" validate:"required"`
	Score      float64   `db:"score" json:"score" validate:"gte=0,lte=1"`
	Factors    []string  `db:"factors" json:"factors"`
	DetectedAt time.Time `db:"detected_at" json:"detected_at"`
}
