package models

import "time"

// DefaultRating is the rating assigned to a team on first reference.
const DefaultRating = 1500.0

// Team represents a team and its current strength rating. Teams are created
// on first reference and never deleted; the rating mutates after every
// settled fixture the team is involved in.
type Team struct {
	ID            int64     `db:"id" json:"id" validate:"required"`
	Name          string    `db:"name" json:"name"`
	CompetitionID int64     `db:"competition_id" json:"competition_id"`
	Rating        float64   `db:"rating" json:"rating"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
