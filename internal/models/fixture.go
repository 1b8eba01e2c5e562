package models

import "time"

// Fixture represents a scheduled or settled match. The score is set at most
// once; a settled fixture is immutable.
type Fixture struct {
	ID            int64     `db:"id" json:"id" validate:"required"`
	HomeTeamID    int64     `db:"home_team_id" json:"home_team_id" validate:"required"`
	AwayTeamID    int64     `db:"away_team_id" json:"away_team_id" validate:"required"`
	CompetitionID int64     `db:"competition_id" json:"competition_id"`
	Kickoff       time.Time `db:"kickoff" json:"kickoff" validate:"required"`
	GoalsHome     *int      `db:"goals_home" json:"goals_home"`
	GoalsAway     *int      `db:"goals_away" json:"goals_away"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Settled reports whether the final score is known. Both goal counts are
// present or both are absent.
func (f *Fixture) Settled() bool {
	return f.GoalsHome != nil && f.GoalsAway != nil
}

// Result returns the 1X2 outcome of a settled fixture.
func (f *Fixture) Result() (Selection, bool) {
	if !f.Settled() {
		return "", false
	}
	switch {
	case *f.GoalsHome > *f.GoalsAway:
		return SelectionHome, true
	case *f.GoalsHome < *f.GoalsAway:
		return SelectionAway, true
	default:
		return SelectionDraw, true
	}
}

// TotalGoals returns the combined goal count of a settled fixture.
func (f *Fixture) TotalGoals() int {
	if !f.Settled() {
		return 0
	}
	return *f.GoalsHome + *f.GoalsAway
}

// BothTeamsScored reports whether both sides found the net.
func (f *Fixture) BothTeamsScored() bool {
	return f.Settled() && *f.GoalsHome > 0 && *f.GoalsAway > 0
}

// HoursApart returns the absolute kickoff distance to another fixture.
func (f *Fixture) HoursApart(other *Fixture) float64 {
	d := f.Kickoff.Sub(other.Kickoff).Hours()
	if d < 0 {
		return -d
	}
	return d
}
