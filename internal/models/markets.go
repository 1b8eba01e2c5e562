// Package models defines the row shapes shared with the ingestion and
// dashboard collaborators through the relational store.
package models

import "math"

// Market identifies a betting market.
type Market string

const (
	MarketMatchOdds Market = "1X2"
	MarketOverUnder Market = "OVER_UNDER_2_5"
	MarketBTTS      Market = "BOTH_TEAMS_SCORE"
)

// Selection identifies an outcome within a market.
type Selection string

const (
	SelectionHome Selection = "H"
	SelectionDraw Selection = "D"
	SelectionAway Selection = "A"

	SelectionOver  Selection = "OVER"
	SelectionUnder Selection = "UNDER"

	SelectionYes Selection = "YES"
	SelectionNo  Selection = "NO"
)

// MethodRating and MethodFused are the built-in prediction methods. Odds
// sources contribute additional method tags configured per source.
const (
	MethodRating = "RATING"
	MethodFused  = "FUSED"
)

// Selections returns the ordered outcome selections of a market.
func (m Market) Selections() []Selection {
	switch m {
	case MarketMatchOdds:
		return []Selection{SelectionHome, SelectionDraw, SelectionAway}
	case MarketOverUnder:
		return []Selection{SelectionOver, SelectionUnder}
	case MarketBTTS:
		return []Selection{SelectionYes, SelectionNo}
	default:
		return nil
	}
}

// OutcomeProbs is a 1X2 probability distribution.
type OutcomeProbs struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Sum returns the total probability mass.
func (p OutcomeProbs) Sum() float64 {
	return p.Home + p.Draw + p.Away
}

// Distance returns the Euclidean distance to another distribution in
// probability space.
func (p OutcomeProbs) Distance(q OutcomeProbs) float64 {
	dh := p.Home - q.Home
	dd := p.Draw - q.Draw
	da := p.Away - q.Away
	return math.Sqrt(dh*dh + dd*dd + da*da)
}

// Get returns the probability for a 1X2 selection.
func (p OutcomeProbs) Get(sel Selection) float64 {
	switch sel {
	case SelectionHome:
		return p.Home
	case SelectionDraw:
		return p.Draw
	case SelectionAway:
		return p.Away
	default:
		return 0
	}
}
