package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OddsQuote holds one bookmaker's prices for a fixture across all supported
// markets. One row exists per (fixture, source); each price column is updated
// independently, last write wins per field.
type OddsQuote struct {
	FixtureID  int64            `db:"fixture_id" json:"fixture_id" validate:"required"`
	SourceID   int64            `db:"source_id" json:"source_id" validate:"required"`
	SourceName string           `db:"source_name" json:"source_name"`
	Home       *decimal.Decimal `db:"home_price" json:"home_price"`
	Draw       *decimal.Decimal `db:"draw_price" json:"draw_price"`
	Away       *decimal.Decimal `db:"away_price" json:"away_price"`
	Over25     *decimal.Decimal `db:"over25_price" json:"over25_price"`
	Under25    *decimal.Decimal `db:"under25_price" json:"under25_price"`
	BTTSYes    *decimal.Decimal `db:"btts_yes_price" json:"btts_yes_price"`
	BTTSNo     *decimal.Decimal `db:"btts_no_price" json:"btts_no_price"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// Price returns the decimal price for a selection as a float, or 0 when the
// price is missing.
func (q *OddsQuote) Price(market Market, sel Selection) float64 {
	return priceFloat(q.price(market, sel))
}

// HasMatchOdds reports whether all three 1X2 prices are present.
func (q *OddsQuote) HasMatchOdds() bool {
	return q.Home != nil && q.Draw != nil && q.Away != nil
}

// MatchOddsPrices returns the 1X2 prices as floats (0 when missing).
func (q *OddsQuote) MatchOddsPrices() (home, draw, away float64) {
	return priceFloat(q.Home), priceFloat(q.Draw), priceFloat(q.Away)
}

func (q *OddsQuote) price(market Market, sel Selection) *decimal.Decimal {
	switch market {
	case MarketMatchOdds:
		switch sel {
		case SelectionHome:
			return q.Home
		case SelectionDraw:
			return q.Draw
		case SelectionAway:
			return q.Away
		}
	case MarketOverUnder:
		switch sel {
		case SelectionOver:
			return q.Over25
		case SelectionUnder:
			return q.Under25
		}
	case MarketBTTS:
		switch sel {
		case SelectionYes:
			return q.BTTSYes
		case SelectionNo:
			return q.BTTSNo
		}
	}
	return nil
}

func priceFloat(d *decimal.Decimal) float64 {
	if d == nil {
		return 0
	}
	return d.InexactFloat64()
}
