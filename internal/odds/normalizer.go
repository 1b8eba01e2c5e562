// Package odds converts bookmaker prices into de-vigged probabilities and
// betting-edge metrics.
package odds

import (
	"github.com/yourusername/match-oracle/internal/models"
)

// ImpliedProbability returns the probability encoded by a decimal price
// before removing bookmaker margin. Non-positive prices yield 0.
func ImpliedProbability(price float64) float64 {
	if price <= 0 {
		return 0
	}
	return 1.0 / price
}

// NormalizeOverround strips the bookmaker margin from a 1X2 price triple by
// dividing each implied probability by their sum. When every input is
// invalid it returns a degenerate uniform split.
func NormalizeOverround(priceHome, priceDraw, priceAway float64) models.OutcomeProbs {
	ph := ImpliedProbability(priceHome)
	pd := ImpliedProbability(priceDraw)
	pa := ImpliedProbability(priceAway)

	sum := ph + pd + pa
	if sum <= 0 {
		return models.OutcomeProbs{Home: 1.0 / 3, Draw: 1.0 / 3, Away: 1.0 / 3}
	}
	return models.OutcomeProbs{Home: ph / sum, Draw: pd / sum, Away: pa / sum}
}

// NormalizeTwoWay strips the margin from a two-outcome market.
func NormalizeTwoWay(priceA, priceB float64) (float64, float64) {
	pa := ImpliedProbability(priceA)
	pb := ImpliedProbability(priceB)

	sum := pa + pb
	if sum <= 0 {
		return 0.5, 0.5
	}
	return pa / sum, pb / sum
}

// Overround returns the bookmaker margin of a 1X2 price triple: the sum of
// implied probabilities minus 1. Missing prices contribute nothing.
func Overround(priceHome, priceDraw, priceAway float64) float64 {
	return ImpliedProbability(priceHome) + ImpliedProbability(priceDraw) + ImpliedProbability(priceAway) - 1.0
}

// KellyFraction returns the Kelly-optimal stake fraction for a back bet,
// clipped at zero. A price at or below evens or a non-positive probability
// yields no stake.
func KellyFraction(probability, price float64) float64 {
	if price <= 1.0 || probability <= 0 {
		return 0
	}
	b := price - 1.0
	q := 1.0 - probability
	f := (b*probability - q) / b
	if f < 0 {
		return 0
	}
	return f
}

// IsValue reports whether probability times price clears the value
// threshold.
func IsValue(probability, price, threshold float64) bool {
	if price < 0 {
		price = 0
	}
	return probability*price >= threshold
}

// ExpectedValue returns probability times price, the per-unit return of the
// selection. Nil is returned when the price is missing or non-positive.
func ExpectedValue(probability, price float64) *float64 {
	if price <= 0 {
		return nil
	}
	ev := probability * price
	return &ev
}

// BestPrices returns the highest quoted price per selection of a market
// across all sources. Liquidity and source credibility are ignored;
// selections nobody priced are absent from the result.
func BestPrices(quotes []*models.OddsQuote, market models.Market) map[models.Selection]float64 {
	best := make(map[models.Selection]float64)
	for _, q := range quotes {
		for _, sel := range market.Selections() {
			price := q.Price(market, sel)
			if price <= 0 {
				continue
			}
			if price > best[sel] {
				best[sel] = price
			}
		}
	}
	return best
}

// LowestOverroundQuote picks the quote with the smallest 1X2 margin, the
// closest available proxy for the sharpest source. Quotes missing any 1X2
// price are skipped; nil when nothing qualifies.
func LowestOverroundQuote(quotes []*models.OddsQuote) *models.OddsQuote {
	var best *models.OddsQuote
	bestOverround := 0.0
	for _, q := range quotes {
		if !q.HasMatchOdds() {
			continue
		}
		h, d, a := q.MatchOddsPrices()
		ov := Overround(h, d, a)
		if best == nil || ov < bestOverround {
			best = q
			bestOverround = ov
		}
	}
	return best
}
