package entity

import (
	"math"

	"github.com/surgegroup2024/stock-fortress-sub000/internal/domain/value"
)

type Quote struct {
	Price   float64 `json:"price"`
	Change  float64 `json:"change"`
	Percent float64 `json:"percent"`
}

// NewQuote derives change and percent from the previous close, rounding to
// cents. Missing data yields a zero quote.
func NewQuote(price, previousClose float64) Quote {
	if price == 0 || previousClose == 0 {
		return Quote{}
	}

	change := price - previousClose

	return Quote{
		Price:   round2(price),
		Change:  round2(change),
		Percent: round2(change / previousClose * 100), //nolint:mnd
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100 //nolint:mnd
}

// PriceAlert is raised when a watched ticker moves past the threshold.
type PriceAlert struct {
	Ticker value.Ticker
	Quote  Quote
}
