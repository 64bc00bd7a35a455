package domain

import (
	"math"
	"time"
)

// PriceReading is a single quote returned by the price endpoint
type PriceReading struct {
	Timestamp time.Time `json:"timestamp"`
	Asset     string    `json:"asset"`
	PriceUSD  float64   `json:"price_usd"`
}

// NewPriceReading creates a reading from an epoch-millisecond timestamp
func NewPriceReading(epochMillis int64, asset string, priceUSD float64) PriceReading {
	return PriceReading{
		Timestamp: time.UnixMilli(epochMillis),
		Asset:     asset,
		PriceUSD:  priceUSD,
	}
}

// PriceView is a reading together with its percentage changes.
// A nil change means there was nothing to compare against.
type PriceView struct {
	Reading          PriceReading
	ChangeVsPrevious *float64
	ChangeVsBase     *float64
}

// Derive computes the percentage changes of current against the previous
// reading and the base price. Either reference may be nil.
func Derive(current PriceReading, previous *PriceReading, base *float64) PriceView {
	view := PriceView{Reading: current}

	if previous != nil {
		view.ChangeVsPrevious = PercentChange(current.PriceUSD, previous.PriceUSD)
	}
	if base != nil {
		view.ChangeVsBase = PercentChange(current.PriceUSD, *base)
	}

	return view
}

// PercentChange returns 100*(current-reference)/reference, or nil when the
// reference is zero or the result is not a finite number.
func PercentChange(current, reference float64) *float64 {
	if reference == 0 {
		return nil
	}

	change := 100 * (current - reference) / reference
	if math.IsNaN(change) || math.IsInf(change, 0) {
		return nil
	}

	return &change
}
