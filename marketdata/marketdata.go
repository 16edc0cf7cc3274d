// Package marketdata provides synthetic curve and FX presets for testing
// and demo pricing runs.
package marketdata

import (
	"time"

	"github.com/ratecraft/swapengine/curve"
	"github.com/ratecraft/swapengine/swap"
)

// standardTenors are the pillars shared by all synthetic curves.
var standardTenors = []string{"3M", "6M", "1Y", "2Y", "3Y", "5Y", "7Y", "10Y"}

// FlatQuotes returns a flat zero-rate quote set on the standard pillars.
func FlatQuotes(rate float64) []curve.Quote {
	quotes := make([]curve.Quote, len(standardTenors))
	for i, t := range standardTenors {
		quotes[i] = curve.Quote{Tenor: t, Rate: rate}
	}
	return quotes
}

// USDQuotes is the synthetic USD zero curve: flat 5%.
func USDQuotes() []curve.Quote { return FlatQuotes(0.05) }

// EURQuotes is the synthetic EUR zero curve: flat 4%.
func EURQuotes() []curve.Quote { return FlatQuotes(0.04) }

// EURUSDSpot is the synthetic EURUSD spot rate.
const EURUSDSpot = 1.08

// DefaultMarket builds the full synthetic market snapshot: USD and EUR
// discount/forward curves plus a flat EURUSD forward curve.
func DefaultMarket(asOf time.Time) (swap.MarketData, error) {
	usdDisc, err := curve.Bootstrap(asOf, "USD_OIS", "USD", USDQuotes())
	if err != nil {
		return swap.MarketData{}, err
	}
	usdFwd, err := curve.Bootstrap(asOf, "USD_FWD", "USD", USDQuotes())
	if err != nil {
		return swap.MarketData{}, err
	}
	eurDisc, err := curve.Bootstrap(asOf, "EUR_OIS", "EUR", EURQuotes())
	if err != nil {
		return swap.MarketData{}, err
	}
	eurFwd, err := curve.Bootstrap(asOf, "EUR_FWD", "EUR", EURQuotes())
	if err != nil {
		return swap.MarketData{}, err
	}
	fx, err := curve.NewFXForwardCurve(asOf, curve.Pair{Base: "EUR", Quote: "USD"}, EURUSDSpot, nil)
	if err != nil {
		return swap.MarketData{}, err
	}
	return swap.MarketData{
		Discount: map[string]*curve.Curve{"USD": usdDisc, "EUR": eurDisc},
		Forward:  map[string]*curve.Curve{"USD": usdFwd, "EUR": eurFwd},
		FX:       fx,
	}, nil
}
