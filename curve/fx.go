package curve

import (
	"fmt"
	"sort"
	"time"

	"github.com/ratecraft/swapengine/utils"
)

// Pair is an FX quote convention: one unit of Base buys Rate units of
// Quote. The direction of any conversion is resolved from the pair, never
// inferred from magnitude.
type Pair struct {
	Base  string
	Quote string
}

// String renders the pair as "EURUSD".
func (p Pair) String() string { return p.Base + p.Quote }

// FXQuote is a forward rate at a tenor.
type FXQuote struct {
	Tenor string
	Rate  float64
}

type fxPoint struct {
	maturity time.Time
	rate     float64
}

// FXForwardCurve holds a spot rate and forward pillars for one pair.
type FXForwardCurve struct {
	pair   Pair
	asOf   time.Time
	spot   float64
	points []fxPoint
}

// NewFXForwardCurve builds an FX forward curve. Forward quotes are
// optional; with none, every lookup returns spot. Tenor maturities use the
// same day-based approximation as rate curves.
func NewFXForwardCurve(asOf time.Time, pair Pair, spot float64, forwards []FXQuote) (*FXForwardCurve, error) {
	if spot <= 0 {
		return nil, fmt.Errorf("%w: non-positive spot %g for %s", ErrCurveData, spot, pair)
	}
	points := make([]fxPoint, 0, len(forwards))
	for _, q := range forwards {
		days, err := TenorDays(q.Tenor)
		if err != nil {
			return nil, fmt.Errorf("%w: fx %s tenor %q", ErrCurveData, pair, q.Tenor)
		}
		points = append(points, fxPoint{maturity: asOf.AddDate(0, 0, days), rate: q.Rate})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].maturity.Before(points[j].maturity)
	})
	return &FXForwardCurve{pair: pair, asOf: asOf, spot: spot, points: points}, nil
}

// Pair returns the quote convention.
func (f *FXForwardCurve) Pair() Pair { return f.pair }

// Spot returns the spot rate.
func (f *FXForwardCurve) Spot() float64 { return f.spot }

// Rate returns the forward rate at a date: spot at or before as-of, the
// last pillar beyond the curve, linear interpolation by days in between.
func (f *FXForwardCurve) Rate(t time.Time) float64 {
	if len(f.points) == 0 || !t.After(f.asOf) {
		return f.spot
	}
	first, last := f.points[0], f.points[len(f.points)-1]
	if !t.After(first.maturity) {
		return first.rate
	}
	if !t.Before(last.maturity) {
		return last.rate
	}
	i := sort.Search(len(f.points), func(i int) bool {
		return !f.points[i].maturity.Before(t)
	})
	before, after := f.points[i-1], f.points[i]
	total := utils.Days(before.maturity, after.maturity)
	if total == 0 {
		return before.rate
	}
	w := utils.Days(before.maturity, t) / total
	return before.rate + w*(after.rate-before.rate)
}

// Convert converts an amount from one currency of the pair to the other
// at the forward rate for date t. Base to quote multiplies; quote to base
// divides; any other currency is an error.
func (f *FXForwardCurve) Convert(amount float64, from, to string, t time.Time) (float64, error) {
	rate := f.Rate(t)
	switch {
	case from == f.pair.Base && to == f.pair.Quote:
		return amount * rate, nil
	case from == f.pair.Quote && to == f.pair.Base:
		return amount / rate, nil
	default:
		return 0, fmt.Errorf("curve: fx pair %s cannot convert %s to %s", f.pair, from, to)
	}
}

// WithShock returns a new curve with spot and every forward scaled by
// (1 + pct/100).
func (f *FXForwardCurve) WithShock(pct float64) *FXForwardCurve {
	factor := 1 + pct/100.0
	points := make([]fxPoint, len(f.points))
	for i, p := range f.points {
		p.rate *= factor
		points[i] = p
	}
	return &FXForwardCurve{pair: f.pair, asOf: f.asOf, spot: f.spot * factor, points: points}
}
