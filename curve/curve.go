// Package curve models discount and forward curves bootstrapped from
// tenor/rate quotes.
package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ratecraft/swapengine/utils"
)

var (
	// ErrCurveData is returned when a bootstrap is given an empty or
	// malformed quote list.
	ErrCurveData = errors.New("curve: empty or malformed quote list")
	// ErrInvalidTenor is returned for an unrecognized tenor label.
	ErrInvalidTenor = errors.New("curve: invalid tenor")
)

// Quote is a single market quote: a tenor label and a zero rate in decimal
// (0.05 == 5%).
type Quote struct {
	Tenor string
	Rate  float64
}

// Node is one curve pillar.
type Node struct {
	Tenor    string
	Maturity time.Time
	// Years is the year fraction from as-of on the tenor day basis.
	Years float64
	Rate  float64
	DF    float64
}

// Curve is an immutable, date-ordered set of nodes anchored at an as-of
// date. Shocked variants are new Curve values, never mutations.
type Curve struct {
	id       string
	currency string
	asOf     time.Time
	nodes    []Node
}

// Bootstrap builds a curve from zero-rate quotes using continuous
// compounding: DF = exp(-rate * t). A production bootstrap would solve
// against deposit/swap instruments; this engine deliberately uses the
// zero-rate shortcut so outputs stay reproducible.
func Bootstrap(asOf time.Time, id, currency string, quotes []Quote) (*Curve, error) {
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: no quotes for %s", ErrCurveData, id)
	}
	nodes := make([]Node, 0, len(quotes))
	for _, q := range quotes {
		days, err := TenorDays(q.Tenor)
		if err != nil {
			return nil, fmt.Errorf("%w: curve %s: %w", ErrCurveData, id, err)
		}
		years := float64(days) / 365.0
		nodes = append(nodes, Node{
			Tenor:    q.Tenor,
			Maturity: asOf.AddDate(0, 0, days),
			Years:    years,
			Rate:     q.Rate,
			DF:       math.Exp(-q.Rate * years),
		})
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Maturity.Before(nodes[j].Maturity)
	})
	return &Curve{id: id, currency: currency, asOf: asOf, nodes: nodes}, nil
}

// ID returns the curve identifier.
func (c *Curve) ID() string { return c.id }

// Currency returns the curve currency.
func (c *Curve) Currency() string { return c.currency }

// AsOf returns the curve's as-of date.
func (c *Curve) AsOf() time.Time { return c.asOf }

// Nodes returns a copy of the curve pillars.
func (c *Curve) Nodes() []Node {
	out := make([]Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// DF returns the discount factor for an arbitrary date: 1.0 at or before
// as-of, flat extrapolation beyond the first/last pillar, and linear
// interpolation by day weight in between.
func (c *Curve) DF(t time.Time) float64 {
	return c.interpolate(t, func(n Node) float64 { return n.DF }, 1.0)
}

// ForwardRate returns the curve's rate field interpolated at a date.
// Dates at or before as-of return 0.
func (c *Curve) ForwardRate(t time.Time) float64 {
	return c.interpolate(t, func(n Node) float64 { return n.Rate }, 0.0)
}

func (c *Curve) interpolate(t time.Time, field func(Node) float64, atAsOf float64) float64 {
	if !t.After(c.asOf) {
		return atAsOf
	}
	first, last := c.nodes[0], c.nodes[len(c.nodes)-1]
	if !t.After(first.Maturity) {
		return field(first)
	}
	if !t.Before(last.Maturity) {
		return field(last)
	}

	// First pillar at or after t.
	i := sort.Search(len(c.nodes), func(i int) bool {
		return !c.nodes[i].Maturity.Before(t)
	})
	before, after := c.nodes[i-1], c.nodes[i]

	totalDays := utils.Days(before.Maturity, after.Maturity)
	if totalDays == 0 {
		return field(before)
	}
	daysBefore := utils.Days(before.Maturity, t)
	daysAfter := utils.Days(t, after.Maturity)
	return field(before)*(daysAfter/totalDays) + field(after)*(daysBefore/totalDays)
}

// WithParallelBump returns a new curve with every pillar's zero rate
// shifted by bp basis points; discount factors are re-derived from the
// bumped rates.
func (c *Curve) WithParallelBump(bp float64) *Curve {
	bump := bp / 10000.0
	nodes := make([]Node, len(c.nodes))
	for i, n := range c.nodes {
		n.Rate += bump
		n.DF = math.Exp(-n.Rate * n.Years)
		nodes[i] = n
	}
	return &Curve{
		id:       fmt.Sprintf("%s_parallel_%+gbp", c.id, bp),
		currency: c.currency,
		asOf:     c.asOf,
		nodes:    nodes,
	}
}

// WithTwist returns a new curve bumped by shortBP at tenors of 2Y and
// below, longBP at 10Y and above, and a linear blend in between.
func (c *Curve) WithTwist(shortBP, longBP float64) *Curve {
	const shortYears, longYears = 2.0, 10.0
	nodes := make([]Node, len(c.nodes))
	for i, n := range c.nodes {
		var bp float64
		switch {
		case n.Years <= shortYears:
			bp = shortBP
		case n.Years >= longYears:
			bp = longBP
		default:
			w := (n.Years - shortYears) / (longYears - shortYears)
			bp = shortBP + w*(longBP-shortBP)
		}
		n.Rate += bp / 10000.0
		n.DF = math.Exp(-n.Rate * n.Years)
		nodes[i] = n
	}
	return &Curve{
		id:       fmt.Sprintf("%s_twist_%+g_%+gbp", c.id, shortBP, longBP),
		currency: c.currency,
		asOf:     c.asOf,
		nodes:    nodes,
	}
}
