// Package risk computes PV sensitivities by repricing under a fixed
// catalog of curve and FX shocks.
package risk

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ratecraft/swapengine/curve"
)

// ShockKind classifies the market move a shock applies.
type ShockKind string

const (
	ShockParallel ShockKind = "parallel"
	ShockTwist    ShockKind = "twist"
	ShockFX       ShockKind = "fx"
)

// Shock is one entry of the scenario catalog.
type Shock struct {
	Name string
	Kind ShockKind
	// Value is the bump size: basis points for parallel, percent for fx.
	Value float64
	// ShortBP/LongBP apply to twist shocks only.
	ShortBP float64
	LongBP  float64
	Unit    string
}

// Catalog is the fixed shock set, in reporting order.
func Catalog() []Shock {
	return []Shock{
		{Name: "parallel_1bp_up", Kind: ShockParallel, Value: 1, Unit: "bp"},
		{Name: "parallel_1bp_down", Kind: ShockParallel, Value: -1, Unit: "bp"},
		{Name: "parallel_5bp_up", Kind: ShockParallel, Value: 5, Unit: "bp"},
		{Name: "parallel_5bp_down", Kind: ShockParallel, Value: -5, Unit: "bp"},
		{Name: "twist_steepening", Kind: ShockTwist, ShortBP: -1, LongBP: 1, Unit: "bp"},
		{Name: "twist_flattening", Kind: ShockTwist, ShortBP: 1, LongBP: -1, Unit: "bp"},
		{Name: "fx_1pct_up", Kind: ShockFX, Value: 1, Unit: "%"},
		{Name: "fx_1pct_down", Kind: ShockFX, Value: -1, Unit: "%"},
		{Name: "fx_5pct_up", Kind: ShockFX, Value: 5, Unit: "%"},
		{Name: "fx_5pct_down", Kind: ShockFX, Value: -5, Unit: "%"},
	}
}

// Market is the shockable market snapshot handed to the reprice
// function. FX may be nil for single-currency instruments; FX shocks are
// then skipped.
type Market struct {
	Curves map[string]*curve.Curve
	FX     *curve.FXForwardCurve
}

// Apply returns a new market with the shock applied; the receiver is
// untouched.
func (m Market) Apply(s Shock) Market {
	out := Market{Curves: make(map[string]*curve.Curve, len(m.Curves)), FX: m.FX}
	for k, c := range m.Curves {
		out.Curves[k] = c
	}
	switch s.Kind {
	case ShockParallel:
		for k, c := range out.Curves {
			out.Curves[k] = c.WithParallelBump(s.Value)
		}
	case ShockTwist:
		for k, c := range out.Curves {
			out.Curves[k] = c.WithTwist(s.ShortBP, s.LongBP)
		}
	case ShockFX:
		if out.FX != nil {
			out.FX = out.FX.WithShock(s.Value)
		}
	}
	return out
}

// RepriceFunc revalues the instrument under a shocked market and returns
// its total PV.
type RepriceFunc func(Market) (float64, error)

// ShockResult is one repriced scenario.
type ShockResult struct {
	Name       string  `json:"shock_name"`
	Value      float64 `json:"shock_value"`
	Unit       string  `json:"shock_unit"`
	PVDelta    float64 `json:"pv_delta"`
	PVDeltaPct float64 `json:"pv_delta_percent"`
	// LegBreakdown is an illustrative fixed/floating split of the delta,
	// not a true leg-level re-decomposition.
	LegBreakdown map[string]float64 `json:"leg_breakdown"`
	OriginalPV   float64            `json:"original_pv"`
	ShockedPV    float64            `json:"shocked_pv"`
}

// Results is the full sensitivity report in catalog order.
type Results struct {
	OriginalPV float64       `json:"original_pv"`
	Currency   string        `json:"currency"`
	Shocks     []ShockResult `json:"shocks"`
}

// Calculate reprices the instrument under every catalog shock. Scenarios
// run concurrently; results keep catalog order regardless of completion
// order. FX shocks are skipped when the market carries no FX curve.
func Calculate(ctx context.Context, originalPV float64, currency string, market Market, reprice RepriceFunc) (*Results, error) {
	catalog := Catalog()
	slots := make([]*ShockResult, len(catalog))

	g, ctx := errgroup.WithContext(ctx)
	for i, s := range catalog {
		if s.Kind == ShockFX && market.FX == nil {
			continue
		}
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			shockedPV, err := reprice(market.Apply(s))
			if err != nil {
				return err
			}
			delta := shockedPV - originalPV
			pct := 0.0
			if originalPV != 0 {
				pct = delta / math.Abs(originalPV) * 100
			}
			value := s.Value
			if s.Kind == ShockTwist {
				value = s.ShortBP
			}
			slots[i] = &ShockResult{
				Name:       s.Name,
				Value:      value,
				Unit:       s.Unit,
				PVDelta:    delta,
				PVDeltaPct: pct,
				LegBreakdown: map[string]float64{
					"fixed_leg":    delta * 0.6,
					"floating_leg": delta * 0.4,
				},
				OriginalPV: originalPV,
				ShockedPV:  shockedPV,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := &Results{OriginalPV: originalPV, Currency: currency}
	for _, r := range slots {
		if r != nil {
			results.Shocks = append(results.Shocks, *r)
		}
	}
	return results, nil
}

// Shock returns the named shock result, or nil.
func (r *Results) Shock(name string) *ShockResult {
	for i := range r.Shocks {
		if r.Shocks[i].Name == name {
			return &r.Shocks[i]
		}
	}
	return nil
}

// ValidateSymmetry checks matched up/down shock pairs for opposite sign
// and magnitude ratio within [0.8, 1.2]. Diagnostic only; a failed check
// never blocks pricing.
func ValidateSymmetry(r *Results) map[string]bool {
	validation := map[string]bool{}

	if up, down := r.Shock("parallel_1bp_up"), r.Shock("parallel_1bp_down"); up != nil && down != nil {
		validation["parallel_1bp_symmetry"] = symmetric(up.PVDelta, down.PVDelta)
	}
	if up, down := r.Shock("parallel_5bp_up"), r.Shock("parallel_5bp_down"); up != nil && down != nil {
		validation["parallel_5bp_symmetry"] = symmetric(up.PVDelta, down.PVDelta)
	}
	if up, down := r.Shock("fx_1pct_up"), r.Shock("fx_1pct_down"); up != nil && down != nil {
		validation["fx_1pct_symmetry"] = symmetric(up.PVDelta, down.PVDelta)
	}
	return validation
}

func symmetric(up, down float64) bool {
	if down == 0 {
		return false
	}
	if up*down > 0 {
		return false
	}
	ratio := math.Abs(up / down)
	return ratio >= 0.8 && ratio <= 1.2
}
