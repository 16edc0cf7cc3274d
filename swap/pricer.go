package swap

import (
	"fmt"
	"math"
	"strconv"

	"github.com/ratecraft/swapengine/curve"
)

// CurveSet is the market data for a single-currency swap.
type CurveSet struct {
	Discount *curve.Curve
	Forward  *curve.Curve
}

// CCSCurves is the full market data for a cross-currency swap: each leg's
// discount and forward curves plus the FX forward curve between the two
// currencies.
type CCSCurves struct {
	Disc1 *curve.Curve
	Fwd1  *curve.Curve
	Disc2 *curve.Curve
	Fwd2  *curve.Curve
	FX    *curve.FXForwardCurve
}

// MarketData is the keyed curve container used by the generic Price entry
// point: per-currency discount and forward curves plus an optional FX
// forward curve.
type MarketData struct {
	Discount map[string]*curve.Curve
	Forward  map[string]*curve.Curve
	FX       *curve.FXForwardCurve
}

// Price dispatches over the sealed instrument set.
func Price(inst Instrument, md MarketData, cfg Config) (*PVBreakdown, error) {
	switch spec := inst.(type) {
	case IRSSpec:
		return PriceIRS(spec, CurveSet{
			Discount: md.Discount[spec.Currency],
			Forward:  md.Forward[spec.Currency],
		}, cfg)
	case CCSSpec:
		return PriceCCS(spec, CCSCurves{
			Disc1: md.Discount[spec.Leg1.Currency],
			Fwd1:  md.Forward[spec.Leg1.Currency],
			Disc2: md.Discount[spec.Leg2.Currency],
			Fwd2:  md.Forward[spec.Leg2.Currency],
			FX:    md.FX,
		}, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown instrument kind %q", ErrInvalidSpec, inst.Kind())
	}
}

// PriceIRS prices a fixed-vs-floating swap. Net PV is floating minus
// fixed for a pay-fixed holder, fixed minus floating otherwise.
func PriceIRS(spec IRSSpec, curves CurveSet, cfg Config) (*PVBreakdown, error) {
	bd, err := priceIRS(spec, curves, cfg)
	if err != nil {
		asOf := spec.Effective
		if curves.Discount != nil {
			asOf = curves.Discount.AsOf()
		}
		return nil, &PricingError{Instrument: spec.ID, AsOf: asOf, Err: err}
	}
	return bd, nil
}

func priceIRS(spec IRSSpec, curves CurveSet, cfg Config) (*PVBreakdown, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if curves.Discount == nil {
		return nil, fmt.Errorf("%w: discount curve for %s", ErrMissingCurve, spec.Currency)
	}
	if spec.FixedRate == nil {
		return nil, fmt.Errorf("%w: fixed rate must be resolved before pricing", ErrInvalidSpec)
	}
	fixedRate := *spec.FixedRate
	asOf := curves.Discount.AsOf()

	fixedSched, err := buildLegSchedule(spec.Effective, spec.Maturity, spec.Fixed)
	if err != nil {
		return nil, err
	}
	floatSched, err := buildLegSchedule(spec.Effective, spec.Maturity, spec.Floating)
	if err != nil {
		return nil, err
	}

	lineage := map[string]string{
		"pricing_method": "dcf_zero_curve",
		"model_version":  cfg.ModelVersion,
		"projection":     string(cfg.Projection),
		"notional":       strconv.FormatFloat(spec.Notional, 'g', -1, 64),
		"fixed_rate":     strconv.FormatFloat(fixedRate, 'g', -1, 64),
		"pay_fixed":      strconv.FormatBool(spec.PayFixed),
		"effective":      spec.Effective.Format("2006-01-02"),
		"maturity":       spec.Maturity.Format("2006-01-02"),
	}

	var floatPV float64
	var floatFlows []Cashflow
	switch {
	case curves.Forward != nil:
		floatPV, floatFlows, err = floatingLegPV(floatSched, spec.Notional, curves.Discount, curves.Forward, cfg.Projection)
		if err != nil {
			return nil, err
		}
	case cfg.AllowParFallback:
		// Par-swap approximation: with no forward curve the floating leg
		// values at notional. Always flagged in lineage, never silent.
		floatPV = spec.Notional
		lineage["par_floating_fallback"] = "true"
	default:
		return nil, fmt.Errorf("%w: forward curve for %s", ErrMissingCurve, spec.Currency)
	}

	fixedPV, fixedFlows := fixedLegPV(fixedSched, spec.Notional, fixedRate, curves.Discount)

	var netPV float64
	if spec.PayFixed {
		netPV = floatPV - fixedPV
	} else {
		netPV = fixedPV - floatPV
	}

	curveIDs := map[string]string{"discount": curves.Discount.ID()}
	if curves.Forward != nil {
		curveIDs["forward"] = curves.Forward.ID()
	}

	bd := &PVBreakdown{
		TotalPV:  netPV,
		Currency: spec.Currency,
		Legs: []LegResult{
			{Name: "Fixed Leg", Currency: spec.Currency, PV: fixedPV, PVReporting: fixedPV, Cashflows: fixedFlows},
			{Name: "Floating Leg", Currency: spec.Currency, PV: floatPV, PVReporting: floatPV, Cashflows: floatFlows},
		},
		AsOf:     asOf,
		CurveIDs: curveIDs,
		Lineage:  lineage,
	}
	bd.LineageHash = lineageHash(spec, asOf, curveIDs, lineage)

	if cfg.ComputePV01 {
		pv01, err := computePV01(spec, curves, cfg, netPV)
		if err != nil {
			return nil, err
		}
		bd.Sensitivities = append(bd.Sensitivities, Sensitivity{
			Name:        "PV01",
			Value:       pv01,
			Description: "PV change for a +1bp parallel shift of both curves",
		})
	}
	return bd, nil
}

// computePV01 reprices under a +1bp parallel bump of both curves. The
// recursive call disables PV01 to terminate.
func computePV01(spec IRSSpec, curves CurveSet, cfg Config, basePV float64) (float64, error) {
	bumped := CurveSet{Discount: curves.Discount.WithParallelBump(1)}
	if curves.Forward != nil {
		bumped.Forward = curves.Forward.WithParallelBump(1)
	}
	cfg.ComputePV01 = false
	shocked, err := priceIRS(spec, bumped, cfg)
	if err != nil {
		return 0, err
	}
	return shocked.TotalPV - basePV, nil
}

// PriceCCS prices a floating-for-floating cross-currency swap. Each leg
// is priced against its own currency's curves; leg 2's PV is converted to
// the reporting currency (leg 1's) at the FX spot rate.
func PriceCCS(spec CCSSpec, curves CCSCurves, cfg Config) (*PVBreakdown, error) {
	bd, err := priceCCS(spec, curves, cfg)
	if err != nil {
		asOf := spec.Effective
		if curves.Disc1 != nil {
			asOf = curves.Disc1.AsOf()
		}
		return nil, &PricingError{Instrument: spec.ID, AsOf: asOf, Err: err}
	}
	return bd, nil
}

func priceCCS(spec CCSSpec, curves CCSCurves, cfg Config) (*PVBreakdown, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if curves.Disc1 == nil || curves.Fwd1 == nil {
		return nil, fmt.Errorf("%w: curves for %s", ErrMissingCurve, spec.Leg1.Currency)
	}
	if curves.Disc2 == nil || curves.Fwd2 == nil {
		return nil, fmt.Errorf("%w: curves for %s", ErrMissingCurve, spec.Leg2.Currency)
	}
	if curves.FX == nil {
		return nil, fmt.Errorf("%w: fx forward curve %s/%s", ErrMissingCurve, spec.Leg1.Currency, spec.Leg2.Currency)
	}
	asOf := curves.Disc1.AsOf()

	sched1, err := buildLegSchedule(spec.Effective, spec.Maturity, spec.Leg1.Terms)
	if err != nil {
		return nil, err
	}
	sched2, err := buildLegSchedule(spec.Effective, spec.Maturity, spec.Leg2.Terms)
	if err != nil {
		return nil, err
	}

	pv1, flows1, err := floatingLegPV(sched1, spec.Leg1.Notional, curves.Disc1, curves.Fwd1, cfg.Projection)
	if err != nil {
		return nil, err
	}
	pv2, flows2, err := floatingLegPV(sched2, spec.Leg2.Notional, curves.Disc2, curves.Fwd2, cfg.Projection)
	if err != nil {
		return nil, err
	}

	pv2Reporting, err := curves.FX.Convert(pv2, spec.Leg2.Currency, spec.Leg1.Currency, asOf)
	if err != nil {
		return nil, err
	}
	netPV := pv1 + pv2Reporting

	curveIDs := map[string]string{
		"disc_" + spec.Leg1.Currency: curves.Disc1.ID(),
		"fwd_" + spec.Leg1.Currency:  curves.Fwd1.ID(),
		"disc_" + spec.Leg2.Currency: curves.Disc2.ID(),
		"fwd_" + spec.Leg2.Currency:  curves.Fwd2.ID(),
		"fx":                         curves.FX.Pair().String(),
	}
	lineage := map[string]string{
		"pricing_method": "dcf_zero_curve_fx",
		"model_version":  cfg.ModelVersion,
		"projection":     string(cfg.Projection),
		"notional_leg1":  strconv.FormatFloat(spec.Leg1.Notional, 'g', -1, 64),
		"notional_leg2":  strconv.FormatFloat(spec.Leg2.Notional, 'g', -1, 64),
		"fx_spot":        strconv.FormatFloat(curves.FX.Spot(), 'g', -1, 64),
		"effective":      spec.Effective.Format("2006-01-02"),
		"maturity":       spec.Maturity.Format("2006-01-02"),
	}

	// Analytic FX sensitivity: 1% of the leg 2 notional expressed in the
	// reporting currency, antisymmetric by construction.
	fxExposure, err := curves.FX.Convert(math.Abs(spec.Leg2.Notional)*0.01, spec.Leg2.Currency, spec.Leg1.Currency, asOf)
	if err != nil {
		return nil, err
	}

	bd := &PVBreakdown{
		TotalPV:  netPV,
		Currency: spec.Leg1.Currency,
		Legs: []LegResult{
			{Name: "Leg 1 (" + spec.Leg1.Currency + ")", Currency: spec.Leg1.Currency, PV: pv1, PVReporting: pv1, Cashflows: flows1},
			{Name: "Leg 2 (" + spec.Leg2.Currency + ")", Currency: spec.Leg2.Currency, PV: pv2, PVReporting: pv2Reporting, Cashflows: flows2},
		},
		Sensitivities: []Sensitivity{
			{Name: "FX_PLUS_1PCT", Value: fxExposure, Description: "PV change for a +1% FX shock"},
			{Name: "FX_MINUS_1PCT", Value: -fxExposure, Description: "PV change for a -1% FX shock"},
		},
		AsOf:     asOf,
		CurveIDs: curveIDs,
		Lineage:  lineage,
	}
	bd.LineageHash = lineageHash(spec, asOf, curveIDs, lineage)
	return bd, nil
}
