package swap_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ratecraft/swapengine/calendar"
	"github.com/ratecraft/swapengine/curve"
	"github.com/ratecraft/swapengine/daycount"
	"github.com/ratecraft/swapengine/schedule"
	"github.com/ratecraft/swapengine/swap"
)

var asOf = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

func flatQuotes(rate float64) []curve.Quote {
	return []curve.Quote{
		{Tenor: "3M", Rate: rate},
		{Tenor: "6M", Rate: rate},
		{Tenor: "1Y", Rate: rate},
		{Tenor: "2Y", Rate: rate},
		{Tenor: "3Y", Rate: rate},
		{Tenor: "5Y", Rate: rate},
		{Tenor: "7Y", Rate: rate},
		{Tenor: "10Y", Rate: rate},
	}
}

func usdCurves(t *testing.T, rate float64) swap.CurveSet {
	t.Helper()
	disc, err := curve.Bootstrap(asOf, "USD_OIS", "USD", flatQuotes(rate))
	if err != nil {
		t.Fatalf("Bootstrap discount: %v", err)
	}
	fwd, err := curve.Bootstrap(asOf, "USD_FWD", "USD", flatQuotes(rate))
	if err != nil {
		t.Fatalf("Bootstrap forward: %v", err)
	}
	return swap.CurveSet{Discount: disc, Forward: fwd}
}

func usnyQuarterly() swap.LegTerms {
	return swap.LegTerms{
		Frequency:   schedule.Quarterly,
		DayCount:    daycount.ACT360,
		BusinessDay: calendar.ModifiedFollowing,
		Calendar:    calendar.USNY,
	}
}

func testIRS(payFixed bool, fixedRate float64) swap.IRSSpec {
	return swap.IRSSpec{
		ID:            "irs-test",
		Notional:      10_000_000,
		Currency:      "USD",
		FixedRate:     &fixedRate,
		FloatingIndex: "SOFR",
		Effective:     asOf,
		Maturity:      asOf.AddDate(5, 0, 0),
		PayFixed:      payFixed,
		Fixed:         usnyQuarterly(),
		Floating:      usnyQuarterly(),
	}
}

func TestPriceIRSNearPar(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	bd, err := swap.PriceIRS(testIRS(true, 0.05), curves, swap.DefaultConfig())
	if err != nil {
		t.Fatalf("PriceIRS error: %v", err)
	}

	// Fixed at the flat curve rate: net PV is small relative to notional.
	if math.Abs(bd.TotalPV) > 100_000 {
		t.Fatalf("near-par PV too large: %v", bd.TotalPV)
	}
	if len(bd.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(bd.Legs))
	}
	if bd.Legs[0].PV <= 0 || bd.Legs[1].PV <= 0 {
		t.Fatalf("leg PVs must be positive: fixed %v, float %v", bd.Legs[0].PV, bd.Legs[1].PV)
	}
	if got := bd.Legs[1].PV - bd.Legs[0].PV; math.Abs(got-bd.TotalPV) > 1e-9 {
		t.Fatalf("pay-fixed net PV must be float minus fixed: got %v, want %v", bd.TotalPV, got)
	}
	if bd.LineageHash == "" {
		t.Fatal("missing lineage hash")
	}
	if bd.CurveIDs["discount"] != "USD_OIS" || bd.CurveIDs["forward"] != "USD_FWD" {
		t.Fatalf("curve ids not recorded: %v", bd.CurveIDs)
	}
}

func TestPriceIRSPV01Sign(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	bd, err := swap.PriceIRS(testIRS(true, 0.05), curves, swap.DefaultConfig())
	if err != nil {
		t.Fatalf("PriceIRS error: %v", err)
	}
	if len(bd.Sensitivities) != 1 || bd.Sensitivities[0].Name != "PV01" {
		t.Fatalf("expected a single PV01 sensitivity, got %+v", bd.Sensitivities)
	}
	pv01 := bd.Sensitivities[0].Value
	// Pay fixed gains when rates rise; a 5y 10M swap has PV01 in the
	// thousands.
	if pv01 <= 0 {
		t.Fatalf("pay-fixed PV01 must be positive, got %v", pv01)
	}
	if pv01 < 1_000 || pv01 > 10_000 {
		t.Fatalf("PV01 magnitude implausible: %v", pv01)
	}
}

func TestPriceIRSPayReceiveSymmetry(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	cfg := swap.DefaultConfig()
	cfg.ComputePV01 = false

	pay, err := swap.PriceIRS(testIRS(true, 0.04), curves, cfg)
	if err != nil {
		t.Fatalf("PriceIRS pay error: %v", err)
	}
	rec, err := swap.PriceIRS(testIRS(false, 0.04), curves, cfg)
	if err != nil {
		t.Fatalf("PriceIRS receive error: %v", err)
	}
	if math.Abs(pay.TotalPV+rec.TotalPV) > 1e-9 {
		t.Fatalf("pay and receive PVs must negate: %v vs %v", pay.TotalPV, rec.TotalPV)
	}
	// Fixed below the curve: the pay-fixed holder is in the money.
	if pay.TotalPV <= 0 {
		t.Fatalf("pay-fixed at 4%% against a 5%% curve must be positive, got %v", pay.TotalPV)
	}
}

func TestPriceIRSDeterministic(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	cfg := swap.DefaultConfig()

	a, err := swap.PriceIRS(testIRS(true, 0.05), curves, cfg)
	if err != nil {
		t.Fatalf("PriceIRS error: %v", err)
	}
	b, err := swap.PriceIRS(testIRS(true, 0.05), curves, cfg)
	if err != nil {
		t.Fatalf("PriceIRS error: %v", err)
	}
	if a.TotalPV != b.TotalPV {
		t.Fatalf("identical inputs produced different PVs: %v vs %v", a.TotalPV, b.TotalPV)
	}
	if a.LineageHash != b.LineageHash {
		t.Fatalf("identical inputs produced different lineage hashes: %s vs %s", a.LineageHash, b.LineageHash)
	}
}

func TestPriceIRSValidation(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	cfg := swap.DefaultConfig()

	bad := testIRS(true, 0.05)
	bad.Notional = -1
	if _, err := swap.PriceIRS(bad, curves, cfg); !errors.Is(err, swap.ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec for negative notional, got %v", err)
	}

	bad = testIRS(true, 0.05)
	bad.Maturity = bad.Effective
	if _, err := swap.PriceIRS(bad, curves, cfg); !errors.Is(err, swap.ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec for zero tenor, got %v", err)
	}
}

func TestPriceIRSMissingCurve(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	_, err := swap.PriceIRS(testIRS(true, 0.05), swap.CurveSet{Forward: curves.Forward}, swap.DefaultConfig())
	if !errors.Is(err, swap.ErrMissingCurve) {
		t.Fatalf("expected ErrMissingCurve, got %v", err)
	}

	var perr *swap.PricingError
	if !errors.As(err, &perr) {
		t.Fatalf("expected PricingError wrapper, got %T", err)
	}
	if perr.Instrument != "irs-test" {
		t.Fatalf("PricingError instrument: got %q", perr.Instrument)
	}
}

func TestPriceIRSMissingFixedRate(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	spec := testIRS(true, 0)
	spec.FixedRate = nil
	if _, err := swap.PriceIRS(spec, curves, swap.DefaultConfig()); !errors.Is(err, swap.ErrInvalidSpec) {
		t.Fatalf("expected ErrInvalidSpec for unresolved fixed rate, got %v", err)
	}
}

func TestPriceIRSParFloatingFallback(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	noForward := swap.CurveSet{Discount: curves.Discount}

	// Disabled by default: a missing forward curve is an error.
	cfg := swap.DefaultConfig()
	if _, err := swap.PriceIRS(testIRS(true, 0.05), noForward, cfg); !errors.Is(err, swap.ErrMissingCurve) {
		t.Fatalf("expected ErrMissingCurve without fallback, got %v", err)
	}

	cfg.AllowParFallback = true
	cfg.ComputePV01 = false
	bd, err := swap.PriceIRS(testIRS(true, 0.05), noForward, cfg)
	if err != nil {
		t.Fatalf("PriceIRS with fallback error: %v", err)
	}
	if bd.Lineage["par_floating_fallback"] != "true" {
		t.Fatal("par floating fallback not recorded in lineage")
	}
	// Floating leg valued at notional.
	if bd.Legs[1].PV != 10_000_000 {
		t.Fatalf("fallback floating PV: got %v, want notional", bd.Legs[1].PV)
	}
	// Fallback never applies when a forward curve is present.
	with, err := swap.PriceIRS(testIRS(true, 0.05), curves, cfg)
	if err != nil {
		t.Fatalf("PriceIRS error: %v", err)
	}
	if with.Lineage["par_floating_fallback"] == "true" {
		t.Fatal("fallback flagged despite a forward curve being supplied")
	}
}

func TestPriceIRSEndToEndScenario(t *testing.T) {
	t.Parallel()

	effective := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	disc, err := curve.Bootstrap(effective, "USD_OIS", "USD", flatQuotes(0.05))
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	fwd, err := curve.Bootstrap(effective, "USD_FWD", "USD", flatQuotes(0.05))
	if err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	rate := 0.05
	spec := swap.IRSSpec{
		ID:        "irs-e2e",
		Notional:  10_000_000,
		Currency:  "USD",
		FixedRate: &rate,
		Effective: effective,
		Maturity:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		PayFixed:  true,
		Fixed:     usnyQuarterly(),
		Floating:  usnyQuarterly(),
	}
	bd, err := swap.PriceIRS(spec, swap.CurveSet{Discount: disc, Forward: fwd}, swap.DefaultConfig())
	if err != nil {
		t.Fatalf("PriceIRS error: %v", err)
	}

	// Fixed at the flat curve rate: par-like, within 1% of notional.
	if math.Abs(bd.TotalPV) > 100_000 {
		t.Fatalf("par-like PV outside 1%% of notional: %v", bd.TotalPV)
	}
	pv01 := bd.Sensitivities[0].Value
	if pv01 < 500 || pv01 > 5_000 {
		t.Fatalf("2y PV01 implausible: %v", pv01)
	}
}

func TestPriceIRSFloatingProjectionDivisorACT360(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	spec := testIRS(true, 0.05)
	spec.Floating.DayCount = daycount.ACT365

	cfg := swap.DefaultConfig()
	cfg.ComputePV01 = false
	bd, err := swap.PriceIRS(spec, curves, cfg)
	if err != nil {
		t.Fatalf("PriceIRS error: %v", err)
	}

	cf := bd.Legs[1].Cashflows[1]
	// The simple forward divides by the ACT/360 year fraction even though
	// the leg accrues on ACT/365.
	alpha, err := daycount.AccrualFactor(cf.Start, cf.End, daycount.ACT360)
	if err != nil {
		t.Fatalf("AccrualFactor: %v", err)
	}
	want := (curves.Forward.DF(cf.Start)/curves.Forward.DF(cf.End) - 1) / alpha
	if math.Abs(cf.Rate-want) > 1e-12 {
		t.Fatalf("projected rate: got %.10f, want %.10f", cf.Rate, want)
	}

	// Accrual still follows the leg's own convention.
	accrual, err := daycount.AccrualFactor(cf.Start, cf.End, daycount.ACT365)
	if err != nil {
		t.Fatalf("AccrualFactor: %v", err)
	}
	if math.Abs(cf.AccrualFactor-accrual) > 1e-12 {
		t.Fatalf("accrual factor: got %.10f, want ACT/365 %.10f", cf.AccrualFactor, accrual)
	}
}

func TestPriceGenericDispatch(t *testing.T) {
	t.Parallel()

	curves := usdCurves(t, 0.05)
	md := swap.MarketData{
		Discount: map[string]*curve.Curve{"USD": curves.Discount},
		Forward:  map[string]*curve.Curve{"USD": curves.Forward},
	}
	bd, err := swap.Price(testIRS(true, 0.05), md, swap.DefaultConfig())
	if err != nil {
		t.Fatalf("Price error: %v", err)
	}
	if bd.Currency != "USD" {
		t.Fatalf("currency: got %s", bd.Currency)
	}
}
