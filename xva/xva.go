// Package xva computes simple CVA, DVA, and FVA overlays from an
// expected-exposure grid and proxy credit curves.
package xva

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ratecraft/swapengine/curve"
)

// ErrMissingCreditCurve is returned when an adjustment is enabled but its
// credit curve is absent.
var ErrMissingCreditCurve = errors.New("xva: missing credit curve")

// flatDiscountRate discounts exposure contributions. A risk-free curve
// would be used in practice; the flat rate keeps the overlay
// self-contained.
const flatDiscountRate = 0.05

// EEPoint is one expected-exposure observation.
type EEPoint struct {
	Date time.Time
	// EE is the expected exposure, EPE/ENE its positive and negative
	// components.
	EE  float64
	EPE float64
	ENE float64
}

// EEGrid is a date-ordered exposure profile.
type EEGrid struct {
	Points   []EEPoint
	Currency string
	AsOf     time.Time
}

// CreditCurve is a proxy credit curve: spreads in basis points at tenor
// pillars, with a recovery rate.
type CreditCurve struct {
	Name     string
	Currency string
	Tenors   []string
	// Spreads are in basis points, aligned with Tenors.
	Spreads      []float64
	RecoveryRate float64
}

// CSAConfig models collateral terms; exposure below the threshold incurs
// no funding cost.
type CSAConfig struct {
	Threshold          float64
	MinTransferAmount  float64
	CollateralCurrency string
	InterestRate       float64
}

// Config selects which adjustments to compute and with what inputs.
type Config struct {
	ComputeCVA bool
	ComputeDVA bool
	ComputeFVA bool
	// ComputeKVA adds a capital charge term. It is off by default so the
	// reported total stays cva + dva + fva.
	ComputeKVA bool
	KVARate    float64

	Counterparty *CreditCurve
	OwnCredit    *CreditCurve
	Funding      *CreditCurve
	CSA          *CSAConfig
}

// Results holds the computed adjustments. TotalXVA is cva + dva + fva;
// KVA is reported separately when enabled.
type Results struct {
	CVA      float64           `json:"cva"`
	DVA      float64           `json:"dva"`
	FVA      float64           `json:"fva"`
	KVA      float64           `json:"kva,omitempty"`
	TotalXVA float64           `json:"total_xva"`
	Currency string            `json:"currency"`
	AsOf     time.Time         `json:"calculation_date"`
	Details  map[string]string `json:"details"`
}

// ComputeCVA returns (1-R) * sum over periods of EPE(t) * PD(t-1,t) * DF(t),
// with default probabilities from piecewise hazard rates.
func ComputeCVA(grid EEGrid, credit CreditCurve) (float64, error) {
	return exposureSum(grid, credit, func(p EEPoint) float64 { return p.EPE })
}

// ComputeDVA mirrors CVA on the negative exposure against the holder's
// own credit curve.
func ComputeDVA(grid EEGrid, credit CreditCurve) (float64, error) {
	return exposureSum(grid, credit, func(p EEPoint) float64 { return math.Abs(p.ENE) })
}

func exposureSum(grid EEGrid, credit CreditCurve, exposure func(EEPoint) float64) (float64, error) {
	if len(grid.Points) == 0 || len(credit.Tenors) == 0 {
		return 0, nil
	}
	hazards, err := hazardRates(credit)
	if err != nil {
		return 0, err
	}
	lgd := 1.0 - credit.RecoveryRate

	total := 0.0
	for i := 1; i < len(grid.Points); i++ {
		tPrev := yearsFrom(grid.AsOf, grid.Points[i-1].Date)
		tCurr := yearsFrom(grid.AsOf, grid.Points[i].Date)
		h := interpolateByTenor(tCurr, credit.Tenors, hazards)
		pd := 1.0 - math.Exp(-h*(tCurr-tPrev))
		df := math.Exp(-flatDiscountRate * tCurr)
		total += exposure(grid.Points[i]) * pd * df
	}
	return lgd * total, nil
}

// ComputeFVA accrues the funding spread on expected exposure over each
// period. With a CSA, only the exposure in excess of the threshold funds.
func ComputeFVA(grid EEGrid, funding CreditCurve, csa *CSAConfig) (float64, error) {
	if len(grid.Points) == 0 || len(funding.Tenors) == 0 {
		return 0, nil
	}
	rates, err := hazardRates(funding)
	if err != nil {
		return 0, err
	}

	fva := 0.0
	for i := 1; i < len(grid.Points); i++ {
		tPrev := yearsFrom(grid.AsOf, grid.Points[i-1].Date)
		tCurr := yearsFrom(grid.AsOf, grid.Points[i].Date)
		exposure := math.Abs(grid.Points[i].EE)
		rate := interpolateByTenor(tCurr, funding.Tenors, rates)

		if csa != nil && csa.InterestRate > 0 {
			if exposure > csa.Threshold {
				rate *= (exposure - csa.Threshold) / exposure
			} else {
				rate = 0
			}
		}

		df := math.Exp(-flatDiscountRate * tCurr)
		fva += exposure * rate * df * (tCurr - tPrev)
	}
	return fva, nil
}

// ComputeKVA approximates a capital valuation adjustment from notional,
// horizon, and a capital charge rate.
func ComputeKVA(notional, horizonYears, kvaRate float64) float64 {
	const capitalRatio = 0.08
	return notional * kvaRate * horizonYears * capitalRatio
}

// Compute runs the enabled adjustments. An enabled adjustment with a nil
// credit curve is an error rather than a silent zero.
func Compute(grid EEGrid, cfg Config) (*Results, error) {
	res := &Results{
		Currency: grid.Currency,
		AsOf:     grid.AsOf,
		Details:  map[string]string{},
	}

	if cfg.ComputeCVA {
		if cfg.Counterparty == nil {
			return nil, fmt.Errorf("%w: counterparty curve for cva", ErrMissingCreditCurve)
		}
		cva, err := ComputeCVA(grid, *cfg.Counterparty)
		if err != nil {
			return nil, err
		}
		res.CVA = cva
		res.Details["cva_curve"] = cfg.Counterparty.Name
	}
	if cfg.ComputeDVA {
		if cfg.OwnCredit == nil {
			return nil, fmt.Errorf("%w: own credit curve for dva", ErrMissingCreditCurve)
		}
		dva, err := ComputeDVA(grid, *cfg.OwnCredit)
		if err != nil {
			return nil, err
		}
		res.DVA = dva
		res.Details["dva_curve"] = cfg.OwnCredit.Name
	}
	if cfg.ComputeFVA {
		if cfg.Funding == nil {
			return nil, fmt.Errorf("%w: funding curve for fva", ErrMissingCreditCurve)
		}
		fva, err := ComputeFVA(grid, *cfg.Funding, cfg.CSA)
		if err != nil {
			return nil, err
		}
		res.FVA = fva
		res.Details["fva_curve"] = cfg.Funding.Name
		if cfg.CSA != nil {
			res.Details["csa_applied"] = "true"
		}
	}

	res.TotalXVA = res.CVA + res.DVA + res.FVA

	if cfg.ComputeKVA {
		horizon := 0.0
		if n := len(grid.Points); n > 0 {
			horizon = yearsFrom(grid.AsOf, grid.Points[n-1].Date)
		}
		peak := 0.0
		for _, p := range grid.Points {
			if e := math.Abs(p.EE); e > peak {
				peak = e
			}
		}
		res.KVA = ComputeKVA(peak, horizon, cfg.KVARate)
	}
	return res, nil
}

// SyntheticEEGrid builds a deterministic bell-shaped exposure profile on
// a fixed day step, peaking at the profile midpoint. ENE is modeled as
// 30% of the exposure with opposite sign.
func SyntheticEEGrid(start, end time.Time, stepDays int, peakExposure float64, currency string) EEGrid {
	if stepDays <= 0 {
		stepDays = 30
	}
	totalDays := end.Sub(start).Hours() / 24
	mid := totalDays / 2

	var points []EEPoint
	for d := start; !d.After(end); d = d.AddDate(0, 0, stepDays) {
		elapsed := d.Sub(start).Hours() / 24
		var factor float64
		if mid > 0 {
			if elapsed <= mid {
				factor = elapsed / mid
			} else {
				factor = (totalDays - elapsed) / mid
			}
		}
		exposure := peakExposure * factor
		points = append(points, EEPoint{
			Date: d,
			EE:   exposure,
			EPE:  exposure,
			ENE:  -exposure * 0.3,
		})
	}
	return EEGrid{Points: points, Currency: currency, AsOf: start}
}

// hazardRates converts basis-point spreads to decimal rates.
func hazardRates(c CreditCurve) ([]float64, error) {
	if len(c.Spreads) != len(c.Tenors) {
		return nil, fmt.Errorf("xva: curve %s has %d tenors but %d spreads",
			c.Name, len(c.Tenors), len(c.Spreads))
	}
	out := make([]float64, len(c.Spreads))
	for i, s := range c.Spreads {
		out[i] = s / 10000.0
	}
	return out, nil
}

// interpolateByTenor linearly interpolates a rate at time t (years) over
// tenor pillars, flat beyond either end. Unparseable tenors resolve to
// zero years, matching their ordering at the curve front.
func interpolateByTenor(t float64, tenors []string, rates []float64) float64 {
	years := make([]float64, len(tenors))
	for i, tn := range tenors {
		y, err := curve.TenorYears(tn)
		if err == nil {
			years[i] = y
		}
	}
	if t <= years[0] {
		return rates[0]
	}
	if t >= years[len(years)-1] {
		return rates[len(rates)-1]
	}
	for i := 0; i < len(years)-1; i++ {
		if t >= years[i] && t <= years[i+1] {
			span := years[i+1] - years[i]
			if span == 0 {
				return rates[i]
			}
			w := (t - years[i]) / span
			return rates[i] + w*(rates[i+1]-rates[i])
		}
	}
	return rates[len(rates)-1]
}

func yearsFrom(asOf, d time.Time) float64 {
	return d.Sub(asOf).Hours() / 24 / 365.25
}
