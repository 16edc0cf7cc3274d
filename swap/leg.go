package swap

import (
	"fmt"
	"time"

	"github.com/ratecraft/swapengine/curve"
	"github.com/ratecraft/swapengine/daycount"
	"github.com/ratecraft/swapengine/schedule"
)

// fixedLegPV prices a fixed leg: notional * rate * accrual discounted at
// each payment date.
func fixedLegPV(sched *schedule.PaymentSchedule, notional, rate float64, disc *curve.Curve) (float64, []Cashflow) {
	pv := 0.0
	flows := make([]Cashflow, 0, len(sched.Periods))
	for _, p := range sched.Periods {
		df := disc.DF(p.Payment)
		amount := rate * p.DayCountFraction * notional
		flowPV := amount * df
		pv += flowPV
		flows = append(flows, Cashflow{
			Start:          p.Start,
			End:            p.End,
			Payment:        p.Payment,
			AccrualFactor:  p.DayCountFraction,
			Rate:           rate,
			Notional:       notional,
			Amount:         amount,
			DiscountFactor: df,
			PresentValue:   flowPV,
		})
	}
	return pv, flows
}

// floatingLegPV prices a floating leg with rates projected from the
// forward curve per the configured mode.
func floatingLegPV(sched *schedule.PaymentSchedule, notional float64, disc, fwd *curve.Curve, mode ProjectionMode) (float64, []Cashflow, error) {
	pv := 0.0
	flows := make([]Cashflow, 0, len(sched.Periods))
	for _, p := range sched.Periods {
		rate, err := projectRate(fwd, p, mode)
		if err != nil {
			return 0, nil, err
		}
		df := disc.DF(p.Payment)
		amount := rate * p.DayCountFraction * notional
		flowPV := amount * df
		pv += flowPV
		flows = append(flows, Cashflow{
			Start:          p.Start,
			End:            p.End,
			Payment:        p.Payment,
			AccrualFactor:  p.DayCountFraction,
			Rate:           rate,
			Notional:       notional,
			Amount:         amount,
			DiscountFactor: df,
			PresentValue:   flowPV,
		})
	}
	return pv, flows, nil
}

func projectRate(fwd *curve.Curve, p schedule.Period, mode ProjectionMode) (float64, error) {
	switch mode {
	case ProjectionFlat:
		return fwd.ForwardRate(p.End), nil
	case ProjectionDF, "":
		// The simple-forward divisor is always ACT/360, independent of the
		// leg's own accrual convention.
		alpha, err := daycount.AccrualFactor(p.Start, p.End, daycount.ACT360)
		if err != nil {
			return 0, err
		}
		if alpha == 0 {
			return 0, nil
		}
		dfStart := fwd.DF(p.Start)
		dfEnd := fwd.DF(p.End)
		return (dfStart/dfEnd - 1) / alpha, nil
	default:
		return 0, fmt.Errorf("%w: unknown projection mode %q", ErrInvalidSpec, mode)
	}
}

func buildLegSchedule(effective, maturity time.Time, terms LegTerms) (*schedule.PaymentSchedule, error) {
	return schedule.Build(schedule.Config{
		Effective:   effective,
		Maturity:    maturity,
		Frequency:   terms.Frequency,
		DayCount:    terms.DayCount,
		BusinessDay: terms.BusinessDay,
		Calendar:    terms.Calendar,
	})
}
