// Package schedule generates payment schedules for swap legs.
package schedule

import (
	"fmt"
	"time"

	"github.com/ratecraft/swapengine/calendar"
	"github.com/ratecraft/swapengine/daycount"
	"github.com/ratecraft/swapengine/utils"
)

// Frequency enumerates payment frequencies.
type Frequency string

const (
	Daily      Frequency = "DAILY"
	Weekly     Frequency = "WEEKLY"
	Monthly    Frequency = "MONTHLY"
	Quarterly  Frequency = "QUARTERLY"
	SemiAnnual Frequency = "SEMI_ANNUAL"
	Annual     Frequency = "ANNUAL"
)

// Config holds the generating parameters for a payment schedule.
type Config struct {
	Effective   time.Time
	Maturity    time.Time
	Frequency   Frequency
	DayCount    daycount.Convention
	BusinessDay calendar.BusinessDayConvention
	Calendar    calendar.ID
}

// Period is a single accrual period. Payment equals the period end
// (no payment lag).
type Period struct {
	Start            time.Time
	End              time.Time
	Payment          time.Time
	DayCountFraction float64
	Index            int
}

// PaymentSchedule is an ordered, contiguous sequence of periods together
// with its generating parameters.
type PaymentSchedule struct {
	Periods []Period
	Config  Config
}

// Build generates the schedule for the given config.
//
// Unadjusted roll dates are produced forward from the effective date; the
// final roll date is forced to equal maturity exactly. Effective and
// maturity are taken as given; interior dates are business-day adjusted.
func Build(cfg Config) (*PaymentSchedule, error) {
	if !cfg.Maturity.After(cfg.Effective) {
		return nil, fmt.Errorf("schedule: maturity %s not after effective %s",
			cfg.Maturity.Format("2006-01-02"), cfg.Effective.Format("2006-01-02"))
	}

	unadjusted, err := rollDates(cfg)
	if err != nil {
		return nil, err
	}

	// Effective and maturity are contractual dates and pass through as
	// given; the roll convention applies to interior roll dates only.
	adjusted := make([]time.Time, len(unadjusted))
	adjusted[0] = cfg.Effective
	adjusted[len(adjusted)-1] = cfg.Maturity
	for i := 1; i < len(unadjusted)-1; i++ {
		d, err := calendar.Adjust(cfg.Calendar, unadjusted[i], cfg.BusinessDay)
		if err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
		adjusted[i] = d
	}

	periods := make([]Period, 0, len(adjusted)-1)
	for i := 0; i < len(adjusted)-1; i++ {
		start, end := adjusted[i], adjusted[i+1]
		dcf, err := daycount.AccrualFactor(start, end, cfg.DayCount)
		if err != nil {
			return nil, fmt.Errorf("schedule: %w", err)
		}
		periods = append(periods, Period{
			Start:            start,
			End:              end,
			Payment:          end,
			DayCountFraction: dcf,
			Index:            i,
		})
	}

	return &PaymentSchedule{Periods: periods, Config: cfg}, nil
}

// rollDates generates unadjusted dates from effective to maturity inclusive.
func rollDates(cfg Config) ([]time.Time, error) {
	months, days, err := frequencyStep(cfg.Frequency)
	if err != nil {
		return nil, err
	}

	dates := []time.Time{cfg.Effective}
	for i := 1; ; i++ {
		var next time.Time
		if months > 0 {
			next = utils.AddMonth(cfg.Effective, months*i)
		} else {
			next = cfg.Effective.AddDate(0, 0, days*i)
		}
		if next.After(cfg.Maturity) {
			break
		}
		dates = append(dates, next)
	}

	// Force the terminal date to land on maturity exactly: append a final
	// stub when the last roll fell short.
	if !dates[len(dates)-1].Equal(cfg.Maturity) {
		dates = append(dates, cfg.Maturity)
	}
	return dates, nil
}

func frequencyStep(f Frequency) (months, days int, err error) {
	switch f {
	case Monthly:
		return 1, 0, nil
	case Quarterly:
		return 3, 0, nil
	case SemiAnnual:
		return 6, 0, nil
	case Annual:
		return 12, 0, nil
	case Weekly:
		return 0, 7, nil
	case Daily:
		return 0, 1, nil
	default:
		return 0, 0, fmt.Errorf("schedule: unsupported frequency %q", f)
	}
}

// AccrualSum returns the sum of day count fractions across all periods.
// Diagnostic only: for an n-year schedule it should land within a few
// percent of n.
func (s *PaymentSchedule) AccrualSum() float64 {
	total := 0.0
	for _, p := range s.Periods {
		total += p.DayCountFraction
	}
	return total
}

// Effective returns the first period's start date.
func (s *PaymentSchedule) Effective() time.Time {
	return s.Periods[0].Start
}

// Maturity returns the last period's end date.
func (s *PaymentSchedule) Maturity() time.Time {
	return s.Periods[len(s.Periods)-1].End
}
