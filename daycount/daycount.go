// Package daycount computes accrual year fractions under standard
// day count conventions.
package daycount

import (
	"errors"
	"fmt"
	"time"
)

// Convention identifies a day count convention.
type Convention string

const (
	ACT360     Convention = "ACT/360"
	ACT365     Convention = "ACT/365"
	ACT365F    Convention = "ACT/365F"
	ACTACT     Convention = "ACT/ACT"
	Thirty360  Convention = "30/360"
	ThirtyE360 Convention = "30E/360"
)

// ErrInvalidConvention is returned for an unrecognized convention tag.
var ErrInvalidConvention = errors.New("daycount: invalid convention")

// Parse validates a convention string.
func Parse(s string) (Convention, error) {
	switch Convention(s) {
	case ACT360, ACT365, ACT365F, ACTACT, Thirty360, ThirtyE360:
		return Convention(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidConvention, s)
	}
}

// AccrualFactor computes the year fraction between two dates under the
// given convention. It is a pure function of its inputs.
func AccrualFactor(start, end time.Time, conv Convention) (float64, error) {
	switch conv {
	case ACT360:
		return days(start, end) / 360.0, nil
	case ACT365, ACT365F:
		return days(start, end) / 365.0, nil
	case Thirty360:
		// 30/360 US: the end-day clamp applies only when the start day
		// itself landed on 30 after clamping.
		d1 := start.Day()
		if d1 == 31 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2), nil
	case ThirtyE360:
		// Eurobond basis: both day-of-month values are clamped independently.
		d1 := start.Day()
		if d1 == 31 {
			d1 = 30
		}
		d2 := end.Day()
		if d2 == 31 {
			d2 = 30
		}
		return thirty360(start, end, d1, d2), nil
	case ACTACT:
		// Approximation: same-year periods divide by the year's actual
		// length, multi-year periods by 365.25. Not ISDA sub-period
		// apportionment; kept for output compatibility.
		d := days(start, end)
		if start.Year() == end.Year() {
			if isLeapYear(start.Year()) {
				return d / 366.0, nil
			}
			return d / 365.0, nil
		}
		return d / 365.25, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidConvention, conv)
	}
}

// YearsBetween returns the ACT/365 year fraction used for curve time axes.
func YearsBetween(start, end time.Time) float64 {
	return days(start, end) / 365.0
}

func days(start, end time.Time) float64 {
	return end.Sub(start).Hours() / 24
}

func thirty360(start, end time.Time, d1, d2 int) float64 {
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
