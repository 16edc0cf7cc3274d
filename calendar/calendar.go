// Package calendar provides holiday calendars and business-day adjustment.
package calendar

import (
	"errors"
	"fmt"
	"time"
)

// ID identifies a holiday calendar.
type ID string

const (
	USNY   ID = "USNY"
	TARGET ID = "TARGET"
	// WEEKEND has no holidays; only Saturdays and Sundays are non-business.
	WEEKEND ID = "WEEKEND"
)

// BusinessDayConvention determines how non-business dates roll.
type BusinessDayConvention string

const (
	Following         BusinessDayConvention = "FOLLOWING"
	ModifiedFollowing BusinessDayConvention = "MODIFIED_FOLLOWING"
	Preceding         BusinessDayConvention = "PRECEDING"
	ModifiedPreceding BusinessDayConvention = "MODIFIED_PRECEDING"
	Unadjusted        BusinessDayConvention = "UNADJUSTED"
)

// ErrInvalidConvention is returned for an unrecognized business-day convention.
var ErrInvalidConvention = errors.New("calendar: invalid business day convention")

// ParseConvention validates a business-day convention string.
func ParseConvention(s string) (BusinessDayConvention, error) {
	switch BusinessDayConvention(s) {
	case Following, ModifiedFollowing, Preceding, ModifiedPreceding, Unadjusted:
		return BusinessDayConvention(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidConvention, s)
	}
}

var usnyHolidays = map[string]struct{}{}
var targetHolidays = map[string]struct{}{}

func init() {
	usnyHolidays = make(map[string]struct{}, len(usnyHolidayList))
	for _, h := range usnyHolidayList {
		usnyHolidays[h] = struct{}{}
	}
	targetHolidays = make(map[string]struct{}, len(targetHolidayList))
	for _, h := range targetHolidayList {
		targetHolidays[h] = struct{}{}
	}
}

func isHoliday(cal ID, t time.Time) bool {
	key := t.Format("2006-01-02")
	switch cal {
	case USNY:
		_, ok := usnyHolidays[key]
		return ok
	case TARGET:
		_, ok := targetHolidays[key]
		return ok
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal ID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust rolls a non-business date according to the convention.
//
// Calendars are assumed to contain business days in any rolling window;
// the holiday sets above never blank an entire month.
func Adjust(cal ID, t time.Time, bdc BusinessDayConvention) (time.Time, error) {
	switch bdc {
	case Unadjusted:
		return t, nil
	case Following:
		return following(cal, t), nil
	case Preceding:
		return preceding(cal, t), nil
	case ModifiedFollowing:
		adj := following(cal, t)
		if adj.Month() != t.Month() {
			return preceding(cal, t), nil
		}
		return adj, nil
	case ModifiedPreceding:
		adj := preceding(cal, t)
		if adj.Month() != t.Month() {
			return following(cal, t), nil
		}
		return adj, nil
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidConvention, bdc)
	}
}

func following(cal ID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func preceding(cal ID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal ID, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if IsBusinessDay(cal, t) {
			n -= step
		}
	}
	return t
}
