package daycount_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/ratecraft/swapengine/daycount"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAccrualFactorACT360(t *testing.T) {
	t.Parallel()

	got, err := daycount.AccrualFactor(date(2025, 1, 1), date(2025, 4, 1), daycount.ACT360)
	if err != nil {
		t.Fatalf("AccrualFactor error: %v", err)
	}
	if got != 90.0/360.0 {
		t.Fatalf("ACT/360 90 days: got %v, want 0.25", got)
	}

	got, err = daycount.AccrualFactor(date(2025, 4, 1), date(2025, 7, 1), daycount.ACT360)
	if err != nil {
		t.Fatalf("AccrualFactor error: %v", err)
	}
	if got != 91.0/360.0 {
		t.Fatalf("ACT/360 91 days: got %v, want %v", got, 91.0/360.0)
	}
}

func TestAccrualFactorACT365(t *testing.T) {
	t.Parallel()

	got, err := daycount.AccrualFactor(date(2025, 1, 1), date(2026, 1, 1), daycount.ACT365)
	if err != nil {
		t.Fatalf("AccrualFactor error: %v", err)
	}
	if got != 1.0 {
		t.Fatalf("ACT/365 full year: got %v, want 1.0", got)
	}
}

func TestAccrualFactorThirty360Clamp(t *testing.T) {
	t.Parallel()

	// Jan 31 clamps to 30; Mar 31 then clamps too.
	got, err := daycount.AccrualFactor(date(2025, 1, 31), date(2025, 3, 31), daycount.Thirty360)
	if err != nil {
		t.Fatalf("AccrualFactor error: %v", err)
	}
	if got != 60.0/360.0 {
		t.Fatalf("30/360 Jan31-Mar31: got %v, want %v", got, 60.0/360.0)
	}

	// d2=31 with d1=15 keeps d2 at 31 under the US rule.
	got, err = daycount.AccrualFactor(date(2025, 1, 15), date(2025, 3, 31), daycount.Thirty360)
	if err != nil {
		t.Fatalf("AccrualFactor error: %v", err)
	}
	if got != 76.0/360.0 {
		t.Fatalf("30/360 Jan15-Mar31: got %v, want %v", got, 76.0/360.0)
	}
}

func TestAccrualFactorThirtyE360(t *testing.T) {
	t.Parallel()

	// European rule clamps d2 unconditionally.
	got, err := daycount.AccrualFactor(date(2025, 1, 15), date(2025, 3, 31), daycount.ThirtyE360)
	if err != nil {
		t.Fatalf("AccrualFactor error: %v", err)
	}
	if got != 75.0/360.0 {
		t.Fatalf("30E/360 Jan15-Mar31: got %v, want %v", got, 75.0/360.0)
	}
}

func TestAccrualFactorACTACT(t *testing.T) {
	t.Parallel()

	// Same year, leap: /366.
	got, err := daycount.AccrualFactor(date(2024, 1, 1), date(2024, 7, 1), daycount.ACTACT)
	if err != nil {
		t.Fatalf("AccrualFactor error: %v", err)
	}
	if got != 182.0/366.0 {
		t.Fatalf("ACT/ACT leap year: got %v, want %v", got, 182.0/366.0)
	}

	// Cross-year: /365.25.
	got, err = daycount.AccrualFactor(date(2024, 7, 1), date(2025, 7, 1), daycount.ACTACT)
	if err != nil {
		t.Fatalf("AccrualFactor error: %v", err)
	}
	if got != 365.0/365.25 {
		t.Fatalf("ACT/ACT cross year: got %v, want %v", got, 365.0/365.25)
	}
}

func TestAccrualFactorZeroLength(t *testing.T) {
	t.Parallel()

	d := date(2025, 6, 1)
	for _, conv := range []daycount.Convention{
		daycount.ACT360, daycount.ACT365, daycount.ACTACT, daycount.Thirty360, daycount.ThirtyE360,
	} {
		got, err := daycount.AccrualFactor(d, d, conv)
		if err != nil {
			t.Fatalf("AccrualFactor(%s) error: %v", conv, err)
		}
		if got != 0 {
			t.Fatalf("zero-length period under %s: got %v, want 0", conv, got)
		}
	}
}

func TestParseInvalidConvention(t *testing.T) {
	t.Parallel()

	if _, err := daycount.Parse("ACT/999"); !errors.Is(err, daycount.ErrInvalidConvention) {
		t.Fatalf("expected ErrInvalidConvention, got %v", err)
	}
	conv, err := daycount.Parse("ACT/360")
	if err != nil {
		t.Fatalf("Parse(ACT/360) error: %v", err)
	}
	if conv != daycount.ACT360 {
		t.Fatalf("Parse(ACT/360): got %q", conv)
	}
}

func TestYearsBetween(t *testing.T) {
	t.Parallel()

	got := daycount.YearsBetween(date(2025, 1, 1), date(2026, 1, 1))
	if math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("YearsBetween full year: got %v, want 1.0", got)
	}
}
