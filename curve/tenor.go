package curve

import (
	"fmt"
	"strconv"
	"strings"
)

// TenorDays converts tenor labels like "ON", "3M", "10Y" to a day count.
//
// Months and years use the 30/365-day approximation rather than calendar
// arithmetic; curve maturities must stay reproducible across runs, so the
// approximation is part of the contract.
func TenorDays(tenor string) (int, error) {
	t := strings.TrimSpace(strings.ToUpper(tenor))
	if t == "ON" {
		return 1, nil
	}
	if len(t) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTenor, tenor)
	}
	n, err := strconv.Atoi(t[:len(t)-1])
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTenor, tenor)
	}
	switch t[len(t)-1] {
	case 'D':
		return n, nil
	case 'W':
		return n * 7, nil
	case 'M':
		return n * 30, nil
	case 'Y':
		return n * 365, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTenor, tenor)
	}
}

// TenorYears converts a tenor label to a year fraction on the same
// day-based approximation.
func TenorYears(tenor string) (float64, error) {
	d, err := TenorDays(tenor)
	if err != nil {
		return 0, err
	}
	return float64(d) / 365.0, nil
}
