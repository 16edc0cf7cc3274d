// Package swap prices interest-rate and cross-currency swaps by
// discounted cash flow.
package swap

import (
	"errors"
	"fmt"
	"time"

	"github.com/ratecraft/swapengine/calendar"
	"github.com/ratecraft/swapengine/daycount"
	"github.com/ratecraft/swapengine/schedule"
)

var (
	// ErrInvalidSpec is returned for a malformed instrument specification.
	// Always detected before any curve math.
	ErrInvalidSpec = errors.New("swap: invalid instrument spec")
	// ErrMissingCurve is returned when a required discount, forward, or
	// FX curve is absent.
	ErrMissingCurve = errors.New("swap: missing curve")
)

// PricingError wraps any failure from the top-level pricing entry points
// with the instrument and as-of context.
type PricingError struct {
	Instrument string
	AsOf       time.Time
	Err        error
}

func (e *PricingError) Error() string {
	return fmt.Sprintf("swap: pricing %s as of %s: %v",
		e.Instrument, e.AsOf.Format("2006-01-02"), e.Err)
}

func (e *PricingError) Unwrap() error { return e.Err }

// Instrument is the sealed set of priceable instruments. Pricing
// dispatches exhaustively over IRSSpec and CCSSpec.
type Instrument interface {
	Kind() string
	InstrumentID() string
	Validate() error
	sealed()
}

// LegTerms are the per-leg conventions shared by both instrument kinds.
type LegTerms struct {
	Frequency   schedule.Frequency
	DayCount    daycount.Convention
	BusinessDay calendar.BusinessDayConvention
	Calendar    calendar.ID
}

// IRSSpec is a single-currency fixed-vs-floating swap.
//
// FixedRate nil means the rate was not supplied; it must be resolved
// before pricing, which otherwise fails with ErrInvalidSpec.
type IRSSpec struct {
	ID            string
	Notional      float64
	Currency      string
	FixedRate     *float64
	FloatingIndex string
	Effective     time.Time
	Maturity      time.Time
	// PayFixed true means the holder pays the fixed leg and receives
	// floating; net PV is then float minus fixed.
	PayFixed bool
	Fixed    LegTerms
	Floating LegTerms
}

func (s IRSSpec) Kind() string         { return "IRS" }
func (s IRSSpec) InstrumentID() string { return s.ID }
func (IRSSpec) sealed()                {}

// Validate checks the spec invariants.
func (s IRSSpec) Validate() error {
	if s.Notional <= 0 {
		return fmt.Errorf("%w: notional %g must be positive", ErrInvalidSpec, s.Notional)
	}
	if !s.Maturity.After(s.Effective) {
		return fmt.Errorf("%w: effective %s not before maturity %s", ErrInvalidSpec,
			s.Effective.Format("2006-01-02"), s.Maturity.Format("2006-01-02"))
	}
	if s.FixedRate != nil && *s.FixedRate < 0 {
		return fmt.Errorf("%w: negative fixed rate %g", ErrInvalidSpec, *s.FixedRate)
	}
	if s.Currency == "" {
		return fmt.Errorf("%w: empty currency", ErrInvalidSpec)
	}
	return nil
}

// CCSLeg is one floating leg of a cross-currency swap.
type CCSLeg struct {
	Notional      float64
	Currency      string
	FloatingIndex string
	Terms         LegTerms
}

// CCSSpec is a floating-for-floating cross-currency swap. Leg 1's
// currency is the reporting currency.
type CCSSpec struct {
	ID        string
	Leg1      CCSLeg
	Leg2      CCSLeg
	Effective time.Time
	Maturity  time.Time
}

func (s CCSSpec) Kind() string         { return "CCS" }
func (s CCSSpec) InstrumentID() string { return s.ID }
func (CCSSpec) sealed()                {}

// Validate checks the spec invariants, including distinct leg currencies.
func (s CCSSpec) Validate() error {
	if s.Leg1.Notional <= 0 || s.Leg2.Notional <= 0 {
		return fmt.Errorf("%w: both notionals must be positive", ErrInvalidSpec)
	}
	if !s.Maturity.After(s.Effective) {
		return fmt.Errorf("%w: effective %s not before maturity %s", ErrInvalidSpec,
			s.Effective.Format("2006-01-02"), s.Maturity.Format("2006-01-02"))
	}
	if s.Leg1.Currency == "" || s.Leg2.Currency == "" {
		return fmt.Errorf("%w: empty leg currency", ErrInvalidSpec)
	}
	if s.Leg1.Currency == s.Leg2.Currency {
		return fmt.Errorf("%w: leg currencies must differ, both %s", ErrInvalidSpec, s.Leg1.Currency)
	}
	return nil
}

// Cashflow is one projected and discounted payment.
type Cashflow struct {
	Start          time.Time `json:"start_date"`
	End            time.Time `json:"end_date"`
	Payment        time.Time `json:"payment_date"`
	AccrualFactor  float64   `json:"accrual_factor"`
	Rate           float64   `json:"rate"`
	Notional       float64   `json:"notional"`
	Amount         float64   `json:"cashflow"`
	DiscountFactor float64   `json:"discount_factor"`
	PresentValue   float64   `json:"present_value"`
}

// LegResult is one leg's PV with its cashflow detail.
type LegResult struct {
	Name        string     `json:"name"`
	Currency    string     `json:"currency"`
	PV          float64    `json:"pv"`
	PVReporting float64    `json:"pv_reporting_ccy"`
	Cashflows   []Cashflow `json:"cashflows"`
}

// Sensitivity is a named first-order risk number attached to a breakdown.
type Sensitivity struct {
	Name        string  `json:"shock"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
}

// PVBreakdown is the full pricing output: total PV, per-leg cashflows,
// the curve identifiers used, and deterministic lineage.
type PVBreakdown struct {
	TotalPV       float64           `json:"total_pv"`
	Currency      string            `json:"currency"`
	Legs          []LegResult       `json:"legs"`
	Sensitivities []Sensitivity     `json:"sensitivities"`
	AsOf          time.Time         `json:"as_of"`
	CurveIDs      map[string]string `json:"curve_ids"`
	Lineage       map[string]string `json:"lineage"`
	LineageHash   string            `json:"lineage_hash"`
}
