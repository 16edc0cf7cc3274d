package swap

// ProjectionMode selects how floating-leg rates are projected.
type ProjectionMode string

const (
	// ProjectionDF derives the forward rate for each period from the
	// forward curve's discount factor ratio over the accrual period.
	ProjectionDF ProjectionMode = "DF"
	// ProjectionFlat reads the forward curve's zero rate at the period
	// end date and uses it directly as the period coupon.
	ProjectionFlat ProjectionMode = "FLAT"
)

// Config controls pricing behavior.
type Config struct {
	Projection ProjectionMode
	// AllowParFallback permits pricing an IRS with no forward curve by
	// valuing the floating leg at notional (par-swap approximation).
	// The substitution is recorded in the output lineage.
	AllowParFallback bool
	// ComputePV01 attaches a +1bp reprice PV01 to IRS breakdowns.
	ComputePV01  bool
	ModelVersion string
}

// DefaultConfig returns the standard pricing configuration.
func DefaultConfig() Config {
	return Config{
		Projection:   ProjectionDF,
		ComputePV01:  true,
		ModelVersion: "1.0.0",
	}
}
