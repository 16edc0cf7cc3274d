// Package engine orchestrates pricing runs: valuation, sensitivities,
// and XVA over a market snapshot, with stored, retrievable results.
package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ratecraft/swapengine/curve"
	"github.com/ratecraft/swapengine/risk"
	"github.com/ratecraft/swapengine/swap"
	"github.com/ratecraft/swapengine/xva"
)

// Request describes one pricing run.
type Request struct {
	Instrument swap.Instrument
	Market     swap.MarketData
	Pricing    swap.Config
	// Sensitivities reprices the instrument under the full shock catalog.
	Sensitivities bool
	// XVA enables the overlay; nil means skip.
	XVA *xva.Config
	// EEGrid feeds the XVA overlay. When nil and XVA is requested, a
	// synthetic profile over the instrument's life is generated.
	EEGrid *xva.EEGrid
}

// RunResult is a completed pricing run.
type RunResult struct {
	ID            string            `json:"run_id"`
	CreatedAt     time.Time         `json:"created_at"`
	Instrument    string            `json:"instrument_id"`
	Kind          string            `json:"instrument_kind"`
	Breakdown     *swap.PVBreakdown `json:"breakdown"`
	Sensitivities *risk.Results     `json:"sensitivities,omitempty"`
	Symmetry      map[string]bool   `json:"symmetry,omitempty"`
	XVA           *xva.Results      `json:"xva,omitempty"`
	Elapsed       time.Duration     `json:"elapsed"`
}

// Runner executes pricing runs and persists them.
type Runner struct {
	repo Repository
	log  *zap.Logger
}

// NewRunner wires a runner. A nil logger is replaced with a no-op one.
func NewRunner(repo Repository, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{repo: repo, log: log}
}

// PriceRun executes one run end to end and stores the result.
func (r *Runner) PriceRun(ctx context.Context, req Request) (*RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()
	log := r.log.With(
		zap.String("run_id", runID),
		zap.String("instrument", req.Instrument.InstrumentID()),
		zap.String("kind", req.Instrument.Kind()),
	)

	bd, err := swap.Price(req.Instrument, req.Market, req.Pricing)
	if err != nil {
		log.Error("pricing failed", zap.Error(err))
		return nil, err
	}
	log.Info("priced",
		zap.Float64("total_pv", bd.TotalPV),
		zap.String("currency", bd.Currency),
		zap.String("lineage_hash", bd.LineageHash),
	)

	result := &RunResult{
		ID:         runID,
		CreatedAt:  start.UTC(),
		Instrument: req.Instrument.InstrumentID(),
		Kind:       req.Instrument.Kind(),
		Breakdown:  bd,
	}

	if req.Sensitivities {
		sens, err := r.sensitivities(ctx, req, bd)
		if err != nil {
			log.Error("sensitivities failed", zap.Error(err))
			return nil, err
		}
		result.Sensitivities = sens
		result.Symmetry = risk.ValidateSymmetry(sens)
		log.Info("sensitivities computed", zap.Int("shocks", len(sens.Shocks)))
	}

	if req.XVA != nil {
		grid := req.EEGrid
		if grid == nil {
			g := syntheticGrid(req.Instrument, bd)
			grid = &g
		}
		xres, err := xva.Compute(*grid, *req.XVA)
		if err != nil {
			log.Error("xva failed", zap.Error(err))
			return nil, err
		}
		result.XVA = xres
		log.Info("xva computed", zap.Float64("total_xva", xres.TotalXVA))
	}

	result.Elapsed = time.Since(start)
	if err := r.repo.Store(result); err != nil {
		return nil, fmt.Errorf("engine: storing run %s: %w", runID, err)
	}
	return result, nil
}

// Run fetches a stored run by id.
func (r *Runner) Run(id string) (*RunResult, error) {
	return r.repo.Get(id)
}

// sensitivities reprices under the shock catalog, rebuilding the keyed
// market container from each shocked snapshot.
func (r *Runner) sensitivities(ctx context.Context, req Request, bd *swap.PVBreakdown) (*risk.Results, error) {
	curves := make(map[string]*curve.Curve)
	for ccy, c := range req.Market.Discount {
		curves["disc/"+ccy] = c
	}
	for ccy, c := range req.Market.Forward {
		curves["fwd/"+ccy] = c
	}
	market := risk.Market{Curves: curves, FX: req.Market.FX}

	cfg := req.Pricing
	cfg.ComputePV01 = false

	reprice := func(m risk.Market) (float64, error) {
		md := swap.MarketData{
			Discount: make(map[string]*curve.Curve),
			Forward:  make(map[string]*curve.Curve),
			FX:       m.FX,
		}
		for key, c := range m.Curves {
			if ccy, ok := strings.CutPrefix(key, "disc/"); ok {
				md.Discount[ccy] = c
			} else if ccy, ok := strings.CutPrefix(key, "fwd/"); ok {
				md.Forward[ccy] = c
			}
		}
		shocked, err := swap.Price(req.Instrument, md, cfg)
		if err != nil {
			return 0, err
		}
		return shocked.TotalPV, nil
	}

	return risk.Calculate(ctx, bd.TotalPV, bd.Currency, market, reprice)
}

// syntheticGrid derives a deterministic exposure profile from the
// instrument's life, peaking at 10% of notional.
func syntheticGrid(inst swap.Instrument, bd *swap.PVBreakdown) xva.EEGrid {
	var effective, maturity time.Time
	var notional float64
	switch spec := inst.(type) {
	case swap.IRSSpec:
		effective, maturity, notional = spec.Effective, spec.Maturity, spec.Notional
	case swap.CCSSpec:
		effective, maturity, notional = spec.Effective, spec.Maturity, spec.Leg1.Notional
	}
	return xva.SyntheticEEGrid(effective, maturity, 30, notional*0.10, bd.Currency)
}
