// Package sim runs a configured GN-model simulation end to end and records
// the outcome.
package sim

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/telecominfraproject/gnmodel/internal/config"
	"github.com/telecominfraproject/gnmodel/internal/gn"
	"github.com/telecominfraproject/gnmodel/internal/link"
	"github.com/telecominfraproject/gnmodel/internal/monitoring"
	"github.com/telecominfraproject/gnmodel/internal/spectrum"
	"github.com/telecominfraproject/gnmodel/internal/storage/sqlite"
)

// Result bundles everything one simulation produced.
type Result struct {
	Config     *config.SimConfig
	Comb       spectrum.Comb
	Evaluation *link.Evaluation
	Elapsed    time.Duration
}

// Run materialises the comb and link from cfg, evaluates the GN model and
// returns the per-channel noise budget.
func Run(cfg *config.SimConfig) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	comb := cfg.Comb()
	l := cfg.Link()

	start := time.Now()
	eval, err := link.Evaluate(l, comb, cfg.Params(comb), cfg.GetRequiredSNRdB())
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	monitoring.Logf("evaluated %d channels over %d span(s) in %s (worst GSNR %.2f dB, feasible=%v)",
		len(comb.Channels), l.SpanCount, elapsed.Round(time.Millisecond), eval.WorstGSNRdB, eval.Feasible)

	return &Result{Config: cfg, Comb: comb, Evaluation: eval, Elapsed: elapsed}, nil
}

// PSDResult is the raw NLI PSD at explicitly chosen evaluation frequencies,
// without the link-budget layer on top.
type PSDResult struct {
	NLIPSD  []float64
	Elapsed time.Duration
}

// RunAt evaluates the GN integral for cfg's comb and fibre at the exact
// frequencies given in p, bypassing the per-channel budget.
func RunAt(cfg *config.SimConfig, p gn.Params) (*PSDResult, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	start := time.Now()
	psd, err := gn.Integral(cfg.Fiber(), cfg.Comb(), p)
	if err != nil {
		return nil, err
	}
	return &PSDResult{NLIPSD: psd, Elapsed: time.Since(start)}, nil
}

// Record persists a result to the run store under the given label and
// returns the stored run row.
func Record(store *sqlite.RunStore, label string, res *Result) (*sqlite.Run, error) {
	params, err := json.Marshal(res.Config)
	if err != nil {
		return nil, fmt.Errorf("marshal run params: %w", err)
	}

	run := &sqlite.Run{
		Label:       label,
		ParamsJSON:  params,
		WorstGSNRdB: res.Evaluation.WorstGSNRdB,
		Feasible:    res.Evaluation.Feasible,
	}
	if err := store.Insert(run, res.Evaluation.Channels); err != nil {
		return nil, fmt.Errorf("record run: %w", err)
	}
	return run, nil
}
