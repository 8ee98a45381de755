// Package monitor serves the debug dashboard: quick go-echarts renderings of
// stored runs, for eyeballing results without any frontend build.
package monitor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/telecominfraproject/gnmodel/internal/config"
	"github.com/telecominfraproject/gnmodel/internal/spectrum"
	"github.com/telecominfraproject/gnmodel/internal/storage/sqlite"
)

// Dashboard renders HTML charts for stored runs.
type Dashboard struct {
	store *sqlite.RunStore
}

// NewDashboard creates a Dashboard backed by the given run store.
func NewDashboard(store *sqlite.RunStore) *Dashboard {
	return &Dashboard{store: store}
}

// AttachRoutes mounts the chart endpoints on mux.
func (d *Dashboard) AttachRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/charts/spectrum", d.handleSpectrumChart)
	mux.HandleFunc("/debug/charts/gsnr", d.handleGSNRChart)
}

func (d *Dashboard) writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// loadRun fetches a run and rehydrates the config it was evaluated with.
func (d *Dashboard) loadRun(runID string) (*sqlite.Run, *config.SimConfig, error) {
	run, err := d.store.Get(runID)
	if err != nil {
		return nil, nil, fmt.Errorf("run %s: %w", runID, err)
	}
	cfg := config.EmptySimConfig()
	if err := json.Unmarshal(run.ParamsJSON, cfg); err != nil {
		return nil, nil, fmt.Errorf("run %s params: %w", runID, err)
	}
	return run, cfg, nil
}

// handleSpectrumChart renders the comb PSD and the per-channel NLI of a run
// as an HTML scatter chart. Query params: run_id (required).
func (d *Dashboard) handleSpectrumChart(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		d.writeJSONError(w, http.StatusBadRequest, "missing 'run_id' parameter")
		return
	}

	run, cfg, err := d.loadRun(runID)
	if err != nil {
		d.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	results, err := d.store.Results(runID)
	if err != nil {
		d.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	comb := cfg.Comb()
	centers := comb.CenterFrequencies()
	fGrid := spectrum.Linspace(centers[0], centers[len(centers)-1], 2000)
	psd := comb.PSD(fGrid)

	combData := make([]opts.ScatterData, 0, len(fGrid))
	for i := range fGrid {
		combData = append(combData, opts.ScatterData{Value: []interface{}{fGrid[i], 10 * math.Log10(psd[i]+1e-6)}})
	}
	nliData := make([]opts.ScatterData, 0, len(results))
	for _, ch := range results {
		if ch.NLIPSDWPerTHz <= 0 {
			continue
		}
		nliData = append(nliData, opts.ScatterData{Value: []interface{}{ch.FrequencyTHz, 10 * math.Log10(ch.NLIPSDWPerTHz)}})
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "GN model spectrum", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "WDM comb and NLI", Subtitle: fmt.Sprintf("run=%s label=%q", run.RunID, run.Label)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "f (THz)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "PSD (dB(W/THz))", NameLocation: "middle", NameGap: 40}),
	)
	scatter.AddSeries("WDM comb", combData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 2}))
	scatter.AddSeries("GNLI", nliData, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		d.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleGSNRChart renders per-channel GSNR/OSNR bars for a run with the
// feasibility threshold overlaid. Query params: run_id (required).
func (d *Dashboard) handleGSNRChart(w http.ResponseWriter, r *http.Request) {
	runID := r.URL.Query().Get("run_id")
	if runID == "" {
		d.writeJSONError(w, http.StatusBadRequest, "missing 'run_id' parameter")
		return
	}

	run, cfg, err := d.loadRun(runID)
	if err != nil {
		d.writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	results, err := d.store.Results(runID)
	if err != nil {
		d.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(results) == 0 {
		d.writeJSONError(w, http.StatusNotFound, "no channel results for run")
		return
	}

	labels := make([]string, 0, len(results))
	gsnr := make([]opts.BarData, 0, len(results))
	osnr := make([]opts.BarData, 0, len(results))
	for _, ch := range results {
		labels = append(labels, fmt.Sprintf("%.3f", ch.FrequencyTHz))
		gsnr = append(gsnr, opts.BarData{Value: ch.GSNRdB})
		osnr = append(osnr, opts.BarData{Value: ch.OSNRdB})
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "GN model GSNR", Theme: "dark", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{Title: "Per-channel GSNR / OSNR", Subtitle: fmt.Sprintf("run=%s worst=%.2f dB feasible=%v", run.RunID, run.WorstGSNRdB, run.Feasible)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "channel centre (THz)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "dB"}),
	)
	bar.SetXAxis(labels)
	// the feasibility threshold as a horizontal mark line over the GSNR bars
	bar.AddSeries("GSNR", gsnr,
		charts.WithMarkLineNameYAxisItemOpts(opts.MarkLineNameYAxisItem{
			Name:  "required SNR",
			YAxis: cfg.GetRequiredSNRdB(),
		}))
	bar.AddSeries("OSNR", osnr)

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		d.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
