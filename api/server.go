// Package api exposes the simulation engine and the run archive over HTTP.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/telecominfraproject/gnmodel/internal/config"
	"github.com/telecominfraproject/gnmodel/internal/sim"
	"github.com/telecominfraproject/gnmodel/internal/storage/sqlite"
)

// Server serves the JSON API. Mount its ServeMux under /api.
type Server struct {
	store *sqlite.RunStore
}

// NewServer creates an API server backed by the given run store.
func NewServer(store *sqlite.RunStore) *Server {
	return &Server{store: store}
}

// ServeMux returns the API routing table.
func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/defaults", s.handleDefaults)
	mux.HandleFunc("/runs", s.handleRuns)
	mux.HandleFunc("/runs/", s.handleRun)
	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// handleDefaults returns the fully resolved default configuration.
func (s *Server) handleDefaults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	cfg := config.EmptySimConfig()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"channel_count":     cfg.GetChannelCount(),
		"spacing_thz":       cfg.GetSpacingTHz(),
		"symbol_rate_tbaud": cfg.GetSymbolRateTBaud(),
		"roll_off":          cfg.GetRollOff(),
		"launch_power_dbm":  cfg.GetLaunchPowerDBm(),
		"beta2_ps_thz_km":   cfg.GetBeta2PsTHzKm(),
		"span_km":           cfg.GetSpanKm(),
		"loss_db_per_km":    cfg.GetLossDBPerKm(),
		"gamma_per_w_km":    cfg.GetGammaPerWKm(),
		"span_count":        cfg.GetSpanCount(),
		"noise_figure_db":   cfg.GetNoiseFigureDB(),
		"required_snr_db":   cfg.GetRequiredSNRdB(),
		"min_fwm_inv_db":    cfg.GetMinFWMInvDB(),
		"n_grid":            cfg.GetNGrid(),
		"n_grid_min":        cfg.GetNGridMin(),
	})
}

// handleRuns lists stored runs (GET) or executes and records a new
// simulation (POST, body is a partial SimConfig).
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		runs, err := s.store.List(100)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("list runs: %v", err))
			return
		}
		if runs == nil {
			runs = []*sqlite.Run{}
		}
		s.writeJSON(w, http.StatusOK, runs)

	case http.MethodPost:
		cfg := config.EmptySimConfig()
		if err := json.NewDecoder(r.Body).Decode(cfg); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("decode config: %v", err))
			return
		}
		if err := cfg.Validate(); err != nil {
			s.writeJSONError(w, http.StatusBadRequest, err.Error())
			return
		}

		res, err := sim.Run(cfg)
		if err != nil {
			s.writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		label := r.URL.Query().Get("label")
		run, err := sim.Record(s.store, label, res)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}

		s.writeJSON(w, http.StatusCreated, map[string]interface{}{
			"run":      run,
			"channels": res.Evaluation.Channels,
			"elapsed":  res.Elapsed.String(),
		})

	default:
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleRun serves /runs/{id} and /runs/{id}/results.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodDelete {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/runs/")
	parts := strings.SplitN(rest, "/", 2)
	runID := parts[0]
	if runID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "missing run id")
		return
	}

	if r.Method == http.MethodDelete {
		if len(parts) > 1 {
			s.writeJSONError(w, http.StatusBadRequest, "cannot delete a sub-resource")
			return
		}
		if err := s.store.Delete(runID); err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if len(parts) == 2 && parts[1] == "results" {
		results, err := s.store.Results(runID)
		if err != nil {
			s.writeJSONError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, results)
		return
	}
	if len(parts) == 2 {
		s.writeJSONError(w, http.StatusNotFound, "unknown sub-resource")
		return
	}

	run, err := s.store.Get(runID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeJSONError(w, http.StatusNotFound, "run not found")
			return
		}
		s.writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}
