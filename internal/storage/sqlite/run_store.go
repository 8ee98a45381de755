package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/telecominfraproject/gnmodel/internal/link"
)

// Run represents a persisted simulation run: the configuration that was
// evaluated and the link-level summary of the outcome.
type Run struct {
	RunID       string          `json:"run_id"`
	Label       string          `json:"label,omitempty"`
	ParamsJSON  json.RawMessage `json:"params_json"`
	WorstGSNRdB float64         `json:"worst_gsnr_db"`
	Feasible    bool            `json:"feasible"`
	CreatedAt   int64           `json:"created_at"`
}

// RunStore provides persistence for simulation runs and their per-channel
// results.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a RunStore backed by the given database.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert persists a run together with its channel results in one
// transaction. If RunID is empty, a UUID is generated.
func (s *RunStore) Insert(run *Run, channels []link.ChannelResult) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	return retryOnBusy(func() error {
		tx, err := s.db.Begin()
		if err != nil {
			return err
		}
		defer tx.Rollback()

		_, err = tx.Exec(`
			INSERT INTO runs (run_id, label, params_json, worst_gsnr_db, feasible, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Label, string(run.ParamsJSON), run.WorstGSNRdB, run.Feasible, run.CreatedAt,
		)
		if err != nil {
			return err
		}

		for _, ch := range channels {
			_, err = tx.Exec(`
				INSERT INTO channel_results (
					run_id, channel_index, frequency_thz, launch_power_w,
					nli_psd_w_per_thz, nli_power_w, ase_power_w,
					osnr_db, gsnr_db, feasible
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				run.RunID, ch.Index, ch.FrequencyTHz, ch.LaunchPowerW,
				ch.NLIPSDWPerTHz, ch.NLIPowerW, ch.ASEPowerW,
				ch.OSNRdB, ch.GSNRdB, ch.Feasible,
			)
			if err != nil {
				return err
			}
		}

		return tx.Commit()
	})
}

// List returns the most recent runs, newest first, up to limit.
func (s *RunStore) List(limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.Query(`
		SELECT run_id, label, params_json, worst_gsnr_db, feasible, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Get fetches one run by id. Returns sql.ErrNoRows if it does not exist.
func (s *RunStore) Get(runID string) (*Run, error) {
	row := s.db.QueryRow(`
		SELECT run_id, label, params_json, worst_gsnr_db, feasible, created_at
		FROM runs
		WHERE run_id = ?`, runID)

	var r Run
	var params string
	if err := row.Scan(&r.RunID, &r.Label, &params, &r.WorstGSNRdB, &r.Feasible, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.ParamsJSON = json.RawMessage(params)
	return &r, nil
}

// Results returns the per-channel results of a run ordered by channel index.
func (s *RunStore) Results(runID string) ([]link.ChannelResult, error) {
	rows, err := s.db.Query(`
		SELECT channel_index, frequency_thz, launch_power_w,
		       nli_psd_w_per_thz, nli_power_w, ase_power_w,
		       osnr_db, gsnr_db, feasible
		FROM channel_results
		WHERE run_id = ?
		ORDER BY channel_index ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query channel results: %w", err)
	}
	defer rows.Close()

	var out []link.ChannelResult
	for rows.Next() {
		var ch link.ChannelResult
		if err := rows.Scan(
			&ch.Index, &ch.FrequencyTHz, &ch.LaunchPowerW,
			&ch.NLIPSDWPerTHz, &ch.NLIPowerW, &ch.ASEPowerW,
			&ch.OSNRdB, &ch.GSNRdB, &ch.Feasible,
		); err != nil {
			return nil, fmt.Errorf("scan channel result: %w", err)
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// Delete removes a run and, through the FK cascade, its channel results.
func (s *RunStore) Delete(runID string) error {
	return retryOnBusy(func() error {
		_, err := s.db.Exec(`DELETE FROM runs WHERE run_id = ?`, runID)
		return err
	})
}

func scanRun(rows *sql.Rows) (*Run, error) {
	var r Run
	var params string
	if err := rows.Scan(&r.RunID, &r.Label, &params, &r.WorstGSNRdB, &r.Feasible, &r.CreatedAt); err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	r.ParamsJSON = json.RawMessage(params)
	return &r, nil
}
