package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telecominfraproject/gnmodel/internal/db"
	"github.com/telecominfraproject/gnmodel/internal/link"
	"github.com/telecominfraproject/gnmodel/internal/storage/sqlite"
)

func newTestDashboard(t *testing.T) (*httptest.Server, *sqlite.RunStore) {
	t.Helper()

	database, err := db.New(filepath.Join(t.TempDir(), "monitor.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	schema, err := os.ReadFile("../../migrations/0001_init.up.sql")
	require.NoError(t, err)
	_, err = database.Exec(string(schema))
	require.NoError(t, err)

	store := sqlite.NewRunStore(database.DB)
	mux := http.NewServeMux()
	NewDashboard(store).AttachRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, store
}

func insertRun(t *testing.T, store *sqlite.RunStore) *sqlite.Run {
	t.Helper()
	run := &sqlite.Run{
		Label:       "chart test",
		ParamsJSON:  json.RawMessage(`{"channel_count": 3}`),
		WorstGSNRdB: 19.7,
		Feasible:    true,
	}
	channels := []link.ChannelResult{
		{Index: 0, FrequencyTHz: -0.05, NLIPSDWPerTHz: 2e-4, GSNRdB: 20.3, OSNRdB: 24.1},
		{Index: 1, FrequencyTHz: 0, NLIPSDWPerTHz: 2.4e-4, GSNRdB: 19.7, OSNRdB: 24.1},
		{Index: 2, FrequencyTHz: 0.05, NLIPSDWPerTHz: 2e-4, GSNRdB: 20.3, OSNRdB: 24.1},
	}
	require.NoError(t, store.Insert(run, channels))
	return run
}

func TestChartEndpoints(t *testing.T) {
	t.Parallel()
	srv, store := newTestDashboard(t)
	run := insertRun(t, store)

	for _, endpoint := range []string{"/debug/charts/spectrum", "/debug/charts/gsnr"} {
		t.Run(strings.TrimPrefix(endpoint, "/debug/charts/"), func(t *testing.T) {
			resp, err := http.Get(srv.URL + endpoint + "?run_id=" + run.RunID)
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
		})
	}
}

func TestChartErrors(t *testing.T) {
	t.Parallel()
	srv, _ := newTestDashboard(t)

	t.Run("missing run_id", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(srv.URL + "/debug/charts/spectrum")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown run", func(t *testing.T) {
		t.Parallel()
		resp, err := http.Get(srv.URL + "/debug/charts/gsnr?run_id=no-such-run")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
