package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/scorebook/internal/engine"
	"github.com/roach88/scorebook/internal/store"
	"github.com/roach88/scorebook/internal/testutil"
)

// createTestServer serves a fresh engine over httptest.
func createTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	clock := testutil.NewDeterministicClock(testutil.DefaultClockStart, time.Second)
	s.SetClock(clock.Now)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := engine.New(s, engine.WithClock(clock.Now), engine.WithLogger(logger))

	srv := httptest.NewServer(NewRouter(e, nil, logger))
	t.Cleanup(srv.Close)
	return srv
}

// do sends a request with an optional JSON body and decodes a JSON
// response into a generic map.
func do(t *testing.T, srv *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	}
	return resp.StatusCode, out
}

// createMatch posts a Lions v Tigers match and returns its id.
func createMatch(t *testing.T, srv *httptest.Server, overs int) int64 {
	t.Helper()
	status, body := do(t, srv, http.MethodPost, "/api/v1/matches", map[string]any{
		"team1":       map[string]any{"id": 1, "name": "Lions"},
		"team2":       map[string]any{"id": 2, "name": "Tigers"},
		"total_overs": overs,
		"venue":       "Eden Park",
	})
	require.Equal(t, http.StatusCreated, status, "body: %v", body)
	return int64(body["id"].(float64))
}

// delivery builds a delivery body for innings 1 with batters 101/102
// facing bowler 210.
func delivery(over, ball, runs int) map[string]any {
	return map[string]any{
		"innings":        1,
		"over_number":    over,
		"ball_number":    ball,
		"batsman_id":     101,
		"non_striker_id": 102,
		"bowler_id":      210,
		"runs_scored":    runs,
		"extras":         0,
		"extras_type":    "none",
		"is_wicket":      false,
		"dismissal_type": "none",
	}
}
