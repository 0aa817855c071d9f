package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lina/internal/catalog"
	"github.com/abhisek/lina/internal/mastery"
	"github.com/abhisek/lina/internal/metrics"
	"github.com/abhisek/lina/internal/practice"
	"github.com/abhisek/lina/internal/store"
)

// testApp creates a Fiber app backed by an in-memory store.
func testApp(t *testing.T) (*fiber.App, *store.MemoryRepo) {
	t.Helper()
	engine, err := mastery.NewEngine(mastery.DefaultConfig())
	require.NoError(t, err)

	repo := store.NewMemoryRepo()
	now := time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC)
	svc := practice.NewService(repo, catalog.Default(), engine,
		practice.WithClock(func() time.Time { return now }))

	srv := New(Config{Addr: ":0"}, svc, metrics.New(), zerolog.Nop())
	return srv.App(), repo
}

func do(t *testing.T, app *fiber.App, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, _ := http.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	if strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

func TestServer_Healthz(t *testing.T) {
	app, _ := testApp(t)
	resp, body := do(t, app, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestServer_Review(t *testing.T) {
	app, repo := testApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/v1/reviews", `{"skill_id":"ueb01-b3-fibonacci","ok":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	competence := body["competence"].(map[string]any)
	assert.Equal(t, "stable", competence["rule"])
	assert.Equal(t, float64(1), competence["level"])
	facts := body["facts"].(map[string]any)
	assert.Equal(t, "Fibonacci – B3", facts["skill_title"])
	assert.NotEmpty(t, facts["event_id"])

	log, err := repo.Outcomes(t.Context(), "ueb01-b3-fibonacci")
	require.NoError(t, err)
	assert.Len(t, log, 1)
}

func TestServer_ReviewErrors(t *testing.T) {
	app, _ := testApp(t)
	tests := []struct {
		name string
		body string
		want int
		kind string
	}{
		{"unknown skill", `{"skill_id":"nope","ok":true}`, http.StatusNotFound, "not_found"},
		{"missing ok", `{"skill_id":"ueb01-b3-fibonacci"}`, http.StatusBadRequest, "invalid_input"},
		{"missing skill id", `{"ok":false}`, http.StatusBadRequest, "invalid_input"},
		{"malformed body", `{`, http.StatusBadRequest, "invalid_input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, http.MethodPost, "/api/v1/reviews", tt.body)
			assert.Equal(t, tt.want, resp.StatusCode)
			assert.Equal(t, tt.kind, body["type"])
			assert.Equal(t, float64(tt.want), body["status"])
			assert.Equal(t, "/api/v1/reviews", body["instance"])
		})
	}
}

func TestServer_GradeAndDue(t *testing.T) {
	app, _ := testApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/v1/items/fib-1/grade", `{"skill_id":"ueb01-b3-fibonacci","grade":4}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "fib-1", body["item_id"])
	assert.Equal(t, float64(1), body["interval_days"])
	assert.Equal(t, "4", body["last_grade"])

	resp, body = do(t, app, http.MethodPost, "/api/v1/items/fib-1/grade", `{"grade":7}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["detail"], "grade")

	resp, body = do(t, app, http.MethodGet, "/api/v1/items/due?limit=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["items"])

	resp, _ = do(t, app, http.MethodGet, "/api/v1/items/due?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_GradedItemsReadBackByID(t *testing.T) {
	app, repo := testApp(t)
	ids := []string{"item-aaa", "item-bbb", "item-ccc", "item-ddd"}

	for _, id := range ids {
		resp, body := do(t, app, http.MethodPost, "/api/v1/items/"+id+"/grade", `{"grade":3}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, id, body["item_id"])

		resp, _ = do(t, app, http.MethodGet, "/api/v1/skills", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp, _ = do(t, app, http.MethodGet, "/api/v1/items/due?limit=9", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	for _, id := range ids {
		resp, body := do(t, app, http.MethodGet, "/api/v1/items/"+id, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, id)
		assert.Equal(t, id, body["item_id"])
		assert.Equal(t, "not_due", body["status"])
		assert.Equal(t, float64(2), body["days_until_review"])

		stored, err := repo.GetItemSchedule(t.Context(), id)
		require.NoError(t, err)
		require.NotNil(t, stored, id)
		assert.Equal(t, id, stored.ItemID)
	}

	all, err := repo.ListItemSchedules(t.Context(), store.ScheduleQuery{})
	require.NoError(t, err)
	got := make([]string, len(all))
	for i, d := range all {
		got[i] = d.ItemID
	}
	assert.ElementsMatch(t, ids, got)

	resp, body := do(t, app, http.MethodGet, "/api/v1/items/item-zzz", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["type"])
}

func TestServer_Flow(t *testing.T) {
	app, _ := testApp(t)

	resp, body := do(t, app, http.MethodPost, "/api/v1/flow", `{"fluency":0.7,"challenge":0.4}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 0.7, body["fluency"])

	resp, _ = do(t, app, http.MethodPost, "/api/v1/flow", `{"fluency":1.5,"challenge":0.4}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp, _ = do(t, app, http.MethodPost, "/api/v1/flow", `{"fluency":0.5}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, app, http.MethodGet, "/api/v1/flow?limit=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entries := body["flow"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, 0.4, entries[0].(map[string]any)["challenge"])
}

func TestServer_MatrixBucketsReminders(t *testing.T) {
	app, _ := testApp(t)

	resp, body := do(t, app, http.MethodGet, "/api/v1/skills", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, body["skills"], catalog.Default().Len())

	resp, body = do(t, app, http.MethodGet, "/api/v1/skills/buckets", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	buckets := body["buckets"].(map[string]any)
	assert.Len(t, buckets, 5)
	assert.Equal(t, float64(catalog.Default().Len()), buckets["1"])
	assert.Equal(t, float64(catalog.Default().Len()), body["total"])

	resp, body = do(t, app, http.MethodGet, "/api/v1/reminders", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	// Every fresh skill sits at level 1 with no successes: three warm-ups.
	rs := body["reminders"].([]any)
	require.Len(t, rs, 3)
	assert.Equal(t, "warmup", rs[0].(map[string]any)["kind"])
}

func TestServer_Events(t *testing.T) {
	app, _ := testApp(t)
	for i := 0; i < 5; i++ {
		resp, _ := do(t, app, http.MethodPost, "/api/v1/reviews", `{"skill_id":"ueb02-a-ebene","ok":true}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := do(t, app, http.MethodGet, "/api/v1/events?limit=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	events := body["events"].([]any)
	require.Len(t, events, 1)
	assert.Equal(t, "promote", events[0].(map[string]any)["rule"])

	resp, body = do(t, app, http.MethodGet, "/api/v1/skills", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var found bool
	for _, raw := range body["skills"].([]any) {
		row := raw.(map[string]any)
		if row["skill"].(map[string]any)["id"] != "ueb02-a-ebene" {
			continue
		}
		found = true
		snap := row["snapshot"].(map[string]any)
		assert.Equal(t, float64(2), snap["level"])
		assert.Equal(t, "stable", snap["rule"])
	}
	assert.True(t, found)

	resp, body = do(t, app, http.MethodGet, "/api/v1/skills/buckets", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	buckets := body["buckets"].(map[string]any)
	assert.Equal(t, float64(1), buckets["2"])
	assert.Equal(t, float64(0), buckets["3"])
}

func TestServer_Metrics(t *testing.T) {
	app, _ := testApp(t)
	do(t, app, http.MethodPost, "/api/v1/reviews", `{"skill_id":"ueb01-b3-fibonacci","ok":false}`)

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `lina_reviews_total{result="fail"} 1`)
}

func TestServer_NotFound(t *testing.T) {
	app, _ := testApp(t)
	resp, body := do(t, app, http.MethodGet, "/api/v1/nothing", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", body["type"])
}
