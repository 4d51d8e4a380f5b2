package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/eventbot/internal/metrics"
	"github.com/mmynk/eventbot/internal/middleware"
	"github.com/mmynk/eventbot/internal/models"
	"github.com/mmynk/eventbot/internal/service"
	"github.com/mmynk/eventbot/internal/storage/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.SQLiteStore, *metrics.Metrics) {
	t.Helper()
	store, err := sqlite.New(sqlite.Config{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	server := New(service.NewBot(store), store, m, registry)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts, store, m
}

func TestHealthcheck(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthcheck")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "OK", string(body))
}

func TestWebhookRoundTrip(t *testing.T) {
	req := require.New(t)
	ts, _, m := newTestServer(t)

	// Create an event through a dialog submission.
	event := map[string]any{
		"kind":        "dialog_submission",
		"callback_id": "eventbot_events",
		"parsed_user": map[string]string{"id": "U1"},
		"channel":     map[string]string{"id": "C1"},
		"state":       "update_event:TS1",
		"submission":  map[string]string{"name": "Party", "cost": "12.50"},
	}
	body, err := json.Marshal(event)
	req.NoError(err)

	resp, err := http.Post(ts.URL+"/api/v1/eventbot", "application/json", bytes.NewReader(body))
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	var envelope struct {
		Actions []struct {
			Action string `json:"action"`
			Kwargs struct {
				TS string `json:"ts"`
			} `json:"kwargs"`
		} `json:"actions"`
	}
	req.NoError(json.NewDecoder(resp.Body).Decode(&envelope))
	req.Len(envelope.Actions, 1)
	req.Equal("chat.update", envelope.Actions[0].Action)
	req.Equal("TS1", envelope.Actions[0].Kwargs.TS)

	req.Equal(float64(1), testutil.ToFloat64(m.EventsHandled.WithLabelValues("dialog_submission")))

	// The created event shows up in the status listing.
	listResp, err := http.Get(ts.URL + "/api/v1/events")
	req.NoError(err)
	defer listResp.Body.Close()
	req.Equal(http.StatusOK, listResp.StatusCode)

	var listing struct {
		Events []struct {
			EventID string `json:"event_id"`
			Name    string `json:"name"`
			Cost    int64  `json:"cost"`
		} `json:"events"`
	}
	req.NoError(json.NewDecoder(listResp.Body).Decode(&listing))
	req.Len(listing.Events, 1)
	req.Equal("TS1", listing.Events[0].EventID)
	req.Equal(int64(1250), listing.Events[0].Cost)
}

func TestListEventsPagination(t *testing.T) {
	req := require.New(t)
	ts, store, _ := newTestServer(t)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		req.NoError(store.PutEvent(ctx, &models.Event{
			EventID: fmt.Sprintf("ts%d", i),
			Name:    fmt.Sprintf("Event %d", i),
			Status:  models.StatusOpen,
			Creator: "U1",
		}))
	}

	type listing struct {
		Events []struct {
			EventID string `json:"event_id"`
		} `json:"events"`
		NextCursor string `json:"next_cursor"`
	}
	getPage := func(url string) listing {
		t.Helper()
		resp, err := http.Get(url)
		req.NoError(err)
		defer resp.Body.Close()
		req.Equal(http.StatusOK, resp.StatusCode)
		var page listing
		req.NoError(json.NewDecoder(resp.Body).Decode(&page))
		return page
	}

	page1 := getPage(ts.URL + "/api/v1/events?limit=2")
	req.Len(page1.Events, 2)
	req.Equal("ts2", page1.NextCursor)

	page2 := getPage(ts.URL + "/api/v1/events?limit=2&cursor=" + page1.NextCursor)
	req.Len(page2.Events, 2)
	req.Equal("ts4", page2.NextCursor)

	page3 := getPage(ts.URL + "/api/v1/events?limit=2&cursor=" + page2.NextCursor)
	req.Len(page3.Events, 1)
	req.Equal("ts5", page3.Events[0].EventID)
	req.Empty(page3.NextCursor)

	resp, err := http.Get(ts.URL + "/api/v1/events?limit=abc")
	req.NoError(err)
	resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestWebhookEmptyEvent(t *testing.T) {
	req := require.New(t)
	ts, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/eventbot", "application/json", strings.NewReader("{}"))
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusOK, resp.StatusCode)

	// Even an empty event gets a diagnostic envelope, never a crash.
	body, err := io.ReadAll(resp.Body)
	req.NoError(err)
	req.NotEmpty(body)
}

func TestWebhookInvalidJSON(t *testing.T) {
	req := require.New(t)
	ts, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/eventbot", "application/json", strings.NewReader("{not json"))
	req.NoError(err)
	defer resp.Body.Close()
	req.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestRecoveryConvertsPanicsTo500(t *testing.T) {
	req := require.New(t)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	var handler http.Handler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	handler = middleware.Recovery(m)(handler)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/eventbot", nil))

	req.Equal(http.StatusInternalServerError, rec.Code)

	var body map[string]string
	req.NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	req.Equal("Internal server error", body["error"])

	req.Equal(float64(1), testutil.ToFloat64(m.UncaughtExceptions.WithLabelValues("string")))
}

func TestMetricsEndpoint(t *testing.T) {
	req := require.New(t)
	ts, _, _ := newTestServer(t)

	// Generate one handled event first.
	resp, err := http.Post(ts.URL+"/api/v1/eventbot", "application/json", strings.NewReader(`{"kind":"command","text":"create"}`))
	req.NoError(err)
	resp.Body.Close()

	metricsResp, err := http.Get(ts.URL + "/metrics")
	req.NoError(err)
	defer metricsResp.Body.Close()
	req.Equal(http.StatusOK, metricsResp.StatusCode)

	body, err := io.ReadAll(metricsResp.Body)
	req.NoError(err)
	req.Contains(string(body), "eventbot_events_handled_total")
}