package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"raincheck/internal/advisor"
	"raincheck/internal/api/handlers"
	"raincheck/internal/config"
	"raincheck/internal/core"
	"raincheck/internal/directory"
	"raincheck/internal/external"
	"raincheck/internal/store"
)

// buildTestServer wires a full server against a temp-dir file store, mirroring
// the production wiring in run().
func buildTestServer(t *testing.T) *core.Server {
	t.Helper()

	t.Setenv("APP_ENV", "local")
	t.Setenv("STORE_DRIVER", "file")
	t.Setenv("STORE_PATH", filepath.Join(t.TempDir(), "users.json.gz"))

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	st, err := store.NewFileStore(cfg.Store.Path)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	dir := directory.New(st, clockwork.NewRealClock(), logger)
	if err := dir.Load(t.Context()); err != nil {
		t.Fatalf("directory load: %v", err)
	}

	synth := advisor.NewSynthesizer(rand.New(rand.NewPCG(1, 1)))
	insight := external.NewBreakerAdvisor(
		external.NewPoolAdvisor(rand.New(rand.NewPCG(2, 2))),
		cfg.Advisor,
		logger,
	)

	srv, err := core.NewServer(cfg, logger)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	srv.Metrics = core.NewMetricsForTesting()
	srv.HealthProbes = []core.HealthProbe{st}

	srv.V1RouteRegistrars = append(srv.V1RouteRegistrars,
		handlers.NewUserHandler(dir, srv.Validator, logger).Routes(),
		handlers.NewLocationHandler(dir, srv.Validator, logger).Routes(),
		handlers.NewAlertHandler(dir, srv.Validator, logger).Routes(),
		handlers.NewWeatherHandler(synth, insight, rand.New(rand.NewPCG(3, 3)), srv.Validator, logger).Routes(),
	)

	srv.MountRoutes()
	return srv
}

func doJSON(t *testing.T, srv *core.Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

// TestHealthEndpoint verifies the fully wired server reports healthy with the
// file store probe in place.
func TestHealthEndpoint(t *testing.T) {
	srv := buildTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if status, ok := resp["status"]; !ok || status != "healthy" {
		t.Errorf("GET /health: got status=%v, want 'healthy'", status)
	}
}

// TestMetricsEndpoint verifies the Prometheus handler is mounted.
func TestMetricsEndpoint(t *testing.T) {
	srv := buildTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /metrics: got status %d", rec.Code)
	}
}

// TestUserAlertFlow exercises the wired stack end to end: create a user, add
// an alert, trigger it with an observation.
func TestUserAlertFlow(t *testing.T) {
	srv := buildTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/users", map[string]any{
		"name":  "Dana",
		"email": "dana@example.com",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /v1/users: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal create response: %v", err)
	}
	userID := created.Data.ID

	rec = doJSON(t, srv, http.MethodPost, "/v1/users/"+userID+"/alerts", map[string]any{
		"alert_type": "wind",
		"threshold":  30,
		"condition":  "above",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST alerts: got status %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodPost, "/v1/users/"+userID+"/alerts/check", map[string]any{
		"wind_speed": 42.0,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST alerts/check: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var checked struct {
		Data []struct {
			ID            string     `json:"id"`
			LastTriggered *time.Time `json:"last_triggered"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &checked); err != nil {
		t.Fatalf("unmarshal check response: %v", err)
	}
	if len(checked.Data) != 1 {
		t.Fatalf("alerts/check: got %d triggered alerts, want 1", len(checked.Data))
	}
	if checked.Data[0].LastTriggered == nil {
		t.Error("alerts/check: triggered alert missing last_triggered")
	}
}

// TestWeatherAnalysisEndpoint smoke-tests the analysis pipeline through the
// wired server.
func TestWeatherAnalysisEndpoint(t *testing.T) {
	srv := buildTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/v1/weather/analysis", map[string]any{
		"latitude":  48.2,
		"longitude": 16.3,
		"date":      "2026-09-01",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /v1/weather/analysis: got status %d, body %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data struct {
			EventType      string           `json:"event_type"`
			HourlyForecast []map[string]any `json:"hourly_forecast"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal analysis response: %v", err)
	}
	if resp.Data.EventType != "outdoor" {
		t.Errorf("event_type: got %q, want outdoor", resp.Data.EventType)
	}
	if len(resp.Data.HourlyForecast) != 8 {
		t.Errorf("hourly_forecast: got %d points, want 8", len(resp.Data.HourlyForecast))
	}
}

// TestNewLogger verifies the logger factory handles all configured levels.
func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "unknown"} {
		t.Run(level, func(t *testing.T) {
			if newLogger(level) == nil {
				t.Fatalf("newLogger(%q) returned nil", level)
			}
		})
	}
}
