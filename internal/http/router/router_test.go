package router

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lead_analyzer_backend/internal/events"
	apphttp "lead_analyzer_backend/internal/http"
	"lead_analyzer_backend/internal/leads"
	"lead_analyzer_backend/internal/leads/email"
	"lead_analyzer_backend/internal/leads/provider"
	"lead_analyzer_backend/platform/config"
	"lead_analyzer_backend/platform/logger"
	"lead_analyzer_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestApp(cfg *config.Config) *apphttp.App {
	log := logger.Discard()
	bus := events.NewInMemoryBus(log)
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewCounter(prometheus.CounterOpts{Name: "router_test_total", Help: "test"}))

	module := leads.NewModuleWith(provider.NewMock(), email.NewFormatVerifier(), bus, validator.New(), log)
	return &apphttp.App{
		Config:  cfg,
		Logger:  log,
		Metrics: reg,
		Modules: []apphttp.Module{module},
	}
}

func serve(engine *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRouter_CORSAllowAll(t *testing.T) {
	engine := New(newTestApp(&config.Config{CORSAllowAll: true, RateLimitRPS: 10, RateLimitBurst: 10}))

	w := serve(engine, http.MethodGet, "/api/health-check", "", map[string]string{"Origin": "https://app.example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("expected wildcard CORS origin, got %q", got)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("expected security headers")
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	engine := New(newTestApp(&config.Config{
		CORSOrigins:    []string{"https://app.example.com"},
		RateLimitRPS:   10,
		RateLimitBurst: 10,
	}))

	w := serve(engine, http.MethodOptions, "/api/analyze-lead", "", map[string]string{
		"Origin":                        "https://app.example.com",
		"Access-Control-Request-Method": "POST",
	})
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 preflight, got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("unexpected allow origin %q", got)
	}

	w = serve(engine, http.MethodGet, "/api/health-check", "", map[string]string{"Origin": "https://evil.example.com"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for disallowed origin, got %d", w.Code)
	}
}

func TestRouter_RateLimitsAnalysisOnly(t *testing.T) {
	engine := New(newTestApp(&config.Config{CORSAllowAll: true, RateLimitRPS: 0.001, RateLimitBurst: 2}))
	body := `{"url":"https://example.com"}`

	for i := 0; i < 2; i++ {
		if w := serve(engine, http.MethodPost, "/api/analyze-lead", body, nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
	if w := serve(engine, http.MethodPost, "/api/analyze-lead", body, nil); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w := serve(engine, http.MethodGet, "/api/health-check", "", nil); w.Code != http.StatusOK {
		t.Fatalf("expected health check to bypass the limiter, got %d", w.Code)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	engine := New(newTestApp(&config.Config{CORSAllowAll: true, RateLimitRPS: 10, RateLimitBurst: 10}))

	w := serve(engine, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "router_test_total") {
		t.Fatalf("expected registered collector in exposition, got %s", w.Body.String())
	}
}

func TestRouter_NoMetricsWithoutGatherer(t *testing.T) {
	app := newTestApp(&config.Config{CORSAllowAll: true, RateLimitRPS: 10, RateLimitBurst: 10})
	app.Metrics = nil
	engine := New(app)

	w := serve(engine, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"message":"resource not found"`) {
		t.Fatalf("expected JSON error envelope, got %s", w.Body.String())
	}
}

func TestRouter_MetricsBypassRateLimit(t *testing.T) {
	engine := New(newTestApp(&config.Config{CORSAllowAll: true, RateLimitRPS: 0.001, RateLimitBurst: 1}))

	for i := 0; i < 3; i++ {
		if w := serve(engine, http.MethodGet, "/metrics", "", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, w.Code)
		}
	}
}
