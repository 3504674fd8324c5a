package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lead_analyzer_backend/platform/apperr"
	"lead_analyzer_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHandleError_MapsKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{name: "validation", err: apperr.Validation("URL is required"), wantStatus: http.StatusBadRequest, wantMsg: "URL is required"},
		{name: "upstream", err: apperr.Upstream("metrics provider unavailable", errors.New("boom")), wantStatus: http.StatusBadGateway, wantMsg: "metrics provider unavailable"},
		{name: "bad request", err: apperr.BadRequest("Invalid JSON payload"), wantStatus: http.StatusBadRequest, wantMsg: "Invalid JSON payload"},
		{name: "not found", err: apperr.NotFound("resource not found"), wantStatus: http.StatusNotFound, wantMsg: "resource not found"},
		{name: "rate limited", err: apperr.RateLimited("rate limit exceeded"), wantStatus: http.StatusTooManyRequests, wantMsg: "rate limit exceeded"},
		{name: "internal", err: apperr.Internal("internal server error", errors.New("nil map")), wantStatus: http.StatusInternalServerError, wantMsg: "internal server error"},
		{name: "timeout", err: apperr.Timeout("metrics provider timed out", errors.New("deadline")), wantStatus: http.StatusGatewayTimeout, wantMsg: "metrics provider timed out"},
		{name: "plain error", err: errors.New("kaput"), wantStatus: http.StatusInternalServerError, wantMsg: "An error occurred while analyzing the lead: kaput"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)

			if !HandleError(c, tt.err) {
				t.Fatal("expected error to be handled")
			}
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Message != tt.wantMsg {
				t.Fatalf("expected message %q, got %q", tt.wantMsg, body.Message)
			}
		})
	}
}

func TestHandleError_Nil(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if HandleError(c, nil) {
		t.Fatal("expected nil error to be ignored")
	}
}

func TestRateLimit_RejectsAfterBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 2, logger.Discard())

	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		engine.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusNoContent || codes[1] != http.StatusNoContent {
		t.Fatalf("expected burst of 2 to pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("expected third request to be limited, got %d", codes[2])
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	engine.ServeHTTP(rec, req)
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "rate limit exceeded" {
		t.Fatalf("expected rate limit message, got %q", body.Message)
	}

	if !limiter.Allow("10.0.0.2") {
		t.Fatal("expected a different IP to have its own budget")
	}
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/id", func(c *gin.Context) {
		id, _ := c.Request.Context().Value(logger.RequestIDKey).(string)
		c.String(http.StatusOK, id)
	})

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))
	generated := rec.Header().Get(HeaderRequestID)
	if generated == "" || rec.Body.String() != generated {
		t.Fatalf("expected generated id in header and context, got %q / %q", generated, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	engine.ServeHTTP(rec, req)
	if rec.Header().Get(HeaderRequestID) != "abc-123" {
		t.Fatalf("expected inbound id to be reused, got %q", rec.Header().Get(HeaderRequestID))
	}
}

func TestRecovery_ReturnsInternalError(t *testing.T) {
	engine := gin.New()
	engine.Use(Recovery())
	engine.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "internal server error" {
		t.Fatalf("expected internal error message, got %q", body.Message)
	}
}

func TestNotFound_UsesErrorEnvelope(t *testing.T) {
	engine := gin.New()
	engine.NoRoute(NotFound())

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Message != "resource not found" {
		t.Fatalf("expected not found message, got %q", body.Message)
	}
}
