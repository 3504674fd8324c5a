package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"lead_analyzer_backend/internal/scoring"
	"lead_analyzer_backend/platform/logger"
)

const (
	defaultAPITimeout = 10 * time.Second
	maxAPIBodyBytes   = 1 << 20
	apiKeyHeader      = "x-api-key"
)

// API fetches metrics from an external scrape service. The service is
// expected to answer POST {"url": ...} with either {"success": true,
// "scores": {...}} or a bare score object.
type API struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	log        *logger.Logger
}

// NewAPI creates a client for the scrape service at endpoint.
func NewAPI(endpoint, apiKey string, timeout time.Duration, log *logger.Logger) *API {
	if timeout <= 0 {
		timeout = defaultAPITimeout
	}
	return &API{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		apiKey:     apiKey,
		log:        log,
	}
}

func (a *API) Name() string { return "api" }

type scrapeRequest struct {
	URL string `json:"url"`
}

func (a *API) Metrics(ctx context.Context, url string) (scoring.RawMetrics, error) {
	body, err := json.Marshal(scrapeRequest{URL: url})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if a.apiKey != "" {
		req.Header.Set(apiKeyHeader, a.apiKey)
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scrape request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		a.log.Error("scrape upstream error", "status", resp.StatusCode, "body", string(snippet))
		return nil, fmt.Errorf("scrape api returned status %d", resp.StatusCode)
	}

	decoder := json.NewDecoder(io.LimitReader(resp.Body, maxAPIBodyBytes))
	decoder.UseNumber()

	var payload map[string]any
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode scrape response: %w", err)
	}

	return extractScores(payload)
}

func extractScores(payload map[string]any) (scoring.RawMetrics, error) {
	if success, ok := payload["success"].(bool); ok && !success {
		msg, _ := payload["message"].(string)
		if msg == "" {
			msg, _ = payload["error"].(string)
		}
		return nil, fmt.Errorf("scrape api reported failure: %s", msg)
	}

	source := payload
	if nested, ok := payload["scores"].(map[string]any); ok {
		source = nested
	}

	raw := make(scoring.RawMetrics, len(scoring.Metrics))
	for _, m := range scoring.Metrics {
		if v, ok := source[string(m)]; ok {
			raw[string(m)] = v
		}
	}
	return raw, nil
}
