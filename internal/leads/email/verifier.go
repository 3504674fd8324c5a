// Package email implements lead email verification.
package email

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"lead_analyzer_backend/internal/leads/ports"
	"lead_analyzer_backend/internal/leads/transport"
	"lead_analyzer_backend/platform/config"
	"lead_analyzer_backend/platform/logger"
	"lead_analyzer_backend/platform/validator"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 64 << 10
	apiKeyHeader   = "x-api-key"
)

// FormatVerifier checks address shape only. Well-formed addresses are
// reported deliverable; no DNS or SMTP lookups are made.
type FormatVerifier struct{}

// NewFormatVerifier creates the offline verifier.
func NewFormatVerifier() *FormatVerifier {
	return &FormatVerifier{}
}

func (FormatVerifier) Verify(ctx context.Context, address string) (transport.EmailValidation, error) {
	if err := ctx.Err(); err != nil {
		return transport.EmailValidation{}, err
	}
	if !validator.IsLeadEmail(address) {
		return transport.EmailValidation{}, nil
	}
	return transport.EmailValidation{IsValid: true, IsDisposable: false, HasMXRecords: true}, nil
}

// APIVerifier delegates to an external email validation service that
// answers GET ?email=<address> with {is_valid, is_disposable, has_mx_records}.
type APIVerifier struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	log        *logger.Logger
}

// NewAPIVerifier creates a client for the validation service at endpoint.
func NewAPIVerifier(endpoint, apiKey string, timeout time.Duration, log *logger.Logger) *APIVerifier {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &APIVerifier{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		apiKey:     apiKey,
		log:        log,
	}
}

func (v *APIVerifier) Verify(ctx context.Context, address string) (transport.EmailValidation, error) {
	reqURL, err := url.Parse(v.endpoint)
	if err != nil {
		return transport.EmailValidation{}, fmt.Errorf("parse email validation endpoint: %w", err)
	}
	params := reqURL.Query()
	params.Set("email", address)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return transport.EmailValidation{}, err
	}
	req.Header.Set("Accept", "application/json")
	if v.apiKey != "" {
		req.Header.Set(apiKeyHeader, v.apiKey)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return transport.EmailValidation{}, fmt.Errorf("email validation request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		v.log.Error("email validation upstream error", "status", resp.StatusCode)
		return transport.EmailValidation{}, fmt.Errorf("email validation api returned status %d", resp.StatusCode)
	}

	var result transport.EmailValidation
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&result); err != nil {
		return transport.EmailValidation{}, fmt.Errorf("decode email validation response: %w", err)
	}
	return result, nil
}

// New builds the verifier selected by EMAIL_VALIDATOR.
func New(cfg config.EmailConfig, log *logger.Logger) (ports.EmailVerifier, error) {
	switch cfg.GetEmailValidator() {
	case config.EmailValidatorFormat, "":
		return NewFormatVerifier(), nil
	case config.EmailValidatorAPI:
		return NewAPIVerifier(cfg.GetEmailValidationAPIURL(), cfg.GetEmailValidationAPIKey(), cfg.GetUpstreamTimeout(), log), nil
	default:
		return nil, fmt.Errorf("unknown email validator %q", cfg.GetEmailValidator())
	}
}

var (
	_ ports.EmailVerifier = FormatVerifier{}
	_ ports.EmailVerifier = (*APIVerifier)(nil)
)
