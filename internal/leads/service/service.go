package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net"
	"net/url"
	"time"

	"lead_analyzer_backend/internal/events"
	"lead_analyzer_backend/internal/leads/ports"
	"lead_analyzer_backend/internal/leads/transport"
	"lead_analyzer_backend/internal/scoring"
	"lead_analyzer_backend/platform/apperr"
	"lead_analyzer_backend/platform/logger"
	"lead_analyzer_backend/platform/sanitize"
	"lead_analyzer_backend/platform/validator"

	"golang.org/x/sync/errgroup"
)

const (
	msgURLRequired      = "URL is required"
	msgInvalidURL       = "Invalid URL format"
	msgInvalidEmail     = "Invalid email format: "
	msgProviderFailed   = "lead metrics provider unavailable"
	msgProviderTimeout  = "lead metrics provider timed out"
	msgVerifierFailed   = "email validation service unavailable"
	msgVerifierTimeout  = "email validation service timed out"
	leadIDLength        = 8
	companyNamePrefix   = "Company from "
	opAnalyze           = "leads.Analyze"
	serviceMetrics      = "metrics_provider"
	serviceVerification = "email_verifier"
)

// Service analyzes leads: it sanitizes input, gathers raw metrics and email
// verdicts, scores the lead and assembles insights.
type Service struct {
	provider ports.MetricsProvider
	verifier ports.EmailVerifier
	val      *validator.Validator
	bus      events.Bus
	log      *logger.Logger
	now      func() time.Time
}

// New creates the analysis service.
func New(provider ports.MetricsProvider, verifier ports.EmailVerifier, val *validator.Validator, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		verifier: verifier,
		val:      val,
		bus:      bus,
		log:      log,
		now:      time.Now,
	}
}

// ProviderName reports which metric source the service uses.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Analyze scores the lead behind req.URL.
func (s *Service) Analyze(ctx context.Context, req transport.AnalyzeLeadRequest) (*transport.LeadAnalysis, error) {
	log := s.log.WithContext(ctx)

	if req.URL == nil {
		s.publishFailure(ctx, events.ReasonValidation)
		return nil, apperr.Validation(msgURLRequired).WithOp(opAnalyze)
	}
	leadURL := sanitize.Input(*req.URL)
	address := sanitize.Input(req.Email)

	if err := s.validate(leadURL, address); err != nil {
		s.publishFailure(ctx, events.ReasonValidation)
		return nil, err
	}
	if address != "" {
		log.Info("email provided", "email", address)
	}

	var (
		raw        scoring.RawMetrics
		validation *transport.EmailValidation
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		metrics, err := s.provider.Metrics(gctx, leadURL)
		if err != nil {
			log.UpstreamError(serviceMetrics, s.provider.Name(), err)
			return upstreamError(err, msgProviderFailed, msgProviderTimeout)
		}
		raw = metrics
		return nil
	})
	if address != "" {
		g.Go(func() error {
			verdict, err := s.verifier.Verify(gctx, address)
			if err != nil {
				log.UpstreamError(serviceVerification, "verify", err)
				return upstreamError(err, msgVerifierFailed, msgVerifierTimeout)
			}
			validation = &verdict
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.publishFailure(ctx, failureReason(err))
		return nil, err
	}

	if validation != nil && !validation.IsValid {
		s.publishFailure(ctx, events.ReasonValidation)
		return nil, apperr.Validation(msgInvalidEmail + address).WithOp(opAnalyze)
	}

	result := scoring.Score(raw)
	analysis := s.buildAnalysis(leadURL, raw, result)
	if validation != nil {
		analysis.Email = &transport.EmailInfo{Address: address, Validation: *validation}
	}

	log.LeadAnalyzed(analysis.ID, analysis.Provider, result.TotalScore, len(result.Penalties))
	s.bus.Publish(ctx, analyzedEvent(analysis, result))

	return analysis, nil
}

func (s *Service) validate(leadURL, address string) error {
	if err := s.val.Var(leadURL, validator.TagLeadURL); err != nil {
		return apperr.Validation(msgInvalidURL).WithOp(opAnalyze)
	}
	if address != "" {
		if err := s.val.Var(address, validator.TagLeadEmail); err != nil {
			return apperr.Validation(msgInvalidEmail + address).WithOp(opAnalyze)
		}
	}
	return nil
}

func (s *Service) buildAnalysis(leadURL string, raw scoring.RawMetrics, result scoring.Result) *transport.LeadAnalysis {
	insights, recommendations := BuildInsights(result)
	n := result.NormalizedScores

	return &transport.LeadAnalysis{
		ID:              LeadID(leadURL),
		URL:             leadURL,
		CompanyName:     CompanyName(leadURL),
		DealPotential:   n[scoring.DealPotential],
		Practicality:    n[scoring.Practicality],
		Revenue:         n[scoring.Revenue],
		AIEase:          n[scoring.AIEase],
		Difficulty:      n[scoring.Difficulty],
		TotalScore:      result.TotalScore,
		RawScores:       raw,
		Insights:        insights,
		Recommendations: recommendations,
		Provider:        s.provider.Name(),
		AnalyzedAt:      s.now().UTC(),
		ScoringDetails: transport.ScoringDetails{
			Weights:        result.Weights,
			WeightedScores: result.WeightedScores,
			Penalties:      result.Penalties,
			RawTotal:       result.RawTotal,
			TotalPenalty:   result.TotalPenalty,
		},
	}
}

func (s *Service) publishFailure(ctx context.Context, reason string) {
	s.bus.Publish(ctx, events.LeadAnalysisFailed{
		BaseEvent: events.NewBaseEvent(),
		Provider:  s.provider.Name(),
		Reason:    reason,
	})
}

// LeadID is the first eight hex characters of the URL's SHA-256 digest.
func LeadID(leadURL string) string {
	sum := sha256.Sum256([]byte(leadURL))
	return hex.EncodeToString(sum[:])[:leadIDLength]
}

// CompanyName derives a display name from the URL host.
func CompanyName(leadURL string) string {
	u, err := url.Parse(leadURL)
	if err != nil {
		return companyNamePrefix + leadURL
	}
	return companyNamePrefix + u.Host
}

func analyzedEvent(analysis *transport.LeadAnalysis, result scoring.Result) events.LeadAnalyzed {
	penalties := make([]events.PenaltyApplied, 0, len(result.Penalties))
	for _, p := range result.Penalties {
		penalties = append(penalties, events.PenaltyApplied{Metric: string(p.Metric), PenaltyFactor: p.PenaltyFactor})
	}
	return events.LeadAnalyzed{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     analysis.ID,
		URL:        analysis.URL,
		Provider:   analysis.Provider,
		TotalScore: result.TotalScore,
		RawTotal:   result.RawTotal,
		Penalties:  penalties,
		HasEmail:   analysis.Email != nil,
	}
}

func upstreamError(err error, failedMsg, timeoutMsg string) error {
	if domainErr, ok := apperr.As(err); ok {
		return domainErr
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return apperr.Timeout(timeoutMsg, err).WithOp(opAnalyze)
	}
	return apperr.Upstream(failedMsg, err).WithOp(opAnalyze)
}

func failureReason(err error) string {
	switch apperr.GetKind(err) {
	case apperr.KindValidation, apperr.KindBadRequest:
		return events.ReasonValidation
	case apperr.KindUpstream:
		return events.ReasonUpstream
	case apperr.KindTimeout:
		return events.ReasonTimeout
	default:
		return events.ReasonInternal
	}
}
