package recommendation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/vasiliy-maslov/ai-commerce/internal/product"
	"golang.org/x/time/rate"
)

const (
	maxResponseBytes = 1 << 20
	maxLoggedBody    = 2048
)

// Doer sends the upstream request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Recorder receives one observation per Analyze call.
type Recorder interface {
	ObserveAICall(outcome string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveAICall(string, time.Duration) {}

type Service interface {
	Analyze(ctx context.Context, p product.Product) (*Recommendation, error)
	Configured() bool
	Health() Health
}

type Option func(*service)

func WithDoer(d Doer) Option {
	return func(s *service) {
		s.doer = d
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *service) {
		s.recorder = r
	}
}

type service struct {
	cfg      Config
	doer     Doer
	limiter  *rate.Limiter
	recorder Recorder
}

func NewService(cfg Config, opts ...Option) Service {
	cfg = cfg.withDefaults()

	s := &service{
		cfg:      cfg,
		doer:     &http.Client{},
		recorder: nopRecorder{},
	}
	if cfg.RequestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}
	for _, opt := range opts {
		opt(s)
	}

	if !cfg.Configured() {
		log.Warn().Msgf("recommendation: neither %s nor %s is set, AI recommendations are disabled", EnvGoogleAPIKey, EnvGeminiAPIKey)
	}
	return s
}

func (s *service) Configured() bool {
	return s.cfg.Configured()
}

// Analyze asks the model for a structured recommendation for p. Every error
// it returns is one of ErrNotConfigured, ErrUnavailable or
// ErrMalformedResponse.
func (s *service) Analyze(ctx context.Context, p product.Product) (*Recommendation, error) {
	logger := log.With().Str("call_id", newCallID()).Uint64("product_id", p.ID).Logger()

	apiKey := s.cfg.APIKey()
	if apiKey == "" {
		logger.Warn().Msg("recommendation: no API key configured")
		s.recorder.ObserveAICall(KindConfiguration.String(), 0)
		return nil, ErrNotConfigured
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			logger.Warn().Err(err).Msg("recommendation: rate limit wait aborted")
			s.recorder.ObserveAICall(KindTransport.String(), 0)
			return nil, ErrUnavailable
		}
	}

	start := time.Now()
	raw, err := s.call(ctx, logger, apiKey, BuildPrompt(p))
	elapsed := time.Since(start)
	if err != nil {
		s.recorder.ObserveAICall(KindTransport.String(), elapsed)
		return nil, ErrUnavailable
	}

	rec, err := decodeRecommendation(raw)
	if err != nil {
		logger.Error().Err(err).Str("body", truncate(raw)).Msg("recommendation: malformed upstream response")
		s.recorder.ObserveAICall(KindMalformedResponse.String(), elapsed)
		return nil, ErrMalformedResponse
	}

	logger.Info().Dur("elapsed", elapsed).Msg("recommendation: analysis generated")
	s.recorder.ObserveAICall(KindNone.String(), elapsed)
	return rec, nil
}

// call performs the POST and returns the raw body of a 2xx response. Any
// failure is logged here with full detail.
func (s *service) call(ctx context.Context, logger zerolog.Logger, apiKey, prompt string) ([]byte, error) {
	body, err := json.Marshal(newGenerateRequest(prompt))
	if err != nil {
		logger.Error().Err(err).Msg("recommendation: failed to encode request")
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.endpoint(), bytes.NewReader(body))
	if err != nil {
		logger.Error().Err(err).Msg("recommendation: failed to build request")
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", apiKey)

	resp, err := s.doer.Do(req)
	if err != nil {
		logger.Error().Err(err).Str("model", s.cfg.Model).Msg("recommendation: upstream call failed")
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		logger.Error().Err(err).Int("status", resp.StatusCode).Msg("recommendation: failed to read upstream response")
		return nil, err
	}
	if len(raw) > maxResponseBytes {
		logger.Error().
			Int("status", resp.StatusCode).
			Int("limit_bytes", maxResponseBytes).
			Str("model", s.cfg.Model).
			Msg("recommendation: upstream response exceeds size limit")
		return nil, fmt.Errorf("upstream response larger than %d bytes", maxResponseBytes)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error().
			Int("status", resp.StatusCode).
			Str("body", truncate(raw)).
			Str("model", s.cfg.Model).
			Msg("recommendation: upstream returned non-success status")
		return nil, fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	return raw, nil
}

func newCallID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

func truncate(raw []byte) string {
	if len(raw) > maxLoggedBody {
		return string(raw[:maxLoggedBody]) + "..."
	}
	return string(raw)
}
