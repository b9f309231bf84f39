package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var (
	ErrAPIKeyMissing   = errors.New("gemini API key not configured")
	ErrEmptyCompletion = errors.New("gemini returned no completion text")
)

// ProviderError is a failed call to the generative-AI provider. StatusCode is
// the provider's HTTP status, or a gateway status when no response arrived.
type ProviderError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gemini: status %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gemini: status %d: %s", e.StatusCode, e.Body)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Retryable reports whether another attempt may succeed.
func (e *ProviderError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// transportError classifies a failure that produced no HTTP response.
func transportError(err error) *ProviderError {
	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
	}
	return &ProviderError{StatusCode: status, Err: err}
}

// Generator produces one text completion for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiOptions struct {
	APIKey         string
	Model          string
	BaseURL        string
	Transport      string // "rest" | "sdk"
	Temperature    float64
	Timeout        time.Duration
	MaxRetries     int
	ConcurrentReqs int
}

// GeminiService wraps a transport with a concurrency cap, a per-attempt
// timeout and an optional retry policy.
type GeminiService struct {
	transport   Generator
	closer      func() error
	name        string
	timeout     time.Duration
	maxRetries  int
	backoffBase time.Duration
	rateChan    chan struct{} // Token bucket
	logger      *zap.Logger
}

func NewGeminiService(ctx context.Context, opts GeminiOptions, logger *zap.Logger) (*GeminiService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	name := opts.Transport
	if name == "" {
		name = "rest"
	}

	s := &GeminiService{
		name:        name,
		timeout:     opts.Timeout,
		maxRetries:  opts.MaxRetries,
		backoffBase: time.Second,
		logger:      logger,
	}

	if opts.APIKey != "" {
		switch opts.Transport {
		case "sdk":
			g, err := newSDKGenerator(ctx, opts.APIKey, opts.Model, float32(opts.Temperature))
			if err != nil {
				return nil, err
			}
			s.transport = g
			s.closer = g.Close
		case "rest", "":
			s.transport = newRESTGenerator(opts.BaseURL, opts.Model, opts.APIKey, float32(opts.Temperature), nil)
		default:
			return nil, fmt.Errorf("unknown Gemini transport %q", opts.Transport)
		}
	}

	concurrentReqs := opts.ConcurrentReqs
	if concurrentReqs < 1 {
		concurrentReqs = 1
	}
	s.rateChan = make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		s.rateChan <- struct{}{}
	}

	return s, nil
}

func (s *GeminiService) Close() {
	if s.closer != nil {
		s.closer()
	}
}

// Configured reports whether a provider credential is available.
func (s *GeminiService) Configured() bool {
	return s.transport != nil
}

// Name identifies the active transport.
func (s *GeminiService) Name() string {
	return "gemini-" + s.name
}

// acquireRate blocks until a rate slot is available
func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Generate sends prompt to the provider. Without retries configured this is a
// single attempt; otherwise 429, 5xx and transport failures are retried with
// exponential backoff.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if s.transport == nil {
		return "", ErrAPIKeyMissing
	}

	if err := s.acquireRate(ctx); err != nil {
		return "", err
	}
	defer s.releaseRate()

	for attempt := 0; ; attempt++ {
		text, err := s.attempt(ctx, prompt)
		if err == nil {
			return text, nil
		}

		var perr *ProviderError
		if attempt >= s.maxRetries || !errors.As(err, &perr) || !perr.Retryable() {
			return "", err
		}

		backoff := time.Duration(1<<uint(attempt)) * s.backoffBase
		s.logger.Warn("Gemini call failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("status", perr.StatusCode),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return "", err
		case <-time.After(backoff):
		}
	}
}

func (s *GeminiService) attempt(ctx context.Context, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.transport.Generate(ctx, prompt)
}
