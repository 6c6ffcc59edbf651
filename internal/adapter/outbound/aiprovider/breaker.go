package aiprovider

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/quickai/server/internal/port/outbound"
	"github.com/quickai/server/internal/shared/metrics"
)

// ErrProviderUnavailable is returned while the circuit is open.
var ErrProviderUnavailable = errors.New("provider temporarily unavailable")

// BreakerConfig configures the circuit breaker around a provider.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
}

// DefaultBreakerConfig returns the default breaker configuration.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		Timeout:          60 * time.Second,
	}
}

// Guarded wraps text and image generators with one circuit breaker and
// records per-call metrics.
type Guarded struct {
	text    outbound.TextGeneratorPort
	image   outbound.ImageGeneratorPort
	breaker *gobreaker.CircuitBreaker[any]
	name    string
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewGuarded creates a breaker-guarded provider.
func NewGuarded(
	text outbound.TextGeneratorPort,
	image outbound.ImageGeneratorPort,
	cfg BreakerConfig,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Guarded {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	g := &Guarded{
		text:    text,
		image:   image,
		name:    cfg.Name,
		metrics: m,
		logger:  logger,
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellation says nothing about provider health.
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("provider circuit state changed",
				zap.String("provider", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			m.SetProviderHealth(name, stateHealth(to))
		},
	}
	g.breaker = gobreaker.NewCircuitBreaker[any](settings)
	m.SetProviderHealth(cfg.Name, stateHealth(gobreaker.StateClosed))
	return g
}

func stateHealth(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 1
	case gobreaker.StateHalfOpen:
		return 0.5
	default:
		return 0
	}
}

// State returns the current breaker state.
func (g *Guarded) State() gobreaker.State {
	return g.breaker.State()
}

func (g *Guarded) execute(operation string, fn func() (any, error)) (any, error) {
	start := time.Now()
	result, err := g.breaker.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = ErrProviderUnavailable
	}
	g.metrics.RecordAIRequest(g.name, operation, err, time.Since(start))
	return result, err
}

// Complete forwards to the text generator through the breaker.
func (g *Guarded) Complete(ctx context.Context, req *outbound.TextRequest) (string, error) {
	result, err := g.execute("complete", func() (any, error) {
		text, err := g.text.Complete(ctx, req)
		return text, err
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// Generate forwards to the image generator through the breaker.
func (g *Guarded) Generate(ctx context.Context, prompt string) (*outbound.Image, error) {
	result, err := g.execute("generate_image", func() (any, error) {
		img, err := g.image.Generate(ctx, prompt)
		return img, err
	})
	if err != nil {
		return nil, err
	}
	return result.(*outbound.Image), nil
}

// Edit forwards to the image editor through the breaker.
func (g *Guarded) Edit(ctx context.Context, source *outbound.Image, prompt string) (*outbound.Image, error) {
	result, err := g.execute("edit_image", func() (any, error) {
		img, err := g.image.Edit(ctx, source, prompt)
		return img, err
	})
	if err != nil {
		return nil, err
	}
	return result.(*outbound.Image), nil
}

// Compile-time interface checks
var (
	_ outbound.TextGeneratorPort  = (*Guarded)(nil)
	_ outbound.ImageGeneratorPort = (*Guarded)(nil)
)
