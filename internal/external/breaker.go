package external

import (
	"context"
	"log/slog"

	"github.com/sony/gobreaker/v2"

	"raincheck/internal/config"
	"raincheck/internal/types"
)

// BreakerAdvisor wraps a TextAdvisor in a circuit breaker. When the breaker is
// open or the inner advisor fails, the returned error carries
// upstream_advisor_unavailable so callers can degrade to a fallback payload.
type BreakerAdvisor struct {
	inner   TextAdvisor
	breaker *gobreaker.CircuitBreaker[string]
	timeout config.AdvisorConfig
	logger  *slog.Logger
}

// NewBreakerAdvisor builds the breaker from advisor configuration. The breaker
// trips after the configured number of consecutive failures and probes again
// after the open timeout.
func NewBreakerAdvisor(inner TextAdvisor, cfg config.AdvisorConfig, logger *slog.Logger) *BreakerAdvisor {
	settings := gobreaker.Settings{
		Name:        "advisor",
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("advisor breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}

	return &BreakerAdvisor{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
		timeout: cfg,
		logger:  logger,
	}
}

// Insight runs the inner advisor through the breaker with the configured
// per-call timeout.
func (b *BreakerAdvisor) Insight(ctx context.Context, p Prompt) (string, error) {
	out, err := b.breaker.Execute(func() (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, b.timeout.Timeout)
		defer cancel()
		return b.inner.Insight(callCtx, p)
	})
	if err != nil {
		return "", types.NewAppError(types.ErrCodeUpstreamAdvisor, "advisor insight unavailable", err)
	}
	return out, nil
}

var _ TextAdvisor = (*BreakerAdvisor)(nil)
