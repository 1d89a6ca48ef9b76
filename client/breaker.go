package client

import (
	"context"
	stderrors "errors"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/teilomillet/pizzagpt/config"
	"github.com/teilomillet/pizzagpt/errors"
)

func newBreaker(cfg config.CircuitBreakerConfig, name string, logger *zap.Logger, metrics *Metrics) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			if metrics == nil {
				return
			}
			metrics.BreakerState.Set(float64(to))
			if to == gobreaker.StateOpen {
				metrics.BreakerTrips.Inc()
			}
		},
	})
}

// countsAsHealthy decides what the breaker records as a failure. Only an
// unreachable service or a 5xx says anything about its health; client-side
// mistakes, odd payloads and callers cancelling their own context do not.
// Timeouts still count.
func countsAsHealthy(err error) bool {
	if err == nil || stderrors.Is(err, context.Canceled) {
		return true
	}
	if errors.IsConnection(err) {
		return false
	}
	return errors.StatusCode(err) < 500
}

func isBreakerRejection(err error) bool {
	return stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests)
}
