package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MGTheTrain/tokenization-service/internal/pkg/config"
	"github.com/MGTheTrain/tokenization-service/internal/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Policy combines every guard applied to one downstream dependency.
// Requests are admitted once by the rate limiter and the bulkhead (see Admit).
// Each store call made while serving them retries around the circuit breaker,
// which wraps the timed call itself (see Execute).
type Policy struct {
	name       string
	settings   config.ResilienceSettings
	limiter    *rate.Limiter
	bulkhead   *semaphore.Weighted
	breaker    *gobreaker.CircuitBreaker
	isExpected func(error) bool
	logger     logger.Logger
}

// NewPolicy builds a Policy. isExpected marks errors that are regular outcomes
// of the call (e.g. not found); they are neither retried nor counted as failures.
func NewPolicy(name string, settings config.ResilienceSettings, isExpected func(error) bool, logger logger.Logger) (*Policy, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid resilience settings: %w", err)
	}
	if isExpected == nil {
		isExpected = func(error) bool { return false }
	}

	p := &Policy{
		name:       name,
		settings:   settings,
		limiter:    rate.NewLimiter(rate.Limit(settings.RateLimiter.RequestsPerSecond), settings.RateLimiter.Burst),
		bulkhead:   semaphore.NewWeighted(int64(settings.Bulkhead.MaxConcurrentCalls)),
		isExpected: isExpected,
		logger:     logger,
	}

	failures := settings.CircuitBreaker.ConsecutiveFailures
	p.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: settings.CircuitBreaker.HalfOpenMaxRequests,
		Timeout:     settings.CircuitBreaker.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || p.isExpected(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(fmt.Sprintf("Circuit breaker %s changed from %s to %s", name, from, to))
		},
	})

	return p, nil
}

// Name returns the name of the guarded dependency
func (p *Policy) Name() string {
	return p.name
}

// BreakerState reports 0 (closed), 1 (half-open) or 2 (open)
func (p *Policy) BreakerState() float64 {
	return float64(p.breaker.State())
}

// Admit charges one request against the rate limiter and takes a bulkhead slot.
// The returned release func must be called once the request completes.
func (p *Policy) Admit(ctx context.Context) (func(), error) {
	if !p.limiter.Allow() {
		return nil, fmt.Errorf("%s: %w", p.name, ErrRateLimited)
	}

	if err := p.acquire(ctx); err != nil {
		return nil, err
	}

	var once sync.Once
	return func() {
		once.Do(func() { p.bulkhead.Release(1) })
	}, nil
}

// Execute runs one store call under the retry, circuit breaker and timeout of policy p
func Execute[T any](ctx context.Context, p *Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	var result T
	attempt := 0
	operation := func() error {
		attempt++
		value, err := guardedCall(ctx, p, fn)
		if err == nil {
			result = value
			return nil
		}
		if p.isExpected(err) || errors.Is(err, ErrCircuitOpen) || ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		p.logger.Warn(fmt.Sprintf("%s call attempt %d failed, retrying in %s: %v", p.name, attempt, wait, err))
	}

	if err := backoff.RetryNotify(operation, p.newBackOff(ctx), notify); err != nil {
		return zero, err
	}
	return result, nil
}

func (p *Policy) acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, p.settings.Bulkhead.MaxWait)
	defer cancel()

	if err := p.bulkhead.Acquire(waitCtx, 1); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %w", p.name, ErrBulkheadFull)
	}
	return nil
}

func (p *Policy) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = p.settings.Retry.InitialInterval
	exp.MaxInterval = p.settings.Retry.MaxInterval
	exp.MaxElapsedTime = 0

	// MaxAttempts counts the first call
	return backoff.WithContext(backoff.WithMaxRetries(exp, p.settings.Retry.MaxAttempts-1), ctx)
}

// guardedCall runs one attempt through the circuit breaker with the call timeout applied
func guardedCall[T any](ctx context.Context, p *Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	value, err := p.breaker.Execute(func() (interface{}, error) {
		callCtx, cancel := context.WithTimeout(ctx, p.settings.CallTimeout)
		defer cancel()

		v, err := fn(callCtx)
		if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%s: %w after %s", p.name, ErrTimeout, p.settings.CallTimeout)
		}
		return v, err
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w", p.name, ErrCircuitOpen)
		}
		return zero, err
	}

	result, _ := value.(T)
	return result, nil
}
