package cascade

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/getsentry/sentry-go"
	gobreaker "github.com/sony/gobreaker/v2"
)

var (
	// ErrUnavailable is returned by an attempt whose capability is not configured
	// (missing credentials, nil client). It is not reported as a failure.
	ErrUnavailable = errors.New("capability unavailable")
	// ErrContent marks an attempt whose capability answered but whose answer
	// could not be used. It does not count against the tier's breaker.
	ErrContent = errors.New("unusable result")
	// ErrExhausted is returned by Run when no tier produced a result.
	ErrExhausted = errors.New("all tiers failed")
)

// captureFailure reports a tier failure to Sentry.
var captureFailure = func(tier string, err error) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("cascade_tier", tier)
		sentry.CaptureException(err)
	})
}

type AttemptFunc[In, Out any] func(ctx context.Context, in In) (Out, error)

// Tier is one stage of an ordered fallback chain.
type Tier[In, Out any] struct {
	Name string
	// Timeout bounds a single attempt. Zero marks a local tier that runs inline.
	Timeout time.Duration
	Attempt AttemptFunc[In, Out]

	breaker *gobreaker.CircuitBreaker[Out]
}

func NewTier[In, Out any](name string, timeout time.Duration, attempt AttemptFunc[In, Out]) Tier[In, Out] {
	return Tier[In, Out]{Name: name, Timeout: timeout, Attempt: attempt}
}

// WithBreaker guards the tier with a circuit breaker that opens after
// failureThreshold consecutive failures and half-opens after openTimeout.
func (t Tier[In, Out]) WithBreaker(failureThreshold uint32, openTimeout time.Duration) Tier[In, Out] {
	name := t.Name
	t.breaker = gobreaker.NewCircuitBreaker[Out](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    5 * time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrContent)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Printf("[Cascade] breaker %s: %s -> %s", name, from, to)
		},
	})
	return t
}

type result[Out any] struct {
	out Out
	err error
}

func (t Tier[In, Out]) run(ctx context.Context, in In) (Out, error) {
	if t.breaker == nil {
		return t.isolated(ctx, in)
	}
	return t.breaker.Execute(func() (Out, error) {
		return t.isolated(ctx, in)
	})
}

// isolated runs the attempt in its own goroutine so that a hung call is
// abandoned once the tier timeout expires. Tiers without a timeout are local
// and always run to completion, even on a cancelled context.
func (t Tier[In, Out]) isolated(ctx context.Context, in In) (out Out, err error) {
	var zero Out
	if t.Timeout <= 0 {
		defer func() {
			if r := recover(); r != nil {
				out, err = zero, fmt.Errorf("tier %s panicked: %v", t.Name, r)
			}
		}()
		return t.Attempt(ctx, in)
	}
	ctx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()

	done := make(chan result[Out], 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result[Out]{err: fmt.Errorf("tier %s panicked: %v", t.Name, r)}
			}
		}()
		out, err := t.Attempt(ctx, in)
		done <- result[Out]{out: out, err: err}
	}()

	select {
	case r := <-done:
		return r.out, r.err
	case <-ctx.Done():
		return zero, fmt.Errorf("tier %s: %w", t.Name, ctx.Err())
	}
}

// Run tries tiers in order and returns the first success together with the
// name of the tier that produced it. Failures are logged and swallowed.
func Run[In, Out any](ctx context.Context, in In, tiers ...Tier[In, Out]) (Out, string, error) {
	var zero Out
	for _, tier := range tiers {
		started := time.Now()
		out, err := tier.run(ctx, in)
		if err == nil {
			log.Printf("[Cascade] tier %s succeeded in %v", tier.Name, time.Since(started))
			return out, tier.Name, nil
		}
		if errors.Is(err, ErrUnavailable) {
			log.Printf("[Cascade] tier %s skipped: %v", tier.Name, err)
			continue
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			log.Printf("[Cascade] tier %s short-circuited: %v", tier.Name, err)
			continue
		}
		log.Printf("[Cascade] tier %s failed after %v: %v", tier.Name, time.Since(started), err)
		captureFailure(tier.Name, err)
	}
	return zero, "", ErrExhausted
}
