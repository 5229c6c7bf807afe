// Package retry wraps operations against the node with bounded
// exponential-backoff retrying, isolating collection from transient
// connectivity blips (node restarting, still warming up, a socket
// dropped mid-flight) without masking persistent misconfiguration.
//
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/utxonode/utxo-exporter/pkg/rpc"
)

// Policy carries the knobs that bound a retried operation.
//
type Policy struct {
	// MaxAttempts is the total number of tries (first attempt
	// included) before giving up.
	//
	MaxAttempts int

	// BaseDelay is how long to wait before the second attempt; the
	// delay doubles after each subsequent failure.
	//
	BaseDelay time.Duration

	// MaxDelay caps the backoff delay regardless of how many attempts
	// have been made.
	//
	MaxDelay time.Duration
}

// DefaultPolicy mirrors the operational defaults this exporter has
// always shipped with.
//
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// SleepFunc is the suspension primitive used between attempts. Pulled
// out as a dependency so that tests can observe delays without waiting
// for them.
//
type SleepFunc func(ctx context.Context, d time.Duration) error

// Retrier applies a Policy to operations.
//
type Retrier struct {
	policy  Policy
	sleep   SleepFunc
	onRetry func(attempt int, err error)
}

// Option is a type used by functional arguments to override the
// retrier's default behavior.
//
type Option func(r *Retrier)

// WithSleep overrides the real clock used between attempts.
//
func WithSleep(v SleepFunc) Option {
	return func(r *Retrier) {
		r.sleep = v
	}
}

// WithOnRetry installs a hook invoked after each failed attempt that
// will be retried, e.g. for logging or error counting.
//
func WithOnRetry(v func(attempt int, err error)) Option {
	return func(r *Retrier) {
		r.onRetry = v
	}
}

// New instantiates a Retrier with the given policy.
//
func New(policy Policy, opts ...Option) *Retrier {
	r := &Retrier{
		policy:  policy,
		sleep:   defaultSleep,
		onRetry: func(int, error) {},
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Do runs `op`, retrying it while it keeps failing with a retryable rpc
// error, up to the policy's attempt budget.
//
// Non-rpc errors and non-retryable rpc errors (rejected credentials)
// propagate immediately. An exhausted budget surfaces as an
// *ExhaustedError wrapping the last failure.
//
func (r *Retrier) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	delay := r.policy.BaseDelay

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		if !retryable(err) {
			return err
		}

		lastErr = err

		if attempt == r.policy.MaxAttempts {
			break
		}

		r.onRetry(attempt, err)

		if err := r.sleep(ctx, delay); err != nil {
			return fmt.Errorf("backoff wait: %w", err)
		}

		delay *= 2
		if delay > r.policy.MaxDelay {
			delay = r.policy.MaxDelay
		}
	}

	return &ExhaustedError{
		Attempts: r.policy.MaxAttempts,
		Err:      lastErr,
	}
}

// ExhaustedError is the terminal failure of an operation whose retry
// budget ran out.
//
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %s", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Err
}

func retryable(err error) bool {
	var rpcErr *rpc.Error
	if errors.As(err, &rpcErr) {
		return rpcErr.Retryable()
	}

	return false
}

func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
