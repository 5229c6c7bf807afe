package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/utxonode/utxo-exporter/pkg/retry"
	"github.com/utxonode/utxo-exporter/pkg/rpc"
)

func transportErr() error {
	return &rpc.Error{
		Kind:   rpc.ErrorKindTransport,
		Method: "getblockchaininfo",
		Err:    errors.New("connection refused"),
	}
}

func authErr() error {
	return &rpc.Error{
		Kind:   rpc.ErrorKindAuth,
		Method: "getblockchaininfo",
		Err:    errors.New("credentials rejected"),
	}
}

// recordingSleep returns a sleep that never actually waits but keeps
// track of every delay it was asked for.
func recordingSleep(delays *[]time.Duration) retry.SleepFunc {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestDoSucceedsWithoutRetrying(t *testing.T) {
	delays := []time.Duration{}
	r := retry.New(retry.DefaultPolicy(), retry.WithSleep(recordingSleep(&delays)))

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	delays := []time.Duration{}
	r := retry.New(retry.Policy{
		MaxAttempts: 5,
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
	}, retry.WithSleep(recordingSleep(&delays)))

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return transportErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, delays)
}

func TestDoDoesNotRetryAuthErrors(t *testing.T) {
	delays := []time.Duration{}
	r := retry.New(retry.DefaultPolicy(), retry.WithSleep(recordingSleep(&delays)))

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return authErr()
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)

	var rpcErr *rpc.Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, rpc.ErrorKindAuth, rpcErr.Kind)
}

func TestDoDoesNotRetryPlainErrors(t *testing.T) {
	delays := []time.Duration{}
	r := retry.New(retry.DefaultPolicy(), retry.WithSleep(recordingSleep(&delays)))

	boom := errors.New("boom")

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	})

	require.True(t, errors.Is(err, boom))
	assert.Equal(t, 1, calls)
	assert.Empty(t, delays)
}

func TestDoExhaustsAttemptBudget(t *testing.T) {
	delays := []time.Duration{}
	retried := 0
	r := retry.New(retry.Policy{
		MaxAttempts: 5,
		BaseDelay:   1 * time.Second,
		MaxDelay:    4 * time.Second,
	},
		retry.WithSleep(recordingSleep(&delays)),
		retry.WithOnRetry(func(int, error) { retried++ }),
	)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return transportErr()
	})

	require.Error(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 4, retried)

	var exhausted *retry.ExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 5, exhausted.Attempts)

	var rpcErr *rpc.Error
	assert.True(t, errors.As(err, &rpcErr))

	// doubling, capped at the maximum, never decreasing.
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		4 * time.Second,
	}, delays)
	for i := 1; i < len(delays); i++ {
		assert.GreaterOrEqual(t, delays[i], delays[i-1])
		assert.LessOrEqual(t, delays[i], 4*time.Second)
	}
}

func TestDoStopsWhenContextCancelledDuringBackoff(t *testing.T) {
	r := retry.New(retry.DefaultPolicy(), retry.WithSleep(
		func(ctx context.Context, _ time.Duration) error {
			return context.Canceled
		},
	))

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		return transportErr()
	})

	require.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, calls)
}
