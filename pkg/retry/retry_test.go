package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(attempts int, retryable func(error) bool) Config {
	cfg := StoreConfig(attempts, retryable)
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	return cfg
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3, nil), func(attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("flaky")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_StopsOnNonRetryable(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	err := Do(context.Background(), fastConfig(5, func(err error) bool { return !errors.Is(err, permanent) }), func(int) error {
		calls++
		return permanent
	})

	assert.Same(t, permanent, err)
	assert.Equal(t, 1, calls)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	flaky := errors.New("flaky")

	err := Do(context.Background(), fastConfig(2, nil), func(int) error { return flaky })
	assert.ErrorIs(t, err, flaky)
	assert.ErrorContains(t, err, "max retry attempts (2) exceeded")

	err = Do(context.Background(), fastConfig(1, nil), func(int) error { return flaky })
	assert.Same(t, flaky, err)
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, fastConfig(3, nil), func(int) error {
		calls++
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestDoWithLog_ReportsEachRetry(t *testing.T) {
	var logged []int
	_ = DoWithLog(context.Background(), fastConfig(3, nil), "appointments", func(int) error {
		return errors.New("down")
	}, func(attempt int, _ error, _ time.Duration) {
		logged = append(logged, attempt)
	})

	assert.Equal(t, []int{1, 2}, logged)
}

func TestStoreConfig_ClampsAttempts(t *testing.T) {
	assert.Equal(t, 1, StoreConfig(0, nil).MaxAttempts)
}
