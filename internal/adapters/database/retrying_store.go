package database

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
	"github.com/zatekoja/dentalclinic/pkg/retry"
)

// storeCaller runs store calls under a per-attempt timeout and retries the
// transient failures. Every retrying adapter embeds one.
type storeCaller struct {
	store       string
	callTimeout time.Duration
	retry       retry.Config
	metrics     *observability.Metrics
}

func newStoreCaller(store string, callTimeout time.Duration, attempts int, metrics *observability.Metrics) storeCaller {
	return storeCaller{
		store:       store,
		callTimeout: callTimeout,
		retry:       retry.StoreConfig(attempts, apperrors.IsTransient),
		metrics:     metrics,
	}
}

func (c storeCaller) do(ctx context.Context, operation string, fn func(ctx context.Context, attempt int) error) error {
	start := time.Now()
	err := retry.DoWithLog(ctx, c.retry, c.store, func(attempt int) error {
		callCtx, cancel := c.withTimeout(ctx)
		defer cancel()
		return fn(callCtx, attempt)
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().
			Err(err).
			Str("store", c.store).
			Str("operation", operation).
			Int("attempt", attempt).
			Dur("next_delay", nextDelay).
			Msg("Retrying store call")
	})
	observability.RecordStoreMetric(ctx, c.metrics, operation, time.Since(start), err)
	return err
}

func (c storeCaller) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.callTimeout)
}

// landedEarlier reports whether a conflict on a retried create means the
// previous attempt already wrote the row
func landedEarlier(attempt int, err error) bool {
	return attempt > 1 && apperrors.IsType(err, apperrors.ErrorTypeConflict)
}
