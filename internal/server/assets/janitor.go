package assets

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/logging"
)

const defaultRetireTimeout = 30 * time.Second

// Janitor deletes assets that are no longer referenced. Deletions run in the
// background, outlive the request that scheduled them and never report back
// to the caller; failures are only logged and counted.
type Janitor struct {
	store   Store
	logger  logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewJanitor(store Store, logger logging.Logger, timeout time.Duration) *Janitor {
	if timeout <= 0 {
		timeout = defaultRetireTimeout
	}
	return &Janitor{
		store:   store,
		logger:  logger.With("module", "assets.janitor"),
		timeout: timeout,
	}
}

// Retire schedules deletion of key. An empty key is ignored.
func (j *Janitor) Retire(ctx context.Context, key string) {
	if key == "" {
		return
	}

	ctx = context.WithoutCancel(ctx)

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		ctx, cancel := context.WithTimeout(ctx, j.timeout)
		defer cancel()

		removed, err := j.store.Delete(ctx, key)
		switch {
		case err != nil:
			assetRetirements.WithLabelValues(retireFailed).Inc()
			j.logger.Error(ctx, "asset retirement failed", "key", key, "error", err)
		case !removed:
			assetRetirements.WithLabelValues(retireMissing).Inc()
			j.logger.Warn(ctx, "asset already gone", "key", key)
		default:
			assetRetirements.WithLabelValues(retireDeleted).Inc()
			j.logger.Debug(ctx, "asset retired", "key", key)
		}
	}()
}

// Wait blocks until every scheduled deletion has finished.
func (j *Janitor) Wait() {
	j.wg.Wait()
}
