package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"InsideX/internal/domain/models"
	domrepo "InsideX/internal/domain/repository"
	"InsideX/pkg/logger"
)

const precomputeLockKey = "lock:signals:precompute"

// Refresher recomputes and caches the top signals of one window.
type Refresher interface {
	Refresh(ctx context.Context, windowDays int) (*models.TopSignalsResponse, error)
}

// Locker is the distributed lock of pkg/cache.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}

// PrecomputeSignals warms the top-signal cache for every configured window
// and optionally publishes each snapshot. Only one instance runs at a time
// across processes sharing the lock.
type PrecomputeSignals struct {
	signals   Refresher
	windows   []int
	top       int
	lock      Locker
	lockTTL   time.Duration
	publisher domrepo.SignalPublisher
	log       *logger.Logger
}

func NewPrecomputeSignals(signals Refresher, windows []int, top int, lock Locker, publisher domrepo.SignalPublisher, log *logger.Logger) *PrecomputeSignals {
	if log == nil {
		log = logger.Nop()
	}
	return &PrecomputeSignals{
		signals:   signals,
		windows:   windows,
		top:       top,
		lock:      lock,
		lockTTL:   5 * time.Minute,
		publisher: publisher,
		log:       log,
	}
}

func (j *PrecomputeSignals) Name() string { return "precompute_signals" }

func (j *PrecomputeSignals) Run(ctx context.Context) error {
	if j.lock != nil {
		ok, err := j.lock.TryLock(ctx, precomputeLockKey, j.lockTTL)
		if err != nil {
			return fmt.Errorf("acquire lock: %w", err)
		}
		if !ok {
			j.log.Debug("precompute skipped, lock held elsewhere")
			return nil
		}
		defer func() {
			if err := j.lock.Unlock(context.WithoutCancel(ctx), precomputeLockKey); err != nil {
				j.log.Warn("release precompute lock", logger.Error(err))
			}
		}()
	}

	var errs []error
	for _, w := range j.windows {
		resp, err := j.signals.Refresh(ctx, w)
		if err != nil {
			errs = append(errs, fmt.Errorf("window %d: %w", w, err))
			continue
		}
		j.log.Info("signals precomputed", logger.Int("window_days", w), logger.Int("signals", resp.Total))

		if j.publisher == nil {
			continue
		}
		snapshot := *resp
		if j.top > 0 && len(snapshot.Signals) > j.top {
			snapshot.Signals = snapshot.Signals[:j.top]
			snapshot.Total = j.top
		}
		if err := j.publisher.PublishSignals(ctx, &snapshot); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
