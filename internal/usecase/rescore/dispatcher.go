package rescore

import (
	"context"
	"log"
	"time"

	"applyforge/internal/usecase"

	"github.com/google/uuid"
)

type rescorer interface {
	RescoreAll(ctx context.Context, personaID uuid.UUID) (int, error)
}

type lockCache interface {
	SetIfNotExists(ctx context.Context, key string, value string, ttl time.Duration) (bool, error)
	Delete(ctx context.Context, key string) error
}

type notifier interface {
	NotifyRescoreCompleted(personaID uuid.UUID, processed int)
}

// Dispatcher runs full-persona rescores in the background, single-flight
// per persona. A persona edit can trigger many rescore requests in a burst;
// only the first one does the work.
type Dispatcher struct {
	scoring  rescorer
	cache    lockCache
	notifier notifier
	logger   *log.Logger
	lockTTL  time.Duration
}

func NewDispatcher(scoring rescorer, cache lockCache, n notifier, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		scoring:  scoring,
		cache:    cache,
		notifier: n,
		logger:   logger,
		lockTTL:  10 * time.Minute,
	}
}

// Dispatch schedules a rescore and reports whether this call started one.
func (d *Dispatcher) Dispatch(ctx context.Context, personaID uuid.UUID) bool {
	if d == nil || d.scoring == nil || personaID == uuid.Nil {
		return false
	}

	lockKey := usecase.RescoreLockKey(personaID)
	if d.cache != nil {
		ok, err := d.cache.SetIfNotExists(ctx, lockKey, "1", d.lockTTL)
		if err != nil || !ok {
			return false
		}
	}

	go func() {
		ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		processed, err := d.scoring.RescoreAll(ctx2, personaID)
		if d.cache != nil {
			_ = d.cache.Delete(ctx2, lockKey)
		}
		if err != nil {
			if d.logger != nil {
				d.logger.Printf("[Rescore] run failed persona=%s err=%v", personaID, err)
			}
			return
		}
		if d.logger != nil {
			d.logger.Printf("[Rescore] run completed persona=%s processed=%d", personaID, processed)
		}
		if d.notifier != nil {
			d.notifier.NotifyRescoreCompleted(personaID, processed)
		}
	}()
	return true
}
