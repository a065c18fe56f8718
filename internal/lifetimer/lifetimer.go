// Package lifetimer removes TTL-expired entries in background so that stale
// payloads do not hold memory until eviction pressure reaches them.
package lifetimer

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/Borislavv/go-ash-http-cache/internal/shared/rate"
)

const defaultSweepInterval = time.Minute

var ErrLifetimerNotResponded = errors.New("lifetimer not responded")

// Target is the part of the cache the sweeper drives.
type Target interface {
	Len() int64
	CleanupExpired() int64
}

type Lifetimer interface {
	ForceSweep(timeout time.Duration) error
	Metrics() (removed, scans, hits, misses int64)
	Close() error
}

type LifetimeWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	interval time.Duration
	target   Target
	logger   *slog.Logger
	pacer    *rate.Pacer
	counters *lifetimerCounters
	invokeCh chan struct{}
	wg       sync.WaitGroup
}

func New(ctx context.Context, cfg *config.LifetimerCfg, logger *slog.Logger, target Target) Lifetimer {
	if !cfg.Enabled() {
		return NoOpLifetimer{}
	}

	interval := cfg.SweepInterval
	if interval <= 0 {
		interval = defaultSweepInterval
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&LifetimeWorker{
		ctx:      ctx,
		cancel:   cancel,
		interval: interval,
		target:   target,
		logger:   logger,
		pacer:    rate.NewPacer(ctx, 1, interval),
		counters: newLifetimerCounters(),
		invokeCh: make(chan struct{}),
	}).run()
}

// ForceSweep runs one sweep out of schedule.
func (w *LifetimeWorker) ForceSweep(timeout time.Duration) error {
	after := time.NewTimer(timeout)
	defer after.Stop()

	select {
	case <-w.ctx.Done():
	case w.invokeCh <- struct{}{}:
	case <-after.C:
		return ErrLifetimerNotResponded
	}
	return nil
}

func (w *LifetimeWorker) Metrics() (removed, scans, hits, misses int64) {
	return w.counters.snapshot()
}

func (w *LifetimeWorker) Close() error {
	w.cancel()
	w.wg.Wait()
	<-w.pacer.Done()
	return nil
}

func (w *LifetimeWorker) run() *LifetimeWorker {
	w.logger.Info("sweeper is running", "interval", w.interval.String())

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.provider()
	}()
	go func() {
		defer w.wg.Done()
		defer w.logger.Info("sweeper is stopped")
		w.consumer()
	}()

	return w
}

// provider - schedules one sweep per interval while the store is not empty.
func (w *LifetimeWorker) provider() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case _, ok := <-w.pacer.C():
			if !ok {
				return
			}
			if w.target.Len() == 0 {
				continue
			}
			select {
			case <-w.ctx.Done():
				return
			case w.invokeCh <- struct{}{}:
			}
		}
	}
}

func (w *LifetimeWorker) consumer() {
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.invokeCh:
			w.counters.scans.Add(1)
			removed := w.target.CleanupExpired()
			if removed == 0 {
				w.counters.scanMisses.Add(1)
				continue
			}
			w.counters.scanHits.Add(1)
			w.counters.removed.Add(removed)
			w.logger.Debug("sweeper removed expired entries", "items", removed)
		}
	}
}
