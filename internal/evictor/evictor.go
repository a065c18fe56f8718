package evictor

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/Borislavv/go-ash-http-cache/internal/shared/rate"
)

const defaultEvictionSpinsBackoff = 2048

var ErrEvictorNotResponded = errors.New("evictor not responded")

// Target is the part of the cache the evictor drives.
type Target interface {
	Len() int64
	SoftMemoryLimitOvercome() bool
	SoftEvictUntilWithinLimit(backoff int64) (freed, evicted int64)
}

type Evictor interface {
	ForceCall(timeout time.Duration) error
	Metrics() (scans, hits, evictedItems, evictedBytes int64)
	Close() error
}

// EvictionWorker keeps memory usage under the soft limit by evicting entries
// in the order of the cache strategy. Hard limits are enforced by put itself.
type EvictionWorker struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.EvictionCfg
	logger   *slog.Logger
	target   Target
	pacer    *rate.Pacer
	counters *evictorCounters
	invokeCh chan struct{}
	wg       sync.WaitGroup
}

func New(ctx context.Context, cfg *config.EvictionCfg, logger *slog.Logger, target Target) Evictor {
	if !cfg.Enabled() {
		return NoOpEvictor{}
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&EvictionWorker{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger,
		target:   target,
		pacer:    rate.NewPacer(ctx, int(cfg.CallsPerSec), time.Second),
		counters: newEvictorCounters(),
		invokeCh: make(chan struct{}),
	}).run()
}

// ForceCall runs one eviction call out of schedule.
func (w *EvictionWorker) ForceCall(timeout time.Duration) error {
	after := time.NewTimer(timeout)
	defer after.Stop()

	select {
	case <-w.ctx.Done():
	case w.invokeCh <- struct{}{}:
	case <-after.C:
		return ErrEvictorNotResponded
	}
	return nil
}

func (w *EvictionWorker) Metrics() (scans, hits, evictedItems, evictedBytes int64) {
	return w.counters.snapshot()
}

// Close stops the worker and waits for its goroutines.
func (w *EvictionWorker) Close() error {
	w.cancel()
	w.wg.Wait()
	<-w.pacer.Done()
	return nil
}

func (w *EvictionWorker) run() *EvictionWorker {
	w.logger.Info("evictor is running",
		"soft_limit_bytes", w.cfg.SoftMemoryLimitBytes,
		"calls_per_sec", w.cfg.CallsPerSec,
		"backoff_spins", w.backoff(),
	)

	w.wg.Add(2)
	go func() {
		defer w.wg.Done()
		w.provider()
	}()
	go func() {
		defer w.wg.Done()
		defer w.logger.Info("evictor is stopped")
		w.consumer()
	}()

	return w
}

// provider - calls the consumer when memory usage overcomes the soft limit.
func (w *EvictionWorker) provider() {
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
			w.counters.scans.Add(1)
			if !w.target.SoftMemoryLimitOvercome() {
				continue
			}
			select {
			case <-w.ctx.Done():
				return
			case w.invokeCh <- struct{}{}:
				w.counters.scanHits.Add(1)
			}
		}
	}
}

// consumer - evicts entries until within limit or backoff by spins.
func (w *EvictionWorker) consumer() {
	backoff := w.backoff()
	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.invokeCh:
			freedBytes, items := w.target.SoftEvictUntilWithinLimit(backoff)
			if items > 0 {
				w.counters.evictedItems.Add(items)
				w.counters.evictedBytes.Add(freedBytes)
				w.logger.Debug("evictor freed memory", "items", items, "bytes", freedBytes)
			}
		}
	}
}

func (w *EvictionWorker) backoff() int64 {
	if w.cfg.BackoffSpinsPerCall <= 0 {
		return defaultEvictionSpinsBackoff
	}
	return w.cfg.BackoffSpinsPerCall
}
