// Package telemetry periodically logs per-interval statistics of a cache.
package telemetry

import (
	"context"
	"log/slog"
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/Borislavv/go-ash-http-cache/internal/evictor"
	"github.com/Borislavv/go-ash-http-cache/internal/lifetimer"
	"github.com/Borislavv/go-ash-http-cache/internal/shared/bytes"
)

const defaultInterval = 5 * time.Second

type Logger interface {
	Interval() time.Duration
	Close() error
}

type Logs struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config.Cache
	logger   *slog.Logger
	sampler  sampler
	interval time.Duration
	done     chan struct{}
}

func New(
	ctx context.Context,
	cfg *config.Cache,
	logger *slog.Logger,
	cache StatsSource,
	evictor evictor.Evictor,
	lifetimer lifetimer.Lifetimer,
) *Logs {
	interval := defaultInterval
	if cfg.Telemetry.Enabled() && cfg.Telemetry.Interval > 0 {
		interval = cfg.Telemetry.Interval
	}

	ctx, cancel := context.WithCancel(ctx)
	return (&Logs{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      cfg,
		logger:   logger,
		sampler:  newSampler(cache, evictor, lifetimer),
		interval: interval,
		done:     make(chan struct{}),
	}).run()
}

func (l *Logs) Interval() time.Duration {
	return l.interval
}

// Close stops the loop. Safe to call more than once.
func (l *Logs) Close() error {
	l.cancel()
	<-l.done
	return nil
}

func (l *Logs) run() *Logs {
	if !l.cfg.Telemetry.Enabled() {
		close(l.done)
		return l
	}
	go l.loop()
	return l
}

func (l *Logs) loop() {
	defer close(l.done)

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	prev := l.sampler.snapshot()
	for {
		select {
		case <-l.ctx.Done():
			return
		case <-ticker.C:
			cur := l.sampler.snapshot()
			l.report(deltaSnapshot(prev, cur))
			prev = cur
		}
	}
}

func (l *Logs) report(d snapshot) {
	common := []any{"interval", l.interval.String()}

	l.logger.Info("cache",
		append(common,
			"hits", d.hits,
			"misses", d.misses,
			"hit_rate", d.hitRate(),
			"puts", d.puts,
			"evictions", d.evictions,
			"expirations", d.expirations,
		)...,
	)

	if l.cfg.Eviction.Enabled() {
		l.logger.Info("soft_evictor",
			append(common,
				"scans", d.softScans,
				"hits", d.softHits,
				"freed_items", d.softEvictedItems,
				"freed_bytes", bytes.FmtMem(d.softEvictedBytes),
			)...,
		)
	}

	if l.cfg.Lifetime.Enabled() {
		l.logger.Info("sweeper",
			append(common,
				"scans", d.sweepScans,
				"hits", d.sweepHits,
				"misses", d.sweepMisses,
				"removed", d.sweepRemoved,
			)...,
		)
	}

	var softLimit int64
	if l.cfg.Eviction.Enabled() {
		softLimit = l.cfg.Eviction.SoftMemoryLimitBytes
	}
	l.logger.Info("storage",
		append(common,
			"size", bytes.FmtMem(uint64(max(d.size, 0))),
			"entries", d.entries,
			"max_entries", l.cfg.DB.MaxEntries,
			"soft_limit", bytes.FmtLimit(softLimit),
			"hard_limit", bytes.FmtLimit(l.cfg.DB.SizeBytes),
			"strategy", l.cfg.DB.Strategy.String(),
		)...,
	)
}
