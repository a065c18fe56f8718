package lifetimer

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/stretchr/testify/require"
)

type fakeTarget struct {
	items   atomic.Int64
	expired atomic.Int64
	sweeps  atomic.Int64
}

func (f *fakeTarget) Len() int64 { return f.items.Load() }

func (f *fakeTarget) CleanupExpired() int64 {
	f.sweeps.Add(1)
	removed := f.expired.Swap(0)
	f.items.Add(-removed)
	return removed
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// TestNew_DisabledReturnsNoOp does not start a worker without config.
func TestNew_DisabledReturnsNoOp(t *testing.T) {
	lt := New(context.Background(), nil, discard(), &fakeTarget{})
	require.IsType(t, NoOpLifetimer{}, lt)

	require.NoError(t, lt.ForceSweep(time.Millisecond))
	removed, scans, hits, misses := lt.Metrics()
	require.Zero(t, removed+scans+hits+misses)
	require.NoError(t, lt.Close())
}

// TestLifetimeWorker_SweepsOnSchedule removes expired entries without explicit calls.
func TestLifetimeWorker_SweepsOnSchedule(t *testing.T) {
	target := &fakeTarget{}
	target.items.Store(10)
	target.expired.Store(4)

	lt := New(context.Background(), &config.LifetimerCfg{SweepInterval: 20 * time.Millisecond}, discard(), target)
	defer lt.Close()

	require.Eventually(t, func() bool {
		removed, _, _, _ := lt.Metrics()
		return removed == 4
	}, 2*time.Second, 5*time.Millisecond)
	require.Equal(t, int64(6), target.Len())

	require.Eventually(t, func() bool {
		_, _, _, misses := lt.Metrics()
		return misses > 0
	}, 2*time.Second, 5*time.Millisecond)
}

// TestLifetimeWorker_ForceSweep sweeps immediately even with a long interval.
func TestLifetimeWorker_ForceSweep(t *testing.T) {
	target := &fakeTarget{}

	lt := New(context.Background(), &config.LifetimerCfg{SweepInterval: time.Hour}, discard(), target)
	defer lt.Close()

	target.items.Store(3)
	target.expired.Store(3)

	require.NoError(t, lt.ForceSweep(time.Second))
	require.Eventually(t, func() bool {
		removed, _, hits, _ := lt.Metrics()
		return removed == 3 && hits == 1
	}, time.Second, 5*time.Millisecond)
}

// TestLifetimeWorker_SkipsEmptyStore does not sweep while nothing is stored.
func TestLifetimeWorker_SkipsEmptyStore(t *testing.T) {
	target := &fakeTarget{}

	lt := New(context.Background(), &config.LifetimerCfg{SweepInterval: 5 * time.Millisecond}, discard(), target)
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, lt.Close())

	require.Zero(t, target.sweeps.Load())
}

// TestLifetimeWorker_Close turns ForceSweep into a no-op.
func TestLifetimeWorker_Close(t *testing.T) {
	lt := New(context.Background(), &config.LifetimerCfg{SweepInterval: time.Second}, discard(), &fakeTarget{})

	require.NoError(t, lt.Close())
	require.NoError(t, lt.ForceSweep(10*time.Millisecond))
}

// TestLifetimeWorker_CloseDoesNotWaitInterval returns without sleeping out the sweep interval.
func TestLifetimeWorker_CloseDoesNotWaitInterval(t *testing.T) {
	target := &fakeTarget{}
	target.items.Store(1)
	lt := New(context.Background(), &config.LifetimerCfg{}, discard(), target)

	require.Eventually(t, func() bool { return target.sweeps.Load() == 1 }, time.Second, 5*time.Millisecond)

	closed := make(chan struct{})
	go func() {
		_ = lt.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close waited for the next sweep")
	}
}
