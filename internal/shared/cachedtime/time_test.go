package cachedtime

import (
	"context"
	"testing"
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
	"github.com/stretchr/testify/require"
)

// TestForConfig_Disabled returns the wall clock when cache time is disabled.
func TestForConfig_Disabled(t *testing.T) {
	cfg := config.Default()
	cfg.DB.CacheTimeEnabled = false

	require.Equal(t, Real, ForConfig(t.Context(), cfg))
	require.Equal(t, Real, ForConfig(t.Context(), nil))
}

// TestForConfig_Enabled returns a background refreshed clock.
func TestForConfig_Enabled(t *testing.T) {
	cfg := config.Default()
	cfg.DB.CacheTimeEnabled = true

	clock := ForConfig(t.Context(), cfg)
	_, ok := clock.(*Ticker)
	require.True(t, ok)
}

// TestTicker_Advances verifies that the cached time is refreshed in background.
func TestTicker_Advances(t *testing.T) {
	clock := New(t.Context(), 5*time.Millisecond)

	first := clock.Now()
	require.Eventually(t, func() bool {
		return clock.Now().After(first)
	}, time.Second, 5*time.Millisecond)
}

// TestTicker_FallsBackAfterClose uses time.Now once the context is done.
func TestTicker_FallsBackAfterClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	clock := New(ctx, time.Hour)
	cancel()

	require.Eventually(t, func() bool { return clock.closed.Load() }, time.Second, time.Millisecond)

	before := time.Now()
	require.False(t, clock.Now().Before(before))
}

// TestManual_MovesOnlyWhenTold advances and sets the manual clock.
func TestManual_MovesOnlyWhenTold(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	clock := NewManual(start)

	require.Equal(t, start, clock.Now())

	clock.Advance(time.Second)
	require.Equal(t, start.Add(time.Second), clock.Now())

	clock.Set(start)
	require.Equal(t, start, clock.Now())
}
