package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestStats_HitRate is zero without requests and a plain ratio otherwise.
func TestStats_HitRate(t *testing.T) {
	require.Equal(t, 0.0, Stats{}.HitRate())
	require.Equal(t, 0.5, Stats{Hits: 1, Misses: 1}.HitRate())
	require.Equal(t, 1.0, Stats{Hits: 3}.HitRate())
	require.InDelta(t, 0.25, Stats{Hits: 1, Misses: 3}.HitRate(), 1e-9)
}

// TestEntry_ExpiresAt adds TTL to the creation instant.
func TestEntry_ExpiresAt(t *testing.T) {
	created := time.Unix(1_700_000_000, 0)
	e := Entry{CreatedAt: created, TTL: time.Minute}

	require.Equal(t, created.Add(time.Minute), e.ExpiresAt())
}
