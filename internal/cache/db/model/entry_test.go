package model

import (
	"testing"
	"time"

	"github.com/Borislavv/go-ash-http-cache/model"
	"github.com/stretchr/testify/require"
)

var now = time.Unix(1_700_000_000, 0)

// TestNewEntry_CopiesPayload does not alias the caller buffer.
func TestNewEntry_CopiesPayload(t *testing.T) {
	data := []byte("payload")
	entry := NewEntry("k", data, model.Metadata{}, time.Minute, now)

	data[0] = 'X'
	require.Equal(t, "payload", string(entry.Snapshot().Data))
	require.Equal(t, int64(7), entry.Weight())
}

// TestEntry_Snapshot returns a detached copy with all metadata.
func TestEntry_Snapshot(t *testing.T) {
	lm := now.Add(-time.Hour)
	entry := NewEntry("k", []byte("payload"), model.Metadata{
		ContentType:  "text/plain",
		ETag:         `"abc"`,
		LastModified: lm,
		IsCompressed: true,
	}, time.Minute, now)

	snap := entry.Snapshot()
	require.Equal(t, "k", snap.Key)
	require.Equal(t, "text/plain", snap.ContentType)
	require.Equal(t, `"abc"`, snap.ETag)
	require.Equal(t, lm, snap.LastModified)
	require.Equal(t, now, snap.CreatedAt)
	require.Equal(t, now, snap.LastAccessed)
	require.Equal(t, uint64(0), snap.AccessCount)
	require.Equal(t, time.Minute, snap.TTL)
	require.True(t, snap.IsCompressed)

	snap.Data[0] = 'X'
	require.Equal(t, "payload", string(entry.Snapshot().Data), "snapshot must not alias the stored payload")
}

// TestEntry_Touch increments access bookkeeping.
func TestEntry_Touch(t *testing.T) {
	entry := NewEntry("k", nil, model.Metadata{}, time.Minute, now)

	entry.Touch(now.Add(time.Second))
	entry.Touch(now.Add(2 * time.Second))

	require.Equal(t, uint64(2), entry.AccessCount())
	require.Equal(t, now.Add(2*time.Second), entry.Snapshot().LastAccessed)
	require.Equal(t, now, entry.CreatedAt(), "creation instant never moves")
}

// TestEntry_IsExpired uses a strict less-than freshness window.
func TestEntry_IsExpired(t *testing.T) {
	entry := NewEntry("k", nil, model.Metadata{}, 100*time.Millisecond, now)

	require.False(t, entry.IsExpired(now))
	require.False(t, entry.IsExpired(now.Add(99*time.Millisecond)))
	require.True(t, entry.IsExpired(now.Add(100*time.Millisecond)), "equality counts as expired")
	require.True(t, entry.IsExpired(now.Add(150*time.Millisecond)))
	require.False(t, entry.IsFresh(now.Add(time.Second)))
}

// TestEntry_IsExpired_NoTTL never expires without a TTL.
func TestEntry_IsExpired_NoTTL(t *testing.T) {
	entry := NewEntry("k", nil, model.Metadata{}, 0, now)

	require.False(t, entry.IsExpired(now.Add(24*time.Hour)))

	var nilEntry *Entry
	require.False(t, nilEntry.IsExpired(now))
}

// TestEntry_MatchesETag compares If-None-Match exactly.
func TestEntry_MatchesETag(t *testing.T) {
	entry := NewEntry("k", nil, model.Metadata{ETag: `"abc"`}, 0, now)

	require.True(t, entry.MatchesETag(`"abc"`))
	require.False(t, entry.MatchesETag(`"xyz"`))
	require.False(t, entry.MatchesETag(""))

	noTag := NewEntry("k", nil, model.Metadata{}, 0, now)
	require.False(t, noTag.MatchesETag(""))
}

// TestEntry_NotModifiedSince compares at seconds resolution.
func TestEntry_NotModifiedSince(t *testing.T) {
	lm := now.Add(-time.Hour).Add(300 * time.Millisecond)
	entry := NewEntry("k", nil, model.Metadata{LastModified: lm}, 0, now)

	require.True(t, entry.NotModifiedSince(lm.Truncate(time.Second)), "same second")
	require.True(t, entry.NotModifiedSince(now))
	require.False(t, entry.NotModifiedSince(lm.Add(-time.Second)))
	require.False(t, entry.NotModifiedSince(time.Time{}))

	noLM := NewEntry("k", nil, model.Metadata{}, 0, now)
	require.False(t, noLM.NotModifiedSince(now))
}
