package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestDefault_MatchesReferencePolicy checks the defaults used when no policy is given.
func TestDefault_MatchesReferencePolicy(t *testing.T) {
	cfg := Default()

	require.True(t, cfg.DB.Enabled)
	require.Equal(t, int64(64<<20), cfg.DB.SizeBytes)
	require.Equal(t, int64(10_000), cfg.DB.MaxEntries)
	require.Equal(t, time.Hour, cfg.DB.DefaultTTL)
	require.Equal(t, StrategyLRU, cfg.DB.Strategy)
	require.Equal(t, int64(1), cfg.Admission.MinPayloadBytes)
	require.Equal(t, int64(10<<20), cfg.Admission.MaxPayloadBytes)
	require.Contains(t, cfg.Admission.CacheableTypes, "text/html")
	require.True(t, cfg.Validation.ETagEnabled)
	require.True(t, cfg.Validation.LastModifiedEnabled)
	require.Nil(t, cfg.Lifetime)
	require.Nil(t, cfg.Eviction)
	require.Nil(t, cfg.Telemetry)
	require.NoError(t, cfg.Validate())
}

// TestDefault_DoesNotShareAllowlist makes sure callers cannot mutate the package defaults.
func TestDefault_DoesNotShareAllowlist(t *testing.T) {
	cfg := Default()
	cfg.Admission.CacheableTypes[0] = "mutated"

	require.Equal(t, "text/html", DefaultCacheableTypes[0])
}

// TestWithPolicy_MapsStrategyIDs maps boundary strategy ids, unknown ids mean LRU.
func TestWithPolicy_MapsStrategyIDs(t *testing.T) {
	tests := []struct {
		id       int
		expected Strategy
	}{
		{StrategyIDLRU, StrategyLRU},
		{StrategyIDLFU, StrategyLFU},
		{StrategyIDFIFO, StrategyFIFO},
		{3, StrategyLRU},
		{-1, StrategyLRU},
	}

	for _, tt := range tests {
		cfg := WithPolicy(1024, 4, 60, tt.id)
		require.Equal(t, tt.expected, cfg.DB.Strategy, "id %d", tt.id)
		require.Equal(t, int64(1024), cfg.DB.SizeBytes)
		require.Equal(t, int64(4), cfg.DB.MaxEntries)
		require.Equal(t, time.Minute, cfg.DB.DefaultTTL)
	}
}

// TestAdjustConfig_DerivesSoftLimit computes the soft limit from the coefficient.
func TestAdjustConfig_DerivesSoftLimit(t *testing.T) {
	cfg := Default()
	cfg.DB.Strategy = "unknown"
	cfg.Eviction = &EvictionCfg{SoftLimitCoefficient: 0.5}
	cfg.AdjustConfig()

	require.Equal(t, cfg.DB.SizeBytes/2, cfg.Eviction.SoftMemoryLimitBytes)
	require.Equal(t, StrategyLRU, cfg.DB.Strategy)
}

// TestValidate_RejectsInconsistentPolicies reports broken bounds.
func TestValidate_RejectsInconsistentPolicies(t *testing.T) {
	mutations := map[string]func(cfg *Cache){
		"negative size":         func(cfg *Cache) { cfg.DB.SizeBytes = -1 },
		"negative entries":      func(cfg *Cache) { cfg.DB.MaxEntries = -1 },
		"negative ttl":          func(cfg *Cache) { cfg.DB.DefaultTTL = -time.Second },
		"negative min payload":  func(cfg *Cache) { cfg.Admission.MinPayloadBytes = -1 },
		"min above max payload": func(cfg *Cache) { cfg.Admission.MinPayloadBytes = cfg.Admission.MaxPayloadBytes + 1 },
		"zero soft coefficient": func(cfg *Cache) { cfg.Eviction = &EvictionCfg{} },
	}

	for name, mutate := range mutations {
		cfg := Default()
		mutate(cfg)
		require.ErrorIs(t, cfg.Validate(), ErrInvalidPolicy, name)
	}
}

// TestLoadConfig_YAMLWithEnvOverrides reads a file and applies ASHCACHE_* variables on top.
func TestLoadConfig_YAMLWithEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yaml")
	yml := `
db:
  enabled: true
  size: 2048
  max_entries: 8
  default_ttl: 30s
  strategy: lfu
admission:
  cacheable_types: ["text/", "application/json"]
  min_payload_size: 0
  max_payload_size: 1024
lifetime:
  sweep_interval: 1s
eviction:
  soft_limit_coefficient: 0.5
  calls_per_sec: 10
  backoff_spins_per_call: 64
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	t.Setenv("ASHCACHE_DB_MAX_ENTRIES", "16")
	t.Setenv("ASHCACHE_DB_STRATEGY", "fifo")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Equal(t, int64(2048), cfg.DB.SizeBytes)
	require.Equal(t, int64(16), cfg.DB.MaxEntries)
	require.Equal(t, 30*time.Second, cfg.DB.DefaultTTL)
	require.Equal(t, StrategyFIFO, cfg.DB.Strategy)
	require.Equal(t, []string{"text/", "application/json"}, cfg.Admission.CacheableTypes)
	require.Equal(t, int64(1024), cfg.Admission.MaxPayloadBytes)
	require.True(t, cfg.Validation.ETagEnabled, "fields missing in the file keep defaults")
	require.Equal(t, time.Second, cfg.Lifetime.SweepInterval)
	require.Equal(t, int64(1024), cfg.Eviction.SoftMemoryLimitBytes)
}

// TestLoadConfig_MissingFile returns an error.
func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

// TestLoadConfig_InvalidPolicy fails validation after loading.
func TestLoadConfig_InvalidPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.yaml")
	require.NoError(t, os.WriteFile(path, []byte("admission:\n  min_payload_size: 10\n  max_payload_size: 5\n"), 0o600))

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrInvalidPolicy)
}
