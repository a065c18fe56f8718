package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable that overrides a loaded policy,
// e.g. ASHCACHE_DB_SIZE or ASHCACHE_ADMISSION_CACHEABLE_TYPES.
const EnvPrefix = "ASHCACHE_"

const (
	DefaultSizeBytes       int64 = 64 << 20
	DefaultMaxEntries      int64 = 10_000
	DefaultTTL                   = time.Hour
	DefaultMinPayloadBytes int64 = 1
	DefaultMaxPayloadBytes int64 = 10 << 20
)

var ErrInvalidPolicy = errors.New("invalid cache policy")

// DefaultCacheableTypes is the allowlist used by Default.
var DefaultCacheableTypes = []string{
	"text/html", "text/css", "text/javascript", "text/plain",
	"application/javascript", "application/json",
	"image/jpeg", "image/png", "image/gif", "image/webp", "image/svg+xml",
	"font/woff", "font/woff2",
}

// Default returns an enabled LRU policy of 64MiB / 10000 entries / 1h TTL
// which admits 1B..10MiB payloads of common static content types.
// Background workers are disabled.
func Default() *Cache {
	cfg := &Cache{
		DB: DBCfg{
			Enabled:    true,
			SizeBytes:  DefaultSizeBytes,
			MaxEntries: DefaultMaxEntries,
			DefaultTTL: DefaultTTL,
			Strategy:   StrategyLRU,
		},
		Admission: AdmissionCfg{
			CacheableTypes:  append([]string(nil), DefaultCacheableTypes...),
			MinPayloadBytes: DefaultMinPayloadBytes,
			MaxPayloadBytes: DefaultMaxPayloadBytes,
		},
		Validation: ValidationCfg{
			ETagEnabled:         true,
			LastModifiedEnabled: true,
		},
	}
	cfg.AdjustConfig()
	return cfg
}

// WithPolicy builds a policy from the boundary tuple on top of Default.
// Unknown strategy ids mean LRU.
func WithPolicy(maxSize, maxEntries int64, defaultTTLSeconds uint64, strategyID int) *Cache {
	cfg := Default()
	cfg.DB.SizeBytes = maxSize
	cfg.DB.MaxEntries = maxEntries
	cfg.DB.DefaultTTL = time.Duration(defaultTTLSeconds) * time.Second
	cfg.DB.Strategy = StrategyFromID(strategyID)
	cfg.AdjustConfig()
	return cfg
}

func (cfg *Cache) AdjustConfig() {
	cfg.DB.Strategy = cfg.DB.Strategy.Normalize()

	if cfg.Eviction.Enabled() {
		cfg.Eviction.SoftMemoryLimitBytes = int64(float64(cfg.DB.SizeBytes) * cfg.Eviction.SoftLimitCoefficient)
	}
}

// Validate reports the first inconsistency of the policy.
func (cfg *Cache) Validate() error {
	switch {
	case cfg.DB.SizeBytes < 0:
		return fmt.Errorf("%w: negative size %d", ErrInvalidPolicy, cfg.DB.SizeBytes)
	case cfg.DB.MaxEntries < 0:
		return fmt.Errorf("%w: negative max entries %d", ErrInvalidPolicy, cfg.DB.MaxEntries)
	case cfg.DB.DefaultTTL < 0:
		return fmt.Errorf("%w: negative default ttl %s", ErrInvalidPolicy, cfg.DB.DefaultTTL)
	case cfg.Admission.MinPayloadBytes < 0:
		return fmt.Errorf("%w: negative min payload size %d", ErrInvalidPolicy, cfg.Admission.MinPayloadBytes)
	case cfg.Admission.MinPayloadBytes > cfg.Admission.MaxPayloadBytes:
		return fmt.Errorf("%w: min payload size %d exceeds max payload size %d",
			ErrInvalidPolicy, cfg.Admission.MinPayloadBytes, cfg.Admission.MaxPayloadBytes)
	case cfg.Eviction.Enabled() && (cfg.Eviction.SoftLimitCoefficient <= 0 || cfg.Eviction.SoftLimitCoefficient > 1):
		return fmt.Errorf("%w: soft limit coefficient %v is out of (0, 1]", ErrInvalidPolicy, cfg.Eviction.SoftLimitCoefficient)
	}
	return nil
}

// LoadConfig reads a YAML policy, applies ASHCACHE_* environment overrides, derives
// virtual fields and validates the result. Fields missing in the file keep Default values.
func LoadConfig(path string) (*Cache, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat config path: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config yaml file %s: %w", path, err)
	}

	cfg := Default()
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unmarshal yaml from %s: %w", path, err)
	}
	if err = env.ParseWithOptions(cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("parse env overrides: %w", err)
	}
	cfg.AdjustConfig()

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
