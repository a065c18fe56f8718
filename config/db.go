package config

import "time"

type DBCfg struct {
	// Enabled switches the whole cache on or off. A disabled cache rejects every put.
	Enabled bool `yaml:"enabled" env:"ENABLED"`

	// SizeBytes is the hard limit of the sum of all stored payload lengths.
	SizeBytes int64 `yaml:"size" env:"SIZE"`

	// MaxEntries is the hard limit of the number of stored entries.
	MaxEntries int64 `yaml:"max_entries" env:"MAX_ENTRIES"`

	// DefaultTTL is applied to every entry stored without an explicit TTL.
	DefaultTTL time.Duration `yaml:"default_ttl" env:"DEFAULT_TTL"`

	// Strategy selects the eviction strategy once for the cache lifetime.
	// Supported values: "lru", "lfu", "fifo". Unknown values fall back to "lru".
	Strategy Strategy `yaml:"strategy" env:"STRATEGY"`

	// CacheTimeEnabled replaces time.Now with a coarse clock refreshed in background.
	// Cheaper on hot paths, at the cost of a few milliseconds of TTL precision.
	CacheTimeEnabled bool `yaml:"cache_time_enabled" env:"CACHE_TIME_ENABLED"`
}
