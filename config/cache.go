package config

// Cache groups configuration of all cache subsystems.
// DB and Admission are always present; background components are configured
// independently and disabled by leaving them nil.
type Cache struct {
	DB DBCfg `yaml:"db" envPrefix:"DB_"`

	// Admission decides whether a payload may enter the cache at all,
	// independently of the current capacity.
	Admission AdmissionCfg `yaml:"admission" envPrefix:"ADMISSION_"`

	// Validation controls the HTTP validators kept alongside every entry.
	Validation ValidationCfg `yaml:"validation" envPrefix:"VALIDATION_"`

	// Lifetime configures the background sweeper that removes TTL-expired entries
	// without waiting for eviction pressure.
	// If nil, expired entries are removed only by an explicit CleanupExpired call.
	Lifetime *LifetimerCfg `yaml:"lifetime"`

	// Eviction configures proactive (soft limit) eviction in background.
	// Hard limits are always enforced synchronously on put.
	// If nil, the soft evictor is disabled.
	Eviction *EvictionCfg `yaml:"eviction"`

	// Telemetry configures periodic statistics logs.
	// If nil, no statistics are logged.
	Telemetry *TelemetryCfg `yaml:"telemetry"`
}
