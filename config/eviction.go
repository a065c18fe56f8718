package config

type EvictionCfg struct {
	// SoftLimitCoefficient defines the soft memory usage threshold as a fraction of cfg.DB.SizeBytes.
	// When usage exceeds this limit, the background evictor removes entries
	// in the configured strategy order until usage is back under the threshold.
	//
	// Example:
	//   SoftLimitCoefficient: 0.80 // start evicting after reaching 80% of cfg.DB.SizeBytes
	SoftLimitCoefficient float64 `yaml:"soft_limit_coefficient"`

	// SoftMemoryLimitBytes is derived during initialization from cfg.DB.SizeBytes and SoftLimitCoefficient.
	// It is not read from YAML.
	SoftMemoryLimitBytes int64 `yaml:"-"` // virtual: computed during init (bytes)

	// CallsPerSec defines how many times per second the evictor checks the soft limit.
	CallsPerSec int64 `yaml:"calls_per_sec"`

	// BackoffSpinsPerCall bounds how many entries a single eviction call may remove.
	BackoffSpinsPerCall int64 `yaml:"backoff_spins_per_call"`
}

func (cfg *EvictionCfg) Enabled() bool {
	return cfg != nil
}
