package config

import "time"

type LifetimerCfg struct {
	// SweepInterval defines how often the sweeper scans the whole store
	// and removes every entry whose TTL elapsed.
	// Example: "30s".
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

func (cfg *LifetimerCfg) Enabled() bool {
	return cfg != nil
}
