package config

import "time"

type TelemetryCfg struct {
	// Interval between two statistics log records.
	Interval time.Duration `yaml:"interval"`
}

func (cfg *TelemetryCfg) Enabled() bool {
	return cfg != nil
}
