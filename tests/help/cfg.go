package help

import (
	"time"

	"github.com/Borislavv/go-ash-http-cache/config"
)

// Cfg admits any non-empty payload of any type into 1MiB / 1000 entries.
func Cfg(strategy config.Strategy) *config.Cache {
	c := config.Default()
	c.DB.SizeBytes = 1 << 20
	c.DB.MaxEntries = 1000
	c.DB.Strategy = strategy
	c.Admission.CacheableTypes = nil
	c.AdjustConfig()
	return c
}

// EvictionCfg enables the background soft evictor at 80% of 10MiB.
func EvictionCfg(strategy config.Strategy) *config.Cache {
	c := Cfg(strategy)
	c.DB.SizeBytes = 10 << 20
	c.DB.MaxEntries = 10_000
	c.Eviction = &config.EvictionCfg{
		SoftLimitCoefficient: 0.8,
		CallsPerSec:          20,
		BackoffSpinsPerCall:  1024,
	}
	c.AdjustConfig()
	return c
}

// LifetimerCfg enables the background sweeper.
func LifetimerCfg() *config.Cache {
	c := Cfg(config.StrategyLRU)
	c.DB.CacheTimeEnabled = true
	c.Lifetime = &config.LifetimerCfg{SweepInterval: 50 * time.Millisecond}
	c.AdjustConfig()
	return c
}
