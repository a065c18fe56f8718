package config

// Strategy defines the eviction strategy.
type Strategy string

const (
	// StrategyLRU evicts the least recently touched entry.
	StrategyLRU Strategy = "lru"

	// StrategyLFU evicts the entry with the smallest access count.
	StrategyLFU Strategy = "lfu"

	// StrategyFIFO evicts the entry that was inserted first.
	StrategyFIFO Strategy = "fifo"
)

// Numeric strategy identifiers used across the foreign boundary.
const (
	StrategyIDLRU = iota
	StrategyIDLFU
	StrategyIDFIFO
)

// StrategyFromID maps a boundary identifier onto a Strategy. Any unknown id means LRU.
func StrategyFromID(id int) Strategy {
	switch id {
	case StrategyIDLFU:
		return StrategyLFU
	case StrategyIDFIFO:
		return StrategyFIFO
	default:
		return StrategyLRU
	}
}

// Normalize returns a known strategy, falling back to LRU.
func (s Strategy) Normalize() Strategy {
	switch s {
	case StrategyLRU, StrategyLFU, StrategyFIFO:
		return s
	default:
		return StrategyLRU
	}
}

func (s Strategy) String() string { return string(s) }
