package model

// Stats is a point-in-time snapshot of the cache counters.
type Stats struct {
	Hits        uint64 `json:"hits"`
	Misses      uint64 `json:"misses"`
	Puts        uint64 `json:"puts"`
	Evictions   uint64 `json:"evictions"`
	Expirations uint64 `json:"expirations"`

	CurrentSize    int64 `json:"current_size"`
	CurrentEntries int64 `json:"current_entries"`
}

// HitRate returns hits / (hits + misses), or 0 when nothing was requested yet.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
