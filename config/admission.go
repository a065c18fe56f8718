package config

// AdmissionCfg configures which payloads are allowed to enter the cache.
//
// Note: empty payloads bypass the size bounds (zero-length representations such as redirects).
type AdmissionCfg struct {
	// CacheableTypes is an allowlist of content type prefixes, e.g. "text/", "image/png".
	// An empty list accepts every content type.
	CacheableTypes []string `yaml:"cacheable_types" env:"CACHEABLE_TYPES" envSeparator:","`

	// MinPayloadBytes is the smallest non-empty payload accepted.
	MinPayloadBytes int64 `yaml:"min_payload_size" env:"MIN_PAYLOAD_SIZE"`

	// MaxPayloadBytes is the largest payload accepted.
	MaxPayloadBytes int64 `yaml:"max_payload_size" env:"MAX_PAYLOAD_SIZE"`
}
