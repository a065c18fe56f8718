package config

type ValidationCfg struct {
	// ETagEnabled makes put generate a content-hash ETag when the caller supplied none.
	ETagEnabled bool `yaml:"etag_enabled" env:"ETAG_ENABLED"`

	// LastModifiedEnabled keeps Last-Modified timestamps on entries.
	// When disabled, supplied timestamps are dropped and If-Modified-Since never matches.
	LastModifiedEnabled bool `yaml:"last_modified_enabled" env:"LAST_MODIFIED_ENABLED"`
}
