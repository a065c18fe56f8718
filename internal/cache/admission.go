package cache

import (
	"fmt"
	"strings"
)

// admit checks a payload against the policy. It needs no lock: the policy is immutable.
func (c *Cache) admit(key string, data []byte, contentType string) error {
	if !c.cfg.DB.Enabled {
		return fmt.Errorf("%w: cache is disabled", ErrInvalidConfig)
	}
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidKey)
	}
	if contentType != "" && !c.isCacheableType(contentType) {
		return fmt.Errorf("%w: content type %q is not cacheable", ErrInvalidConfig, contentType)
	}

	// zero-length representations (redirects, 204s) bypass size bounds
	if size := int64(len(data)); size > 0 {
		if size < c.cfg.Admission.MinPayloadBytes {
			return fmt.Errorf("%w: payload of %d bytes is smaller than %d", ErrInvalidConfig, size, c.cfg.Admission.MinPayloadBytes)
		}
		if size > c.cfg.Admission.MaxPayloadBytes {
			return fmt.Errorf("%w: payload of %d bytes is larger than %d", ErrInvalidConfig, size, c.cfg.Admission.MaxPayloadBytes)
		}
	}

	return nil
}

func (c *Cache) isCacheableType(contentType string) bool {
	if len(c.cacheableTypes) == 0 {
		return true
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	for _, prefix := range c.cacheableTypes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}

func normalizeTypes(types []string) []string {
	out := make([]string, 0, len(types))
	for _, t := range types {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}
