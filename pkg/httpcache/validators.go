package httpcache

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// matchETag reports whether an If-None-Match value matches etag using the weak
// comparison of RFC 9110: "*", comma separated lists and W/ prefixes are accepted.
func matchETag(ifNoneMatch, etag string) bool {
	if etag == "" {
		return false
	}
	if strings.TrimSpace(ifNoneMatch) == "*" {
		return true
	}

	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(ifNoneMatch, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate != "" && candidate == want {
			return true
		}
	}
	return false
}

// singleStrongTag returns the value if it is exactly one strong entity tag,
// which the cache can compare itself.
func singleStrongTag(ifNoneMatch string) string {
	v := strings.TrimSpace(ifNoneMatch)
	if len(v) < 2 || v[0] != '"' || v[len(v)-1] != '"' || strings.Count(v, `"`) != 2 {
		return ""
	}
	return v
}

// parseHTTPDate returns the zero time for absent or malformed dates.
func parseHTTPDate(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return time.Time{}
	}
	return t
}

// storePolicy reads the upstream Cache-Control and Vary. A zero ttl means the cache default.
func storePolicy(h http.Header) (store bool, ttl time.Duration) {
	if !varyOnlyOnEncoding(h) {
		return false, 0
	}
	for _, directive := range strings.Split(h.Get("Cache-Control"), ",") {
		directive = strings.ToLower(strings.TrimSpace(directive))
		switch {
		case directive == "no-store", directive == "private", directive == "no-cache":
			return false, 0
		case strings.HasPrefix(directive, "s-maxage="):
			ttl = parseSeconds(strings.TrimPrefix(directive, "s-maxage="))
		case strings.HasPrefix(directive, "max-age=") && ttl == 0:
			ttl = parseSeconds(strings.TrimPrefix(directive, "max-age="))
		}
	}
	return true, ttl
}

const maxAgeCap = 365 * 24 * time.Hour

func parseSeconds(v string) time.Duration {
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil || secs < 0 {
		return 0
	}
	if secs > int64(maxAgeCap/time.Second) {
		return maxAgeCap
	}
	return time.Duration(secs) * time.Second
}

// varyOnlyOnEncoding reports whether the response varies on nothing but Accept-Encoding,
// which the handler negotiates itself.
func varyOnlyOnEncoding(h http.Header) bool {
	for _, v := range h.Values("Vary") {
		for _, field := range strings.Split(v, ",") {
			field = strings.TrimSpace(field)
			if field != "" && !strings.EqualFold(field, "Accept-Encoding") {
				return false
			}
		}
	}
	return true
}

// acceptsGzip reports whether an Accept-Encoding value allows a gzip coded response.
// An explicit gzip entry wins over "*"; q=0 refuses.
func acceptsGzip(acceptEncoding string) bool {
	explicit, wildcard := -1, -1
	for _, part := range strings.Split(acceptEncoding, ",") {
		coding, params, _ := strings.Cut(part, ";")
		allowed := 1
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if v, err := strconv.ParseFloat(strings.TrimSpace(q), 64); err == nil && v == 0 {
				allowed = 0
			}
		}
		switch strings.ToLower(strings.TrimSpace(coding)) {
		case "gzip", "x-gzip":
			explicit = allowed
		case "*":
			wildcard = allowed
		}
	}
	if explicit >= 0 {
		return explicit == 1
	}
	return wildcard == 1
}
