// Package etag derives HTTP entity tags from payload bytes.
// Tokens are cache validators, not security primitives: a 128-bit xxh3 digest is used.
package etag

import (
	"strconv"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

var hasherPool = sync.Pool{New: func() any { return xxh3.New() }}

// Generate returns a quoted opaque token for content. When lastModified is not zero
// its seconds-resolution value is folded into the token.
// Identical inputs always produce identical tokens.
func Generate(content []byte, lastModified time.Time) string {
	hasher := hasherPool.Get().(*xxh3.Hasher)
	hasher.Reset()
	_, _ = hasher.Write(content)
	sum := hasher.Sum128()
	hasherPool.Put(hasher)

	buf := make([]byte, 0, 2+32+1+16)
	buf = append(buf, '"')
	buf = appendHex64(buf, sum.Hi)
	buf = appendHex64(buf, sum.Lo)
	if !lastModified.IsZero() {
		buf = append(buf, '-')
		buf = strconv.AppendInt(buf, lastModified.Unix(), 16)
	}
	return string(append(buf, '"'))
}

// appendHex64 appends v as exactly 16 lowercase hex digits.
func appendHex64(dst []byte, v uint64) []byte {
	const digits = "0123456789abcdef"
	for shift := 60; shift >= 0; shift -= 4 {
		dst = append(dst, digits[(v>>uint(shift))&0xf])
	}
	return dst
}
