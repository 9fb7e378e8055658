// Package checksum derives dataset versions and their HTTP entity-tag form.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded SHA-256 digest of data.
func Sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ETag quotes a version for the ETag header.
func ETag(version string) string {
	return `"` + version + `"`
}

// FromIfMatch extracts the version a client expects from an If-Match
// header. Weak tags are accepted. An empty header or "*" means any
// version, reported as "".
func FromIfMatch(header string) string {
	v := strings.TrimSpace(header)
	if v == "*" {
		return ""
	}
	v = strings.TrimPrefix(v, "W/")
	return strings.Trim(v, `"`)
}
