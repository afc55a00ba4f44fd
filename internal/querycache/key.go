// Package querycache caches HackPSU API reads by query key and invalidates
// them by key prefix after mutations.
package querycache

import (
	"net/url"
	"strings"

	"github.com/hackpsu/admin-console/internal/config"
)

// Key is an ordered list of segments, most general first: ["users", "all"],
// ["user", "<id>"], ["organizer-applications", "team", "Design"].
type Key []string

// NewKey builds a key from segments.
func NewKey(segments ...string) Key {
	return Key(segments)
}

// String renders the storage key, e.g. "q:users:all". Segments are
// query-escaped so ':' and glob characters never leak into the key layout.
func (k Key) String() string {
	parts := make([]string, 0, len(k)+1)
	parts = append(parts, config.CacheKey.Prefix())
	for _, seg := range k {
		parts = append(parts, url.QueryEscape(seg))
	}
	return strings.Join(parts, ":")
}

// Namespace is the first segment, or "" for the empty key.
func (k Key) Namespace() string {
	if len(k) == 0 {
		return ""
	}
	return k[0]
}

// HasPrefix reports whether every segment of p matches the start of k.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}
	return true
}

// ParseKey is the inverse of Key.String. The bare prefix parses as the
// empty key, which every key lies under.
func ParseKey(s string) (Key, bool) {
	parts := strings.Split(s, ":")
	if parts[0] != config.CacheKey.Prefix() {
		return nil, false
	}
	k := make(Key, 0, len(parts)-1)
	for _, p := range parts[1:] {
		seg, err := url.QueryUnescape(p)
		if err != nil {
			return nil, false
		}
		k = append(k, seg)
	}
	return k, true
}

// scopeSegment marks the trailing segment a scoped cache appends.
const scopeSegment = "~"
