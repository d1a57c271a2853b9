package cache

import "strings"

// ScopedKeyer wraps a Keyer with a prefix for deployment isolation.
// This is useful when several mirrors share one Redis or Mongo backend.
//
// Example usage:
//
//	// Staging and production mirrors on the same Redis
//	staging := NewScopedKeyer(NewDefaultKeyer(), "staging:")
//	prod := NewScopedKeyer(NewDefaultKeyer(), "prod:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// AssetKey generates a prefixed asset key.
func (k *ScopedKeyer) AssetKey(version, url string) string {
	return k.prefix + k.inner.AssetKey(version, url)
}

// Prefix returns the scope prefix followed by the inner prefix.
func (k *ScopedKeyer) Prefix() string {
	return k.prefix + k.inner.Prefix()
}

// VersionOf strips the scope prefix and delegates to the inner keyer.
func (k *ScopedKeyer) VersionOf(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, k.prefix)
	if !ok {
		return "", false
	}
	return k.inner.VersionOf(rest)
}
