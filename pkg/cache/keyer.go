package cache

import (
	"strings"
)

// assetPrefix starts every asset key produced by DefaultKeyer.
const assetPrefix = "asset:"

// Keyer generates cache keys for mirrored assets.
type Keyer interface {
	// AssetKey returns the key for url under a mirror version.
	AssetKey(version, url string) string

	// Prefix returns the prefix shared by every asset key.
	Prefix() string

	// VersionOf extracts the version from an asset key.
	VersionOf(key string) (string, bool)
}

// DefaultKeyer produces "asset:<version>:<sha256(url)>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// AssetKey generates a key for an asset URL under version.
func (DefaultKeyer) AssetKey(version, url string) string {
	return assetPrefix + version + ":" + Hash([]byte(url))
}

// Prefix returns "asset:".
func (DefaultKeyer) Prefix() string { return assetPrefix }

// VersionOf extracts the version segment of an asset key.
func (DefaultKeyer) VersionOf(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, assetPrefix)
	if !ok {
		return "", false
	}
	version, _, ok := strings.Cut(rest, ":")
	if !ok || version == "" {
		return "", false
	}
	return version, true
}
