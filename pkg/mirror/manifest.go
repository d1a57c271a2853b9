package mirror

import (
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
)

// DefaultVersion is the version key of the built-in manifest.
const DefaultVersion = "cosmic-scale-v1"

// ThreeJSURL is the CDN script the visualization loads at runtime.
const ThreeJSURL = "https://cdnjs.cloudflare.com/ajax/libs/three.js/r128/three.min.js"

// DefaultAssets lists the files the visualization needs to start offline.
var DefaultAssets = []string{
	"/",
	"/index.html",
	"/index.js",
	"/style.css",
	"/favicon.png",
	"/manifest.webmanifest",
	ThreeJSURL,
}

// Manifest names a versioned set of assets.
type Manifest struct {
	Version string   `toml:"version" json:"version"`
	Assets  []string `toml:"assets" json:"assets"`
}

// DefaultManifest returns the built-in manifest.
func DefaultManifest() Manifest {
	return Manifest{
		Version: DefaultVersion,
		Assets:  append([]string(nil), DefaultAssets...),
	}
}

// Validate checks the version key and every asset reference.
func (m Manifest) Validate() error {
	if err := errs.ValidateVersionKey(m.Version); err != nil {
		return err
	}
	seen := make(map[string]bool, len(m.Assets))
	for i, a := range m.Assets {
		if err := errs.ValidateAssetPath(a); err != nil {
			return errs.Wrap(errs.ErrCodeInvalidConfig, err, "asset %d", i)
		}
		if seen[a] {
			return errs.New(errs.ErrCodeInvalidConfig, "asset %d: duplicate %q", i, a)
		}
		seen[a] = true
	}
	return nil
}
