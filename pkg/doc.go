// Package pkg provides the libraries behind cosmicscale, a zoom from the
// size of a proton to the observable universe.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. [core/scale] - The scale engine (visibility, sizing, focus)
//  2. [catalog] and [hud] - The object tables and the text shown with them
//  3. [mirror], [cache], [httputil] - The offline asset mirror
//  4. [server], [viewer], [render] - Outer surfaces
//
// # Architecture
//
// One frame of the visualization:
//
//	current exponent (slider, wheel, keys)
//	         ↓
//	    [core/scale] Resolver.Evaluate (scale factor, visibility, focus)
//	         ↓
//	    [hud] readout + label, [viewer] sprites, [render/ladder] diagram
//
// The mirror runs beside it:
//
//	manifest → [mirror] Install → [cache] (file, Redis, MongoDB)
//	request  → [mirror] ServeHTTP → cache hit | [httputil] fetch | stale copy
//
// # Quick Start
//
// Evaluate the built-in catalog at the scale of the Earth:
//
//	import (
//	    "github.com/matzehuels/cosmicscale/pkg/catalog"
//	    "github.com/matzehuels/cosmicscale/pkg/core/scale"
//	    "github.com/matzehuels/cosmicscale/pkg/hud"
//	)
//
//	reg, _ := catalog.Build(catalog.Default())
//	res, _ := scale.DefaultResolver().EvaluateRegistry(7.1, reg)
//	title, _ := hud.Label(res)    // "The Earth"
//	readout := hud.Readout(7.1)   // "10^7.1 meters"
//
// # Main Packages
//
// [core/scale] - Entities, the registry, the resolver and the frame driver.
// The resolver is pure: every call returns a fresh immutable result.
//
// [catalog] - TOML and YAML object tables. The ten-object tour is embedded.
//
// [hud] - Readout, label and the JSON report used by the API.
//
// [mirror] - Versioned install, activate and cache-first serving of the
// visualization's static assets.
//
// [cache] - Cache backends (file, Redis, MongoDB, null) and asset keys.
//
// [httputil] - Upstream fetcher and retry helpers.
//
// [server] - chi router for the JSON API with the mirror as fallback.
//
// [viewer] - Zoom input mapping and scene building; [viewer/window] draws
// it with ebiten.
//
// [render/ladder] - Graphviz diagram of the scale ladder.
//
// [observability] - Hooks for logging and metrics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/scale/...         # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include Redis and MongoDB tests
//
// [core/scale]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/core/scale
// [catalog]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/catalog
// [hud]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/hud
// [mirror]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/mirror
// [cache]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/httputil
// [server]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/server
// [viewer]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/viewer
// [viewer/window]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/viewer/window
// [render]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/render
// [render/ladder]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/render/ladder
// [observability]: https://pkg.go.dev/github.com/matzehuels/cosmicscale/pkg/observability
package pkg
