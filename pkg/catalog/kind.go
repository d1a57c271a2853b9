package catalog

import "image/color"

// Kind names the procedural shape the renderer draws for an object.
type Kind string

// Known kinds.
const (
	KindProton      Kind = "proton"
	KindAtom        Kind = "atom"
	KindDNA         Kind = "dna"
	KindVirus       Kind = "virus"
	KindBall        Kind = "ball"
	KindEarth       Kind = "earth"
	KindSun         Kind = "sun"
	KindSolarSystem Kind = "solar_system"
	KindGalaxy      Kind = "galaxy"
	KindUniverse    Kind = "universe"
)

// Kinds lists every known kind.
var Kinds = []Kind{
	KindProton, KindAtom, KindDNA, KindVirus, KindBall,
	KindEarth, KindSun, KindSolarSystem, KindGalaxy, KindUniverse,
}

// fallbackColor is used for objects without a color or kind (a magenta
// placeholder box).
var fallbackColor = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}

// Known reports whether k is one of [Kinds].
func (k Kind) Known() bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}
