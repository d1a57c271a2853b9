package viewer

import (
	"cmp"
	"image/color"
	"math"
	"slices"

	"github.com/matzehuels/cosmicscale/pkg/catalog"
	"github.com/matzehuels/cosmicscale/pkg/core/scale"
	"github.com/matzehuels/cosmicscale/pkg/hud"
)

// Shape selects how a sprite is drawn.
type Shape int

const (
	// ShapeDisc draws a filled circle.
	ShapeDisc Shape = iota

	// ShapeBox draws the placeholder square used for unknown kinds.
	ShapeBox
)

// placeholder is the color of entities without a catalog body.
var placeholder = color.RGBA{R: 0xff, G: 0x00, B: 0xff, A: 0xff}

// Sprite is one visible entity, ready to draw at the screen centre.
type Sprite struct {
	Name     string
	Radius   float64
	Color    color.RGBA
	Shape    Shape
	Active   bool
	Rotation float64

	// Orbit is the electron angle for atoms; HasOrbit is false otherwise.
	Orbit    float64
	HasOrbit bool

	// Quarks holds each quark's radial jitter for protons, as a fraction of
	// Radius; nil otherwise.
	Quarks []float64
}

// Scene is everything the window draws for one frame.
type Scene struct {
	Sprites []Sprite
	Title   string
	Body    string
	Readout string
}

// BuildScene turns an evaluation into sprites. Radii are baseRadius times
// the scale factor, capped at maxRadius. Sprites are ordered largest first
// so smaller bodies are drawn on top.
func BuildScene(res *scale.Result, baseRadius, maxRadius float64) Scene {
	title, body := hud.Label(res)
	sc := Scene{Title: title, Body: body}
	if res == nil {
		return sc
	}
	sc.Readout = hud.Readout(res.Current)

	for _, s := range res.Visible() {
		sp := Sprite{
			Name:   s.Entity.Name,
			Radius: math.Min(baseRadius*s.ScaleFactor, maxRadius),
			Color:  placeholder,
			Shape:  ShapeBox,
			Active: s.Entity == res.Active,
		}
		if b, ok := s.Entity.Handle.(*catalog.Body); ok {
			sp.Color = b.Color
			if b.Object.Kind.Known() {
				sp.Shape = ShapeDisc
			}
			sp.Rotation, sp.Orbit = b.Rotation()
			sp.HasOrbit = b.Object.Kind == catalog.KindAtom
			sp.Quarks = b.Quarks()
		}
		sc.Sprites = append(sc.Sprites, sp)
	}

	slices.SortStableFunc(sc.Sprites, func(a, b Sprite) int {
		return cmp.Compare(b.Radius, a.Radius)
	})
	return sc
}
