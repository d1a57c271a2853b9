// Package hud formats the heads-up text shown alongside the visualization:
// the scale readout and the active-object label.
package hud

import (
	"fmt"
	"math"

	"github.com/matzehuels/cosmicscale/pkg/core/scale"
)

// Fallback label shown while no entity is active.
const (
	EmptyTitle = "Empty Space"
	EmptyBody  = "Zooming..."
)

// Readout formats the current exponent as "10^<x> meters" with one decimal.
func Readout(current float64) string {
	return fmt.Sprintf("10^%.1f meters", roundHalf(current))
}

// Label returns the title and body for the active entity, or the empty-space
// fallback when there is none.
func Label(res *scale.Result) (title, body string) {
	if res == nil || res.Active == nil {
		return EmptyTitle, EmptyBody
	}
	return res.Active.Name, res.Active.Description
}

// Factor formats a scale factor compactly ("1", "316.2", "2.51e+19").
func Factor(f float64) string {
	switch {
	case f == 0:
		return "0"
	case math.IsInf(f, 1):
		return "+Inf"
	case f >= 1e-3 && f < 1e5:
		return fmt.Sprintf("%.4g", f)
	default:
		return fmt.Sprintf("%.3g", f)
	}
}

// roundHalf avoids printing "-0.0" for values that round to zero.
func roundHalf(v float64) float64 {
	if math.Abs(v) < 0.05 {
		return 0
	}
	return v
}
