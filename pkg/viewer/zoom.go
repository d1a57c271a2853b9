package viewer

import (
	"math"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/cosmicscale/pkg/errors"
)

// coarseFactor multiplies the step while shift is held.
const coarseFactor = 10

// Input is one tick's worth of user input.
type Input struct {
	// Wheel is the vertical wheel delta. Scrolling up zooms in.
	Wheel float64

	// Out and In are held arrow keys: Out grows the exponent, In shrinks it.
	Out, In bool

	// Coarse multiplies keyboard and wheel steps by ten.
	Coarse bool

	// Home and End jump to the range limits.
	Home, End bool
}

// Zoom maps input to a new current exponent within [Min, Max].
type Zoom struct {
	Speed float64
	Min   float64
	Max   float64
}

// Validate checks that the zoom has a positive speed and a non-empty range.
func (z Zoom) Validate() error {
	for _, f := range []float64{z.Speed, z.Min, z.Max} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errs.New(errs.ErrCodeInvalidConfig, "zoom values must be finite")
		}
	}
	if z.Speed <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "zoom speed must be positive, got %g", z.Speed)
	}
	if z.Min >= z.Max {
		return errs.New(errs.ErrCodeInvalidConfig, "zoom range [%g, %g] is empty", z.Min, z.Max)
	}
	return nil
}

// Clamp limits current to the zoom range.
func (z Zoom) Clamp(current float64) float64 {
	return math.Min(math.Max(current, z.Min), z.Max)
}

// Apply returns the exponent after one tick of input. Jumps take priority
// over relative steps.
func (z Zoom) Apply(current float64, in Input) float64 {
	switch {
	case in.Home:
		return z.Min
	case in.End:
		return z.Max
	}

	step := z.Speed
	if in.Coarse {
		step *= coarseFactor
	}
	if in.Out {
		current += step
	}
	if in.In {
		current -= step
	}
	current -= in.Wheel * step
	return z.Clamp(current)
}

// Options configures an interactive viewer session.
type Options struct {
	Title  string
	Width  int
	Height int
	Start  float64
	Zoom   Zoom
	Logger *log.Logger
}
