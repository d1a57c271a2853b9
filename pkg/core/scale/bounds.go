package scale

import (
	"math"

	errs "github.com/matzehuels/cosmicscale/pkg/errors"
)

// Default band and threshold values.
const (
	// DefaultVisibleMin is the exclusive lower bound of the visibility band.
	DefaultVisibleMin = 0.0001

	// DefaultVisibleMax is the exclusive upper bound of the visibility band.
	DefaultVisibleMax = 10000.0

	// DefaultActiveThreshold is the largest log-distance (exclusive) at which
	// the closest entity is still considered active.
	DefaultActiveThreshold = 2.5
)

// Bounds configures the visibility band and the active threshold.
type Bounds struct {
	VisibleMin      float64 `toml:"visible_min" yaml:"visible_min" json:"visible_min"`
	VisibleMax      float64 `toml:"visible_max" yaml:"visible_max" json:"visible_max"`
	ActiveThreshold float64 `toml:"active_threshold" yaml:"active_threshold" json:"active_threshold"`
}

// DefaultBounds returns the band (0.0001, 10000) and threshold 2.5.
func DefaultBounds() Bounds {
	return Bounds{
		VisibleMin:      DefaultVisibleMin,
		VisibleMax:      DefaultVisibleMax,
		ActiveThreshold: DefaultActiveThreshold,
	}
}

// Validate requires finite values with 0 < VisibleMin < VisibleMax and a
// non-negative threshold.
func (b Bounds) Validate() error {
	for _, v := range []float64{b.VisibleMin, b.VisibleMax, b.ActiveThreshold} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errs.New(errs.ErrCodeInvalidConfig, "bounds must be finite: %+v", b)
		}
	}
	if b.VisibleMin <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "visible_min must be positive, got %v", b.VisibleMin)
	}
	if b.VisibleMax <= b.VisibleMin {
		return errs.New(errs.ErrCodeInvalidConfig, "visible_max (%v) must exceed visible_min (%v)", b.VisibleMax, b.VisibleMin)
	}
	if b.ActiveThreshold < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "active_threshold must be non-negative, got %v", b.ActiveThreshold)
	}
	return nil
}

// Visible reports whether factor lies strictly inside the band.
func (b Bounds) Visible(factor float64) bool {
	return factor > b.VisibleMin && factor < b.VisibleMax
}
