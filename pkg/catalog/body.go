package catalog

import (
	"image/color"
	"math"
	"sync"
	"time"
)

// Idle spin, in radians per 60 Hz frame.
const (
	baseSpin  = 0.002
	orbitSpin = 0.01
)

// frame is one 60 Hz tick. Frames are counted against the truncated
// duration so that a time.Second/60 step advances exactly one frame.
const frame = time.Second / 60

// Proton quark jitter: each quark wobbles by sin(5t + i) * quarkJitter,
// with t in seconds.
const (
	quarkCount  = 3
	quarkRate   = 5.0
	quarkJitter = 0.01
)

// Body is the render handle for a catalog object. It carries the object's
// metadata plus idle-animation state, and implements scale.Animatable.
type Body struct {
	Object Object
	Color  color.RGBA

	mu       sync.Mutex
	rotation float64
	orbit    float64
	elapsed  time.Duration
}

// NewBody creates the render handle for o.
func NewBody(o Object) *Body {
	c, err := o.RGBA()
	if err != nil {
		c = fallbackColor
	}
	return &Body{Object: o, Color: c}
}

// Animate advances the body's idle rotation. Atoms also spin their electron
// orbit and protons advance their quark jitter clock.
func (b *Body) Animate(dt time.Duration) {
	frames := float64(dt) / float64(frame)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rotation = math.Mod(b.rotation+baseSpin*frames, 2*math.Pi)
	switch b.Object.Kind {
	case KindAtom:
		b.orbit = math.Mod(b.orbit+orbitSpin*frames, 2*math.Pi)
	case KindProton:
		b.elapsed += dt
	}
}

// Quarks returns the radial offset of each of a proton's three quarks,
// relative to the body radius. Other kinds return nil.
func (b *Body) Quarks() []float64 {
	if b.Object.Kind != KindProton {
		return nil
	}
	b.mu.Lock()
	t := b.elapsed.Seconds()
	b.mu.Unlock()

	offsets := make([]float64, quarkCount)
	for i := range offsets {
		offsets[i] = math.Sin(t*quarkRate+float64(i)) * quarkJitter
	}
	return offsets
}

// Rotation returns the current idle rotation and orbit angles in radians.
func (b *Body) Rotation() (rotation, orbit float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rotation, b.orbit
}
