package scale

import (
	"context"
	"time"

	"github.com/matzehuels/cosmicscale/pkg/observability"
)

// Frame drives a resolver from a render loop.
//
// Each Step evaluates once. When the input is invalid the frame is skipped:
// Step reports the error and returns the last good result unchanged, so the
// renderer keeps drawing the previous state. A Frame belongs to a single
// loop goroutine.
type Frame struct {
	resolver *Resolver
	entities []*Entity
	last     *Result
	skipped  int
}

// NewFrame creates a frame driver over a snapshot of reg.
func NewFrame(r *Resolver, reg *Registry) *Frame {
	if r == nil {
		r = DefaultResolver()
	}
	return &Frame{resolver: r, entities: reg.All()}
}

// Step evaluates the entities at current.
// On error the previous result (possibly nil before the first good frame)
// is returned together with the error.
func (f *Frame) Step(ctx context.Context, current float64) (*Result, error) {
	start := time.Now()
	res, err := f.resolver.Evaluate(current, f.entities)
	active := ""
	if res != nil && res.Active != nil {
		active = res.Active.Name
	}
	observability.Resolver().OnEvaluate(ctx, current, len(f.entities), active, time.Since(start), err)

	if err != nil {
		f.skipped++
		return f.last, err
	}
	f.last = res
	return res, nil
}

// Last returns the most recent good result, or nil.
func (f *Frame) Last() *Result { return f.last }

// Skipped returns how many frames were skipped because of invalid input.
func (f *Frame) Skipped() int { return f.skipped }

// Entities returns the entities the frame evaluates.
func (f *Frame) Entities() []*Entity { return f.entities }
