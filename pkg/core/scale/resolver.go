package scale

import (
	"math"

	errs "github.com/matzehuels/cosmicscale/pkg/errors"
)

// Resolver maps a current exponent to per-entity scale and visibility.
//
// A Resolver holds only its bounds. Evaluate never mutates its inputs, so one
// Resolver may be shared by any number of goroutines.
type Resolver struct {
	bounds Bounds
}

// NewResolver creates a resolver with validated bounds.
func NewResolver(b Bounds) (*Resolver, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &Resolver{bounds: b}, nil
}

// DefaultResolver returns a resolver using [DefaultBounds].
func DefaultResolver() *Resolver {
	return &Resolver{bounds: DefaultBounds()}
}

// Bounds returns the resolver's configuration.
func (r *Resolver) Bounds() Bounds { return r.bounds }

// Evaluate computes a fresh [Result] for entities at the current exponent.
//
// Every entity receives a state, including off-screen ones. The closest
// entity is the first one (in slice order) with minimal |exponent - current|;
// it becomes Active only when that distance is below the active threshold.
//
// A non-finite current returns an INVALID_INPUT error and no result. An empty
// entity list is not an error: the result has no states and no active entity.
func (r *Resolver) Evaluate(current float64, entities []*Entity) (*Result, error) {
	if err := errs.ValidateCurrentExponent(current); err != nil {
		return nil, err
	}

	res := &Result{
		Current: current,
		States:  make([]State, 0, len(entities)),
		index:   make(map[*Entity]int, len(entities)),
	}

	best := math.Inf(1)
	var closest *Entity
	for _, e := range entities {
		diff := e.Exponent - current
		factor := math.Pow(10, diff)
		dist := math.Abs(diff)

		if _, seen := res.index[e]; !seen {
			res.index[e] = len(res.States)
		}
		res.States = append(res.States, State{
			Entity:      e,
			ScaleFactor: factor,
			Visible:     r.bounds.Visible(factor),
			Distance:    dist,
		})

		if dist < best {
			best = dist
			closest = e
		}
	}

	if closest != nil {
		res.Closest = closest
		res.Distance = best
		if best < r.bounds.ActiveThreshold {
			res.Active = closest
		}
	}
	return res, nil
}

// EvaluateRegistry evaluates every entity in reg.
func (r *Resolver) EvaluateRegistry(current float64, reg *Registry) (*Result, error) {
	return r.Evaluate(current, reg.entities)
}
