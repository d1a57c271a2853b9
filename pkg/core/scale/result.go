package scale

// State is the derived render state of one entity for one evaluation.
type State struct {
	Entity *Entity

	// ScaleFactor is 10^(Entity.Exponent - current). Always positive for a
	// finite exponent difference, though it may underflow to zero or
	// overflow to +Inf at extreme differences.
	ScaleFactor float64

	// Visible reports whether ScaleFactor lies strictly inside the band.
	Visible bool

	// Distance is |Entity.Exponent - current| in decades.
	Distance float64
}

// Result is the outcome of one evaluation. Results are never modified after
// Evaluate returns.
type Result struct {
	// Current is the exponent the result was computed for.
	Current float64

	// States holds one state per input entity, in input order.
	States []State

	// Active is the entity in focus, or nil when the closest entity is at or
	// beyond the active threshold ("empty space").
	Active *Entity

	// Closest is the nearest entity regardless of the threshold; nil only
	// when there were no entities.
	Closest *Entity

	// Distance is the log-distance of Closest, or 0 with no entities.
	Distance float64

	index map[*Entity]int
}

// Lookup returns the state computed for e.
// If e appeared more than once in the input, the first state is returned.
func (r *Result) Lookup(e *Entity) (State, bool) {
	i, ok := r.index[e]
	if !ok {
		return State{}, false
	}
	return r.States[i], true
}

// VisibleCount returns the number of visible entities.
func (r *Result) VisibleCount() int {
	n := 0
	for _, s := range r.States {
		if s.Visible {
			n++
		}
	}
	return n
}

// Visible returns the visible states in input order.
func (r *Result) Visible() []State {
	out := make([]State, 0, len(r.States))
	for _, s := range r.States {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}
