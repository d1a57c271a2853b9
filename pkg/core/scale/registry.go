package scale

// Registry is the ordered collection of scalable entities.
//
// A Registry is populated once before any evaluation and is read-only
// afterwards; it performs no locking. Duplicate names and shared exponents
// are allowed.
type Registry struct {
	entities []*Entity
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends e to the registry.
//
// A VALIDATION error is returned if e has an empty name or a non-finite
// exponent; the registry is left unchanged in that case.
func (r *Registry) Register(e *Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}
	r.entities = append(r.entities, e)
	return nil
}

// All returns the registered entities in insertion order.
// The returned slice is a copy and may be iterated any number of times.
func (r *Registry) All() []*Entity {
	out := make([]*Entity, len(r.entities))
	copy(out, r.entities)
	return out
}

// Len returns the number of registered entities.
func (r *Registry) Len() int { return len(r.entities) }

// Find returns the first entity registered under name.
func (r *Registry) Find(name string) (*Entity, bool) {
	for _, e := range r.entities {
		if e.Name == name {
			return e, true
		}
	}
	return nil, false
}
