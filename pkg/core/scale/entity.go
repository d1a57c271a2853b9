package scale

import (
	errs "github.com/matzehuels/cosmicscale/pkg/errors"
)

// Entity is a named object positioned on the logarithmic scale axis.
//
// Entities are immutable once constructed. The per-evaluation scale factor
// and visibility live in [State], never on the entity itself.
type Entity struct {
	// Name is the display label shown while the entity is active.
	Name string

	// Exponent is log10 of the entity's characteristic size in meters.
	Exponent float64

	// Description is free text shown while the entity is active.
	Description string

	// Handle is the rendering layer's visual representation. The engine
	// never inspects it, except to check for [Animatable].
	Handle any
}

// NewEntity constructs an entity and checks its invariants.
// It returns a VALIDATION error for an empty name or a non-finite exponent.
func NewEntity(name string, exponent float64, description string, handle any) (*Entity, error) {
	e := &Entity{
		Name:        name,
		Exponent:    exponent,
		Description: description,
		Handle:      handle,
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// Validate checks the entity's construction invariants.
func (e *Entity) Validate() error {
	if e == nil {
		return errs.New(errs.ErrCodeValidation, "entity is nil")
	}
	if e.Name == "" {
		return errs.New(errs.ErrCodeValidation, "entity name cannot be empty")
	}
	if err := errs.ValidateExponent(e.Exponent); err != nil {
		return errs.Wrap(errs.ErrCodeValidation, err, "entity %q", e.Name)
	}
	return nil
}

// String returns the entity name.
func (e *Entity) String() string { return e.Name }
