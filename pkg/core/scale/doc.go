// Package scale implements the scale-driven visibility and sizing engine.
//
// A single continuous value, the current exponent, selects a position on a
// base-10 logarithmic size axis running from subatomic (10^-15 m) to cosmic
// (10^26.5 m) scales. For every registered [Entity] the engine derives:
//
//   - a scale factor, 10^(entity exponent - current exponent), applied by the
//     renderer as a uniform transform
//   - a visibility flag, true while the scale factor lies strictly inside the
//     visibility band (0.0001, 10000)
//   - at most one active entity: the one closest in log-distance, provided it
//     lies within the active threshold (2.5 decades)
//
// # Components
//
// [Registry] holds the ordered entity list. It is populated once at startup
// and read-only afterwards.
//
// [Resolver] is a pure function from (current exponent, entities) to a fresh
// [Result]. Entities are never mutated, so concurrent evaluations are safe
// and repeated evaluations with the same inputs are identical.
//
// [Frame] wraps a resolver for frame loops: a frame whose input is invalid is
// skipped and the previous result is kept.
//
// # Usage
//
//	reg := scale.NewRegistry()
//	earth, _ := scale.NewEntity("The Earth", 7.1, "Our home.", mesh)
//	_ = reg.Register(earth)
//
//	res, err := scale.DefaultResolver().Evaluate(7.1, reg.All())
//	if err != nil {
//	    return err // INVALID_INPUT: skip this frame
//	}
//	for _, st := range res.States {
//	    st.Entity.Handle.(*Mesh).SetScale(st.ScaleFactor)
//	}
//	if res.Active != nil {
//	    fmt.Println(res.Active.Name)
//	}
//
// Render handles are opaque to this package. A handle that implements
// [Animatable] receives idle-animation ticks through [Animate].
package scale
