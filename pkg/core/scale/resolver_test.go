package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/cosmicscale/pkg/errors"
)

func mustEntity(t *testing.T, name string, exp float64) *Entity {
	t.Helper()
	e, err := NewEntity(name, exp, name+" description", nil)
	require.NoError(t, err)
	return e
}

func relErr(got, want float64) float64 {
	if want == 0 {
		return math.Abs(got)
	}
	return math.Abs(got-want) / math.Abs(want)
}

func TestEvaluate_ScaleFactor(t *testing.T) {
	entities := []*Entity{
		mustEntity(t, "a", -15),
		mustEntity(t, "b", -0.3),
		mustEntity(t, "c", 7.1),
		mustEntity(t, "d", 26.5),
	}
	r := DefaultResolver()

	for _, current := range []float64{-15, -3.7, 0, 7.1, 12.25, 27} {
		res, err := r.Evaluate(current, entities)
		require.NoError(t, err)
		require.Len(t, res.States, len(entities))

		for i, st := range res.States {
			assert.Same(t, entities[i], st.Entity)
			want := math.Pow(10, entities[i].Exponent-current)
			assert.LessOrEqual(t, relErr(st.ScaleFactor, want), 1e-9,
				"scale factor for %s at %v", st.Entity.Name, current)
			assert.Greater(t, st.ScaleFactor, 0.0)
			assert.InDelta(t, math.Abs(entities[i].Exponent-current), st.Distance, 1e-12)
		}
	}
}

func TestEvaluate_VisibilityBand(t *testing.T) {
	r := DefaultResolver()
	tests := []struct {
		name   string
		factor float64
		want   bool
	}{
		{"at lower bound", 0.0001, false},
		{"just inside lower", 0.00011, true},
		{"unit", 1, true},
		{"just inside upper", 9999, true},
		{"at upper bound", 10000, false},
		{"below band", 0.00001, false},
		{"above band", 100000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Bounds().Visible(tt.factor))
		})
	}
}

func TestEvaluate_VisibilityAtExponentBoundary(t *testing.T) {
	// An entity exactly four decades away sits on the band edge.
	e := mustEntity(t, "edge", 0)
	r := DefaultResolver()

	res, err := r.Evaluate(4, []*Entity{e})
	require.NoError(t, err)
	st, ok := res.Lookup(e)
	require.True(t, ok)
	assert.Equal(t, DefaultVisibleMin, st.ScaleFactor)
	assert.False(t, st.Visible, "lower bound is exclusive")

	res, err = r.Evaluate(-4, []*Entity{e})
	require.NoError(t, err)
	assert.Equal(t, DefaultVisibleMax, res.States[0].ScaleFactor)
	assert.False(t, res.States[0].Visible, "upper bound is exclusive")

	res, err = r.Evaluate(3.9, []*Entity{e})
	require.NoError(t, err)
	assert.True(t, res.States[0].Visible)

	res, err = r.Evaluate(-3.9, []*Entity{e})
	require.NoError(t, err)
	assert.True(t, res.States[0].Visible)

	res, err = r.Evaluate(-4.1, []*Entity{e})
	require.NoError(t, err)
	assert.False(t, res.States[0].Visible)
}

func TestEvaluate_TieGoesToFirstRegistered(t *testing.T) {
	first := mustEntity(t, "first", 5)
	second := mustEntity(t, "second", 5)

	res, err := DefaultResolver().Evaluate(5, []*Entity{first, second})
	require.NoError(t, err)
	assert.Same(t, first, res.Active)
	assert.Same(t, first, res.Closest)
	assert.Equal(t, 0.0, res.Distance)
}

func TestEvaluate_TieAtEqualDistanceOnBothSides(t *testing.T) {
	below := mustEntity(t, "below", 4)
	above := mustEntity(t, "above", 6)

	res, err := DefaultResolver().Evaluate(5, []*Entity{above, below})
	require.NoError(t, err)
	assert.Same(t, above, res.Active)
}

func TestEvaluate_ActiveThreshold(t *testing.T) {
	e := mustEntity(t, "ten", 10)
	r := DefaultResolver()

	res, err := r.Evaluate(12.4, []*Entity{e})
	require.NoError(t, err)
	assert.Same(t, e, res.Active)
	assert.InDelta(t, 2.4, res.Distance, 1e-9)

	res, err = r.Evaluate(12.6, []*Entity{e})
	require.NoError(t, err)
	assert.Nil(t, res.Active)
	assert.Same(t, e, res.Closest)
	assert.InDelta(t, 2.6, res.Distance, 1e-9)

	// Threshold is exclusive.
	res, err = r.Evaluate(12.5, []*Entity{e})
	require.NoError(t, err)
	assert.Nil(t, res.Active)
}

func TestEvaluate_ClosestWins(t *testing.T) {
	earth := mustEntity(t, "earth", 7.1)
	sun := mustEntity(t, "sun", 9.1)

	res, err := DefaultResolver().Evaluate(8.5, []*Entity{earth, sun})
	require.NoError(t, err)
	assert.Same(t, sun, res.Active)
	assert.InDelta(t, 0.6, res.Distance, 1e-9)
}

func TestEvaluate_Idempotent(t *testing.T) {
	reg := NewRegistry()
	for i, exp := range []float64{-15, -10, -8.5, 7.1, 26.5} {
		require.NoError(t, reg.Register(mustEntity(t, string(rune('a'+i)), exp)))
	}
	r := DefaultResolver()

	a, err := r.EvaluateRegistry(-9.2, reg)
	require.NoError(t, err)
	b, err := r.EvaluateRegistry(-9.2, reg)
	require.NoError(t, err)

	assert.Equal(t, a.States, b.States)
	assert.Same(t, a.Active, b.Active)
	assert.Equal(t, a.Distance, b.Distance)
}

func TestEvaluate_EmptyRegistry(t *testing.T) {
	res, err := DefaultResolver().EvaluateRegistry(3, NewRegistry())
	require.NoError(t, err)
	assert.Nil(t, res.Active)
	assert.Nil(t, res.Closest)
	assert.Empty(t, res.States)
	assert.Equal(t, 0, res.VisibleCount())
	assert.Equal(t, 0.0, res.Distance)
}

func TestEvaluate_NonFiniteInput(t *testing.T) {
	e := mustEntity(t, "e", 0)
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		res, err := DefaultResolver().Evaluate(v, []*Entity{e})
		assert.Nil(t, res)
		assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput), "got %v", err)
	}
}

func TestEvaluate_DoesNotMutateEntities(t *testing.T) {
	e := mustEntity(t, "earth", 7.1)
	before := *e
	_, err := DefaultResolver().Evaluate(-3, []*Entity{e})
	require.NoError(t, err)
	assert.Equal(t, before, *e)
}

func TestEvaluate_EndToEnd(t *testing.T) {
	reg := NewRegistry()
	var byExp = map[float64]*Entity{}
	for _, exp := range []float64{-15, -10, 7.1, 26.5} {
		e := mustEntity(t, "e", exp)
		byExp[exp] = e
		require.NoError(t, reg.Register(e))
	}

	res, err := DefaultResolver().EvaluateRegistry(7.1, reg)
	require.NoError(t, err)

	earth, ok := res.Lookup(byExp[7.1])
	require.True(t, ok)
	assert.Equal(t, 1.0, earth.ScaleFactor)
	assert.True(t, earth.Visible)
	assert.Same(t, byExp[7.1], res.Active)
	assert.Equal(t, 0.0, res.Distance)

	universe, ok := res.Lookup(byExp[26.5])
	require.True(t, ok)
	assert.LessOrEqual(t, relErr(universe.ScaleFactor, math.Pow(10, 19.4)), 1e-9)
	assert.InDelta(t, 2.5e19, universe.ScaleFactor, 0.02e19)
	assert.False(t, universe.Visible)

	proton, _ := res.Lookup(byExp[-15])
	assert.False(t, proton.Visible)
	assert.Equal(t, 1, res.VisibleCount())
	assert.Len(t, res.Visible(), 1)
}

func TestEvaluate_ExtremeDifferences(t *testing.T) {
	tiny := mustEntity(t, "tiny", -300)
	huge := mustEntity(t, "huge", 300)

	res, err := DefaultResolver().Evaluate(100, []*Entity{tiny, huge})
	require.NoError(t, err)
	for _, st := range res.States {
		assert.False(t, st.Visible)
		assert.False(t, math.IsNaN(st.ScaleFactor))
	}
	assert.Nil(t, res.Active)
}

func TestLookup_Unknown(t *testing.T) {
	res, err := DefaultResolver().Evaluate(0, []*Entity{mustEntity(t, "a", 0)})
	require.NoError(t, err)
	_, ok := res.Lookup(mustEntity(t, "a", 0))
	assert.False(t, ok, "lookup is by identity, not by value")
}

func TestNewResolver_CustomBounds(t *testing.T) {
	r, err := NewResolver(Bounds{VisibleMin: 0.01, VisibleMax: 100, ActiveThreshold: 0.5})
	require.NoError(t, err)

	e := mustEntity(t, "e", 0)
	res, err := r.Evaluate(1.5, []*Entity{e})
	require.NoError(t, err)
	assert.True(t, res.States[0].Visible)
	assert.Nil(t, res.Active)

	res, err = r.Evaluate(2.5, []*Entity{e})
	require.NoError(t, err)
	assert.False(t, res.States[0].Visible)
}

func TestBoundsValidate(t *testing.T) {
	tests := []struct {
		name    string
		bounds  Bounds
		wantErr bool
	}{
		{"default", DefaultBounds(), false},
		{"zero threshold", Bounds{VisibleMin: 1e-3, VisibleMax: 1e3, ActiveThreshold: 0}, false},
		{"zero min", Bounds{VisibleMin: 0, VisibleMax: 1e3, ActiveThreshold: 1}, true},
		{"inverted", Bounds{VisibleMin: 10, VisibleMax: 1, ActiveThreshold: 1}, true},
		{"equal", Bounds{VisibleMin: 1, VisibleMax: 1, ActiveThreshold: 1}, true},
		{"negative threshold", Bounds{VisibleMin: 1e-3, VisibleMax: 1e3, ActiveThreshold: -1}, true},
		{"nan", Bounds{VisibleMin: math.NaN(), VisibleMax: 1e3, ActiveThreshold: 1}, true},
		{"inf max", Bounds{VisibleMin: 1e-3, VisibleMax: math.Inf(1), ActiveThreshold: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.bounds.Validate()
			if tt.wantErr {
				assert.True(t, errs.Is(err, errs.ErrCodeInvalidConfig), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
