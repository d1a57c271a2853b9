package scale

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/matzehuels/cosmicscale/pkg/errors"
	"github.com/matzehuels/cosmicscale/pkg/observability"
)

type recordingHooks struct {
	observability.NoopResolverHooks
	calls  int
	errors int
	active []string
}

func (h *recordingHooks) OnEvaluate(_ context.Context, _ float64, _ int, active string, _ time.Duration, err error) {
	h.calls++
	if err != nil {
		h.errors++
	}
	h.active = append(h.active, active)
}

func TestFrame_SkipsInvalidInput(t *testing.T) {
	reg := NewRegistry()
	earth := mustEntity(t, "earth", 7.1)
	require.NoError(t, reg.Register(earth))

	f := NewFrame(nil, reg)
	ctx := context.Background()

	res, err := f.Step(ctx, 7.1)
	require.NoError(t, err)
	assert.Same(t, earth, res.Active)

	prev, err := f.Step(ctx, math.NaN())
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidInput))
	assert.Same(t, res, prev, "skipped frame keeps the previous result")
	assert.Same(t, res, f.Last())
	assert.Equal(t, 1, f.Skipped())

	next, err := f.Step(ctx, 20)
	require.NoError(t, err)
	assert.Nil(t, next.Active)
	assert.Same(t, next, f.Last())
}

func TestFrame_FirstFrameInvalid(t *testing.T) {
	f := NewFrame(DefaultResolver(), NewRegistry())
	res, err := f.Step(context.Background(), math.Inf(1))
	assert.Error(t, err)
	assert.Nil(t, res)
}

func TestFrame_EmitsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetResolverHooks(hooks)
	defer observability.Reset()

	reg := NewRegistry()
	require.NoError(t, reg.Register(mustEntity(t, "earth", 7.1)))
	f := NewFrame(nil, reg)

	_, _ = f.Step(context.Background(), 7.1)
	_, _ = f.Step(context.Background(), math.NaN())
	_, _ = f.Step(context.Background(), 15)

	assert.Equal(t, 3, hooks.calls)
	assert.Equal(t, 1, hooks.errors)
	assert.Equal(t, []string{"earth", "", ""}, hooks.active)
}

type spinner struct{ ticks int }

func (s *spinner) Animate(time.Duration) { s.ticks++ }

func TestAnimate_OnlyVisibleAnimatables(t *testing.T) {
	near := &spinner{}
	far := &spinner{}
	plain, err := NewEntity("plain", 0, "", "not animatable")
	require.NoError(t, err)
	a, err := NewEntity("near", 0.5, "", near)
	require.NoError(t, err)
	b, err := NewEntity("far", 20, "", far)
	require.NoError(t, err)

	res, err := DefaultResolver().Evaluate(0, []*Entity{plain, a, b})
	require.NoError(t, err)

	n := Animate(res, time.Second/60)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, near.ticks)
	assert.Equal(t, 0, far.ticks)
	assert.Equal(t, 0, Animate(nil, time.Second))
}
