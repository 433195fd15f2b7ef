package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/dispatchx"
)

func TestRecorder_Handler(t *testing.T) {
	rec := NewRecorder[string]()
	rec.SetResult("b", true)
	table := []dispatchx.State[string]{
		{Name: "a", Handler: rec.Handler("a", func(d *dispatchx.Dispatcher[string], r dispatchx.Reason, _ string) bool {
			if r == dispatchx.Do {
				_ = d.RequestTransition(1)
			}
			return false
		})},
		{Name: "b", Handler: rec.Handler("b", nil)},
	}
	d := dispatchx.MustNew(0, table, "plant")

	assert.False(t, d.Step())
	assert.True(t, d.Step())

	assert.Equal(t, []string{"a.enter", "a.do", "a.exit", "b.enter", "b.do"}, rec.Trace())
	assert.Equal(t, 1, rec.Count("b", dispatchx.Do))
	assert.Len(t, rec.CallsFor("a"), 3)

	calls := rec.Calls()
	require.Len(t, calls, 5)
	for i, c := range calls {
		assert.Equal(t, i, c.Seq)
		assert.Same(t, d, c.Dispatcher)
		assert.Equal(t, "plant", c.Ctx)
	}
}

func TestRecorder_MiddlewareSeesNullState(t *testing.T) {
	rec := NewRecorder[int]()
	h := dispatchx.HandlerFunc[int](func(*dispatchx.Dispatcher[int], dispatchx.Reason, int) bool { return true })
	d := dispatchx.MustNew(0, []dispatchx.State[int]{{Name: "only", Handler: h}}, 0,
		dispatchx.WithMiddleware(rec.Middleware()),
	)

	assert.True(t, d.Step())
	assert.Equal(t, []string{"NullState.exit", "only.enter", "only.do"}, rec.Trace())
}

func TestRecorder_Clear(t *testing.T) {
	rec := NewRecorder[int]()
	rec.SetResult("x", true)
	h := rec.Handler("x", nil)
	h.Handle(nil, dispatchx.Do, 0)

	rec.Clear()
	assert.Empty(t, rec.Calls())
	assert.True(t, h.Handle(nil, dispatchx.Do, 0), "results survive Clear")
	assert.Equal(t, 0, rec.Calls()[0].Seq)
}
