package production

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comalice/dispatchx"
)

// newCycler builds a dispatcher over red/green/yellow with the given options.
func newCycler(t *testing.T, opts ...dispatchx.Option[int]) *dispatchx.Dispatcher[int] {
	t.Helper()
	h := dispatchx.HandlerFunc[int](func(*dispatchx.Dispatcher[int], dispatchx.Reason, int) bool { return true })
	table := []dispatchx.State[int]{
		{Name: "red", Handler: h},
		{Name: "green", Handler: h},
		{Name: "yellow", Handler: h},
	}
	d, err := dispatchx.New(0, table, 0, append([]dispatchx.Option[int]{dispatchx.WithID[int]("light")}, opts...)...)
	require.NoError(t, err)
	return d
}

// cycle walks red -> green -> yellow -> red.
func cycle(t *testing.T, d *dispatchx.Dispatcher[int]) {
	t.Helper()
	d.Step()
	for _, id := range []dispatchx.StateID{1, 2, 0} {
		require.NoError(t, d.RequestTransition(id))
		d.Step()
	}
}
