package production

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/dispatchx"
)

func gather(t *testing.T, reg *prometheus.Registry, name string) []*dto.Metric {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()
		}
	}
	return nil
}

func labels(m *dto.Metric) map[string]string {
	out := make(map[string]string)
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}

func TestMetricsPublisher(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetricsPublisher(reg)
	require.NoError(t, err)

	d := newCycler(t, dispatchx.WithPublisher[int](m))
	cycle(t, d)
	require.NoError(t, d.RequestTransition(1))
	d.Step()
	m.ObserveTick(d.ID(), true)
	m.ObserveTick(d.ID(), true)
	m.ObserveTick(d.ID(), false)

	transitions := gather(t, reg, "dispatchx_transitions_total")
	require.Len(t, transitions, 4)
	counts := make(map[string]float64)
	for _, metric := range transitions {
		l := labels(metric)
		assert.Equal(t, "light", l["machine"])
		counts[l["from"]+"->"+l["to"]] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{
		"NullState->red": 1, "red->green": 2, "green->yellow": 1, "yellow->red": 1,
	}, counts)

	current := gather(t, reg, "dispatchx_current_state")
	require.Len(t, current, 1)
	assert.Equal(t, float64(1), current[0].GetGauge().GetValue())

	ticks := gather(t, reg, "dispatchx_ticks_total")
	require.Len(t, ticks, 2)
	for _, metric := range ticks {
		want := 2.0
		if labels(metric)["busy"] == "false" {
			want = 1
		}
		assert.Equal(t, want, metric.GetCounter().GetValue())
	}

	d.Reset()
	current = gather(t, reg, "dispatchx_current_state")
	assert.Equal(t, float64(dispatchx.NullStateID), current[0].GetGauge().GetValue())
}

func TestMetricsPublisher_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewMetricsPublisher(reg)
	require.NoError(t, err)

	_, err = NewMetricsPublisher(reg)
	assert.ErrorContains(t, err, "register metrics")
}
