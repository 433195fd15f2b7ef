package production

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/comalice/dispatchx"
)

const metricsNamespace = "dispatchx"

// MetricsPublisher exports transitions and ticks as Prometheus metrics.
type MetricsPublisher struct {
	transitions *prometheus.CounterVec
	ticks       *prometheus.CounterVec
	current     *prometheus.GaugeVec
}

// NewMetricsPublisher creates the collectors and registers them on reg.
func NewMetricsPublisher(reg prometheus.Registerer) (*MetricsPublisher, error) {
	m := &MetricsPublisher{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "transitions_total",
			Help:      "State transitions completed by the dispatcher.",
		}, []string{"machine", "from", "to"}),
		ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "ticks_total",
			Help:      "Dispatcher steps, partitioned by the Do result.",
		}, []string{"machine", "busy"}),
		current: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "current_state",
			Help:      "Id of the active state, -1 while idle.",
		}, []string{"machine"}),
	}

	for _, c := range []prometheus.Collector{m.transitions, m.ticks, m.current} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return m, nil
}

func (m *MetricsPublisher) Publish(t dispatchx.Transition) error {
	m.transitions.WithLabelValues(t.MachineID, t.From, t.To).Inc()
	m.current.WithLabelValues(t.MachineID).Set(float64(t.ToID))
	return nil
}

// ObserveTick counts one step of machineID.
func (m *MetricsPublisher) ObserveTick(machineID string, busy bool) {
	m.ticks.WithLabelValues(machineID, strconv.FormatBool(busy)).Inc()
}
