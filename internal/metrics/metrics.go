package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/speedwagon-io/mantis-monitor/internal/connectivity"
	"github.com/speedwagon-io/mantis-monitor/internal/telemetry"
)

const namespace = "mantis_monitor"

type PromMetrics struct {
	cycles        *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	skippedTicks  prometheus.Counter
	connectivity  prometheus.Gauge
	machines      prometheus.Gauge
	alertMachines prometheus.Gauge
	critical      prometheus.Gauge
	upstreamAlert prometheus.Gauge
}

func NewPromMetrics(reg prometheus.Registerer) *PromMetrics {
	m := &PromMetrics{
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Polling cycles by outcome.",
		}, []string{"outcome"}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of one polling cycle.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		skippedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_ticks_total",
			Help:      "Ticks dropped because the previous cycle was still running.",
		}),
		connectivity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_up",
			Help:      "1 when the upstream API is reachable, 0 when down, -1 before the first cycle.",
		}),
		machines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "machines",
			Help:      "Machines known to the store.",
		}),
		alertMachines: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "machines_alert",
			Help:      "Machines whose RUL is in the alert band.",
		}),
		critical: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "machines_critical",
			Help:      "Machines whose RUL is in the critical band.",
		}),
		upstreamAlert: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_alerts",
			Help:      "Alerts returned by the last successful alert fetch.",
		}),
	}
	m.connectivity.Set(-1)

	reg.MustRegister(
		m.cycles,
		m.cycleDuration,
		m.skippedTicks,
		m.connectivity,
		m.machines,
		m.alertMachines,
		m.critical,
		m.upstreamAlert,
	)

	return m
}

func (m *PromMetrics) ObserveCycle(outcome string, d time.Duration) {
	m.cycles.WithLabelValues(outcome).Inc()
	m.cycleDuration.Observe(d.Seconds())
}

func (m *PromMetrics) SetConnectivity(state connectivity.State) {
	switch state {
	case connectivity.StateUp:
		m.connectivity.Set(1)
	case connectivity.StateDown:
		m.connectivity.Set(0)
	default:
		m.connectivity.Set(-1)
	}
}

func (m *PromMetrics) SetAggregates(agg telemetry.Aggregates) {
	m.machines.Set(float64(agg.Machines))
	m.alertMachines.Set(float64(agg.Alerts))
	m.critical.Set(float64(agg.Critical))
}

func (m *PromMetrics) ObserveAlerts(n int) {
	m.upstreamAlert.Set(float64(n))
}

func (m *PromMetrics) IncSkippedTicks() {
	m.skippedTicks.Inc()
}
