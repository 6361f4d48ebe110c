package verifier

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "ksig"

// Metrics holds the boundary metrics of one Verifier.
type Metrics struct {
	Calls      *prometheus.CounterVec
	Rejections *prometheus.CounterVec
	Released   prometheus.Counter
	Duration   *prometheus.HistogramVec
}

// NewMetrics creates the boundary metrics and registers them with reg.
// Collectors already registered by another Verifier are reused.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "boundary_calls_total",
				Help:      "Number of engine calls by operation and result",
			},
			[]string{"operation", "result"},
		),
		Rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "rejections_total",
				Help:      "Number of requests rejected before reaching the engine",
			},
			[]string{"operation", "reason"},
		),
		Released: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "records_released_total",
			Help:      "Number of result records handed back to the engine",
		}),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "boundary_call_duration_seconds",
				Help:      "Duration of engine calls",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"operation"},
		),
	}

	var err error
	if m.Calls, err = register(reg, m.Calls); err != nil {
		return nil, err
	}
	if m.Rejections, err = register(reg, m.Rejections); err != nil {
		return nil, err
	}
	if m.Released, err = register(reg, m.Released); err != nil {
		return nil, err
	}
	if m.Duration, err = register(reg, m.Duration); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

func (m *Metrics) observeCall(op string, success bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	m.Calls.WithLabelValues(op, result).Inc()
	m.Duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func (m *Metrics) observeRejection(op, reason string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(op, reason).Inc()
}

func (m *Metrics) observeRelease() {
	if m == nil {
		return
	}
	m.Released.Inc()
}
