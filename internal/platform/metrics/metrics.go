package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultNamespace = "review360"
)

type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRuntimeCollectors adds Go runtime and process collectors to the registry.
func WithRuntimeCollectors() Option {
	return func(m *Manager) {
		m.runtime = true
	}
}

// Manager owns a private registry so tests and multiple servers never collide.
type Manager struct {
	namespace string
	buckets   []float64
	runtime   bool
	registry  *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	scoringDuration     *prometheus.HistogramVec
	scoredTargets       *prometheus.CounterVec
	compensationRows    *prometheus.CounterVec
}

func New(opts ...Option) *Manager {
	m := &Manager{
		namespace: defaultNamespace,
		buckets:   prometheus.DefBuckets,
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.runtime {
		m.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	auto := promauto.With(m.registry)
	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   m.buckets,
	}, []string{"route", "method"})
	m.scoringDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "duration_seconds",
		Help:      "Time to load and score one results view",
		Buckets:   m.buckets,
	}, []string{"view"})
	m.scoredTargets = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "scoring",
		Name:      "targets_total",
		Help:      "Targets scored by view",
	}, []string{"view"})
	m.compensationRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "compensation",
		Name:      "rows_total",
		Help:      "Compensation recommendations produced by pool type",
	}, []string{"pool"})
	return m
}

func (m *Manager) Record(route, method string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(duration.Seconds())
}

func (m *Manager) ObserveScoring(view string, targets int, seconds float64) {
	m.scoringDuration.WithLabelValues(view).Observe(seconds)
	m.scoredTargets.WithLabelValues(view).Add(float64(targets))
}

func (m *Manager) ObserveCompensation(pool string, rows int) {
	m.compensationRows.WithLabelValues(pool).Add(float64(rows))
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
