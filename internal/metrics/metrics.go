package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels
const (
	OutcomeSuccess   = "success"
	OutcomeRejected  = "rejected"
	OutcomeMalformed = "malformed"
	OutcomeTransport = "transport"
	OutcomeError     = "error"
	OutcomeShared    = "shared"     // refresh result reused from a concurrent caller
	OutcomeLocalOnly = "local_only" // logout cleared locally after a backend failure
	OutcomeForced    = "forced"     // logout forced by a rejected refresh
)

// Config configures the console metrics
type Config struct {
	// Namespace is the metrics namespace (default: "warehouse_console").
	Namespace string

	// Registry is the registry collectors are added to.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer

	// Buckets are the histogram buckets for API call duration.
	// Default: prometheus.DefBuckets
	Buckets []float64
}

type Option func(*Config)

func WithNamespace(namespace string) Option {
	return func(c *Config) {
		c.Namespace = namespace
	}
}

func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// Metrics counts session core activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	logins      *prometheus.CounterVec
	refreshes   *prometheus.CounterVec
	logouts     *prometheus.CounterVec
	replays     prometheus.Counter
	apiRequests *prometheus.CounterVec
	apiDuration *prometheus.HistogramVec
}

func New(opts ...Option) (*Metrics, error) {
	cfg := Config{
		Namespace: "warehouse_console",
		Registry:  prometheus.DefaultRegisterer,
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	m := &Metrics{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "logins_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "token_refreshes_total",
			Help:      "Access token refresh cycles by outcome.",
		}, []string{"outcome"}),
		logouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "logouts_total",
			Help:      "Logouts by outcome.",
		}, []string{"outcome"}),
		replays: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "request_replays_total",
			Help:      "API requests replayed after a token refresh.",
		}),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Name:      "api_requests_total",
			Help:      "Backend API requests by method and status code.",
		}, []string{"method", "status"}),
		apiDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   cfg.Buckets,
		}, []string{"method"}),
	}

	for _, c := range []prometheus.Collector{m.logins, m.refreshes, m.logouts, m.replays, m.apiRequests, m.apiDuration} {
		if err := cfg.Registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) Login(outcome string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Refresh(outcome string) {
	if m == nil {
		return
	}
	m.refreshes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Logout(outcome string) {
	if m == nil {
		return
	}
	m.logouts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Replay() {
	if m == nil {
		return
	}
	m.replays.Inc()
}

// APIRequest records one backend call. status 0 means no response was received.
func (m *Metrics) APIRequest(method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.apiDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// LoginCount returns the number of logins recorded with outcome
func (m *Metrics) LoginCount(outcome string) float64 {
	return counterValue(m, func() prometheus.Counter { return m.logins.WithLabelValues(outcome) })
}

func (m *Metrics) RefreshCount(outcome string) float64 {
	return counterValue(m, func() prometheus.Counter { return m.refreshes.WithLabelValues(outcome) })
}

func (m *Metrics) LogoutCount(outcome string) float64 {
	return counterValue(m, func() prometheus.Counter { return m.logouts.WithLabelValues(outcome) })
}

func (m *Metrics) ReplayCount() float64 {
	return counterValue(m, func() prometheus.Counter { return m.replays })
}

func (m *Metrics) APIRequestCount(method string, status int) float64 {
	return counterValue(m, func() prometheus.Counter {
		return m.apiRequests.WithLabelValues(method, strconv.Itoa(status))
	})
}

func counterValue(m *Metrics, counter func() prometheus.Counter) float64 {
	if m == nil {
		return 0
	}
	return readCounter(counter())
}
