package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the catalog metrics. A nil *Collector records nothing.
type Collector struct {
	httpDuration *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	authDecision *prometheus.CounterVec
	logins       *prometheus.CounterVec
	revocations  prometheus.Counter
	swept        prometheus.Counter
}

// NewCollector registers every metric on reg
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method", "status"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"path", "method", "status"}),
		authDecision: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_decisions_total",
			Help: "Authorization decisions by outcome.",
		}, []string{"outcome"}),
		logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		revocations: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_revocations_total",
			Help: "Tokens revoked on this instance.",
		}),
		swept: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_revocations_swept_total",
			Help: "Expired revocation entries removed by the sweeper.",
		}),
	}
}

// ObserveRequest records one HTTP request
func (c *Collector) ObserveRequest(path, method, status string, seconds float64) {
	if c == nil {
		return
	}
	c.httpDuration.WithLabelValues(path, method, status).Observe(seconds)
	c.httpRequests.WithLabelValues(path, method, status).Inc()
}

// ObserveDecision counts a middleware outcome such as "allowed", "expired" or "forbidden"
func (c *Collector) ObserveDecision(outcome string) {
	if c == nil {
		return
	}
	c.authDecision.WithLabelValues(outcome).Inc()
}

// ObserveLogin counts a login attempt by result
func (c *Collector) ObserveLogin(success bool) {
	if c == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	c.logins.WithLabelValues(result).Inc()
}

// ObserveRevocation counts a token revoked by this instance
func (c *Collector) ObserveRevocation() {
	if c == nil {
		return
	}
	c.revocations.Inc()
}

// ObserveSwept adds the number of revocation entries dropped by a sweep
func (c *Collector) ObserveSwept(n int) {
	if c == nil || n <= 0 {
		return
	}
	c.swept.Add(float64(n))
}
