package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ObserveDecision("allowed")
	c.ObserveDecision("allowed")
	c.ObserveDecision("forbidden")
	c.ObserveLogin(true)
	c.ObserveLogin(false)
	c.ObserveRevocation()
	c.ObserveSwept(3)
	c.ObserveSwept(0)
	c.ObserveRequest("/api/produtos", "GET", "200", 0.01)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.authDecision.WithLabelValues("allowed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.authDecision.WithLabelValues("forbidden")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.logins.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.revocations))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.swept))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/api/produtos", "GET", "200")))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveDecision("allowed")
		c.ObserveLogin(true)
		c.ObserveRevocation()
		c.ObserveSwept(1)
		c.ObserveRequest("/", "GET", "200", 0)
	})
}
