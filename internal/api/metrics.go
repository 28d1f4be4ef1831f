package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's collectors on a private registry, so several
// servers can live in one process.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	answers  *prometheus.CounterVec
	finished *prometheus.CounterVec
	active   prometheus.Gauge
}

// NewMetrics registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "akaun_http_requests_total",
			Help: "HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "akaun_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"method", "route"}),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "akaun_answers_total",
			Help: "Graded answers by family and outcome.",
		}, []string{"family", "correct"}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "akaun_drills_completed_total",
			Help: "Completed drills by drill ID.",
		}, []string{"drill"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "akaun_sessions_active",
			Help: "Sessions held in memory.",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.duration, m.answers, m.finished, m.active,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
	return gin.WrapH(h)
}

func (m *Metrics) answer(family string, correct bool) {
	m.answers.WithLabelValues(family, strconv.FormatBool(correct)).Inc()
}
