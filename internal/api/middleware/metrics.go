package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the HTTP collectors
type Metrics struct {
	reg             prometheus.Registerer
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authRejections  *prometheus.CounterVec
	rateLimited     prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		reg: reg,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),
		authRejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_rejections_total",
				Help: "Total number of unauthorized requests",
			},
			[]string{"reason"},
		),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "submission_rate_limited_total",
			Help: "Submission attempts rejected by the rate limiter",
		}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.authRejections, m.rateLimited)
	return m
}

// Gauge exposes fn as a gauge, e.g. connected viewers or queue depth
func (m *Metrics) Gauge(name, help string, fn func() float64) {
	m.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, fn))
}

// RateLimited counts one rejected submission attempt
func (m *Metrics) RateLimited() {
	m.rateLimited.Inc()
}

// Handler records request counts and latency by route template
func (m *Metrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		// Route templates keep ids out of the label set
		path := c.Route().Path
		m.requestsTotal.WithLabelValues(path, c.Method(), strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(path, c.Method()).Observe(time.Since(start).Seconds())

		switch status {
		case fiber.StatusUnauthorized:
			m.authRejections.WithLabelValues("401_unauthorized").Inc()
		case fiber.StatusForbidden:
			m.authRejections.WithLabelValues("403_forbidden").Inc()
		}

		return err
	}
}
