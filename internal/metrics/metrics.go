// Package metrics exposes Prometheus collectors for the HTTP surface and domain events.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "petconnect",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petconnect",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "petconnect",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	accountEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petconnect",
			Subsystem: "accounts",
			Name:      "events_total",
			Help:      "Account lifecycle events (register, login, login_failed, federated_login).",
		},
		[]string{"event"},
	)

	socialEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petconnect",
			Subsystem: "social",
			Name:      "events_total",
			Help:      "Likes, follows and reports recorded.",
		},
		[]string{"event"},
	)

	moderationActions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "petconnect",
			Subsystem: "moderation",
			Name:      "actions_total",
			Help:      "Administrative moderation actions performed.",
		},
		[]string{"action"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		accountEvents,
		socialEvents,
		moderationActions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by the matched route template.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			err := next(c)

			status := c.Response().Status
			if err != nil && !c.Response().Committed {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func RecordAccountEvent(event string) {
	accountEvents.WithLabelValues(event).Inc()
}

func RecordSocialEvent(event string) {
	socialEvents.WithLabelValues(event).Inc()
}

func RecordModerationAction(action string) {
	moderationActions.WithLabelValues(action).Inc()
}
