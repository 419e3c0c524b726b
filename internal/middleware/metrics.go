package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    requestsTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "http_requests_total",
            Help: "Total number of HTTP requests processed.",
        },
        []string{"method", "path", "status"},
    )
    requestDuration = promauto.NewHistogramVec(
        prometheus.HistogramOpts{
            Name:    "http_request_duration_seconds",
            Help:    "HTTP request latency in seconds.",
            Buckets: prometheus.DefBuckets,
        },
        []string{"method", "path"},
    )
)

// Metrics records a request counter and latency histogram per route.
// The path label uses the route pattern, not the raw URL, so path
// parameters do not explode label cardinality.
func Metrics() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            start := time.Now()
            err := next(c)
            path := c.Path()
            if path == "" {
                path = "unmatched"
            }
            method := c.Request().Method
            requestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Response().Status)).Inc()
            requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
            return err
        }
    }
}
