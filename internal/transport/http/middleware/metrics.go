package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/baechuer/user-management/internal/logger"
)

const metricsNamespace = "user_management"

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by method, route pattern and status code.",
	}, []string{"method", "route", "code"})

	requestSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by method and route pattern.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	inFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "HTTP requests currently being served.",
	})
)

// Metrics observes every request and writes the access log line for it.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inFlight.Inc()
		defer inFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		began := time.Now()
		next.ServeHTTP(ww, r)
		took := time.Since(began)

		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		route := routeLabel(r)

		requestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(code)).Inc()
		requestSeconds.WithLabelValues(r.Method, route).Observe(took.Seconds())

		logger.WithCtx(r.Context()).Info().
			Str("method", r.Method).
			Str("route", route).
			Int("status", code).
			Int("bytes", ww.BytesWritten()).
			Dur("duration", took).
			Str("remote", r.RemoteAddr).
			Msg("http_request")
	})
}

// routeLabel keeps label cardinality bounded: unmatched paths share one label.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
