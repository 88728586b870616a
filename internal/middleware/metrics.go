package middleware

import (
	"net/http"
	"strconv"
	"time"

	"schedule-engine/pkg/metrics"

	"github.com/go-chi/chi/v5"
)

// MetricsMiddleware собирает Prometheus-метрики для всех HTTP запросов.
// В качестве метки берётся шаблон маршрута chi ("/api/v1/schedule/generate"),
// а не сырой путь, чтобы не раздувать кардинальность метрик.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := newResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		duration := time.Since(start).Seconds()
		status := strconv.Itoa(wrapped.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, route, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(duration)
	})
}
