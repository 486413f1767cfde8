package middleware

import (
	"net/http"
	"strings"
	"time"

	"flownet/pkg/metrics"
)

// Metrics считает HTTP метрики: количество запросов, длительность
// и число запросов в обработке.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := metrics.Get()
		m.HTTPRequestsInFlight.Inc()
		defer m.HTTPRequestsInFlight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		m.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), rec.status, time.Since(start))
	})
}

// normalizePath сворачивает идентификаторы в пути, чтобы не раздувать
// кардинальность метрик: /v1/runs/<uuid> -> /v1/runs/{id}
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/v1/runs/") {
		return path
	}
	rest := strings.TrimPrefix(path, "/v1/runs/")
	if strings.HasSuffix(rest, "/export") {
		return "/v1/runs/{id}/export"
	}
	return "/v1/runs/{id}"
}
