package middleware

import (
	"net/http"
	"time"

	"flownet/pkg/logger"
)

// statusRecorder запоминает код ответа для логирования
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging логирует каждый HTTP запрос с длительностью и кодом ответа
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		duration := time.Since(start)

		logFields := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", duration.Milliseconds(),
		}

		if clientID := GetClientID(r.Context()); clientID != "" {
			logFields = append(logFields, "client_id", clientID)
		}

		log := logger.FromContext(r.Context())
		if rec.status >= http.StatusInternalServerError {
			log.Error("Request failed", logFields...)
		} else {
			log.Info("Request completed", logFields...)
		}
	})
}
