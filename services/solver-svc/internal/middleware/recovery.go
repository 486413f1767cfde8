package middleware

import (
	"net/http"
	"runtime/debug"

	"flownet/pkg/logger"
)

// Recovery перехватывает panic в обработчиках и возвращает 500 вместо
// разрыва соединения.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).Error("Panic recovered",
					"panic", rec,
					"method", r.Method,
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL","message":"internal server error"}}`))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
