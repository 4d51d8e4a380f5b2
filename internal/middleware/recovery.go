package middleware

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mmynk/eventbot/internal/metrics"
)

// Recovery catches anything escaping the handlers, rather than letting it
// propagate to the server. The panic is logged with its class and message,
// counted, and converted to a generic 500; the client never sees internal
// detail.
func Recovery(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				exceptionClass := fmt.Sprintf("%T", rec)
				slog.Error("Uncaught exception",
					"request_id", GetRequestID(r.Context()),
					"exception_class", exceptionClass,
					"exception_message", fmt.Sprintf("%v", rec),
				)
				m.UncaughtExceptions.WithLabelValues(exceptionClass).Inc()

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error": "Internal server error",
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
