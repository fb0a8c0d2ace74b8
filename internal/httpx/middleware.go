package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"restaurant-orders/internal/logger"
)

type contextKey string

const requestIDKey contextKey = "request_id"

// RequestID returns the request identifier set by the middleware
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithRequestID attaches a request id and logs request start and completion
func WithRequestID(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := logger.GenerateRequestID()
			r = r.WithContext(context.WithValue(r.Context(), requestIDKey, requestID))

			log.Debug("request_started",
				fmt.Sprintf("%s %s", r.Method, r.URL.Path),
				requestID,
				map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"remote_addr": r.RemoteAddr,
					"user_agent":  r.Header.Get("User-Agent"),
				})

			rw := &responseWriter{ResponseWriter: w, statusCode: 200}
			next.ServeHTTP(rw, r)

			duration := time.Since(start)
			log.Debug("request_completed",
				fmt.Sprintf("%s %s - %d", r.Method, r.URL.Path, rw.statusCode),
				requestID,
				map[string]interface{}{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status_code": rw.statusCode,
					"duration_ms": duration.Milliseconds(),
				})
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
