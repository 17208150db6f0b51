package middleware

import (
	"net/http"
	"time"

	"github.com/campuseats/canteen/pkg/logger"
	"github.com/campuseats/canteen/pkg/reqid"
)

// responseWriter wraps http.ResponseWriter to capture the status code and
// the number of body bytes written.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(p []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(p)
	rw.written += n
	return n, err
}

// Logger logs each request with method, path, status, duration, size and
// the request_id injected by reqid.Middleware, which must run first. Server
// errors are logged at WARN so they stand out in filtered logs.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Per-request logger pre-tagged with the request_id; downstream
		// calls to logger.WithCtx(ctx) return this logger.
		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"bytes", rw.written,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		}
		if rw.statusCode >= http.StatusInternalServerError {
			reqLog.Warn("request", attrs...)
			return
		}
		reqLog.Info("request", attrs...)
	})
}
