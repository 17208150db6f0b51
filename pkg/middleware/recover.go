package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/campuseats/canteen/pkg/logger"
	"github.com/campuseats/canteen/pkg/response"
)

// Recovery catches panics from downstream handlers, logs the stack trace
// and answers 500 without leaking internals. http.ErrAbortHandler is
// re-raised so the server can abort the connection as usual.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			logger.WithCtx(r.Context()).Error("panic recovered",
				"error", fmt.Sprintf("%v", rec),
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			response.Error(w, http.StatusInternalServerError, "Internal Server Error")
		}()
		next.ServeHTTP(w, r)
	})
}
