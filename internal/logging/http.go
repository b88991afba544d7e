package logging

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Middleware attaches a request-scoped logger to the context and logs one
// line per completed request. It expects chi's RequestID middleware to run
// first so the request id is available.
func Middleware(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			child := logger.With().
				Str(FieldRequestID, middleware.GetReqID(r.Context())).
				Str(FieldMethod, r.Method).
				Str(FieldPath, r.URL.Path).
				Logger()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(WithLogger(r.Context(), child)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			event := child.Info()
			if status >= http.StatusInternalServerError {
				event = child.Error()
			}
			event.
				Int(FieldStatus, status).
				Float64(FieldLatency, float64(time.Since(start).Microseconds())/1000).
				Msg("request completed")
		})
	}
}
