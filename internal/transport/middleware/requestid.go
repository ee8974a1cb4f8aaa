package middleware

import (
	"net/http"

	"github.com/frahmantamala/docdraft/pkg/logger"
	"github.com/google/uuid"
)

const TraceIDHeader = "X-Trace-ID"

// RequestID reuses the caller's trace id or mints one, echoes it back and
// binds it to the request-scoped logger.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
			r.Header.Set(TraceIDHeader, traceID)
		}

		ctx := logger.WithTraceID(r.Context(), traceID)
		w.Header().Set(TraceIDHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
