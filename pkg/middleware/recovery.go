package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/httputil"
	"github.com/Lukaszwutkowski/QuickCashEasy/pkg/logger"
)

// Recovery recovers from panics and returns a 500 in the standard response
// envelope instead of crashing the lane.
func Recovery(l *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					ctx := r.Context()
					l.ErrorContext(ctx, "panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
						slog.String("method", r.Method),
						slog.String("path", r.URL.Path),
						slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
					)

					httputil.WriteJSON(w, http.StatusInternalServerError, httputil.Response{
						Error: &httputil.ErrorResponse{
							Code:      "INTERNAL_ERROR",
							Message:   "an internal error occurred",
							RequestID: logger.CorrelationIDFromContext(ctx),
						},
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
