package middlewarex

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

// Logger attaches a request-scoped logger carrying the trace id, the route and
// the anonymous client id when the caller sent one.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		traceID, err := contextx.TraceIDFromContext(ctx)
		if err != nil {
			logger(ctx).Error("contextx.TraceIDFromContext", logx.Error(err))
		}

		log := logger(ctx).With(
			logx.Stringer(logx.FieldTraceID, traceID),
			logx.Stringer(logx.FieldURL, r.URL),
			slog.String(logx.FieldHTTPMethod, r.Method),
			slog.String(logx.FieldIP, clientIP(r)),
		)

		if id := r.Header.Get(headerNameClientID); id != "" {
			log = log.With(slog.String(logx.FieldClientID, id))
		}

		ctx = contextx.WithLogger(ctx, log)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// clientIP prefers the first X-Forwarded-For hop set by the load balancer.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}

	return r.RemoteAddr
}
