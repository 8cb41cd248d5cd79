package middlewarex

import (
	"cmp"
	"net/http"

	"github.com/rs/xid"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
)

const (
	headerNameTraceID   = "X-Trace-Id"
	headerNameRequestID = "X-Request-Id"
)

// TraceID takes the trace id from X-Trace-Id or the proxy's X-Request-Id,
// generating one when both are absent. The id is echoed back and ends up as
// supportId in error bodies.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := cmp.Or(r.Header.Get(headerNameTraceID), r.Header.Get(headerNameRequestID))

		if traceID == "" {
			traceID = xid.New().String()
		}

		ctx := contextx.WithTraceID(r.Context(), contextx.TraceID(traceID))

		w.Header().Set(headerNameTraceID, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
