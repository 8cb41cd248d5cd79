package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/middlewarex"
)

func TestRecoveryAndTraceID(t *testing.T) {
	rq := require.New(t)

	handler := middlewarex.TraceID(middlewarex.Logger(middlewarex.Recovery(
		http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}),
	)))

	r := httptest.NewRequest(http.MethodGet, "/api/report/AAPL", http.NoBody)
	r.Header.Set("X-Trace-Id", "trace-42")

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	rq.Equal(http.StatusInternalServerError, w.Code)
	rq.Equal("trace-42", w.Header().Get("X-Trace-Id"))
	rq.JSONEq(`{"code":"InternalServerError","message":"Internal server error","supportId":"trace-42"}`, w.Body.String())
}
