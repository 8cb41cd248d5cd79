package reply_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/errcodes"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/httpx/reply"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

type limitError struct{}

func (limitError) Error() string                { return "usage: limit reached" }
func (limitError) ErrorCode() failure.ErrorCode { return errcodes.UsageLimitReached }
func (limitError) PublicMessage() string        { return "Monthly report limit reached" }

func TestError(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "Domain error wrapped",
			err:        fmt.Errorf("usage.Acquire: %w", limitError{}),
			wantStatus: http.StatusPaymentRequired,
			wantCode:   errcodes.UsageLimitReached.String(),
			wantMsg:    "Monthly report limit reached",
		},
		{
			name: "Invalid argument",
			err: failure.NewInvalidArgumentError("bad",
				failure.WithCode(errcodes.ValidationError),
				failure.WithDescription("limit must be between 1 and 50")),
			wantStatus: http.StatusBadRequest,
			wantCode:   errcodes.ValidationError.String(),
			wantMsg:    "limit must be between 1 and 50",
		},
		{
			name:       "Plain error",
			err:        errors.New("db is down"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   errcodes.InternalServerError.String(),
			wantMsg:    "Internal server error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			ctx := contextx.WithTraceID(context.Background(), "trace-1")
			w := httptest.NewRecorder()

			reply.Error(ctx, w, tc.err)

			rq.Equal(tc.wantStatus, w.Code)

			var body map[string]string
			rq.NoError(json.Unmarshal(w.Body.Bytes(), &body))
			rq.Equal(tc.wantCode, body["code"])
			rq.Equal(tc.wantMsg, body["message"])
			rq.Equal("trace-1", body["supportId"])
		})
	}
}

func TestJSON(t *testing.T) {
	rq := require.New(t)

	w := httptest.NewRecorder()
	reply.JSON(context.Background(), w, http.StatusOK, map[string]any{"ticker": "AAPL", "cached": true})

	rq.Equal(http.StatusOK, w.Code)
	rq.Equal("application/json; charset=utf-8", w.Header().Get("Content-Type"))
	rq.JSONEq(`{"ticker":"AAPL","cached":true}`, w.Body.String())
}

func TestErrorWithDetail(t *testing.T) {
	rq := require.New(t)

	w := httptest.NewRecorder()
	reply.ErrorWithDetail(context.Background(), w, limitError{}, map[string]int{"used": 3, "limit": 3})

	rq.Equal(http.StatusPaymentRequired, w.Code)
	rq.JSONEq(`{
		"code": "UsageLimitReached",
		"message": "Monthly report limit reached",
		"supportId": "unsupported",
		"detail": {"used": 3, "limit": 3}
	}`, w.Body.String())
}
