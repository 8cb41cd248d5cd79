package middlewarex_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
	"github.com/surgegroup2024/stock-fortress-sub000/pkg/middlewarex"
)

func TestClientID(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "Browser id",
			headers:    map[string]string{"X-Client-Id": "b3f1"},
			remoteAddr: "10.0.0.1:5555",
			want:       "b3f1",
		},
		{
			name:       "Forwarded for",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 10.0.0.2"},
			remoteAddr: "10.0.0.1:5555",
			want:       "203.0.113.9",
		},
		{
			name:       "Remote address",
			remoteAddr: "198.51.100.4:1234",
			want:       "198.51.100.4",
		},
		{
			name:       "Oversized client id falls back to IP",
			headers:    map[string]string{"X-Client-Id": strings.Repeat("x", 65)},
			remoteAddr: "198.51.100.4:1234",
			want:       "198.51.100.4",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var got string

			handler := middlewarex.ClientID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				clientID, err := contextx.ClientIDFromContext(r.Context())
				rq.NoError(err)

				got = clientID.String()
			}))

			r := httptest.NewRequest(http.MethodGet, "/api/usage", http.NoBody)
			r.RemoteAddr = tc.remoteAddr

			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}

			handler.ServeHTTP(httptest.NewRecorder(), r)

			rq.Equal(tc.want, got)
		})
	}
}
