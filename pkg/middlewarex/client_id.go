package middlewarex

import (
	"net"
	"net/http"
	"strings"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/contextx"
)

const (
	headerNameClientID     = "X-Client-Id"
	headerNameForwardedFor = "X-Forwarded-For"
	maxClientIDLen         = 64
)

// ClientID identifies the caller for anonymous quotas and rate limits. A
// browser-generated X-Client-Id wins, then the first X-Forwarded-For hop, then
// the remote IP.
func ClientID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := contextx.WithClientID(r.Context(), contextx.ClientID(clientID(r)))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(headerNameClientID)); id != "" && len(id) <= maxClientIDLen {
		return id
	}

	return RemoteIP(r)
}

// RemoteIP returns the originating IP, honouring X-Forwarded-For from the proxy.
func RemoteIP(r *http.Request) string {
	if fwd := r.Header.Get(headerNameForwardedFor); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
