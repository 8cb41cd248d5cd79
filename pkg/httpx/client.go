package httpx

import (
	"net/http"
	"time"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/logx"
)

const defaultLogFieldMaxLen = 4096

// NewClient returns an HTTP client that logs masked request and response dumps.
// A non-empty token is sent as a bearer credential.
func NewClient(timeout time.Duration, token string) *http.Client {
	var transport http.RoundTripper = NewLoggingRoundTripper(
		http.DefaultTransport,
		WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		WithLogFieldMaxLen(defaultLogFieldMaxLen),
	)

	if token != "" {
		transport = NewAuthBearerRoundTripper(transport, StaticToken(token))
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
