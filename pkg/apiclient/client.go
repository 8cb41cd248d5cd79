// Package apiclient is a typed client for the Stock Fortress HTTP API.
package apiclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/surgegroup2024/stock-fortress-sub000/pkg/rest"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const headerNameClientID = "X-Client-Id"

// Error is a non-2xx API answer.
type Error struct {
	StatusCode int
	Body       rest.Error
}

func (e *Error) Error() string {
	if e.Body.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}

	return fmt.Sprintf("api: %s (%d): %s", e.Body.Code, e.StatusCode, e.Body.Message)
}

// AsError unwraps an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)

	return apiErr, ok
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	clientID   string
}

// New builds a client. Authentication is up to httpClient's transport, e.g.
// httpx.NewClient with a token.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// WithClientID sets the anonymous caller id used for free quotas.
func (c *Client) WithClientID(id string) *Client {
	c.clientID = id
	return c
}

func (c *Client) get(ctx context.Context, endpoint string, dest any) error {
	return c.httpRequest(ctx, http.MethodGet, endpoint, http.NoBody, dest)
}

func (c *Client) post(ctx context.Context, endpoint string, request, dest any) error {
	b, err := json.Marshal(request)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	return c.httpRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(b), dest)
}

func (c *Client) delete(ctx context.Context, endpoint string, dest any) error {
	return c.httpRequest(ctx, http.MethodDelete, endpoint, http.NoBody, dest)
}

func (c *Client) httpRequest(
	ctx context.Context,
	httpMethod string,
	endpoint string,
	payload io.Reader,
	dest any,
) error {
	req, err := http.NewRequestWithContext(ctx, httpMethod, c.baseURL+endpoint, payload)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if httpMethod == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.clientID != "" {
		req.Header.Set(headerNameClientID, c.clientID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}

	defer resp.Body.Close()

	return parseResponse(resp, dest)
}

func parseResponse(r *http.Response, dest any) error {
	if r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices {
		if dest == nil {
			return nil
		}

		if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
			return fmt.Errorf("json.Decode(success destination): %w", err)
		}

		return nil
	}

	apiErr := &Error{StatusCode: r.StatusCode}

	if err := json.NewDecoder(r.Body).Decode(&apiErr.Body); err != nil && !errors.Is(err, io.EOF) {
		apiErr.Body.Message = http.StatusText(r.StatusCode)
	}

	return apiErr
}
