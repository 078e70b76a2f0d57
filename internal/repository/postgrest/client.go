// Package postgrest is a repository backend for a hosted PostgREST API such
// as Supabase. Every call is a single REST request filtered by primary key.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vytor/talentscout/internal/logger"
	"github.com/vytor/talentscout/internal/repository"
)

// TokenSource returns the caller's access token for ctx, or "".
type TokenSource func(ctx context.Context) string

// Client is a minimal PostgREST client.
type Client struct {
	baseURL    string
	apiKey     string
	tokens     TokenSource
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource forwards the caller's token so row-level security applies.
// Without one, the API key is sent as the bearer token.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// New creates a client for baseURL (for Supabase, https://<ref>.supabase.co/rest/v1).
func New(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// errorBody is PostgREST's error payload.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (c *Client) doRequest(ctx context.Context, method, table string, query url.Values, prefer string, body any, out any) error {
	log := logger.FromContext(ctx).WithPrefix("postgrest")

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	target := c.baseURL + "/" + table
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if token := c.bearer(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debug("%s %s", method, table)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Error("request to %s failed: %v", table, err)
		return &repository.GatewayError{Code: repository.CodeUnavailable, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		gwErr := decodeError(resp.StatusCode, respBody)
		log.Warn("%s %s returned %d: %s", method, table, resp.StatusCode, gwErr.Error())
		return gwErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Ping checks that the API answers and accepts the key.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "0")
	return c.doRequest(ctx, http.MethodGet, profilesTable, q, "", nil, nil)
}

func (c *Client) bearer(ctx context.Context) string {
	if c.tokens != nil {
		if token := c.tokens(ctx); token != "" {
			return token
		}
	}
	return c.apiKey
}

// decodeError turns an error response into a GatewayError, falling back to
// a code derived from the HTTP status when the body carries none.
func decodeError(status int, body []byte) *repository.GatewayError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || eb.Message == "" {
		eb.Message = strings.TrimSpace(string(body))
		if eb.Message == "" {
			eb.Message = http.StatusText(status)
		}
	}
	if eb.Code == "" {
		switch {
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			eb.Code = repository.CodePermissionDenied
		case status >= 500:
			eb.Code = repository.CodeUnavailable
		}
	}
	return &repository.GatewayError{
		Code:    eb.Code,
		Message: eb.Message,
		Err:     &HTTPError{StatusCode: status, Message: eb.Message},
	}
}

// HTTPError represents a non-2xx HTTP response from the API.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

func eq(v string) string { return "eq." + v }

func byID(id string) url.Values {
	q := url.Values{}
	q.Set("id", eq(id))
	q.Set("select", "*")
	q.Set("limit", "1")
	return q
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
