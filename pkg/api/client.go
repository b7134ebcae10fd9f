// Package api implements a client for the customer CRM REST API.
package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/leads/pkg/log"
	"github.com/macropower/leads/pkg/version"
)

const (
	// DefaultTimeout bounds each HTTP round trip.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a unique identifier for every request.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 4 << 10
)

// Client talks to the customer REST API.
type Client struct {
	tracer     trace.Tracer
	httpClient *http.Client
	baseURL    *url.URL
	headers    http.Header
	userAgent  string
	retries    uint
}

// ClientOpt configures a [Client].
type ClientOpt func(c *Client)

// WithHTTPClient sets the underlying [http.Client].
func WithHTTPClient(hc *http.Client) ClientOpt {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the underlying [http.Client].
func WithTimeout(d time.Duration) ClientOpt {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRetries sets how many times idempotent requests are retried after a
// network failure or a retryable status. Zero disables retries.
func WithRetries(n uint) ClientOpt {
	return func(c *Client) {
		c.retries = n
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(h map[string]string) ClientOpt {
	return func(c *Client) {
		for k, v := range h {
			c.headers.Set(k, v)
		}
	}
}

// NewClient creates a new [Client] for the API rooted at baseURL.
func NewClient(baseURL string, opts ...ClientOpt) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		tracer:     otel.Tracer("api-client"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    u,
		headers:    http.Header{},
		userAgent:  "leads/" + version.GetVersion(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// do sends a request and decodes a successful response body into result.
// GET requests are retried according to [WithRetries].
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	ctx, span := c.tracer.Start(ctx, method+" "+path, trace.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	))
	defer span.End()

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}

		payload = b
	}

	op := func() ([]byte, error) {
		b, err := c.roundTrip(ctx, method, path, query, payload)
		if err == nil {
			return b, nil
		}

		var se *StatusError
		if errors.As(err, &se) && !se.Retryable() {
			return nil, backoff.Permanent(err)
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, backoff.Permanent(err)
		}

		return nil, err
	}

	var (
		respBody []byte
		err      error
	)

	if method == http.MethodGet && c.retries > 0 {
		respBody, err = backoff.Retry(ctx, op,
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(c.retries+1),
			backoff.WithNotify(func(err error, d time.Duration) {
				log.WithContext(ctx).DebugContext(ctx, "retrying request",
					slog.String("path", path),
					slog.Duration("after", d),
					slog.Any("err", err),
				)
			}),
		)
	} else {
		respBody, err = c.roundTrip(ctx, method, path, query, payload)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	err = json.Unmarshal(respBody, result)
	if err != nil {
		return malformed("decode %s %s: %v", method, path, err)
	}

	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte) ([]byte, error) {
	logger := log.WithContext(ctx)

	u := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	for k, v := range c.headers {
		req.Header[k] = v
	}

	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", method, path, ctxErr)
		}

		return nil, fmt.Errorf("%w: %s %s: %w", ErrNetwork, method, path, err)
	}

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			logger.DebugContext(ctx, "close response body", slog.Any("err", err))
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrNetwork, err)
	}

	logger.DebugContext(ctx, "api request",
		slog.String("method", method),
		slog.String("url", u.String()),
		slog.String("request_id", reqID),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(respBody),
		}
	}

	return respBody, nil
}

// errorMessage extracts a message from an error response body.
func errorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}

	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	err := json.Unmarshal(body, &env)
	if err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}

	if len(body) > maxErrorBody {
		body = body[:maxErrorBody]
	}

	return strings.TrimSpace(string(body))
}
