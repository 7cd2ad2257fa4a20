package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shopkit-dev/shopkit/pkg/storage"
)

// Default tracer name for Shopkit clients.
const defaultTracerName = "shopkit"

// Client is the authenticated request client for the storefront backend.
// It attaches the persisted bearer token to outgoing requests and reacts to
// authorization failure by tearing down the session through the registered
// auth-failure hook.
type Client struct {
	baseURL    string
	httpClient *http.Client
	storage    storage.Storage
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer

	hookMu        sync.RWMutex
	onAuthFailure func()
}

// ClientOption configures Client behavior.
type ClientOption func(*clientConfig)

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	metrics    *Metrics
	tracerName string
}

// WithHTTPClient sets the underlying HTTP client.
// Default: a client with a 30 second timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *clientConfig) {
		c.httpClient = hc
	}
}

// WithLogger sets the structured logger.
// Default: slog.Default().
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *clientConfig) {
		c.logger = logger
	}
}

// WithMetrics attaches request metrics to the client.
// Default: no metrics are recorded.
func WithMetrics(m *Metrics) ClientOption {
	return func(c *clientConfig) {
		c.metrics = m
	}
}

// WithTracerName sets the OpenTelemetry tracer name.
// Default: "shopkit".
func WithTracerName(name string) ClientOption {
	return func(c *clientConfig) {
		c.tracerName = name
	}
}

// NewClient creates a client for the backend at baseURL.
// The token is read from store at call time, so a client constructed before
// the session rehydrates still sends the latest persisted credential.
func NewClient(baseURL string, store storage.Storage, opts ...ClientOption) *Client {
	cfg := &clientConfig{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		tracerName: defaultTracerName,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cfg.httpClient,
		storage:    store,
		logger:     cfg.logger,
		metrics:    cfg.metrics,
		tracer:     otel.Tracer(cfg.tracerName),
	}
}

// OnAuthFailure registers the hook fired when the backend answers 401.
// The session store registers its Logout here at startup; the indirection
// keeps this package from importing the session package. The hook is
// resolved lazily, only on the 401 path.
func (c *Client) OnAuthFailure(fn func()) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onAuthFailure = fn
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// RequestOption mutates an outgoing request before it is sent.
type RequestOption func(*http.Request)

// WithHeader sets a header on the outgoing request. Caller headers take
// precedence over the client's defaults on conflict.
func WithHeader(key, value string) RequestOption {
	return func(req *http.Request) {
		req.Header.Set(key, value)
	}
}

// Do performs an authenticated request against the backend.
//
// A Content-Type: application/json default is merged under any caller
// headers. If a token is present in storage, an Authorization bearer header
// is added; otherwise the header is omitted entirely. On a 401 response the
// auth-failure hook fires and Do returns ErrAuthRequired — the raw response
// is never handed back. Every other status, including other 4xx/5xx, is
// returned as-is for the caller to inspect.
func (c *Client) Do(ctx context.Context, method, path string, body io.Reader, opts ...RequestOption) (*http.Response, error) {
	return c.do(ctx, method, path, body, true, opts...)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, authed bool, opts ...RequestOption) (*http.Response, error) {
	ctx, span := c.tracer.Start(ctx, "shopkit.api.request",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.path", path),
		),
	)
	defer span.End()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "build request")
		return nil, fmt.Errorf("api: build request: %w", err)
	}

	// Defaults first, then caller options, so callers win on conflict.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	for _, opt := range opts {
		opt(req)
	}

	if authed {
		if token, ok := c.storage.Get(storage.TokenKey); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		c.metrics.observeRequest(method, path, "error", elapsed)
		return nil, fmt.Errorf("api: %s %s: %w", method, path, err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.metrics.observeRequest(method, path, strconv.Itoa(resp.StatusCode), elapsed)

	if authed && resp.StatusCode == http.StatusUnauthorized {
		drain(resp)
		c.metrics.countAuthFailure()
		span.SetStatus(codes.Error, "authentication required")

		c.logger.Warn("backend rejected credential, tearing down session",
			"method", method,
			"path", path,
		)
		if fn := c.authFailureHook(); fn != nil {
			fn()
		}
		return nil, ErrAuthRequired
	}

	return resp, nil
}

func (c *Client) authFailureHook() func() {
	c.hookMu.RLock()
	defer c.hookMu.RUnlock()
	return c.onAuthFailure
}

// drain consumes and closes a response body so the transport can reuse the
// connection.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
	_ = resp.Body.Close()
}
