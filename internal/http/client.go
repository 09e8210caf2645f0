// Package http is the transport of the client: a single-attempt HTTP
// gateway built on go-retryablehttp with retries turned off.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/fivetwenty-io/jsonapi-client/internal/auth"
	"github.com/fivetwenty-io/jsonapi-client/internal/constants"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// Client implements jsonapi.HTTPGateway.
type Client struct {
	retryClient  *retryablehttp.Client
	tokenManager auth.TokenManager
	logger       jsonapi.Logger
	debug        bool
	userAgent    string
	timeout      time.Duration
	baseClient   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger jsonapi.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug logs every request and response when a logger is set.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithTimeout bounds a single exchange.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.baseClient = httpClient
	}
}

// NewClient creates a gateway. A nil tokenManager sends requests without
// an Authorization header.
func NewClient(tokenManager auth.TokenManager, opts ...Option) *Client {
	client := &Client{
		tokenManager: tokenManager,
		userAgent:    constants.DefaultUserAgent,
		timeout:      constants.DefaultHTTPTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	retryClient := retryablehttp.NewClient()
	// One attempt per call: responses of any status and transport errors
	// are handed back untouched.
	retryClient.RetryMax = 0
	retryClient.CheckRetry = checkNoRetry
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	if client.baseClient != nil {
		retryClient.HTTPClient = client.baseClient
	} else {
		retryClient.HTTPClient.Timeout = client.timeout
	}

	if client.logger != nil {
		retryClient.Logger = &leveledLogger{logger: client.logger, debug: client.debug}
	}

	if client.logger != nil && client.debug {
		retryClient.RequestLogHook = client.logRequest
		retryClient.ResponseLogHook = client.logResponse
	}

	client.retryClient = retryClient

	return client
}

func checkNoRetry(ctx context.Context, _ *http.Response, _ error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	return false, nil
}

func (c *Client) logRequest(_ retryablehttp.Logger, req *http.Request, _ int) {
	c.logger.Debug("HTTP Request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})
}

func (c *Client) logResponse(_ retryablehttp.Logger, resp *http.Response) {
	c.logger.Debug("HTTP Response", map[string]interface{}{
		"method":      resp.Request.Method,
		"url":         resp.Request.URL.String(),
		"status_code": resp.StatusCode,
	})
}

// Do performs one exchange. The error is non-nil only when no response was
// received.
func (c *Client) Do(ctx context.Context, method, url string, body []byte) (*jsonapi.HTTPResponse, error) {
	var rawBody interface{}
	if body != nil {
		rawBody = body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, rawBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", constants.MediaType)
	req.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		req.Header.Set("Content-Type", constants.MediaType)
	}

	if c.tokenManager != nil {
		token, err := c.tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("getting token: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.retryClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	// A rejected token is dropped so the next call fetches a fresh one.
	if resp.StatusCode == http.StatusUnauthorized {
		if invalidator, ok := c.tokenManager.(auth.Invalidator); ok {
			invalidator.Invalidate()
		}
	}

	return &jsonapi.HTTPResponse{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       respBody,
	}, nil
}

// Get implements jsonapi.HTTPGateway.
func (c *Client) Get(ctx context.Context, url string) (*jsonapi.HTTPResponse, error) {
	return c.Do(ctx, http.MethodGet, url, nil)
}

// Post implements jsonapi.HTTPGateway.
func (c *Client) Post(ctx context.Context, url string, body []byte) (*jsonapi.HTTPResponse, error) {
	return c.Do(ctx, http.MethodPost, url, body)
}

// Put implements jsonapi.HTTPGateway.
func (c *Client) Put(ctx context.Context, url string, body []byte) (*jsonapi.HTTPResponse, error) {
	return c.Do(ctx, http.MethodPut, url, body)
}

// Delete implements jsonapi.HTTPGateway.
func (c *Client) Delete(ctx context.Context, url string) (*jsonapi.HTTPResponse, error) {
	return c.Do(ctx, http.MethodDelete, url, nil)
}

// leveledLogger adapts jsonapi.Logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	logger jsonapi.Logger
	debug  bool
}

func fieldsOf(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)

	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}

	return fields
}

func (l *leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, fieldsOf(keysAndValues))
}

func (l *leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, fieldsOf(keysAndValues))
}

func (l *leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	if l.debug {
		l.logger.Debug(msg, fieldsOf(keysAndValues))
	}
}

func (l *leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, fieldsOf(keysAndValues))
}
