package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/jsonapi-client/internal/auth"
	"github.com/fivetwenty-io/jsonapi-client/internal/constants"
	"github.com/fivetwenty-io/jsonapi-client/internal/http"
	"github.com/fivetwenty-io/jsonapi-client/internal/serializer"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// Client implements the jsonapi.Client interface.
type Client struct {
	endpoint     string
	gateway      jsonapi.HTTPGateway
	serializer   jsonapi.Serializer
	tokenManager auth.TokenManager
	logger       jsonapi.Logger
}

var _ jsonapi.Client = (*Client)(nil)

// createTokenManager creates appropriate token manager based on config.
func createTokenManager(config *jsonapi.Config) auth.TokenManager {
	if config.AccessToken != "" {
		return auth.NewStaticTokenManager(config.AccessToken)
	}

	if config.ClientID != "" {
		return auth.NewOAuth2TokenManager(&auth.OAuth2Config{
			TokenURL:     TokenURL(config),
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Scopes:       config.Scopes,
			HTTPClient:   config.HTTPClient,
		})
	}

	return nil // No authentication
}

// TokenURL returns the token URL from config or the endpoint's default.
func TokenURL(config *jsonapi.Config) string {
	if config.TokenURL != "" {
		return config.TokenURL
	}

	return strings.TrimSuffix(config.Endpoint, "/") + constants.DefaultTokenPath
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *jsonapi.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		httpOpts = append(httpOpts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	return httpOpts
}

// New creates a client from config. The endpoint is used as given.
// When config.AuthenticateOnInit is set, a first token is requested with ctx
// so that bad credentials are reported here.
func New(ctx context.Context, config *jsonapi.Config) (*Client, error) {
	if config == nil {
		return nil, jsonapi.ErrConfigRequired
	}

	return NewWithTokenManager(ctx, config, createTokenManager(config))
}

// NewWithTokenManager creates a client that authenticates with tokenManager
// instead of the credentials in config. A nil tokenManager sends requests
// without an Authorization header.
func NewWithTokenManager(ctx context.Context, config *jsonapi.Config, tokenManager auth.TokenManager) (*Client, error) {
	if config == nil {
		return nil, jsonapi.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, jsonapi.ErrEndpointRequired
	}

	gateway := http.NewClient(tokenManager, createHTTPClientOptions(config)...)

	client := NewWithGateway(config.Endpoint, gateway, serializer.New(), config.Logger)
	client.tokenManager = tokenManager

	if config.AuthenticateOnInit && tokenManager != nil {
		_, err := tokenManager.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("authenticating: %w", err)
		}
	}

	return client, nil
}

// NewWithGateway creates a client over the given collaborators. logger may
// be nil.
func NewWithGateway(endpoint string, gateway jsonapi.HTTPGateway, codec jsonapi.Serializer, logger jsonapi.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		gateway:    gateway,
		serializer: codec,
		logger:     logger,
	}
}

// Endpoint implements jsonapi.Client.Endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// RegisterType implements jsonapi.Client.RegisterType.
func (c *Client) RegisterType(resourceType string, factory jsonapi.Factory) {
	c.serializer.RegisterType(resourceType, factory)
}

// GetToken returns the current access token, or "" without authentication.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.tokenManager == nil {
		return "", nil
	}

	token, err := c.tokenManager.GetToken(ctx)
	if err != nil {
		return "", fmt.Errorf("getting token: %w", err)
	}

	return token, nil
}

func (c *Client) debug(msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, fields)
	}
}
