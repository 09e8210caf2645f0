// Package jsonapiclient provides the main entry point for creating JSON:API clients
package jsonapiclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/jsonapi-client/internal/client"
	"github.com/fivetwenty-io/jsonapi-client/pkg/jsonapi"
)

// New creates a new JSON:API client. config is not modified.
func New(ctx context.Context, config *jsonapi.Config) (jsonapi.Client, error) {
	if config == nil {
		return nil, jsonapi.ErrConfigRequired
	}

	if config.Endpoint == "" {
		return nil, jsonapi.ErrEndpointRequired
	}

	normalized := *config
	normalized.Endpoint = NormalizeEndpoint(config.Endpoint)

	c, err := client.New(ctx, &normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// NormalizeEndpoint trims a trailing slash and adds "https://" when the
// endpoint has no scheme.
func NormalizeEndpoint(endpoint string) string {
	endpoint = strings.TrimSuffix(strings.TrimSpace(endpoint), "/")
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	return endpoint
}

// NewWithEndpoint creates a new client with just an endpoint (no auth).
func NewWithEndpoint(ctx context.Context, endpoint string) (jsonapi.Client, error) {
	return New(ctx, &jsonapi.Config{
		Endpoint: endpoint,
	})
}

// NewWithToken creates a new client with an endpoint and access token.
func NewWithToken(ctx context.Context, endpoint, token string) (jsonapi.Client, error) {
	return New(ctx, &jsonapi.Config{
		Endpoint:    endpoint,
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new client using OAuth2 client
// credentials. The token is requested from tokenURL, or from the endpoint's
// /oauth/token when tokenURL is empty, on first use.
func NewWithClientCredentials(ctx context.Context, endpoint, tokenURL, clientID, clientSecret string) (jsonapi.Client, error) {
	return New(ctx, &jsonapi.Config{
		Endpoint:     endpoint,
		TokenURL:     tokenURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}
