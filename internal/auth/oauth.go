package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/fivetwenty-io/jsonapi-client/internal/constants"
)

// OAuth2Config configures the client_credentials grant.
type OAuth2Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string
	// HTTPClient is used for token requests. Defaults to a client with
	// constants.ShortHTTPTimeout.
	HTTPClient *http.Client
}

// OAuth2TokenManager obtains tokens with the client_credentials grant and
// reuses them until they are about to expire.
type OAuth2TokenManager struct {
	config     *clientcredentials.Config
	httpClient *http.Client
	store      *TokenStore
	// fetch serialises token requests so concurrent callers share one.
	fetch sync.Mutex
}

// NewOAuth2TokenManager creates a token manager for config.
func NewOAuth2TokenManager(config *OAuth2Config) *OAuth2TokenManager {
	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.ShortHTTPTimeout}
	}

	return &OAuth2TokenManager{
		config: &clientcredentials.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			TokenURL:     config.TokenURL,
			Scopes:       config.Scopes,
		},
		httpClient: httpClient,
		store:      NewTokenStore(),
	}
}

// GetToken implements TokenManager.
func (m *OAuth2TokenManager) GetToken(ctx context.Context) (string, error) {
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	m.fetch.Lock()
	defer m.fetch.Unlock()

	// Another caller may have refreshed while we waited.
	if token := m.store.Get(); token.Valid() {
		return token.AccessToken, nil
	}

	if m.config.TokenURL == "" {
		return "", ErrTokenURLEmpty
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)

	oauthToken, err := m.config.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("requesting client credentials token: %w", err)
	}

	m.store.Set(&Token{
		AccessToken: oauthToken.AccessToken,
		TokenType:   oauthToken.TokenType,
		ExpiresAt:   oauthToken.Expiry,
	})

	return oauthToken.AccessToken, nil
}

// SetToken seeds the manager with a previously obtained token. It is used
// until it expires or is invalidated.
func (m *OAuth2TokenManager) SetToken(token string, expiresAt time.Time) {
	m.store.Set(&Token{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
	})
}

// Invalidate drops the cached token so the next call requests a new one.
func (m *OAuth2TokenManager) Invalidate() {
	m.store.Clear()
}
