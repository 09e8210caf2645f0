package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Static errors for err113 compliance.
var (
	ErrNoTokenPersister = errors.New("no token persister configured")
)

// TokenPersister stores the tokens obtained by a ConfigTokenManager.
type TokenPersister interface {
	UpdateToken(token string, expiresAt time.Time) error
}

// ConfigTokenManager wraps OAuth2TokenManager and writes every newly
// obtained token to a TokenPersister, so the next process can reuse it.
type ConfigTokenManager struct {
	oauth2Manager *OAuth2TokenManager
	persister     TokenPersister
	warnings      io.Writer
	mutex         sync.Mutex
	lastToken     string
	lastExpiry    time.Time
}

// NewConfigTokenManager creates a persisting token manager. A non-empty
// initialToken is used until initialExpiry.
func NewConfigTokenManager(config *OAuth2Config, persister TokenPersister, initialToken string, initialExpiry time.Time) *ConfigTokenManager {
	oauth2Manager := NewOAuth2TokenManager(config)

	if initialToken != "" {
		oauth2Manager.SetToken(initialToken, initialExpiry)
	}

	return &ConfigTokenManager{
		oauth2Manager: oauth2Manager,
		persister:     persister,
		warnings:      os.Stderr,
		lastToken:     initialToken,
		lastExpiry:    initialExpiry,
	}
}

// GetToken implements TokenManager. A persistence failure is reported as a
// warning and does not fail the request.
func (m *ConfigTokenManager) GetToken(ctx context.Context) (string, error) {
	token, err := m.oauth2Manager.GetToken(ctx)
	if err != nil {
		return "", err
	}

	current := m.oauth2Manager.store.Get()
	if current == nil {
		return token, nil
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	if current.AccessToken == m.lastToken && current.ExpiresAt.Equal(m.lastExpiry) {
		return token, nil
	}

	persistErr := m.persistToken(current)
	if persistErr != nil {
		_, _ = fmt.Fprintf(m.warnings, "Warning: failed to persist refreshed token: %v\n", persistErr)
	}

	m.lastToken = current.AccessToken
	m.lastExpiry = current.ExpiresAt

	return token, nil
}

// Invalidate implements Invalidator.
func (m *ConfigTokenManager) Invalidate() {
	m.oauth2Manager.Invalidate()
}

// TokenExpiry returns the expiry of the cached token, or the zero time.
func (m *ConfigTokenManager) TokenExpiry() time.Time {
	token := m.oauth2Manager.store.Get()
	if token == nil {
		return time.Time{}
	}

	return token.ExpiresAt
}

func (m *ConfigTokenManager) persistToken(token *Token) error {
	if m.persister == nil {
		return ErrNoTokenPersister
	}

	err := m.persister.UpdateToken(token.AccessToken, token.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to update token: %w", err)
	}

	return nil
}
