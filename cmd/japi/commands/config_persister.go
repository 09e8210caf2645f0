package commands

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fivetwenty-io/jsonapi-client/internal/auth"
)

// Static errors for err113 compliance.
var (
	ErrCredentialsNotSaved = errors.New("client credentials are not saved in the configuration")
)

// ConfigPersister implements auth.TokenPersister on the configuration file.
type ConfigPersister struct {
	mutex    sync.Mutex
	clientID string
}

var _ auth.TokenPersister = (*ConfigPersister)(nil)

// NewConfigPersister creates a persister for tokens of clientID.
func NewConfigPersister(clientID string) *ConfigPersister {
	return &ConfigPersister{clientID: clientID}
}

// UpdateToken stores token and its expiry next to the saved credentials.
func (p *ConfigPersister) UpdateToken(token string, expiresAt time.Time) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config, err := loadConfig()
	if err != nil {
		return err
	}

	// Another login may have replaced the credentials.
	if config.ClientID != p.clientID {
		return fmt.Errorf("%w: %s", ErrCredentialsNotSaved, p.clientID)
	}

	config.OAuthToken = token
	config.OAuthTokenExpiresAt = nil

	if !expiresAt.IsZero() {
		expiresAt = expiresAt.UTC()
		config.OAuthTokenExpiresAt = &expiresAt
	}

	now := time.Now().UTC()
	config.LastRefreshed = &now

	return saveConfig(config)
}
