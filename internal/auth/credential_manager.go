package auth

import (
	"fmt"
	"sync"

	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

// CredentialManager holds the credentials attached to requests and persists
// tokens set at runtime.
type CredentialManager struct {
	mutex       sync.RWMutex
	credentials untappd.Credentials
	persister   untappd.TokenPersister
}

// NewCredentialManager creates a credential manager. persister may be nil.
func NewCredentialManager(credentials untappd.Credentials, persister untappd.TokenPersister) *CredentialManager {
	return &CredentialManager{
		credentials: credentials,
		persister:   persister,
	}
}

// Credentials returns the current credential value.
func (m *CredentialManager) Credentials() untappd.Credentials {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	return m.credentials
}

// SetCredentials replaces the credential set.
func (m *CredentialManager) SetCredentials(credentials untappd.Credentials) error {
	if !credentials.Valid() {
		return fmt.Errorf("%w: a client_id and client_secret or an access_token is required", untappd.ErrConfiguration)
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.credentials = credentials

	return nil
}

// SetAccessToken switches to user mode and persists the token. An empty
// token switches back to userless mode when client credentials are present.
// The token is installed before it is persisted, so a persistence error
// leaves the new token active.
func (m *CredentialManager) SetAccessToken(token string) error {
	err := m.SetCredentials(m.Credentials().WithAccessToken(token))
	if err != nil {
		return err
	}

	if m.persister == nil || token == "" {
		return nil
	}

	err = m.persister.SaveAccessToken(token)
	if err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}

	return nil
}
