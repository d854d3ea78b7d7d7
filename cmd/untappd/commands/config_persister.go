package commands

import (
	"fmt"
	"sync"

	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

var _ untappd.TokenPersister = (*ConfigPersister)(nil)

// ConfigPersister writes access tokens obtained at runtime to the config file.
type ConfigPersister struct {
	mutex sync.Mutex
	path  string
}

// NewConfigPersister creates a persister for the config file at path.
func NewConfigPersister(path string) *ConfigPersister {
	return &ConfigPersister{path: path}
}

// SaveAccessToken implements untappd.TokenPersister.
func (p *ConfigPersister) SaveAccessToken(token string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	config, err := readConfigFile(p.path)
	if err != nil {
		return err
	}

	config.Token = token

	err = saveConfigFile(p.path, config)
	if err != nil {
		return fmt.Errorf("failed to update access token: %w", err)
	}

	return nil
}

// Path returns the config file the persister writes to.
func (p *ConfigPersister) Path() string {
	return p.path
}
