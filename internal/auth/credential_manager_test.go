package auth

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

var errSave = errors.New("save failed")

type memoryPersister struct {
	mutex sync.Mutex
	saved []string
	err   error
}

func (p *memoryPersister) SaveAccessToken(token string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.saved = append(p.saved, token)

	return p.err
}

func TestCredentialManager_SetAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("switches modes and persists", func(t *testing.T) {
		t.Parallel()

		persister := &memoryPersister{}
		manager := NewCredentialManager(untappd.Credentials{ClientID: "id", ClientSecret: "secret"}, persister)
		assert.True(t, manager.Credentials().Userless())

		require.NoError(t, manager.SetAccessToken("token"))
		assert.False(t, manager.Credentials().Userless())
		assert.Equal(t, "id", manager.Credentials().ClientID)

		require.NoError(t, manager.SetAccessToken(""))
		assert.True(t, manager.Credentials().Userless())

		assert.Equal(t, []string{"token"}, persister.saved)
	})

	t.Run("cannot clear the only credential", func(t *testing.T) {
		t.Parallel()

		manager := NewCredentialManager(untappd.Credentials{AccessToken: "token"}, nil)

		err := manager.SetAccessToken("")
		require.ErrorIs(t, err, untappd.ErrConfiguration)
		assert.Equal(t, "token", manager.Credentials().AccessToken)
	})

	t.Run("persist errors are wrapped", func(t *testing.T) {
		t.Parallel()

		manager := NewCredentialManager(untappd.Credentials{AccessToken: "a"}, &memoryPersister{err: errSave})

		err := manager.SetAccessToken("b")
		require.ErrorIs(t, err, errSave)
		assert.Equal(t, "b", manager.Credentials().AccessToken)
	})
}

func TestCredentialManager_Concurrent(t *testing.T) {
	t.Parallel()

	manager := NewCredentialManager(untappd.Credentials{ClientID: "id", ClientSecret: "secret"}, nil)

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(2)

		go func() {
			defer wg.Done()

			token := ""
			if i%2 == 0 {
				token = "token"
			}

			assert.NoError(t, manager.SetAccessToken(token))
		}()

		go func() {
			defer wg.Done()

			assert.True(t, manager.Credentials().Valid())
		}()
	}

	wg.Wait()
}
