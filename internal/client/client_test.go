package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/untappd/internal/constants"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

var errPersist = errors.New("disk full")

type recordingPersister struct {
	mutex  sync.Mutex
	tokens []string
	err    error
}

func (p *recordingPersister) SaveAccessToken(token string) error {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.tokens = append(p.tokens, token)

	return p.err
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *untappd.Config
		wantErr error
	}{
		{
			name:    "nil config",
			config:  nil,
			wantErr: untappd.ErrConfigRequired,
		},
		{
			name:    "no credentials",
			config:  &untappd.Config{},
			wantErr: untappd.ErrConfiguration,
		},
		{
			name:    "client id without secret",
			config:  &untappd.Config{ClientID: "id"},
			wantErr: untappd.ErrConfiguration,
		},
		{
			name:   "client credentials",
			config: &untappd.Config{ClientID: "id", ClientSecret: "secret"},
		},
		{
			name:   "access token only",
			config: &untappd.Config{AccessToken: "token"},
		},
		{
			name: "invalid endpoint table",
			config: &untappd.Config{
				AccessToken: "token",
				Endpoints:   []untappd.EndpointSpec{{Name: "beer"}},
			},
			wantErr: untappd.ErrConfiguration,
		},
		{
			name: "duplicate endpoint",
			config: &untappd.Config{
				AccessToken: "token",
				Endpoints: []untappd.EndpointSpec{
					{Name: "beer", Path: "beer"},
					{Name: "beer", Path: "beers"},
				},
			},
			wantErr: ErrDuplicateEndpoint,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			client, err := New(testCase.config)
			if testCase.wantErr != nil {
				require.ErrorIs(t, err, testCase.wantErr)
				assert.Nil(t, client)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, client)
		})
	}
}

func TestNew_ConfigurationMessage(t *testing.T) {
	t.Parallel()

	_, err := New(&untappd.Config{ClientSecret: "secret"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "you must specify a client_id and client_secret or an access_token")
}

func TestClient_Defaults(t *testing.T) {
	t.Parallel()

	client, err := New(&untappd.Config{ClientID: "id", ClientSecret: "secret"})
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultBaseURL, client.BaseURL())
	assert.Equal(t, constants.DefaultRequestAttempts, client.Requester().Attempts())
	assert.Equal(t, constants.DefaultRetryWait, client.Requester().RetryWait())
	assert.True(t, client.Credentials().Userless())

	names := make([]string, 0, len(client.Endpoints()))
	for _, endpoint := range client.Endpoints() {
		names = append(names, endpoint.Spec().Name)
	}

	assert.Equal(t, []string{"beer", "brewery", "checkin", "friend", "notifications", "search", "thepub", "user", "venue"}, names)

	accessors := map[string]untappd.Endpoint{
		"beer":          client.Beer(),
		"brewery":       client.Brewery(),
		"checkin":       client.Checkin(),
		"friend":        client.Friend(),
		"notifications": client.Notifications(),
		"search":        client.Search(),
		"thepub":        client.ThePub(),
		"user":          client.User(),
		"venue":         client.Venue(),
	}
	for name, endpoint := range accessors {
		assert.Equal(t, name, endpoint.Spec().Name)
	}
}

func TestClient_Endpoint(t *testing.T) {
	t.Parallel()

	client, err := New(&untappd.Config{AccessToken: "token", BaseURL: "https://example.com/v4/"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/v4", client.BaseURL())

	endpoint, err := client.Endpoint("thepub")
	require.NoError(t, err)
	assert.Equal(t, []string{"local"}, endpoint.Spec().Actions())

	_, err = client.Endpoint("bar")
	require.ErrorIs(t, err, untappd.ErrUnknownEndpoint)
}

func TestClient_MissingEndpoint(t *testing.T) {
	t.Parallel()

	client, err := New(&untappd.Config{
		AccessToken: "token",
		Endpoints:   []untappd.EndpointSpec{{Name: "venue", Path: "venue", GetActions: []string{"info"}}},
	})
	require.NoError(t, err)

	beer := client.Beer()
	assert.Equal(t, "beer", beer.Spec().Name)

	_, err = beer.Action(context.Background(), "info", "1", nil)
	require.ErrorIs(t, err, untappd.ErrUnknownEndpoint)

	_, err = beer.Search(context.Background(), "ipa", nil)
	require.ErrorIs(t, err, untappd.ErrUnknownEndpoint)

	_, err = beer.Call(context.Background(), "", nil)
	require.ErrorIs(t, err, untappd.ErrUnknownEndpoint)
}

//nolint:funlen // Test functions can be longer for comprehensive testing
func TestClient_SetAccessToken(t *testing.T) {
	t.Parallel()

	t.Run("switches later requests to user mode", func(t *testing.T) {
		t.Parallel()

		var (
			mutex   sync.Mutex
			queries []url.Values
		)

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			mutex.Lock()
			queries = append(queries, request.URL.Query())
			mutex.Unlock()

			writeEnvelope(writer, http.StatusOK, nil)
		}))
		defer server.Close()

		persister := &recordingPersister{}
		client, err := New(&untappd.Config{
			ClientID:       "id",
			ClientSecret:   "secret",
			BaseURL:        server.URL,
			TokenPersister: persister,
		})
		require.NoError(t, err)

		_, err = client.User().Action(context.Background(), "info", "gregavola", nil)
		require.NoError(t, err)

		require.NoError(t, client.SetAccessToken("user-token"))
		assert.False(t, client.Credentials().Userless())

		_, err = client.User().Action(context.Background(), "info", "gregavola", nil)
		require.NoError(t, err)

		mutex.Lock()
		defer mutex.Unlock()

		require.Len(t, queries, 2)
		assert.Equal(t, "secret", queries[0].Get("client_secret"))
		assert.False(t, queries[0].Has("access_token"))
		assert.Equal(t, "user-token", queries[1].Get("access_token"))
		assert.False(t, queries[1].Has("client_id"))
		assert.Equal(t, []string{"user-token"}, persister.tokens)
	})

	t.Run("clearing the token needs client credentials", func(t *testing.T) {
		t.Parallel()

		client, err := New(&untappd.Config{AccessToken: "token"})
		require.NoError(t, err)

		err = client.SetAccessToken("")
		require.ErrorIs(t, err, untappd.ErrConfiguration)
		assert.Equal(t, "token", client.Credentials().AccessToken)
	})

	t.Run("persist failure is reported", func(t *testing.T) {
		t.Parallel()

		client, err := New(&untappd.Config{
			ClientID:       "id",
			ClientSecret:   "secret",
			TokenPersister: &recordingPersister{err: errPersist},
		})
		require.NoError(t, err)

		err = client.SetAccessToken("token")
		require.ErrorIs(t, err, errPersist)
		assert.Equal(t, "token", client.Credentials().AccessToken)
	})
}

func TestClient_Metrics(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writeEnvelope(writer, http.StatusOK, nil)
	}))
	defer server.Close()

	collector := untappd.NewMetricsCollector()
	chain := untappd.NewInterceptorChain()
	chain.AddRequestInterceptor(untappd.MetricsRequestInterceptor(collector))
	chain.AddResponseInterceptor(untappd.MetricsResponseInterceptor(collector))

	client, err := New(&untappd.Config{
		AccessToken:  "token",
		BaseURL:      server.URL,
		Interceptors: chain,
	})
	require.NoError(t, err)

	for range 2 {
		_, err = client.Beer().Action(context.Background(), "info", "1", nil)
		require.NoError(t, err)
	}

	metrics, ok := collector.GetMetrics("GET " + server.URL + "/beer/info/1")
	require.True(t, ok)
	assert.Equal(t, int64(2), metrics.TotalRequests)
	assert.Equal(t, int64(0), metrics.TotalErrors)
	assert.Equal(t, int64(2), metrics.TotalAttempts)
}
