package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

func TestEndpointClient_Action(t *testing.T) {
	t.Parallel()

	RunActionTests(t, []TestActionOperation{
		{
			Name:           "beer info",
			Endpoint:       "beer",
			Action:         "info",
			ID:             "16630",
			ExpectedMethod: http.MethodGet,
			ExpectedPath:   "/v4/beer/info/16630",
		},
		{
			Name:           "user info without id",
			Endpoint:       "user",
			Action:         "info",
			Params:         url.Values{"compact": {"true"}},
			ExpectedMethod: http.MethodGet,
			ExpectedPath:   "/v4/user/info",
		},
		{
			Name:           "nested action path",
			Endpoint:       "user",
			Action:         "wishlist/add",
			Params:         url.Values{"bid": {"16630"}},
			ExpectedMethod: http.MethodGet,
			ExpectedPath:   "/v4/user/wishlist/add",
		},
		{
			Name:           "checkin comment is posted",
			Endpoint:       "checkin",
			Action:         "addcomment",
			ID:             "42",
			Params:         url.Values{"comment": {"Prost"}},
			ExpectedMethod: http.MethodPost,
			ExpectedPath:   "/v4/checkin/addcomment/42",
		},
		{
			Name:           "checkin recent is fetched",
			Endpoint:       "checkin",
			Action:         "recent",
			ExpectedMethod: http.MethodGet,
			ExpectedPath:   "/v4/checkin/recent",
		},
		{
			Name:           "id is path escaped",
			Endpoint:       "venue",
			Action:         "foursquare_lookup",
			ID:             "4b a/c",
			ExpectedMethod: http.MethodGet,
			ExpectedPath:   "/v4/venue/foursquare_lookup/4b%20a%2Fc",
		},
	})
}

func TestEndpointClient_UnknownAction(t *testing.T) {
	t.Parallel()

	var hits int32

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		atomic.AddInt32(&hits, 1)
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL)

	_, err := client.Beer().Action(context.Background(), "drink", "1", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, untappd.ErrUnknownAction)
	assert.Contains(t, err.Error(), "beer/drink")
	assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
}

func TestEndpointClient_Call(t *testing.T) {
	t.Parallel()

	t.Run("callable endpoint", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, http.MethodGet, request.Method)
			assert.Equal(t, "/notifications", request.URL.Path)
			assert.Equal(t, "25", request.URL.Query().Get("limit"))

			writeEnvelope(writer, http.StatusOK, map[string]interface{}{"notifications": []string{}})
		}))
		defer server.Close()

		client := NewTestClient(t, server.URL)

		envelope, err := client.Notifications().Call(context.Background(), "", url.Values{"limit": {"25"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"notifications":[]}`, string(envelope.Response))
	})

	t.Run("non callable endpoint", func(t *testing.T) {
		t.Parallel()

		client := NewTestClient(t, "http://127.0.0.1:1")

		_, err := client.Beer().Call(context.Background(), "1", nil)
		require.ErrorIs(t, err, untappd.ErrNotCallable)
	})
}

func TestEndpointClient_Search(t *testing.T) {
	t.Parallel()

	t.Run("forwards whitelisted options only", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/v4/search/beer", request.URL.Path)

			query := request.URL.Query()
			assert.Equal(t, "ipa", query.Get("q"))
			assert.Equal(t, "5", query.Get("limit"))
			assert.False(t, query.Has("offset"))
			assert.False(t, query.Has("color"))
			assert.Equal(t, "test-id", query.Get("client_id"))

			writeEnvelope(writer, http.StatusOK, map[string]interface{}{"found": 1})
		}))
		defer server.Close()

		client := NewTestClient(t, server.URL+"/v4")

		_, err := client.Beer().Search(context.Background(), "ipa", url.Values{
			"limit": {"5"},
			"color": {"amber"},
		})
		require.NoError(t, err)
	})

	t.Run("brewery search uses its own path", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			assert.Equal(t, "/search/brewery", request.URL.Path)
			assert.False(t, request.URL.Query().Has("sort"))

			writeEnvelope(writer, http.StatusOK, nil)
		}))
		defer server.Close()

		client := NewTestClient(t, server.URL)

		_, err := client.Brewery().Search(context.Background(), "dogfish", url.Values{"sort": {"name"}})
		require.NoError(t, err)
	})

	t.Run("not searchable makes no request", func(t *testing.T) {
		t.Parallel()

		var hits int32

		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			atomic.AddInt32(&hits, 1)
		}))
		defer server.Close()

		client := NewTestClient(t, server.URL)

		_, err := client.Venue().Search(context.Background(), "bar", nil)
		require.Error(t, err)
		assert.True(t, untappd.IsNotSearchable(err))
		assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	})
}

func TestSearchPayload(t *testing.T) {
	t.Parallel()

	spec := untappd.EndpointSpec{Name: "beer", Path: "beer", Searchable: true, SearchOptions: []string{"offset", "limit"}}
	opts := url.Values{"offset": {"10"}, "sort": {"name"}, "limit": {}}

	payload := SearchPayload(spec, "stout", opts)

	assert.Equal(t, url.Values{"q": {"stout"}, "offset": {"10"}}, payload)

	payload.Set("offset", "20")
	assert.Equal(t, "10", opts.Get("offset"))
}

func TestEndpointClient_ErrorsAreWrapped(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = writer.Write([]byte(`{"meta":{"code":401,"error_type":"invalid_auth","error_detail":"Bad token"}}`))
	}))
	defer server.Close()

	client := NewTestClient(t, server.URL)

	_, err := client.User().Action(context.Background(), "info", "", nil)
	require.Error(t, err)
	assert.True(t, untappd.IsInvalidAuth(err))
	assert.Equal(t, "user info: Bad token", err.Error())
}
