//go:build integration

package integration

import (
	"context"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/untappd/pkg/untappd"
	"github.com/fivetwenty-io/untappd/pkg/untappdclient"
)

var (
	clientID     string
	clientSecret string
	accessToken  string
)

func TestMain(m *testing.M) {
	// Load .env file if it exists (won't error if missing)
	if err := godotenv.Load("../../.env"); err != nil {
		os.Stderr.WriteString("Note: .env file not found at project root\n")
	}

	clientID = os.Getenv("UNTAPPD_CLIENT_ID")
	clientSecret = os.Getenv("UNTAPPD_CLIENT_SECRET")
	accessToken = os.Getenv("UNTAPPD_TOKEN")

	if clientID == "" || clientSecret == "" {
		os.Stderr.WriteString("Skipping integration tests: UNTAPPD_CLIENT_ID and UNTAPPD_CLIENT_SECRET not set\n")
		os.Exit(0)
	}

	os.Exit(m.Run())
}

func newContext(t *testing.T) context.Context {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)

	return ctx
}

func TestUserless_BeerInfo(t *testing.T) {
	client, err := untappdclient.NewWithClientCredentials(clientID, clientSecret)
	require.NoError(t, err)

	envelope, err := client.Beer().Action(newContext(t), "info", "16630", url.Values{"compact": {"true"}})
	require.NoError(t, err)
	require.NotNil(t, envelope.Meta)
	assert.Equal(t, 200, envelope.Meta.Code)

	body, err := envelope.Body()
	require.NoError(t, err)
	assert.Contains(t, body, "response")
}

func TestUserless_Search(t *testing.T) {
	client, err := untappdclient.NewWithClientCredentials(clientID, clientSecret)
	require.NoError(t, err)

	envelope, err := client.Brewery().Search(newContext(t), "dogfish", url.Values{"limit": {"3"}})
	require.NoError(t, err)
	assert.NotEmpty(t, envelope.Response)
}

func TestInvalidToken(t *testing.T) {
	client, err := untappdclient.NewWithToken("not-a-real-token")
	require.NoError(t, err)

	start := time.Now()
	_, err = client.User().Action(newContext(t), "info", "", nil)
	require.Error(t, err)
	assert.True(t, untappd.IsAPIError(err))
	assert.Less(t, time.Since(start), 30*time.Second)
}

func TestUser_Info(t *testing.T) {
	if accessToken == "" {
		t.Skip("UNTAPPD_TOKEN not set")
	}

	client, err := untappdclient.NewWithToken(accessToken)
	require.NoError(t, err)

	envelope, err := client.User().Action(newContext(t), "info", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, envelope.Meta.Code)
}
