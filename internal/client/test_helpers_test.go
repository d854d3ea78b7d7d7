package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

// NewTestClient creates a userless client rooted at baseURL with fast retries.
func NewTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	client, err := New(&untappd.Config{
		ClientID:        "test-id",
		ClientSecret:    "test-secret",
		BaseURL:         baseURL,
		RequestAttempts: 3,
		RetryWait:       time.Millisecond,
	})
	require.NoError(t, err)

	return client
}

// TestActionOperation represents one endpoint action test case.
type TestActionOperation struct {
	Name           string
	Endpoint       string
	Action         string
	ID             string
	Params         url.Values
	ExpectedMethod string
	ExpectedPath   string
}

// RunActionTests runs every case against a server checking method and path.
func RunActionTests(t *testing.T, tests []TestActionOperation) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				assert.Equal(t, testCase.ExpectedMethod, request.Method)
				assert.Equal(t, testCase.ExpectedPath, request.URL.EscapedPath())

				require.NoError(t, request.ParseForm())

				for key := range testCase.Params {
					assert.Equal(t, testCase.Params.Get(key), request.Form.Get(key))
				}

				assert.Equal(t, "test-secret", request.Form.Get("client_secret"))

				writeEnvelope(writer, http.StatusOK, map[string]interface{}{"ok": true})
			}))
			defer server.Close()

			client := NewTestClient(t, server.URL+"/v4")

			endpoint, err := client.Endpoint(testCase.Endpoint)
			require.NoError(t, err)

			envelope, err := endpoint.Action(context.Background(), testCase.Action, testCase.ID, testCase.Params)
			require.NoError(t, err)
			require.NotNil(t, envelope.Meta)
			assert.Equal(t, http.StatusOK, envelope.Meta.Code)
		})
	}
}

func writeEnvelope(writer http.ResponseWriter, code int, response interface{}) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(code)
	_ = json.NewEncoder(writer).Encode(map[string]interface{}{
		"meta":     map[string]interface{}{"code": code},
		"response": response,
	})
}
