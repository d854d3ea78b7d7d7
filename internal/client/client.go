package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fivetwenty-io/untappd/internal/auth"
	"github.com/fivetwenty-io/untappd/internal/constants"
	"github.com/fivetwenty-io/untappd/internal/http"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

var _ untappd.Client = (*Client)(nil)

// Static errors for err113 compliance.
var (
	ErrDuplicateEndpoint = errors.New("duplicate endpoint name")
)

// Client implements the untappd.Client interface.
type Client struct {
	requester   *http.Requester
	credentials *auth.CredentialManager
	oauth       *auth.OAuth
	baseURL     string
	logger      untappd.Logger

	endpoints map[string]*EndpointClient
	order     []string
}

// createRequesterOptions builds requester options from config.
func createRequesterOptions(config *untappd.Config) []http.Option {
	var opts []http.Option

	if config.Logger != nil {
		opts = append(opts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		opts = append(opts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, http.WithTimeout(config.HTTPTimeout))
	}

	if config.Interceptors != nil {
		opts = append(opts, http.WithInterceptors(config.Interceptors))
	}

	attempts := constants.DefaultRequestAttempts
	if config.RequestAttempts > 0 {
		attempts = config.RequestAttempts
	}

	retryWait := constants.DefaultRetryWait
	if config.RetryWait > 0 {
		retryWait = config.RetryWait
	}

	return append(opts, http.WithRetryConfig(attempts, retryWait))
}

// New creates a new Untappd API client. Credentials are validated here.
func New(config *untappd.Config) (*Client, error) {
	if config == nil {
		return nil, untappd.ErrConfigRequired
	}

	credentials := config.Credentials()
	if !credentials.Valid() {
		return nil, fmt.Errorf("%w: you must specify a client_id and client_secret or an access_token", untappd.ErrConfiguration)
	}

	baseURL := strings.TrimSuffix(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = constants.DefaultBaseURL
	}

	credentialManager := auth.NewCredentialManager(credentials, config.TokenPersister)
	requester := http.NewRequester(credentialManager, createRequesterOptions(config)...)

	client := &Client{
		requester:   requester,
		credentials: credentialManager,
		oauth: auth.NewOAuth(requester, credentialManager, auth.OAuthConfig{
			AuthURL:     config.AuthURL,
			TokenURL:    config.TokenURL,
			RedirectURL: config.RedirectURL,
		}),
		baseURL: baseURL,
		logger:  config.Logger,
	}

	specs := config.Endpoints
	if specs == nil {
		specs = untappd.DefaultEndpoints()
	}

	err := client.initializeEndpoints(specs)
	if err != nil {
		return nil, err
	}

	return client, nil
}

// initializeEndpoints builds one endpoint client per registry entry.
func (c *Client) initializeEndpoints(specs []untappd.EndpointSpec) error {
	c.endpoints = make(map[string]*EndpointClient, len(specs))
	c.order = make([]string, 0, len(specs))

	for _, spec := range specs {
		err := spec.Validate()
		if err != nil {
			return err
		}

		if _, exists := c.endpoints[spec.Name]; exists {
			return fmt.Errorf("%w: %s", ErrDuplicateEndpoint, spec.Name)
		}

		c.endpoints[spec.Name] = NewEndpointClient(c.requester, c.baseURL, spec)
		c.order = append(c.order, spec.Name)
	}

	return nil
}

// Requester returns the requester shared by all endpoints.
func (c *Client) Requester() *http.Requester {
	return c.requester
}

// BaseURL returns the API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoint implements untappd.Client.Endpoint.
func (c *Client) Endpoint(name string) (untappd.Endpoint, error) {
	endpoint, ok := c.endpoints[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", untappd.ErrUnknownEndpoint, name)
	}

	return endpoint, nil
}

// Endpoints implements untappd.Client.Endpoints.
func (c *Client) Endpoints() []untappd.Endpoint {
	endpoints := make([]untappd.Endpoint, 0, len(c.order))
	for _, name := range c.order {
		endpoints = append(endpoints, c.endpoints[name])
	}

	return endpoints
}

// mustEndpoint returns a registered endpoint. A missing entry only happens
// with a custom table; calls on the returned client then fail with
// ErrUnknownEndpoint.
func (c *Client) mustEndpoint(name string) untappd.Endpoint {
	if endpoint, ok := c.endpoints[name]; ok {
		return endpoint
	}

	return missingEndpoint{name: name}
}

// Beer implements untappd.Client.Beer.
func (c *Client) Beer() untappd.Endpoint { return c.mustEndpoint("beer") }

// Brewery implements untappd.Client.Brewery.
func (c *Client) Brewery() untappd.Endpoint { return c.mustEndpoint("brewery") }

// Checkin implements untappd.Client.Checkin.
func (c *Client) Checkin() untappd.Endpoint { return c.mustEndpoint("checkin") }

// Friend implements untappd.Client.Friend.
func (c *Client) Friend() untappd.Endpoint { return c.mustEndpoint("friend") }

// Notifications implements untappd.Client.Notifications.
func (c *Client) Notifications() untappd.Endpoint { return c.mustEndpoint("notifications") }

// Search implements untappd.Client.Search.
func (c *Client) Search() untappd.Endpoint { return c.mustEndpoint("search") }

// ThePub implements untappd.Client.ThePub.
func (c *Client) ThePub() untappd.Endpoint { return c.mustEndpoint("thepub") }

// User implements untappd.Client.User.
func (c *Client) User() untappd.Endpoint { return c.mustEndpoint("user") }

// Venue implements untappd.Client.Venue.
func (c *Client) Venue() untappd.Endpoint { return c.mustEndpoint("venue") }

// OAuth implements untappd.Client.OAuth.
func (c *Client) OAuth() untappd.OAuth {
	return c.oauth
}

// Credentials implements untappd.Client.Credentials.
func (c *Client) Credentials() untappd.Credentials {
	return c.credentials.Credentials()
}

// SetAccessToken implements untappd.Client.SetAccessToken.
func (c *Client) SetAccessToken(token string) error {
	err := c.credentials.SetAccessToken(token)
	if err != nil {
		return fmt.Errorf("setting access token: %w", err)
	}

	if c.logger != nil {
		c.logger.Debug("Access token updated", map[string]interface{}{
			"userless": token == "",
		})
	}

	return nil
}
