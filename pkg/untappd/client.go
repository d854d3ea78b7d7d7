package untappd

import (
	"context"
	"net/url"
	"time"
)

// Endpoint dispatches calls to one API endpoint.
type Endpoint interface {
	// Spec returns the declaration the endpoint was built from.
	Spec() EndpointSpec
	// Action invokes <path>/<action>/<id>. An empty id is omitted.
	Action(ctx context.Context, action, id string, params url.Values) (*Envelope, error)
	// Call invokes <path>/<id> on callable endpoints.
	Call(ctx context.Context, id string, params url.Values) (*Envelope, error)
	// Search invokes search/<path> with q=query and the whitelisted options.
	Search(ctx context.Context, query string, opts url.Values) (*Envelope, error)
}

// OAuth helps users authorize the application and exchange codes for tokens.
type OAuth interface {
	// AuthURL returns the URL a user visits to authorize the application.
	AuthURL() string
	// AccessToken exchanges an authorization code for an access token.
	AccessToken(ctx context.Context, code string) (string, error)
}

// EndpointClients provides typed access to the endpoint table.
type EndpointClients interface {
	Beer() Endpoint
	Brewery() Endpoint
	Checkin() Endpoint
	Friend() Endpoint
	Notifications() Endpoint
	Search() Endpoint
	ThePub() Endpoint
	User() Endpoint
	Venue() Endpoint

	// Endpoint looks an endpoint up by name.
	Endpoint(name string) (Endpoint, error)
	// Endpoints lists every endpoint in declaration order.
	Endpoints() []Endpoint
}

// Client is the Untappd API client.
type Client interface {
	EndpointClients

	OAuth() OAuth

	// Credentials returns the credentials currently attached to requests.
	Credentials() Credentials
	// SetAccessToken switches the client to user mode with token. An empty
	// token returns to userless mode. Requests already in flight keep the
	// credentials they started with. If the TokenPersister fails the token
	// stays active and the error is returned.
	SetAccessToken(token string) error
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// TokenPersister stores access tokens obtained at runtime.
type TokenPersister interface {
	SaveAccessToken(token string) error
}

// Config represents client configuration for building a Client.
//
// # Credentials
//
// Either ClientID and ClientSecret (userless mode) or AccessToken (user mode)
// is required. When both are present the access token is used for API calls
// and the client credentials only for the OAuth token exchange.
//
// # Retries
//
// Each request is tried RequestAttempts times with a fixed RetryWait pause
// between attempts. Rejected credentials (invalid_auth) are never retried.
type Config struct {
	// ClientID: application client ID.
	ClientID string
	// ClientSecret: application client secret.
	ClientSecret string
	// AccessToken: per-user OAuth token.
	AccessToken string
	// RedirectURL: OAuth redirect registered for the application.
	RedirectURL string

	// BaseURL overrides the API root. Trailing slashes are trimmed.
	BaseURL string
	// AuthURL overrides the user-facing authorization page.
	AuthURL string
	// TokenURL overrides the token exchange endpoint.
	TokenURL string

	// UserAgent overrides the User-Agent header.
	UserAgent string
	// HTTPTimeout bounds a single attempt. Zero uses the default.
	HTTPTimeout time.Duration
	// RequestAttempts is the total number of tries per request. Zero uses 3.
	RequestAttempts int
	// RetryWait is the pause between attempts. Zero uses one second.
	RetryWait time.Duration

	// Debug enables request/response logging when a Logger is provided.
	Debug bool
	// Logger: optional structured logger.
	Logger Logger
	// Interceptors run around every request.
	Interceptors *InterceptorChain
	// TokenPersister is told about tokens set through SetAccessToken.
	TokenPersister TokenPersister

	// Endpoints replaces the endpoint table. Nil uses DefaultEndpoints.
	Endpoints []EndpointSpec
}

// Credentials returns the credential set described by the config.
func (c *Config) Credentials() Credentials {
	return Credentials{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		AccessToken:  c.AccessToken,
	}
}
