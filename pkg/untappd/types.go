package untappd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Credentials is the credential set attached to outgoing requests.
//
// An access token selects user mode; without one the client ID and secret
// are sent instead (userless mode).
type Credentials struct {
	ClientID     string `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	AccessToken  string `json:"access_token,omitempty"  yaml:"access_token,omitempty"`
}

// Userless reports whether requests are authenticated with app credentials.
func (c Credentials) Userless() bool {
	return c.AccessToken == ""
}

// HasClientCredentials reports whether both the client ID and secret are set.
func (c Credentials) HasClientCredentials() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

// Valid reports whether the credentials allow at least one mode.
func (c Credentials) Valid() bool {
	return c.HasClientCredentials() || c.AccessToken != ""
}

// WithAccessToken returns a copy of the credentials in user mode.
func (c Credentials) WithAccessToken(token string) Credentials {
	c.AccessToken = token

	return c
}

// Request describes one call to the API.
type Request struct {
	Method  string
	URL     string
	Payload url.Values
	Headers http.Header

	// SkipCredentials sends the payload as-is. Only the token exchange uses it.
	SkipCredentials bool

	Metadata map[string]interface{}
}

// Meta is the status block every API reply carries.
type Meta struct {
	Code        int    `json:"code"                   yaml:"code"`
	ErrorType   string `json:"error_type,omitempty"   yaml:"error_type,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty" yaml:"error_detail,omitempty"`
}

// Envelope is a decoded API reply.
type Envelope struct {
	Meta     *Meta           `json:"meta,omitempty"     yaml:"meta,omitempty"`
	Response json.RawMessage `json:"response,omitempty" yaml:"-"`

	// Raw holds the full body as received.
	Raw json.RawMessage `json:"-" yaml:"-"`
}

// Decode unmarshals the response field into v.
func (e *Envelope) Decode(v interface{}) error {
	if len(e.Response) == 0 {
		return &MalformedResponseError{Reason: "missing response property"}
	}

	err := json.Unmarshal(e.Response, v)
	if err != nil {
		return &MalformedResponseError{Reason: "decoding response property", Err: err}
	}

	return nil
}

// Body decodes the full body into a generic map.
func (e *Envelope) Body() (map[string]interface{}, error) {
	var body map[string]interface{}

	err := json.Unmarshal(e.Raw, &body)
	if err != nil {
		return nil, fmt.Errorf("decoding envelope body: %w", err)
	}

	return body, nil
}

// AccessTokenResponse is the response payload of the token exchange.
type AccessTokenResponse struct {
	AccessToken string `json:"access_token" yaml:"access_token"`
}
