package auth

import (
	"context"
	"fmt"
	nethttp "net/http"
	"net/url"

	"github.com/fivetwenty-io/untappd/internal/constants"
	"github.com/fivetwenty-io/untappd/internal/http"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

var _ untappd.OAuth = (*OAuth)(nil)

// OAuthConfig configures the authorization flow.
type OAuthConfig struct {
	AuthURL     string
	TokenURL    string
	RedirectURL string
}

// OAuth builds authorization URLs and exchanges codes for access tokens.
type OAuth struct {
	requester   *http.Requester
	credentials http.CredentialSource
	config      OAuthConfig
}

// NewOAuth creates the OAuth helper. Empty URLs fall back to the defaults.
func NewOAuth(requester *http.Requester, credentials http.CredentialSource, config OAuthConfig) *OAuth {
	if config.AuthURL == "" {
		config.AuthURL = constants.DefaultAuthURL
	}

	if config.TokenURL == "" {
		config.TokenURL = constants.DefaultTokenURL
	}

	return &OAuth{
		requester:   requester,
		credentials: credentials,
		config:      config,
	}
}

// AuthURL returns the page a user visits to authorize the application.
func (o *OAuth) AuthURL() string {
	params := url.Values{}
	params.Set(constants.ParamClientID, o.credentials.Credentials().ClientID)
	params.Set(constants.ParamResponseType, constants.ResponseTypeCode)
	params.Set(constants.ParamRedirectURL, o.config.RedirectURL)

	return o.config.AuthURL + "?" + params.Encode()
}

// AccessToken exchanges the code from the redirect for an access token.
// The request carries the app credentials only, never the current token.
func (o *OAuth) AccessToken(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", untappd.ErrCodeRequired
	}

	creds := o.credentials.Credentials()
	if !creds.HasClientCredentials() {
		return "", fmt.Errorf("%w: client_id and client_secret are required to exchange a code", untappd.ErrConfiguration)
	}

	payload := url.Values{}
	payload.Set(constants.ParamClientID, creds.ClientID)
	payload.Set(constants.ParamClientSecret, creds.ClientSecret)
	payload.Set(constants.ParamGrantType, constants.GrantAuthorizationCode)
	payload.Set(constants.ParamRedirectURL, o.config.RedirectURL)
	payload.Set(constants.ParamCode, code)

	envelope, err := o.requester.Do(ctx, &untappd.Request{
		Method:          nethttp.MethodGet,
		URL:             o.config.TokenURL,
		Payload:         payload,
		SkipCredentials: true,
	})
	if err != nil {
		return "", fmt.Errorf("exchanging authorization code: %w", err)
	}

	var token untappd.AccessTokenResponse

	err = envelope.Decode(&token)
	if err != nil {
		return "", fmt.Errorf("parsing access token response: %w", err)
	}

	if token.AccessToken == "" {
		return "", &untappd.MalformedResponseError{Reason: "missing response.access_token"}
	}

	return token.AccessToken, nil
}
