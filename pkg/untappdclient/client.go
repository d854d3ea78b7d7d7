package untappdclient

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/fivetwenty-io/untappd/internal/client"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

// New creates a new Untappd API client.
func New(config *untappd.Config) (untappd.Client, error) {
	if config == nil {
		return nil, untappd.ErrConfigRequired
	}

	normalized := *config

	var err error

	for _, target := range []*string{&normalized.BaseURL, &normalized.AuthURL, &normalized.TokenURL} {
		*target, err = normalizeURL(*target)
		if err != nil {
			return nil, err
		}
	}

	c, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return c, nil
}

// normalizeURL adds "https://" when no scheme is present and rejects URLs
// without a host. Empty values stay empty and pick up the defaults.
func normalizeURL(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}

	if !strings.HasPrefix(raw, "http://") && !strings.HasPrefix(raw, "https://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid URL %q: %w", untappd.ErrConfiguration, raw, err)
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("%w: no host in URL %q", untappd.ErrConfiguration, raw)
	}

	return raw, nil
}

// NewWithToken creates a new client authenticated with a user access token.
func NewWithToken(token string) (untappd.Client, error) {
	return New(&untappd.Config{
		AccessToken: token,
	})
}

// NewWithClientCredentials creates a new userless client.
func NewWithClientCredentials(clientID, clientSecret string) (untappd.Client, error) {
	return New(&untappd.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
}

// NewWithOAuth creates a userless client prepared for the OAuth flow.
func NewWithOAuth(clientID, clientSecret, redirectURL string) (untappd.Client, error) {
	return New(&untappd.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
	})
}
