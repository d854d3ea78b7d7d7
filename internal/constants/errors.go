package constants

import "errors"

// Configuration errors.
var (
	ErrNoCredentialsConfigured = errors.New("no credentials configured, set client_id and client_secret or token")
	ErrUnknownConfigKey        = errors.New("unknown configuration key")
	ErrNoClientSecret          = errors.New("client secret is required for the token exchange")
)

// Argument errors.
var (
	ErrInvalidKeyValue   = errors.New("invalid key=value pair")
	ErrQueryRequired     = errors.New("search query is required")
	ErrUnsupportedOutput = errors.New("unsupported output format")
)
