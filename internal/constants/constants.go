package constants

import "time"

// Untappd endpoints.
const (
	// DefaultBaseURL is the root all API endpoint paths are appended to.
	DefaultBaseURL = "https://api.untappd.com/v4"

	// DefaultAuthURL is the user-facing authorization page.
	DefaultAuthURL = "https://untappd.com/oauth/authenticate/"

	// DefaultTokenURL is the server-to-server token exchange endpoint.
	DefaultTokenURL = "https://untappd.com/oauth/authorize/"
)

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for a single HTTP attempt.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits.
const (
	// DefaultRequestAttempts is the total number of tries for one request.
	DefaultRequestAttempts = 3

	// DefaultRetryWait is the fixed pause between two attempts.
	DefaultRetryWait = 1 * time.Second
)

// Envelope codes that signal success despite a non-200 HTTP status.
const (
	// MetaCodeOK is the API's own success code.
	MetaCodeOK = 200

	// MetaCodeConflict signals an idempotent repeat (already toasted, already friends).
	MetaCodeConflict = 409
)

// Payload keys.
const (
	ParamClientID     = "client_id"
	ParamClientSecret = "client_secret"
	ParamAccessToken  = "access_token"
	ParamRedirectURL  = "redirect_url"
	ParamResponseType = "response_type"
	ParamGrantType    = "grant_type"
	ParamCode         = "code"
	ParamQuery        = "q"

	ResponseTypeCode       = "code"
	GrantAuthorizationCode = "authorization_code"
)

// Error type codes reported in meta.error_type.
const (
	ErrorTypeInvalidAuth = "invalid_auth"
)

// Display and formatting.
const (
	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// JSONIndentSize is the indent used by the YAML encoder.
	JSONIndentSize = 2
)

// Format constants.
const (
	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// FormatTable for table output format.
	FormatTable = "table"
)

// CLI configuration.
const (
	// ConfigDirName is the directory under $HOME holding the CLI config.
	ConfigDirName = ".untappd"

	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"

	// ConfigFileType is the config file extension and viper type.
	ConfigFileType = "yml"

	// EnvPrefix prefixes environment variables read by viper.
	EnvPrefix = "UNTAPPD"
)
