package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/untappd/internal/constants"
)

// Configuration keys shared by the config file, flags and UNTAPPD_* variables.
const (
	KeyClientID     = "client_id"
	KeyClientSecret = "client_secret"
	KeyToken        = "token"
	KeyRedirectURL  = "redirect_url"
	KeyBaseURL      = "base_url"
	KeyOutput       = "output"
	KeyAttempts     = "attempts"
	KeyRetryWait    = "retry_wait"
)

// Config represents the CLI configuration.
type Config struct {
	ClientID     string `json:"client_id,omitempty"     yaml:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty" yaml:"client_secret,omitempty"`
	Token        string `json:"token,omitempty"         yaml:"token,omitempty"`
	RedirectURL  string `json:"redirect_url,omitempty"  yaml:"redirect_url,omitempty"`
	BaseURL      string `json:"base_url,omitempty"      yaml:"base_url,omitempty"`
	Output       string `json:"output,omitempty"        yaml:"output,omitempty"`
	Attempts     int    `json:"attempts,omitempty"      yaml:"attempts,omitempty"`
	RetryWait    string `json:"retry_wait,omitempty"    yaml:"retry_wait,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the CLI config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration, merged from the config file, environment and flags. Secrets are masked.",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig().Masked()

			switch viper.GetString(KeyOutput) {
			case constants.FormatJSON:
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")

				return encoder.Encode(config)
			case constants.FormatYAML:
				encoder := yaml.NewEncoder(cmd.OutOrStdout())

				return encoder.Encode(config)
			default:
				return displayConfigTable(cmd.OutOrStdout(), config)
			}
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: fmt.Sprintf("Set a configuration value in the config file. Keys: %s, %s, %s, %s, %s, %s, %s, %s",
			KeyClientID, KeyClientSecret, KeyToken, KeyRedirectURL, KeyBaseURL, KeyOutput, KeyAttempts, KeyRetryWait),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfigFile(cmd.OutOrStdout(), configFilePath(), args[0], args[1])
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Long:  "Remove a configuration value from the config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfigFile(cmd.OutOrStdout(), configFilePath(), args[0], "")
		},
	}
}

// loadConfig returns the effective configuration as resolved by viper.
func loadConfig() *Config {
	return &Config{
		ClientID:     viper.GetString(KeyClientID),
		ClientSecret: viper.GetString(KeyClientSecret),
		Token:        viper.GetString(KeyToken),
		RedirectURL:  viper.GetString(KeyRedirectURL),
		BaseURL:      viper.GetString(KeyBaseURL),
		Output:       viper.GetString(KeyOutput),
		Attempts:     viper.GetInt(KeyAttempts),
		RetryWait:    viper.GetString(KeyRetryWait),
	}
}

// Masked returns a copy with secrets hidden.
func (c Config) Masked() Config {
	if c.ClientSecret != "" {
		c.ClientSecret = constants.MaskedSecret
	}

	if c.Token != "" {
		c.Token = constants.MaskedSecret
	}

	return c
}

// Set assigns value to key. An empty value clears the key.
func (c *Config) Set(key, value string) error {
	switch key {
	case KeyClientID:
		c.ClientID = value
	case KeyClientSecret:
		c.ClientSecret = value
	case KeyToken:
		c.Token = value
	case KeyRedirectURL:
		c.RedirectURL = value
	case KeyBaseURL:
		c.BaseURL = value
	case KeyOutput:
		if value != "" && value != constants.FormatTable && value != constants.FormatJSON && value != constants.FormatYAML {
			return fmt.Errorf("%w: %s", constants.ErrUnsupportedOutput, value)
		}

		c.Output = value
	case KeyAttempts:
		if value == "" {
			c.Attempts = 0

			return nil
		}

		attempts, err := strconv.Atoi(value)
		if err != nil || attempts < 1 {
			return fmt.Errorf("%w: attempts must be a positive integer", constants.ErrInvalidKeyValue)
		}

		c.Attempts = attempts
	case KeyRetryWait:
		if value != "" {
			_, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("%w: retry_wait: %w", constants.ErrInvalidKeyValue, err)
			}
		}

		c.RetryWait = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfigKey, key)
	}

	return nil
}

// configFilePath returns the config file in use, or the default location.
func configFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile != "" {
		return configFile
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(constants.ConfigDirName, constants.ConfigFileName+"."+constants.ConfigFileType)
	}

	return filepath.Join(home, constants.ConfigDirName, constants.ConfigFileName+"."+constants.ConfigFileType)
}

// readConfigFile loads the config file alone, without flags or environment.
func readConfigFile(path string) (*Config, error) {
	config := &Config{}

	// path comes from the --config flag or the user's home directory
	// #nosec G304
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// saveConfigFile writes config to path, creating the directory if needed.
func saveConfigFile(path string, config *Config) error {
	err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(path, data, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func updateConfigFile(out io.Writer, path, key, value string) error {
	config, err := readConfigFile(path)
	if err != nil {
		return err
	}

	err = config.Set(key, value)
	if err != nil {
		return err
	}

	err = saveConfigFile(path, config)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if value == "" {
		_, _ = fmt.Fprintf(out, "Unset %s in %s\n", key, path)
	} else {
		_, _ = fmt.Fprintf(out, "Set %s in %s\n", key, path)
	}

	return nil
}

func displayConfigTable(out io.Writer, config Config) error {
	table := tablewriter.NewWriter(out)
	table.Header("Property", "Value")

	_ = table.Append("Client ID", config.ClientID)
	_ = table.Append("Client Secret", config.ClientSecret)
	_ = table.Append("Token", config.Token)
	_ = table.Append("Redirect URL", config.RedirectURL)
	_ = table.Append("Base URL", valueOrDefault(config.BaseURL, constants.DefaultBaseURL))
	_ = table.Append("Attempts", valueOrDefault(attemptsString(config.Attempts), strconv.Itoa(constants.DefaultRequestAttempts)))
	_ = table.Append("Retry Wait", valueOrDefault(config.RetryWait, constants.DefaultRetryWait.String()))
	_ = table.Append("Config File", configFilePath())

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func attemptsString(attempts int) string {
	if attempts <= 0 {
		return ""
	}

	return strconv.Itoa(attempts)
}

func valueOrDefault(value, fallback string) string {
	if value == "" {
		return fallback + " (default)"
	}

	return value
}
