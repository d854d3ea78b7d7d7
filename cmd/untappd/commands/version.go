package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/untappd/internal/constants"
)

// VersionInfo describes the build and the API settings it talks to.
type VersionInfo struct {
	Version   string `json:"version"    yaml:"version"`
	Commit    string `json:"commit"     yaml:"commit"`
	Built     string `json:"built"      yaml:"built"`
	APIURL    string `json:"api_url"    yaml:"api_url"`
	Attempts  int    `json:"attempts"   yaml:"attempts"`
	RetryWait string `json:"retry_wait" yaml:"retry_wait"`
}

// NewVersionCommand creates the version command.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Display version information",
		Long:  "Display the CLI build along with the API URL and retry policy in effect",
		RunE: func(cmd *cobra.Command, args []string) error {
			info := newVersionInfo(version, commit, date, loadConfig())

			return outputVersion(cmd.OutOrStdout(), viper.GetString(KeyOutput), info)
		},
	}
}

// newVersionInfo fills API settings from config, falling back to the client defaults.
func newVersionInfo(version, commit, date string, config *Config) VersionInfo {
	info := VersionInfo{
		Version:   version,
		Commit:    commit,
		Built:     date,
		APIURL:    constants.DefaultBaseURL,
		Attempts:  constants.DefaultRequestAttempts,
		RetryWait: constants.DefaultRetryWait.String(),
	}

	if config.BaseURL != "" {
		info.APIURL = config.BaseURL
	}

	if config.Attempts > 0 {
		info.Attempts = config.Attempts
	}

	if config.RetryWait != "" {
		info.RetryWait = config.RetryWait
	}

	return info
}

func outputVersion(out io.Writer, format string, info VersionInfo) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(info)
	case constants.FormatYAML:
		return yaml.NewEncoder(out).Encode(info)
	default:
		table := tablewriter.NewWriter(out)
		table.Header("Property", "Value")
		_ = table.Append("Version", info.Version)
		_ = table.Append("Commit", info.Commit)
		_ = table.Append("Built", info.Built)
		_ = table.Append("API URL", info.APIURL)
		_ = table.Append("Attempts", strconv.Itoa(info.Attempts))
		_ = table.Append("Retry Wait", info.RetryWait)

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}
	}

	return nil
}
