package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/untappd/internal/constants"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

// EndpointInfo describes one endpoint for display.
type EndpointInfo struct {
	Name          string   `json:"name"                     yaml:"name"`
	Path          string   `json:"path"                     yaml:"path"`
	GetActions    []string `json:"get_actions,omitempty"    yaml:"get_actions,omitempty"`
	PostActions   []string `json:"post_actions,omitempty"   yaml:"post_actions,omitempty"`
	Callable      bool     `json:"callable"                 yaml:"callable"`
	Searchable    bool     `json:"searchable"               yaml:"searchable"`
	SearchOptions []string `json:"search_options,omitempty" yaml:"search_options,omitempty"`
}

// NewEndpointsCommand creates the endpoints command.
func NewEndpointsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List endpoints and their actions",
		Long:  "List every endpoint with its GET and POST actions, whether it can be called directly and its search options",
		RunE: func(cmd *cobra.Command, args []string) error {
			return outputEndpoints(cmd.OutOrStdout(), viper.GetString(KeyOutput), untappd.DefaultEndpoints())
		},
	}
}

func outputEndpoints(out io.Writer, format string, specs []untappd.EndpointSpec) error {
	infos := make([]EndpointInfo, 0, len(specs))
	for _, spec := range specs {
		infos = append(infos, EndpointInfo{
			Name:          spec.Name,
			Path:          spec.Path,
			GetActions:    spec.GetActions,
			PostActions:   spec.PostActions,
			Callable:      spec.Callable,
			Searchable:    spec.Searchable,
			SearchOptions: spec.SearchOptions,
		})
	}

	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")

		return encoder.Encode(infos)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(out)

		return encoder.Encode(infos)
	default:
		title := cases.Title(language.English)

		table := tablewriter.NewWriter(out)
		table.Header("Endpoint", "Path", "GET Actions", "POST Actions", "Callable", "Search Options")

		for _, info := range infos {
			searchOptions := "-"
			if info.Searchable {
				searchOptions = "q " + strings.Join(info.SearchOptions, " ")
			}

			_ = table.Append(
				title.String(info.Name),
				info.Path,
				joinOrDash(info.GetActions),
				joinOrDash(info.PostActions),
				fmt.Sprintf("%t", info.Callable),
				strings.TrimSpace(searchOptions),
			)
		}

		err := table.Render()
		if err != nil {
			return fmt.Errorf("failed to render table: %w", err)
		}

		return nil
	}
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}

	return strings.Join(values, ", ")
}
