package commands

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/untappd/internal/constants"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
)

// NewCallCommand creates the call command.
func NewCallCommand() *cobra.Command {
	var params []string

	cmd := &cobra.Command{
		Use:   "call ENDPOINT [ACTION] [ID]",
		Short: "Call an endpoint action",
		Long: `Call an endpoint action, e.g. "untappd call beer info 16630".

Without an action the endpoint itself is called, which only callable
endpoints such as notifications support. Extra parameters are passed
with --param key=value.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseKeyValues(params)
			if err != nil {
				return err
			}

			return runWithClient(cmd, func(ctx context.Context, client untappd.Client) (*untappd.Envelope, error) {
				endpoint, err := client.Endpoint(args[0])
				if err != nil {
					return nil, err
				}

				if len(args) == 1 {
					return endpoint.Call(ctx, "", values)
				}

				id := ""
				if len(args) == 3 {
					id = args[2]
				}

				return endpoint.Action(ctx, args[1], id, values)
			})
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "request parameter as key=value (repeatable)")

	return cmd
}

// NewSearchCommand creates the search command.
func NewSearchCommand() *cobra.Command {
	var opts []string

	cmd := &cobra.Command{
		Use:   "search ENDPOINT QUERY",
		Short: "Search a searchable endpoint",
		Long: `Search beers or breweries, e.g. "untappd search beer ipa --opt limit=5".

Options the endpoint does not support are ignored.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[1] == "" {
				return constants.ErrQueryRequired
			}

			values, err := parseKeyValues(opts)
			if err != nil {
				return err
			}

			return runWithClient(cmd, func(ctx context.Context, client untappd.Client) (*untappd.Envelope, error) {
				endpoint, err := client.Endpoint(args[0])
				if err != nil {
					return nil, err
				}

				return endpoint.Search(ctx, args[1], values)
			})
		},
	}

	cmd.Flags().StringArrayVar(&opts, "opt", nil, "search option as key=value (repeatable)")

	return cmd
}

// runWithClient creates a client, runs fn and prints the reply and, with
// --stats, the request metrics.
func runWithClient(cmd *cobra.Command, fn func(context.Context, untappd.Client) (*untappd.Envelope, error)) error {
	var collector *untappd.MetricsCollector
	if viper.GetBool("stats") {
		collector = untappd.NewMetricsCollector()
	}

	client, err := CreateClient(collector)
	if err != nil {
		return err
	}

	envelope, err := fn(cmd.Context(), client)

	if collector != nil {
		statsErr := renderMetrics(cmd.ErrOrStderr(), collector.Snapshot())
		if statsErr != nil && err == nil {
			err = statsErr
		}
	}

	if err != nil {
		return err
	}

	return outputEnvelope(cmd.OutOrStdout(), viper.GetString(KeyOutput), envelope)
}
