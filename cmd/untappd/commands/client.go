package commands

import (
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/untappd/internal/constants"
	"github.com/fivetwenty-io/untappd/pkg/untappd"
	"github.com/fivetwenty-io/untappd/pkg/untappdclient"
)

const userAgent = "untappd-cli"

// CreateClient creates a client from the effective configuration. collector
// may be nil; when set, every request is recorded in it.
func CreateClient(collector *untappd.MetricsCollector) (untappd.Client, error) {
	return createClientFromConfig(loadConfig(), collector)
}

func createClientFromConfig(config *Config, collector *untappd.MetricsCollector) (untappd.Client, error) {
	clientConfig, err := buildClientConfig(config)
	if err != nil {
		return nil, err
	}

	if collector != nil {
		chain := untappd.NewInterceptorChain()
		chain.AddRequestInterceptor(untappd.MetricsRequestInterceptor(collector))
		chain.AddResponseInterceptor(untappd.MetricsResponseInterceptor(collector))
		clientConfig.Interceptors = chain
	}

	client, err := untappdclient.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// buildClientConfig maps the CLI configuration onto the library's.
func buildClientConfig(config *Config) (*untappd.Config, error) {
	if config.Token == "" && (config.ClientID == "" || config.ClientSecret == "") {
		return nil, constants.ErrNoCredentialsConfigured
	}

	clientConfig := &untappd.Config{
		ClientID:        config.ClientID,
		ClientSecret:    config.ClientSecret,
		AccessToken:     config.Token,
		RedirectURL:     config.RedirectURL,
		BaseURL:         config.BaseURL,
		UserAgent:       userAgent,
		RequestAttempts: config.Attempts,
		Debug:           viper.GetBool("verbose"),
		Logger:          NewLogger(),
		TokenPersister:  NewConfigPersister(configFilePath()),
	}

	if config.RetryWait != "" {
		wait, err := time.ParseDuration(config.RetryWait)
		if err != nil {
			return nil, fmt.Errorf("%w: retry_wait: %w", constants.ErrInvalidKeyValue, err)
		}

		clientConfig.RetryWait = wait
	}

	return clientConfig, nil
}

// parseKeyValues turns key=value pairs into url.Values. Repeated keys keep
// every value.
func parseKeyValues(pairs []string) (url.Values, error) {
	values := url.Values{}

	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("%w: %q", constants.ErrInvalidKeyValue, pair)
		}

		values.Add(key, value)
	}

	return values, nil
}

// renderMetrics prints one row per endpoint, sorted.
func renderMetrics(out io.Writer, snapshot map[string]untappd.Metrics) error {
	endpoints := make([]string, 0, len(snapshot))
	for endpoint := range snapshot {
		endpoints = append(endpoints, endpoint)
	}

	sort.Strings(endpoints)

	table := tablewriter.NewWriter(out)
	table.Header("Endpoint", "Requests", "Errors", "Attempts", "Avg Latency")

	for _, endpoint := range endpoints {
		metrics := snapshot[endpoint]
		_ = table.Append(
			endpoint,
			fmt.Sprintf("%d", metrics.TotalRequests),
			fmt.Sprintf("%d", metrics.TotalErrors),
			fmt.Sprintf("%d", metrics.TotalAttempts),
			metrics.AverageLatency.Round(time.Millisecond).String(),
		)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}
