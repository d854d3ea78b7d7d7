package commands

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fivetwenty-io/untappd/internal/constants"
)

// NewAuthCommand creates the auth command group.
func NewAuthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authorize the CLI with an Untappd account",
		Long: `Run the OAuth authorization flow.

Open the page printed by "auth url", approve the application and pass the
code from the redirect to "auth token". The resulting access token is saved
to the config file and used for every later request.`,
	}

	cmd.AddCommand(newAuthURLCommand())
	cmd.AddCommand(newAuthTokenCommand())

	return cmd
}

func newAuthURLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "url",
		Short: "Print the authorization page URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.ClientID == "" || config.ClientSecret == "" {
				return fmt.Errorf("%w: client_id and client_secret are required", constants.ErrNoCredentialsConfigured)
			}

			client, err := createClientFromConfig(config, nil)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), client.OAuth().AuthURL())

			return nil
		},
	}
}

func newAuthTokenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "token CODE",
		Short: "Exchange an authorization code for an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.ClientID == "" {
				return fmt.Errorf("%w: client_id is required", constants.ErrNoCredentialsConfigured)
			}

			if config.ClientSecret == "" {
				secret, err := promptSecret(cmd, "Client secret: ")
				if err != nil {
					return err
				}

				config.ClientSecret = secret
			}

			client, err := createClientFromConfig(config, nil)
			if err != nil {
				return err
			}

			token, err := client.OAuth().AccessToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			err = client.SetAccessToken(token)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Access token saved to %s\n", configFilePath())

			return nil
		},
	}
}

func promptSecret(cmd *cobra.Command, prompt string) (string, error) {
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), prompt)

	secretBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.ErrOrStderr())

	secret := strings.TrimSpace(string(secretBytes))
	if secret == "" {
		return "", constants.ErrNoClientSecret
	}

	return secret, nil
}
