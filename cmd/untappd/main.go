package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/untappd/cmd/untappd/commands"
	"github.com/fivetwenty-io/untappd/internal/constants"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "untappd",
	Short: "Untappd API v4 CLI",
	Long: `A command-line interface for the Untappd API v4.

Query beers, breweries, venues and users, walk through the OAuth flow
and call any endpoint action with raw parameters.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		commands.SetupLogging(viper.GetBool("verbose"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.untappd/config.yml)")
	rootCmd.PersistentFlags().String("client-id", "", "application client ID")
	rootCmd.PersistentFlags().String("client-secret", "", "application client secret")
	rootCmd.PersistentFlags().StringP("token", "t", "", "user access token")
	rootCmd.PersistentFlags().String("redirect-url", "", "OAuth redirect URL")
	rootCmd.PersistentFlags().StringP("output", "o", constants.FormatTable, "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("stats", false, "print request metrics after the command")

	// Bind flags to viper
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag(commands.KeyClientID, rootCmd.PersistentFlags().Lookup("client-id"))
	_ = viper.BindPFlag(commands.KeyClientSecret, rootCmd.PersistentFlags().Lookup("client-secret"))
	_ = viper.BindPFlag(commands.KeyToken, rootCmd.PersistentFlags().Lookup("token"))
	_ = viper.BindPFlag(commands.KeyRedirectURL, rootCmd.PersistentFlags().Lookup("redirect-url"))
	_ = viper.BindPFlag(commands.KeyOutput, rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("stats", rootCmd.PersistentFlags().Lookup("stats"))

	// Add commands
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewAuthCommand())
	rootCmd.AddCommand(commands.NewEndpointsCommand())
	rootCmd.AddCommand(commands.NewCallCommand())
	rootCmd.AddCommand(commands.NewSearchCommand())
}

func initConfig() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfgFile := viper.GetString("config")

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in ~/.untappd/config.yml
		viper.AddConfigPath(filepath.Join(home, constants.ConfigDirName))
		viper.SetConfigType(constants.ConfigFileType)
		viper.SetConfigName(constants.ConfigFileName)
	}

	// Read in environment variables that match
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("verbose") {
			fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
		}
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
