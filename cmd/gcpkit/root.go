package gcpkit

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/coastwise/gcpkit/pkg/credentials"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "gcpkit",
		Short: "gcpkit: Google Cloud convenience toolkit",
		Long: `gcpkit is a convenience layer over Google Cloud client libraries.

It bundles a batched, retrying embedding client with wrappers for BigQuery,
Cloud Storage, Secret Manager, Sheets, Natural Language, DLP and Cloud
Logging, plus an HTTP server exposing the text endpoints.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			initConfig()
		},
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gcpkit.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("project", "", "Google Cloud project id")

	// Bind flags to viper
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("project.id", rootCmd.PersistentFlags().Lookup("project"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Pick up a local .env before viper reads the environment.
	if err := credentials.LoadEnv(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".gcpkit" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gcpkit")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
