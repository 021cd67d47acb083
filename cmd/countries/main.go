// Package main implements the countries service: a read-only HTTP API over
// a fixed country dataset loaded once at startup.
//
// Commands:
//
//	countries serve     load the dataset and serve the HTTP API
//	countries validate  load the dataset, report problems, exit non-zero on failure
//	countries query     call a running server and print the JSON result
//
// Configuration precedence is flag, then COUNTRIES_* environment variable,
// then config file, then default:
//
//	--addr                 COUNTRIES_ADDR                 (default "127.0.0.1:4123")
//	--data                 COUNTRIES_DATA                 (default "input.json")
//	--log-level            COUNTRIES_LOG_LEVEL            (default "info")
//	--log-format           COUNTRIES_LOG_FORMAT           (default "text")
//	--strict-ids           COUNTRIES_STRICT_IDS           (default false)
//	--rate-limit           COUNTRIES_RATE_LIMIT           (default 0, disabled)
//	--rate-burst           COUNTRIES_RATE_BURST           (default 20)
//	--shutdown-timeout     COUNTRIES_SHUTDOWN_TIMEOUT     (default 5s)
//	--read-header-timeout  COUNTRIES_READ_HEADER_TIMEOUT  (default 5s)
//
// Example:
//
//	COUNTRIES_DATA=./input.json countries serve --addr :4123
//	curl 'localhost:4123/api/countries?filter_name=an'
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version is set at build time
	Version = "dev"

	cfgFile string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "countries",
		Short: "Read-only country lookup API",
		Long: `countries serves a fixed list of country records over HTTP.

The dataset is read once at startup from a JSON (or YAML) array. A missing
or malformed file stops the process before any listener is opened.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./countries.yaml if present)")
	root.PersistentFlags().String("data", "input.json", "dataset file (.json, .yaml or .yml)")
	root.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "text", "log format: text or json")
	root.PersistentFlags().Bool("strict-ids", false, "fail the load when two records share an id")

	for _, key := range []string{"data", "log-level", "log-format", "strict-ids"} {
		_ = viper.BindPFlag(key, root.PersistentFlags().Lookup(key))
	}

	root.AddCommand(newServeCmd(), newValidateCmd(), newQueryCmd())
	return root
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("countries")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("COUNTRIES")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A missing config file is fine; everything has a default.
	_ = viper.ReadInConfig()
}

func main() {
	cobra.OnInitialize(initConfig)
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
