package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dharmasatrya/flightscanner/internal/app"
	"github.com/dharmasatrya/flightscanner/internal/config"
	"github.com/dharmasatrya/flightscanner/internal/logger"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:           "flightscan",
		Short:         "Find direct and one-stop fares across a flexible date window",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("output", "o", "json", "Output format: json or yaml")
	root.PersistentFlags().String("log-level", "warn", "Log level written to stderr")

	root.AddCommand(searchCmd())
	root.AddCommand(airportsCmd())
	root.AddCommand(destinationsCmd())
	root.AddCommand(versionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildEngine loads configuration the same way the server does and sends
// logs to stderr so stdout stays machine-readable.
func buildEngine(cmd *cobra.Command) (*app.App, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Log.Level = level
	}
	logger.InitWithWriter(cfg.Log, os.Stderr)

	engine, err := app.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	return engine, cfg, nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print flightscan version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "flightscan "+version)
		},
	}
}
