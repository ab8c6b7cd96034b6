package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevel string
	var logJSON bool

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "scoremix",
		Short:         "Compose per-segment music into a video soundtrack",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return configureLogging(cmd, logLevel, logJSON)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to SCOREMIX_LOG_LEVEL or warn")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Emit logs as JSON")

	rootCmd.AddCommand(newComposeCommand(ctx))
	rootCmd.AddCommand(newEffectsCommand())
	rootCmd.AddCommand(newFallbacksCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func configureLogging(cmd *cobra.Command, level string, asJSON bool) error {
	level = strings.TrimSpace(level)
	if level == "" {
		level = os.Getenv("SCOREMIX_LOG_LEVEL")
	}
	if level == "" {
		level = "warn"
	}
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logrus.SetLevel(parsed)
	logrus.SetOutput(cmd.ErrOrStderr())
	if asJSON {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return nil
}
