package main

import (
	"github.com/spf13/cobra"

	"contactbook/pkg/logger"
	"contactbook/services/contact-service/config"
)

// rootOptions are the persistent flags shared by every subcommand
type rootOptions struct {
	configFile string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "contactbook",
		Short: "Contact book with a REST API and a conversational front-end",
		Long: `contactbook stores contacts and lets you manage them over REST or in plain English.

Run without arguments to start the HTTP server.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to contacts.yaml (default: search ., configs, ../configs)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override application.log_level (debug, info, warn, error)")

	root.AddCommand(
		newServeCmd(opts),
		newChatCmd(opts),
		newMigrateCmd(opts),
		newWatchEventsCmd(opts),
	)
	return root
}

// load reads the configuration and builds the application logger from it
func (o *rootOptions) load() (*config.Config, logger.LoggerInterface, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configFile != "" {
		cfg, err = config.LoadFile(o.configFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, nil, err
	}

	level := cfg.Application.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}

	appLogger := logger.New(logger.Config{
		Level:     logger.ParseLevel(level),
		Format:    cfg.Application.LogFormat,
		Component: "contactbook",
	})
	return cfg, appLogger, nil
}
