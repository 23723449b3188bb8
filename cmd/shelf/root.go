package main

import (
	"sync"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/shelf/internal/shelf/app"
)

type commandContext struct {
	envFile *string

	configOnce sync.Once
	config     app.Config
	configErr  error
}

func (c *commandContext) ensureConfig() (app.Config, error) {
	c.configOnce.Do(func() {
		c.config, c.configErr = app.LoadConfig(*c.envFile)
	})
	return c.config, c.configErr
}

func newRootCommand() *cobra.Command {
	var envFile string
	ctx := &commandContext{envFile: &envFile}

	rootCmd := &cobra.Command{
		Use:           "shelf",
		Short:         "Shelf book tracking service",
		Version:       app.BuildVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before reading configuration")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newMigrateCommand(ctx))

	return rootCmd
}
