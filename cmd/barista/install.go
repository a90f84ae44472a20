package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/barista/internal/config"
	"github.com/sandevgo/barista/internal/service/installer"
	"github.com/sandevgo/barista/pkg/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure Barista and create its runtime directory",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		runtimePath := config.GetRuntimePath()

		// run wizard (includes save step)
		if _, err := installer.RunWizard(afero.NewOsFs(), runtimePath); err != nil {
			return err
		}

		// Load the newly created .env file so the config can be checked right away
		envPath := filepath.Join(runtimePath, ".env")
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}
		if _, err := config.ParseAppConfig(); err != nil {
			logger.Warn().Err(err).Msg("saved configuration is incomplete")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! You can now run 'barista start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
