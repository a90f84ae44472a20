package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sandevgo/barista/pkg/log"
	"github.com/sandevgo/barista/pkg/srv"
	"github.com/spf13/cobra"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the Barista services",
	Long:  `Initializes and starts all configured services (Telegram) and runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// logger setup
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting barista")

		// Define services using the setup.go logic
		services := NewServices(ctx)
		if len(services) == 1 {
			logger.Warn().Msg("no chat transport enabled, use 'barista ask' to talk to the bot")
		}

		if err := srv.Run(ctx, services, srv.DefaultShutdownTimeout); err != nil {
			return err
		}

		logger.Info().Msg("barista has been shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}
