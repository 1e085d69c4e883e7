package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raytag/endpoint/internal/app"
	"github.com/raytag/endpoint/internal/observability"
)

var verboseEngineLog bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the endpoint core (boot-mode detection, then provisioning or station)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		return app.Run(ctx, app.Config{
			Observability: observability.Config{VerboseEngineLog: verboseEngineLog},
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&verboseEngineLog, "verbose-engine-log", false, "log engine state on every tick")
}
