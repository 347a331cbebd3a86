package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"trialsage/internal/bootstrap"
	"trialsage/internal/bootstrap/logging"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Drain the export job queue once and exit",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		_, exportWorker := buildServices(app)

		logging.Info(ctx, "draining export queue")
		exportWorker.Drain(ctx)
		logging.Info(ctx, "export queue drained")
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(workerCmd)
}
