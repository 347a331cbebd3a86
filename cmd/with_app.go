package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"trialsage/internal/bootstrap"
	"trialsage/internal/bootstrap/logging"
	"trialsage/internal/errs"
)

func withApp(run func(cmd *cobra.Command, app *bootstrap.App) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		app, err := bootstrap.New(ctx, cfgFile)
		if err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "bootstrap application")
		}

		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := app.Close(closeCtx); err != nil {
				logging.Error(ctx, "application close failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		if err := run(cmd, app); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
