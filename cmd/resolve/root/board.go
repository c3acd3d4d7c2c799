package root

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"resolve/internal/engine"
	"resolve/internal/logging"
	"resolve/internal/tui"
)

func newBoardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the TUI dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			// Logs go to a file while the board owns the terminal.
			path, err := a.logFilePath()
			if err != nil {
				return err
			}
			if f, err := logging.OpenFile(path); err == nil {
				defer f.Close()
				if _, err := logging.Setup(f, a.cfg.Log.Level, a.cfg.Log.Format); err != nil {
					return err
				}
			} else {
				slog.SetDefault(logging.Discard())
			}

			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, svc, tui.Options{
				ShakeDuration: a.cfg.ShakeDuration(),
				ClockRefresh:  a.cfg.Board.ClockRefresh,
				PageSize:      a.cfg.Vault.PageSize,
				DefaultSort:   engine.SortOption(a.cfg.Momentum.DefaultSort),
			}, cmd.OutOrStdout())
		},
	}

	return cmd
}
