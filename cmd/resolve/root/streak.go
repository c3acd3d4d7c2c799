package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resolve/internal/ui"
)

func newStreakCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "streak",
		Short: "Show the daily visit streak",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			st := svc.Streak()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconFire, fmt.Sprintf("%d day streak", st.CurrentStreak)))
			fmt.Fprintln(out, ui.LabelValue("Last visit", st.LastVisit))
			fmt.Fprintln(out, ui.LabelValue("Days visited", len(st.AllVisits)))
			return nil
		},
	}
}
