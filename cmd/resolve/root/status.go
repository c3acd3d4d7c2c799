package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"resolve/internal/engine"
	"resolve/internal/ui"
)

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show greeting, streak, Momentum numbers and Vault state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			out := cmd.OutOrStdout()
			greeting := engine.Greeting(time.Now())
			if name := svc.Settings().Name; name != "" {
				greeting += ", " + name
			}
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, greeting))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d day(s)", ui.IconFire, svc.Streak().CurrentStreak)))
			if at, ok := svc.LastSaved(ctx); ok {
				fmt.Fprintln(out, ui.LabelValue("Last saved", at.Local().Format("2006-01-02 15:04")))
			}
			fmt.Fprintln(out, "")

			mom := svc.Momentum()
			st := mom.Stats()
			fmt.Fprintln(out, ui.H2.Render(ui.IconTarget+" Momentum"))
			fmt.Fprintf(out, "- %s\n", ui.LabelValue("Tasks", st.Total))
			fmt.Fprintf(out, "- %s\n", ui.LabelValue("Active", st.Active))
			fmt.Fprintf(out, "- %s\n", ui.LabelValue("Completed", st.Completed))
			fmt.Fprintf(out, "- %s\n", ui.LabelValue("Velocity", ui.Percent(mom.Velocity())))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconLock+" The Vault"))
			if svc.HasPIN() {
				fmt.Fprintf(out, "- %s %s\n", ui.Key.Render("PIN:"), ui.Good.Render("set"))
			} else {
				fmt.Fprintf(out, "- %s %s %s\n", ui.Key.Render("PIN:"), ui.Warn.Render("not set"), ui.Muted.Render("(resolve vault setup)"))
			}

			if svc.InstallPromptVisible(ctx) {
				fmt.Fprintln(out, "")
				fmt.Fprintln(out, ui.Muted.Render("💡 Shell completion is available: `resolve install` (or `resolve install --dismiss`)"))
			}
			return nil
		},
	}
}
