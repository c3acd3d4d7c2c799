package root

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resolve/internal/ui"
)

func newNameCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "name [name]",
		Short: "Show or set the name used in the greeting",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Name", svc.Settings().Name))
				return nil
			}
			if err := svc.SetName(ctx, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Name", svc.Settings().Name))
			return nil
		},
	}
}

func newThemeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light]",
		Short:     "Show or set the board theme",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"dark", "light"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(args) == 1 {
				if err := svc.SetDarkTheme(ctx, args[0] == "dark"); err != nil {
					return err
				}
			}
			theme := "light"
			if svc.DarkTheme(ctx) {
				theme = "dark"
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Theme", theme))
			return nil
		},
	}
}

func newInstallCmd(a *app) *cobra.Command {
	var dismiss bool

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Show how to install shell completion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if dismiss {
				if err := svc.DismissInstallPrompt(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Install hint dismissed."))
				return nil
			}
			svc.AcceptInstallPrompt()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Shell completion"))
			fmt.Fprintln(out, "  bash: "+ui.Key.Render("source <(resolve completion bash)"))
			fmt.Fprintln(out, "  zsh:  "+ui.Key.Render("resolve completion zsh > \"${fpath[1]}/_resolve\""))
			fmt.Fprintln(out, "  fish: "+ui.Key.Render("resolve completion fish | source"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "Stop suggesting this")
	return cmd
}
