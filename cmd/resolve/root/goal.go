package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"resolve/internal/engine"
	"resolve/internal/ui"
)

func newGoalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "goal",
		Aliases: []string{"resolution"},
		Short:   "Manage Vault resolutions (PIN required)",
	}
	cmd.AddCommand(
		newGoalAddCmd(a),
		newGoalListCmd(a),
		newGoalDoneCmd(a),
		newGoalIncCmd(a),
		newGoalRmCmd(a),
	)
	return cmd
}

// withVault opens the service, asks for the PIN and hands over the unlocked
// resolution manager.
func (a *app) withVault(cmd *cobra.Command, fn func(ctx context.Context, res *engine.Resolutions) error) error {
	ctx := context.Background()
	svc, cleanup, err := a.openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := unlockVault(ctx, svc, newPrompter(cmd)); err != nil {
		return err
	}
	res, err := svc.Resolutions()
	if err != nil {
		return err
	}
	return fn(ctx, res)
}

func newGoalAddCmd(a *app) *cobra.Command {
	var category, unit string
	var target float64

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a resolution",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := engine.ParseResolutionCategory(category)
			if err != nil {
				return err
			}
			return a.withVault(cmd, func(ctx context.Context, res *engine.Resolutions) error {
				g, err := res.Add(ctx, engine.AddResolutionInput{
					Title:    strings.Join(args, " "),
					Category: c,
					Target:   target,
					Unit:     unit,
				})
				if err != nil {
					return err
				}
				if g == nil {
					return errors.New("title is required")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconPlus+" Added"), goalLine(*g))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", string(engine.DefaultResolutionCategory), "Category (Personal|Coding|Finance|Health|Career)")
	cmd.Flags().Float64VarP(&target, "target", "t", engine.DefaultResolutionTarget, "Target amount")
	cmd.Flags().StringVarP(&unit, "unit", "u", engine.DefaultResolutionUnit, "Unit label")
	return cmd
}

func newGoalListCmd(a *app) *cobra.Command {
	var search string
	var page int

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List resolutions, one page at a time",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withVault(cmd, func(ctx context.Context, res *engine.Resolutions) error {
				out := cmd.OutOrStdout()
				st := res.Stats()
				fmt.Fprintln(out, ui.Heading(ui.IconUnlock, "The Vault"))
				fmt.Fprintf(out, "%s  %s  %s %s\n",
					ui.LabelValue("Resolutions", st.Total), ui.LabelValue("Sealed", st.Sealed),
					ui.LabelValue("Overall", ui.ProgressBar(float64(st.OverallProgress)/100, 20)), ui.Percent(st.OverallProgress))
				fmt.Fprintln(out, "")

				p := res.Paginate(search, a.cfg.Vault.PageSize, page)
				if len(p.Items) == 0 {
					fmt.Fprintln(out, ui.Muted.Render("Nothing to show."))
					return nil
				}
				for _, g := range p.Items {
					fmt.Fprintln(out, goalLine(g))
				}
				fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Page %d of %d", p.Page, max(p.TotalPages, 1))))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive title search")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	return cmd
}

func newGoalDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a resolution as complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withVault(cmd, func(ctx context.Context, res *engine.Resolutions) error {
				g, err := res.Find(args[0])
				if err != nil {
					return err
				}
				g, err = res.MarkComplete(ctx, g.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Gold.Render(ui.IconTrophy+" Sealed"), goalLine(*g))
				return nil
			})
		},
	}
}

func newGoalIncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "inc <id>",
		Short: "Add one unit of progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withVault(cmd, func(ctx context.Context, res *engine.Resolutions) error {
				g, err := res.Find(args[0])
				if err != nil {
					return err
				}
				g, err = res.Increment(ctx, g.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render("+1"), goalLine(*g))
				return nil
			})
		},
	}
}

func newGoalRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a resolution",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withVault(cmd, func(ctx context.Context, res *engine.Resolutions) error {
				g, err := res.Find(args[0])
				if err != nil {
					return err
				}
				if _, err := res.Delete(ctx, g.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconTrash+" Deleted"), g.Title)
				return nil
			})
		},
	}
}

func goalLine(g engine.Resolution) string {
	line := fmt.Sprintf("%s %s %s %s %s/%s %s",
		ui.Muted.Render(engine.ShortID(g.ID)), g.Title, ui.CategoryText(string(g.Category)),
		ui.ProgressBar(g.Progress(), 20),
		strconv.FormatFloat(g.Current, 'f', -1, 64), strconv.FormatFloat(g.Target, 'f', -1, 64), g.Unit)
	if g.IsCompleted() {
		line += " " + ui.BadgeSealed
	}
	return line
}
