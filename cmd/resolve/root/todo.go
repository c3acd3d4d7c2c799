package root

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"resolve/internal/engine"
	"resolve/internal/ui"
)

func newTodoCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "todo",
		Aliases: []string{"t"},
		Short:   "Manage today's Momentum tasks",
	}
	cmd.AddCommand(
		newTodoAddCmd(a),
		newTodoListCmd(a),
		newTodoDoneCmd(a),
		newTodoRmCmd(a),
		newTodoClearCmd(a),
		newTodoDueCmd(a),
	)
	return cmd
}

func newTodoAddCmd(a *app) *cobra.Command {
	var desc, prio, category, due string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := engine.ParsePriority(prio)
			if err != nil {
				return err
			}
			c, err := engine.ParseTodoCategory(category)
			if err != nil {
				return err
			}

			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := svc.Momentum().Add(ctx, engine.AddTodoInput{
				Title:       strings.Join(args, " "),
				Description: desc,
				Priority:    p,
				Category:    c,
				DueDate:     due,
			})
			if err != nil {
				return err
			}
			if t == nil {
				return errors.New("title is required")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Good.Render(ui.IconPlus+" Added"), todoLine(*t))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().StringVarP(&prio, "priority", "p", "Medium", "Priority (High|Medium|Low)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Category (Work|Personal|Health|Learning|Shopping|Other)")
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	return cmd
}

func newTodoListCmd(a *app) *cobra.Command {
	var search, status, category, prio, sortBy string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if sortBy == "" {
				sortBy = a.cfg.Momentum.DefaultSort
			}
			f, err := parseTodoFilter(search, status, category, prio, sortBy)
			if err != nil {
				return err
			}

			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			mom := svc.Momentum()
			out := cmd.OutOrStdout()
			st := mom.Stats()
			fmt.Fprintln(out, ui.Heading(ui.IconTarget, "Momentum"))
			fmt.Fprintf(out, "%s  %s  %s\n",
				ui.LabelValue("Active", st.Active), ui.LabelValue("Done", st.Completed), ui.LabelValue("Velocity", ui.Percent(mom.Velocity())))
			fmt.Fprintln(out, "")

			list := mom.Query(f)
			if len(list) == 0 {
				if st.Total == 0 {
					fmt.Fprintln(out, ui.Muted.Render("No tasks yet. Add one with `resolve todo add`."))
				} else {
					fmt.Fprintln(out, ui.Muted.Render("No tasks match."))
				}
				return nil
			}
			for _, t := range list {
				printTodo(out, t)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text search")
	cmd.Flags().StringVar(&status, "status", "all", "all|active|completed")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Only this category")
	cmd.Flags().StringVarP(&prio, "priority", "p", "", "Only this priority")
	cmd.Flags().StringVar(&sortBy, "sort", "", "newest|oldest|priority-high|priority-low|category (default from config)")
	return cmd
}

func parseTodoFilter(search, status, category, prio, sortBy string) (engine.TodoFilter, error) {
	f := engine.TodoFilter{Search: search}
	var err error
	if f.Status, err = engine.ParseStatusFilter(status); err != nil {
		return f, err
	}
	if f.Category, err = engine.ParseTodoCategory(category); err != nil {
		return f, err
	}
	if prio != "" {
		if f.Priority, err = engine.ParsePriority(prio); err != nil {
			return f, err
		}
	}
	if f.Sort, err = engine.ParseSortOption(sortBy); err != nil {
		return f, err
	}
	return f, nil
}

func newTodoDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between active and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := svc.Momentum().Find(args[0])
			if err != nil {
				return err
			}
			t, err = svc.Momentum().Toggle(ctx, t.ID)
			if err != nil {
				return err
			}
			verb := ui.Good.Render(ui.IconDone + " Completed")
			if !t.Completed {
				verb = ui.Warn.Render("↩ Reopened")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, t.Text)
			return nil
		},
	}
}

func newTodoRmCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := svc.Momentum().Find(args[0])
			if err != nil {
				return err
			}
			if _, err := svc.Momentum().Delete(ctx, t.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Warn.Render(ui.IconTrash+" Deleted"), t.Text)
			return nil
		},
	}
}

func newTodoClearCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every completed task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.Momentum().DeleteCompleted(ctx)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No completed tasks to clear."))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", ui.Good.Render(fmt.Sprintf("%s Deleted %d completed task(s)", ui.IconTrash, n)))
			return nil
		},
	}
}

func newTodoDueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "due <id> [YYYY-MM-DD]",
		Short: "Set or clear a task's due date",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := a.openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			t, err := svc.Momentum().Find(args[0])
			if err != nil {
				return err
			}
			date := ""
			if len(args) == 2 {
				date = args[1]
			}
			if err := svc.Momentum().SetDueDate(ctx, t.ID, date); err != nil {
				return err
			}
			if date == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Muted.Render("Cleared due date of"), t.Text)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.LabelValue("Due", date), t.Text)
			return nil
		},
	}
}

func todoLine(t engine.Todo) string {
	text := t.Text
	if t.Completed {
		text = ui.Struck.Render(text)
	}
	parts := []string{ui.Muted.Render(engine.ShortID(t.ID)), ui.StatusIcon(t.Completed), text, ui.PriorityText(string(t.Priority))}
	if c := ui.CategoryText(string(t.Category)); c != "" {
		parts = append(parts, c)
	}
	if t.DueDate != nil {
		parts = append(parts, ui.Muted.Render("due "+*t.DueDate))
	}
	return strings.Join(parts, " ")
}

func printTodo(out io.Writer, t engine.Todo) {
	fmt.Fprintln(out, todoLine(t))
	if t.Description != "" {
		fmt.Fprintln(out, "           "+ui.Muted.Render(t.Description))
	}
}
