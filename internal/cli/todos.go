package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todo/internal/dates"
	"github.com/mesh-intelligence/todo/internal/state"
	"github.com/mesh-intelligence/todo/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var title, description, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a todo",
		Example: `  todo add --title "Buy milk" --due tomorrow
  todo add --title "Write report" --description "Q3 numbers" --due 2024-01-10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dueAt, err := dates.Parse(due, a.now())
			if err != nil {
				return userError("invalid --due: %w", err)
			}

			return a.withController(cmd.Context(), func(ctrl *state.Controller) error {
				res, err := ctrl.OnCreate(cmd.Context(), title, description, dueAt)
				if err != nil {
					return err
				}
				if !res.OK() {
					return userError("%s", res.Warning)
				}
				return a.report(cmd, ctrl, res)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "todo title (required)")
	cmd.Flags().StringVar(&description, "description", "", "todo description")
	cmd.Flags().StringVar(&due, "due", "", "due date: YYYY-MM-DD or natural language such as \"next friday\"")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List todos",
		Long:    "List todos in ascending id order. Completed todos are hidden unless --all is given or show_completed is set.",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showCompleted := all || a.config.GetBool(cfgKeyShowCompleted)

			return a.withController(cmd.Context(), func(ctrl *state.Controller) error {
				todos := ctrl.Cache().Visible(showCompleted)
				today := a.today()
				out := cmd.OutOrStdout()

				if a.flags.jsonMode {
					rows := make([]todoOutput, 0, len(todos))
					for _, t := range todos {
						rows = append(rows, newTodoOutput(t, today))
					}
					return writeJSON(out, rows)
				}

				if len(todos) == 0 {
					fmt.Fprintln(out, "No todos.")
					return nil
				}
				for _, t := range todos {
					writeTodoLine(out, t, today)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "include completed todos")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withController(cmd.Context(), func(ctrl *state.Controller) error {
				t, ok := ctrl.Cache().Get(id)
				if !ok {
					return fmt.Errorf("todo %d: %w", id, types.ErrNotFound)
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), newTodoOutput(t, a.today()))
				}
				writeTodoDetail(cmd.OutOrStdout(), t, a.today())
				return nil
			})
		},
	}
}

func newEditCmd(a *app) *cobra.Command {
	var title, description, due string
	var clearDue bool

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the title, description or due date of a todo",
		Long:  "Change the fields given as flags. Fields without a flag keep their value.",
		Example: `  todo edit 3 --title "Buy oat milk"
  todo edit 3 --due "next monday"
  todo edit 3 --clear-due`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			var u types.TodoUpdate
			if flags.Changed("title") {
				u.Title = &title
			}
			if flags.Changed("description") {
				u.Description = &description
			}
			switch {
			case clearDue && flags.Changed("due"):
				return userError("--due and --clear-due are mutually exclusive")
			case clearDue:
				u.DueAt = &time.Time{}
			case flags.Changed("due"):
				dueAt, err := dates.Parse(due, a.now())
				if err != nil {
					return userError("invalid --due: %w", err)
				}
				u.DueAt = &dueAt
			}
			if u.IsEmpty() {
				return userError("nothing to change: pass --title, --description, --due or --clear-due")
			}

			return a.withController(cmd.Context(), func(ctrl *state.Controller) error {
				res, err := ctrl.OnEditFields(cmd.Context(), id, u)
				if err != nil {
					return err
				}
				if !res.OK() {
					return userError("%s", res.Warning)
				}
				return a.report(cmd, ctrl, res)
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&due, "due", "", "new due date")
	cmd.Flags().BoolVar(&clearDue, "clear-due", false, "remove the due date")
	return cmd
}

func newDoneCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle the done flag of a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withController(cmd.Context(), func(ctrl *state.Controller) error {
				res, err := ctrl.OnToggleDone(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.report(cmd, ctrl, res)
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a todo",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withController(cmd.Context(), func(ctrl *state.Controller) error {
				res, err := ctrl.OnDelete(cmd.Context(), id)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					return writeJSON(cmd.OutOrStdout(), map[string]any{"id": id, "deleted": true})
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (#%d)\n", res.Message, id)
				return nil
			})
		},
	}
}

// report prints the outcome of a mutation: the todo as JSON, or the
// controller message followed by the todo's summary line.
func (a *app) report(cmd *cobra.Command, ctrl *state.Controller, res state.Result) error {
	out := cmd.OutOrStdout()
	t, ok := ctrl.Cache().Get(res.ID)
	if !ok {
		fmt.Fprintln(out, res.Message)
		return nil
	}
	if a.flags.jsonMode {
		return writeJSON(out, newTodoOutput(t, a.today()))
	}
	fmt.Fprintln(out, res.Message)
	writeTodoLine(out, t, a.today())
	return nil
}

func (a *app) today() time.Time {
	return types.Date(a.now())
}

// parseID parses a positive todo id argument.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, userError("invalid todo id %q: %w", s, types.ErrInvalidID)
	}
	return id, nil
}
