package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/todo/internal/state"
	"github.com/mesh-intelligence/todo/internal/tui"
)

func newTUICmd(a *app) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withController(cmd.Context(), func(ctrl *state.Controller) error {
				a.logger.Info("session started", "session", ctrl.Cache().SessionID(), "todos", ctrl.Cache().Len())
				return tui.Run(cmd.Context(), ctrl, tui.Options{
					ShowCompleted: all || a.config.GetBool(cfgKeyShowCompleted),
					MarkdownStyle: a.config.GetString(cfgKeyMarkdownStyle),
					Now:           a.now,
					Logger:        a.logger,
				})
			})
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "show completed todos")
	return cmd
}
