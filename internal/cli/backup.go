package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write every todo to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openStore()
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := b.ExportJSONL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"file": args[0], "exported": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d todos to %s\n", n, args[0])
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add the todos from a JSONL file",
		Long:  "Add every record of a JSONL export as a new todo. Imported todos get fresh ids; existing todos are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.openStore()
			if err != nil {
				return err
			}
			defer b.Close()

			n, err := b.ImportJSONL(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{"file": args[0], "imported": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d todos from %s\n", n, args[0])
			return nil
		},
	}
}
