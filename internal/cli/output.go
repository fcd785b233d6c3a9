package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/mesh-intelligence/todo/internal/dates"
	"github.com/mesh-intelligence/todo/pkg/types"
)

// todoOutput is the --json shape of a todo. Dates are calendar dates.
type todoOutput struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CreatedAt   string `json:"created_at"`
	DueAt       string `json:"due_at,omitempty"`
	Done        bool   `json:"done"`
	Overdue     bool   `json:"overdue"`
}

func newTodoOutput(t *types.Todo, today time.Time) todoOutput {
	return todoOutput{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   dates.Format(t.CreatedAt),
		DueAt:       dates.Format(t.DueAt),
		Done:        t.Done,
		Overdue:     t.Overdue(today),
	}
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// writeTodoLine prints the one-line summary used by list.
func writeTodoLine(w io.Writer, t *types.Todo, today time.Time) {
	box := "[ ]"
	if t.Done {
		box = "[x]"
	}
	line := fmt.Sprintf("%s %d  %s", box, t.ID, t.Title)
	if t.HasDue() {
		line += "  (due " + dates.Format(t.DueAt)
		if t.Overdue(today) {
			line += ", overdue"
		}
		line += ")"
	}
	fmt.Fprintln(w, line)
}

// writeTodoDetail prints every field of a todo.
func writeTodoDetail(w io.Writer, t *types.Todo, today time.Time) {
	status := "pending"
	if t.Done {
		status = "done"
	} else if t.Overdue(today) {
		status = "overdue"
	}
	due := dates.Format(t.DueAt)
	if due == "" {
		due = "-"
	}

	fmt.Fprintf(w, "ID:          %d\n", t.ID)
	fmt.Fprintf(w, "Title:       %s\n", t.Title)
	fmt.Fprintf(w, "Status:      %s\n", status)
	fmt.Fprintf(w, "Created:     %s\n", dates.Format(t.CreatedAt))
	fmt.Fprintf(w, "Due:         %s\n", due)
	if t.Description != "" {
		fmt.Fprintf(w, "Description:\n%s\n", t.Description)
	}
}
