package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mesh-intelligence/todo/internal/dates"
	"github.com/mesh-intelligence/todo/pkg/types"
)

// todoItem adapts a cached todo to list.Item.
type todoItem struct {
	todo  *types.Todo
	today time.Time
}

func (i todoItem) Title() string       { return i.todo.Title }
func (i todoItem) Description() string { return i.todo.Description }
func (i todoItem) FilterValue() string { return i.todo.Title }

// itemDelegate renders one todo per line.
type itemDelegate struct{}

func (d itemDelegate) Height() int                         { return 1 }
func (d itemDelegate) Spacing() int                        { return 0 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(todoItem)
	if !ok {
		return
	}
	t := it.todo

	box := mutedStyle.Render(boxUnchecked)
	text := t.Title
	if t.Done {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
	}

	line := fmt.Sprintf("%s %s %s", box, mutedStyle.Render(fmt.Sprintf("#%d", t.ID)), text)
	if t.HasDue() {
		due := "due " + dates.Format(t.DueAt)
		switch {
		case t.Overdue(it.today):
			due = errorStyle.Render(due)
		case t.Done:
			due = mutedStyle.Render(due)
		default:
			due = pendingStyle.Render(due)
		}
		line += "  " + due
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render(">") + " "
	}
	fmt.Fprint(w, prefix+line)
}
