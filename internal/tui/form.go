package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	fieldTitle = iota
	fieldDescription
	fieldDue
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Description", "Due"}

// form is the create/edit form. The description is multi-line markdown,
// so it gets a textarea; title and due are single-line inputs. The values
// the form opened with are kept so an edit only writes what changed.
type form struct {
	title       textinput.Model
	description textarea.Model
	due         textinput.Model
	focus       int
	original    [fieldCount]string
}

func newForm(title, description, due string) form {
	f := form{original: [fieldCount]string{title, description, due}}

	f.title = newInput("What needs doing?", title)
	f.due = newInput("YYYY-MM-DD, tomorrow, next friday... blank for none", due)

	ta := textarea.New()
	ta.Placeholder = "Optional, markdown allowed"
	ta.ShowLineNumbers = false
	// No size limits: descriptions written with the CLI can be any length.
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetWidth(72)
	ta.SetHeight(5)
	ta.SetValue(description)
	ta.Blur()
	f.description = ta

	f.title.Focus()
	return f
}

func newInput(placeholder, value string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = placeholder
	ti.CharLimit = 0
	ti.SetValue(value)
	ti.CursorEnd()
	return ti
}

func (f form) value(field int) string {
	switch field {
	case fieldTitle:
		return f.title.Value()
	case fieldDescription:
		return f.description.Value()
	default:
		return f.due.Value()
	}
}

// changed reports whether the field differs from the value the form
// opened with.
func (f form) changed(field int) bool {
	return f.value(field) != f.original[field]
}

func (f form) setFocus(field int) form {
	f.title.Blur()
	f.description.Blur()
	f.due.Blur()

	f.focus = (field + fieldCount) % fieldCount
	switch f.focus {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.description.Focus()
	default:
		f.due.Focus()
	}
	return f
}

func (f form) next() form { return f.setFocus(f.focus + 1) }
func (f form) prev() form { return f.setFocus(f.focus - 1) }

func (f form) update(msg tea.Msg) (form, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	default:
		f.due, cmd = f.due.Update(msg)
	}
	return f, cmd
}

func (f form) view(heading string) string {
	views := [fieldCount]string{f.title.View(), f.description.View(), f.due.View()}

	var b strings.Builder
	b.WriteString(titleStyle.Render(heading))
	for i, v := range views {
		b.WriteString("\n")
		label := fieldLabels[i]
		if i == f.focus {
			label = accentStyle.Render(label)
		} else {
			label = mutedStyle.Render(label)
		}
		b.WriteString(label + "\n" + v)
	}
	return formStyle.Render(b.String())
}
