package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Create        key.Binding
	Edit          key.Binding
	Toggle        key.Binding
	Delete        key.Binding
	ShowCompleted key.Binding
	Quit          key.Binding

	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Newline   key.Binding
	Cancel    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Create:        key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add")),
		Edit:          key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Toggle:        key.NewBinding(key.WithKeys(" ", "x"), key.WithHelp("space", "done")),
		Delete:        key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		ShowCompleted: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "show completed")),
		Quit:          key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		NextField: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		PrevField: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Newline:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save / new line")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

func (k keyMap) listHelp() []key.Binding {
	return []key.Binding{k.Create, k.Edit, k.Toggle, k.Delete, k.ShowCompleted, k.Quit}
}

func (k keyMap) formHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.Newline, k.Submit, k.Cancel}
}
