// Package tui is the interactive terminal front end. It renders from the
// session cache and routes every user action through state.Controller.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mesh-intelligence/todo/internal/dates"
	"github.com/mesh-intelligence/todo/internal/state"
	"github.com/mesh-intelligence/todo/pkg/types"
)

type mode int

const (
	modeList mode = iota
	modeCreate
	modeEdit
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusWarning
	statusError
)

type status struct {
	kind statusKind
	text string
}

// Options configures the terminal UI.
type Options struct {
	ShowCompleted bool
	MarkdownStyle string
	Now           func() time.Time
	Logger        *slog.Logger
}

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	ctrl   *state.Controller
	now    func() time.Time
	logger *slog.Logger

	keys keyMap
	help help.Model
	list list.Model
	form form
	mode mode

	editID        int64
	showCompleted bool
	mdStyle       string
	status        status

	width, height int
}

// New builds a model over a loaded controller.
func New(ctx context.Context, ctrl *state.Controller, opts Options) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	keys := defaultKeyMap()
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetStatusBarItemName("todo", "todos")
	l.Styles.PaginationStyle = helpStyle

	m := Model{
		ctx:           ctx,
		ctrl:          ctrl,
		now:           opts.Now,
		logger:        opts.Logger,
		keys:          keys,
		help:          help.New(),
		list:          l,
		showCompleted: opts.ShowCompleted,
		mdStyle:       opts.MarkdownStyle,
		width:         80,
		height:        24,
	}
	m.resize()
	m.refreshList()
	return m
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(ctx context.Context, ctrl *state.Controller, opts Options) error {
	p := tea.NewProgram(New(ctx, ctrl, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.resize()
		return m, nil
	}

	switch m.mode {
	case modeCreate, modeEdit:
		return m.updateForm(msg)
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(km, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(km, m.keys.Create):
			m.form = newForm("", "", dates.Format(m.today()))
			m.mode = modeCreate
			m.status = status{}
			return m, nil

		case key.Matches(km, m.keys.Edit):
			t, ok := m.selected()
			if !ok {
				return m, nil
			}
			if m.ctrl.ToggleEditMode(t.ID) {
				m.form = newForm(t.Title, t.Description, dates.Format(t.DueAt))
				m.mode = modeEdit
				m.editID = t.ID
				m.status = status{}
			}
			return m, nil

		case key.Matches(km, m.keys.Toggle):
			t, ok := m.selected()
			if !ok {
				return m, nil
			}
			res, err := m.ctrl.OnToggleDone(m.ctx, t.ID)
			m = m.apply(res, err)
			return m, nil

		case key.Matches(km, m.keys.Delete):
			t, ok := m.selected()
			if !ok {
				return m, nil
			}
			res, err := m.ctrl.OnDelete(m.ctx, t.ID)
			m = m.apply(res, err)
			return m, nil

		case key.Matches(km, m.keys.ShowCompleted):
			m.showCompleted = !m.showCompleted
			m.refreshList()
			if m.showCompleted {
				m.status = status{kind: statusInfo, text: "Showing completed todos."}
			} else {
				m.status = status{kind: statusInfo, text: "Hiding completed todos."}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.form, cmd = m.form.update(msg)
		return m, cmd
	}

	switch {
	case km.Type == tea.KeyCtrlC:
		return m, tea.Quit

	case key.Matches(km, m.keys.Cancel):
		if m.mode == modeEdit && m.ctrl.Cache().Editing(m.editID) {
			m.ctrl.ToggleEditMode(m.editID)
		}
		m.mode = modeList
		m.status = status{}
		return m, nil

	case key.Matches(km, m.keys.NextField):
		m.form = m.form.next()
		return m, nil

	case key.Matches(km, m.keys.PrevField):
		m.form = m.form.prev()
		return m, nil

	case key.Matches(km, m.keys.Submit):
		return m.submit(), nil

	case key.Matches(km, m.keys.Newline) && m.form.focus != fieldDescription:
		// enter inserts a line break in the description and saves elsewhere.
		return m.submit(), nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

// submit sends the form to the controller. The form stays open when the
// input is rejected.
func (m Model) submit() Model {
	title := m.form.value(fieldTitle)
	description := m.form.value(fieldDescription)
	dueText := strings.TrimSpace(m.form.value(fieldDue))

	var (
		due time.Time
		err error
	)
	if m.mode == modeCreate && dueText == "" {
		due = m.today()
	} else if due, err = dates.Parse(dueText, m.now()); err != nil {
		m.status = status{kind: statusWarning, text: fmt.Sprintf("Cannot read due date %q.", dueText)}
		return m
	}

	var res state.Result
	if m.mode == modeCreate {
		res, err = m.ctrl.OnCreate(m.ctx, title, description, due)
	} else {
		res, err = m.ctrl.OnEditFields(m.ctx, m.editID, m.changes(title, description, due))
	}
	if err == nil && !res.OK() {
		m.status = status{kind: statusWarning, text: res.Warning}
		return m
	}

	if m.mode == modeEdit && m.ctrl.Cache().Editing(m.editID) {
		m.ctrl.ToggleEditMode(m.editID)
	}
	m.mode = modeList
	m = m.apply(res, err)
	if err == nil && res.ID != 0 {
		m.selectID(res.ID)
	}
	return m
}

// changes holds only the fields the user touched in the edit form, so
// untouched values are never rewritten.
func (m Model) changes(title, description string, due time.Time) types.TodoUpdate {
	var u types.TodoUpdate
	if m.form.changed(fieldTitle) {
		u.Title = &title
	}
	if m.form.changed(fieldDescription) {
		u.Description = &description
	}
	if m.form.changed(fieldDue) {
		u.DueAt = &due
	}
	return u
}

// apply records the outcome of a controller call and re-renders the list
// from the cache.
func (m Model) apply(res state.Result, err error) Model {
	m.refreshList()
	switch {
	case err != nil:
		m.logger.Error("action failed", "id", res.ID, "error", err)
		m.status = status{kind: statusError, text: err.Error()}
	case !res.OK():
		m.status = status{kind: statusWarning, text: res.Warning}
	default:
		m.status = status{kind: statusInfo, text: res.Message}
	}
	return m
}

// refreshList rebuilds the list items from the cache, keeping the
// selection on the same todo when it is still visible.
func (m *Model) refreshList() {
	var keep int64
	if t, ok := m.selected(); ok {
		keep = t.ID
	}

	today := m.today()
	todos := m.ctrl.Cache().Visible(m.showCompleted)
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, todoItem{todo: t, today: today})
	}
	m.list.SetItems(items)

	if keep != 0 {
		m.selectID(keep)
	}
	if n := len(items); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}
}

func (m *Model) selectID(id int64) {
	for i, it := range m.list.Items() {
		if ti, ok := it.(todoItem); ok && ti.todo.ID == id {
			m.list.Select(i)
			return
		}
	}
}

func (m Model) selected() (*types.Todo, bool) {
	it, ok := m.list.SelectedItem().(todoItem)
	if !ok {
		return nil, false
	}
	return it.todo, true
}

func (m Model) today() time.Time {
	return types.Date(m.now())
}

func (m *Model) resize() {
	listHeight := m.height / 2
	if listHeight < 3 {
		listHeight = 3
	}
	m.list.SetSize(m.width-4, listHeight)
	m.help.Width = m.width - 4
}

func (m Model) View() string {
	var sections []string
	sections = append(sections, m.headerView(), m.list.View())

	switch m.mode {
	case modeCreate:
		sections = append(sections, m.form.view("New todo"))
	case modeEdit:
		sections = append(sections, m.form.view(fmt.Sprintf("Edit #%d", m.editID)))
	default:
		if detail := m.detailView(); detail != "" {
			sections = append(sections, detail)
		}
	}

	if line := m.statusView(); line != "" {
		sections = append(sections, line)
	}

	bindings := m.keys.listHelp()
	if m.mode != modeList {
		bindings = m.keys.formHelp()
	}
	sections = append(sections, m.help.ShortHelpView(bindings))

	return panelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) headerView() string {
	done, pending := m.ctrl.Cache().Counts()
	header := fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
		accentStyle.Render("Total"), done+pending,
	)
	if m.showCompleted {
		header += "  " + mutedStyle.Render("(showing completed)")
	}
	return header
}

func (m Model) detailView() string {
	t, ok := m.selected()
	if !ok {
		switch {
		case m.ctrl.Cache().Len() == 0:
			return mutedStyle.Render("No todos yet. Press a to add one.")
		case len(m.list.Items()) == 0:
			return mutedStyle.Render("All done. Press c to show completed.")
		}
		return ""
	}

	meta := "Created " + dates.Format(t.CreatedAt)
	if t.HasDue() {
		meta += "  Due " + dates.Format(t.DueAt)
	}
	lines := []string{titleStyle.Render(t.Title), mutedStyle.Render(meta)}
	if desc := renderMarkdown(t.Description, m.mdStyle, m.width-6); desc != "" {
		lines = append(lines, desc)
	}
	return strings.Join(lines, "\n")
}

func (m Model) statusView() string {
	switch m.status.kind {
	case statusWarning:
		return pendingStyle.Render(m.status.text)
	case statusError:
		return errorStyle.Render(m.status.text)
	default:
		if m.status.text == "" {
			return ""
		}
		return successStyle.Render(m.status.text)
	}
}
