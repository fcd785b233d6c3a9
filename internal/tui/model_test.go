package tui

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/todo/internal/logging"
	"github.com/mesh-intelligence/todo/internal/sqlite"
	"github.com/mesh-intelligence/todo/internal/state"
	"github.com/mesh-intelligence/todo/pkg/types"
)

var fixedNow = time.Date(2024, time.January, 5, 9, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T, seed ...string) (Model, *state.Controller) {
	t.Helper()
	ctx := context.Background()
	clock := func() time.Time { return fixedNow }

	b, err := sqlite.Open(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}, sqlite.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { b.Close() })

	for _, title := range seed {
		_, err := b.Insert(ctx, types.NewTodo{Title: title})
		require.NoError(t, err)
	}

	ctrl := state.NewController(b, state.NewCache(), logging.Discard())
	require.NoError(t, ctrl.Load(ctx))

	m := New(ctx, ctrl, Options{Now: clock, MarkdownStyle: "notty", Logger: logging.Discard()})
	return m, ctrl
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

// fill sets a form field directly, skipping per-key typing.
func fill(m Model, field int, v string) Model {
	switch field {
	case fieldTitle:
		m.form.title.SetValue(v)
	case fieldDescription:
		m.form.description.SetValue(v)
	default:
		m.form.due.SetValue(v)
	}
	return m
}

func TestNew_ListsPendingOnly(t *testing.T) {
	m, ctrl := newTestModel(t, "one", "two")
	_, err := ctrl.OnToggleDone(context.Background(), 1)
	require.NoError(t, err)

	m = send(t, m, runes("c"))
	assert.Len(t, m.list.Items(), 2)
	assert.True(t, m.showCompleted)

	m = send(t, m, runes("c"))
	assert.Len(t, m.list.Items(), 1)
	sel, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "two", sel.Title)
}

func TestCreateForm(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = send(t, m, runes("a"))
	require.Equal(t, modeCreate, m.mode)
	assert.Equal(t, "2024-01-05", m.form.value(fieldDue), "due defaults to today")

	m = fill(m, fieldTitle, "Buy milk")
	m = fill(m, fieldDescription, "*2%*")
	m = fill(m, fieldDue, "2024-01-10")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, "Todo created successfully!", m.status.text)

	got, ok := ctrl.Cache().Get(1)
	require.True(t, ok)
	assert.Equal(t, "Buy milk", got.Title)
	assert.Equal(t, time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC), got.DueAt)

	sel, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, int64(1), sel.ID)
	assert.Contains(t, m.View(), "Buy milk")
}

func TestCreateForm_BlankDueIsToday(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = send(t, m, runes("a"))
	m = fill(m, fieldTitle, "Today's task")
	m = fill(m, fieldDue, "")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	got, ok := ctrl.Cache().Get(1)
	require.True(t, ok)
	assert.Equal(t, types.Date(fixedNow), got.DueAt)
}

func TestCreateForm_EmptyTitleStaysOpen(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = send(t, m, runes("a"))
	m = fill(m, fieldTitle, "   ")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeCreate, m.mode)
	assert.Equal(t, statusWarning, m.status.kind)
	assert.Equal(t, "Title cannot be empty.", m.status.text)
	assert.Equal(t, 0, ctrl.Cache().Len())
}

func TestCreateForm_BadDueStaysOpen(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = send(t, m, runes("a"))
	m = fill(m, fieldTitle, "Something")
	m = fill(m, fieldDue, "qwerty")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeCreate, m.mode)
	assert.Equal(t, statusWarning, m.status.kind)
	assert.Equal(t, 0, ctrl.Cache().Len())
}

func TestCreateForm_Cancel(t *testing.T) {
	m, ctrl := newTestModel(t)

	m = send(t, m, runes("a"))
	m = fill(m, fieldTitle, "never saved")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeList, m.mode)
	assert.Equal(t, 0, ctrl.Cache().Len())
}

func TestEditForm(t *testing.T) {
	m, ctrl := newTestModel(t, "Draft")

	m = send(t, m, runes("e"))
	require.Equal(t, modeEdit, m.mode)
	assert.True(t, ctrl.Cache().Editing(1))
	assert.Equal(t, "Draft", m.form.value(fieldTitle))

	m = fill(m, fieldTitle, "Final")
	m = fill(m, fieldDue, "")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, modeList, m.mode)
	assert.False(t, ctrl.Cache().Editing(1))
	got, _ := ctrl.Cache().Get(1)
	assert.Equal(t, "Final", got.Title)
	assert.False(t, got.HasDue(), "blank due clears it when editing")
}

func TestEditForm_CancelLeavesEditMode(t *testing.T) {
	m, ctrl := newTestModel(t, "Draft")

	m = send(t, m, runes("e"))
	m = fill(m, fieldTitle, "Changed")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeList, m.mode)
	assert.False(t, ctrl.Cache().Editing(1))
	got, _ := ctrl.Cache().Get(1)
	assert.Equal(t, "Draft", got.Title)
}

func TestEditForm_TitleOnlyKeepsLongDescription(t *testing.T) {
	m, ctrl := newTestModel(t)
	ctx := context.Background()

	var paras []string
	for i := 0; i < 5; i++ {
		paras = append(paras, "- "+strings.Repeat("step "+strconv.Itoa(i)+" of the plan ", 8))
	}
	long := strings.Join(paras, "\n")
	require.Greater(t, len(long), 600)
	require.Equal(t, 4, strings.Count(long, "\n"))

	res, err := ctrl.OnCreate(ctx, "Plan", long, time.Time{})
	require.NoError(t, err)
	m.refreshList()
	m.selectID(res.ID)

	m = send(t, m, runes("e"))
	require.Equal(t, modeEdit, m.mode)
	assert.Equal(t, long, m.form.value(fieldDescription), "form opens with the full description")

	m = fill(m, fieldTitle, "Plan v2")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	require.Equal(t, modeList, m.mode)
	assert.Equal(t, "Todo updated.", m.status.text)
	got, ok := ctrl.Cache().Get(res.ID)
	require.True(t, ok)
	assert.Equal(t, "Plan v2", got.Title)
	assert.Equal(t, long, got.Description)
}

func TestEditForm_DescriptionIsMultiLine(t *testing.T) {
	m, ctrl := newTestModel(t, "Notes")

	m = send(t, m, runes("e"))
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, fieldDescription, m.form.focus)

	m = send(t, m, runes("first"), tea.KeyMsg{Type: tea.KeyEnter}, runes("second"))
	assert.Equal(t, modeEdit, m.mode, "enter adds a line inside the description")
	assert.Equal(t, "first\nsecond", m.form.value(fieldDescription))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.Equal(t, modeList, m.mode)
	got, _ := ctrl.Cache().Get(1)
	assert.Equal(t, "Notes", got.Title)
	assert.Equal(t, "first\nsecond", got.Description)
}

func TestToggleAndDelete(t *testing.T) {
	m, ctrl := newTestModel(t, "one", "two")

	m = send(t, m, runes("x"))
	got, _ := ctrl.Cache().Get(1)
	assert.True(t, got.Done)
	assert.Equal(t, "Marked done.", m.status.text)
	assert.Len(t, m.list.Items(), 1, "done todo is hidden")

	m = send(t, m, runes("d"))
	assert.Equal(t, "Todo deleted.", m.status.text)
	_, ok := ctrl.Cache().Get(2)
	assert.False(t, ok)
	assert.Empty(t, m.list.Items())
	view := m.View()
	assert.Contains(t, view, "All done. Press c to show completed.")
	assert.NotContains(t, view, "No todos yet")

	m = send(t, m, runes("c"))
	assert.Len(t, m.list.Items(), 1)
	m = send(t, m, runes("d"))
	assert.Contains(t, m.View(), "No todos yet")
}

func TestFormFieldNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m = send(t, m, runes("a"))
	assert.Equal(t, fieldTitle, m.form.focus)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldDescription, m.form.focus)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab}, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, fieldTitle, m.form.focus, "focus wraps around")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, fieldDue, m.form.focus)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderMarkdown(t *testing.T) {
	assert.Empty(t, renderMarkdown("  ", "notty", 40))
	assert.Contains(t, renderMarkdown("some **bold** text", "notty", 40), "bold")
}
