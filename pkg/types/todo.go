package types

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date layout used on disk and on the wire.
const DateLayout = "2006-01-02"

// Todo is a single task tracked by the store.
type Todo struct {
	ID          int64     `json:"id"`          // Assigned by the store on insert.
	Title       string    `json:"title"`       // Required, never blank.
	Description string    `json:"description"` // Free-form, may be empty.
	CreatedAt   time.Time `json:"created_at"`  // Calendar date of creation; immutable.
	DueAt       time.Time `json:"due_at"`      // Zero value means no due date.
	Done        bool      `json:"done"`
}

// HasDue reports whether the item carries a due date.
func (t *Todo) HasDue() bool {
	return !t.DueAt.IsZero()
}

// Overdue reports whether an unfinished item was due before today.
func (t *Todo) Overdue(today time.Time) bool {
	if t.Done || !t.HasDue() {
		return false
	}
	return t.DueAt.Before(Date(today))
}

// Clone returns a copy of the item. The state cache hands out clones so
// presentation code cannot mutate cached records.
func (t *Todo) Clone() *Todo {
	c := *t
	return &c
}

// NewTodo carries the caller-supplied fields of an insert. The store sets
// ID, CreatedAt and Done.
type NewTodo struct {
	Title       string
	Description string
	DueAt       time.Time
}

// TodoUpdate names the fields an update applies. A nil field is left
// untouched. DueAt pointing at the zero time clears the due date.
type TodoUpdate struct {
	Title       *string
	Description *string
	DueAt       *time.Time
}

// IsEmpty reports whether the update carries no fields.
func (u TodoUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.DueAt == nil
}

// Date truncates t to its calendar date at midnight UTC. The zero time
// stays zero.
func Date(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateTitle returns ErrInvalidTitle when the title is empty after
// trimming whitespace.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidTitle
	}
	return nil
}

// ValidateID returns ErrInvalidID for ids the store can never assign.
func ValidateID(id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return nil
}
