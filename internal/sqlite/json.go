package sqlite

import (
	"strings"
	"time"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// todoJSON is the JSONL record format used by export and import. Dates are
// calendar dates in types.DateLayout; due_at is null when unset.
type todoJSON struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
	DueAt       *string `json:"due_at"`
	Done        bool    `json:"done"`
}

func newTodoJSON(t *types.Todo) todoJSON {
	rec := todoJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		CreatedAt:   formatDate(t.CreatedAt),
		Done:        t.Done,
	}
	if t.HasDue() {
		due := formatDate(t.DueAt)
		rec.DueAt = &due
	}
	return rec
}

// createdAt returns the record's creation date, or fallback when the
// record carries none.
func (r todoJSON) createdAt(fallback time.Time) (time.Time, error) {
	if strings.TrimSpace(r.CreatedAt) == "" {
		return fallback, nil
	}
	return parseDateText(r.CreatedAt)
}

func (r todoJSON) dueAt() (time.Time, error) {
	if r.DueAt == nil {
		return time.Time{}, nil
	}
	return parseDateText(*r.DueAt)
}
