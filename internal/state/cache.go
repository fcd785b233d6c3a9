// Package state keeps the session's in-memory view of the todo store and
// the controller entry points the presentation layer calls on user action.
package state

import (
	"sort"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// Cache mirrors the store for one interactive session. It maps id to todo
// and tracks which items are currently shown in edit view. The edit flags
// are never persisted.
//
// Cache is not safe for concurrent use; the presentation layer drives it
// from a single event loop.
type Cache struct {
	sessionID string
	todos     map[int64]*types.Todo
	editing   map[int64]bool
}

// NewCache returns an empty cache tagged with a fresh session id.
func NewCache() *Cache {
	return &Cache{
		sessionID: newSessionID(),
		todos:     make(map[int64]*types.Todo),
		editing:   make(map[int64]bool),
	}
}

// newSessionID generates a UUID v7 so session ids sort by start time.
func newSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// SessionID identifies the session in logs.
func (c *Cache) SessionID() string {
	return c.sessionID
}

// Get returns a copy of the cached todo.
func (c *Cache) Get(id int64) (*types.Todo, bool) {
	t, ok := c.todos[id]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Len returns the number of cached todos.
func (c *Cache) Len() int {
	return len(c.todos)
}

// Items returns copies of every cached todo in ascending id order.
func (c *Cache) Items() []*types.Todo {
	return c.Visible(true)
}

// Visible returns the todos to display in ascending id order. Completed
// items are included only when showCompleted is set.
func (c *Cache) Visible(showCompleted bool) []*types.Todo {
	out := make([]*types.Todo, 0, len(c.todos))
	for _, t := range c.todos {
		if t.Done && !showCompleted {
			continue
		}
		out = append(out, t.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Counts returns how many cached todos are done and pending.
func (c *Cache) Counts() (done, pending int) {
	for _, t := range c.todos {
		if t.Done {
			done++
		} else {
			pending++
		}
	}
	return done, pending
}

// Editing reports whether the item is shown in edit view.
func (c *Cache) Editing(id int64) bool {
	return c.editing[id]
}

func (c *Cache) setEditing(id int64, on bool) {
	if on {
		c.editing[id] = true
		return
	}
	delete(c.editing, id)
}

// replaceAll swaps in a fresh record set and drops edit flags for ids that
// no longer exist.
func (c *Cache) replaceAll(todos []*types.Todo) {
	next := make(map[int64]*types.Todo, len(todos))
	for _, t := range todos {
		next[t.ID] = t
	}
	c.todos = next
	for id := range c.editing {
		if _, ok := next[id]; !ok {
			delete(c.editing, id)
		}
	}
}

func (c *Cache) put(t *types.Todo) {
	c.todos[t.ID] = t
}

func (c *Cache) remove(id int64) {
	delete(c.todos, id)
	delete(c.editing, id)
}
