package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// User-facing messages.
const (
	msgCreated     = "Todo created successfully!"
	msgUpdated     = "Todo updated."
	msgDeleted     = "Todo deleted."
	msgMarkedDone  = "Marked done."
	msgMarkedOpen  = "Marked not done."
	warnEmptyTitle = "Title cannot be empty."
)

// Result is what a controller call reports back to the presentation layer.
// A non-empty Warning means the input was rejected and nothing changed.
type Result struct {
	ID      int64
	Message string
	Warning string
}

// OK reports whether the action went through.
func (r Result) OK() bool {
	return r.Warning == ""
}

// Controller bridges user actions to store operations. Each entry point
// issues at most one store mutation and then refreshes the cache: the whole
// record set after create and delete, a single record after edit and
// toggle. Store failures are returned, never retried.
type Controller struct {
	store  types.Store
	cache  *Cache
	logger *slog.Logger
}

// NewController wires a controller to a store and the session cache.
func NewController(store types.Store, cache *Cache, logger *slog.Logger) *Controller {
	if cache == nil {
		cache = NewCache()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		store:  store,
		cache:  cache,
		logger: logger.With("session", cache.SessionID()),
	}
}

// Cache returns the session cache the presentation layer renders from.
func (c *Controller) Cache() *Cache {
	return c.cache
}

// Load fills the cache when a session starts.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.RefreshAll(ctx); err != nil {
		return err
	}
	c.logger.Debug("session loaded", "count", c.cache.Len())
	return nil
}

// RefreshAll replaces the cached record set with the store's.
func (c *Controller) RefreshAll(ctx context.Context) error {
	todos, err := c.store.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("refreshing todos: %w", err)
	}
	c.cache.replaceAll(todos)
	return nil
}

// RefreshOne reloads a single record. A record that has vanished from the
// store is dropped from the cache and ErrNotFound is returned.
func (c *Controller) RefreshOne(ctx context.Context, id int64) error {
	t, err := c.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			c.cache.remove(id)
		}
		return fmt.Errorf("refreshing todo %d: %w", id, err)
	}
	c.cache.put(t)
	return nil
}

// OnCreate adds a todo. A blank title is rejected with a warning before the
// store is touched.
func (c *Controller) OnCreate(ctx context.Context, title, description string, due time.Time) (Result, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		c.logger.Debug("create rejected", "reason", "empty title")
		return Result{Warning: warnEmptyTitle}, nil
	}

	id, err := c.store.Insert(ctx, types.NewTodo{
		Title:       title,
		Description: description,
		DueAt:       due,
	})
	if err != nil {
		if res, ok := warning(err); ok {
			return res, nil
		}
		return Result{}, fmt.Errorf("creating todo: %w", err)
	}
	if err := c.RefreshAll(ctx); err != nil {
		return Result{ID: id}, err
	}

	c.logger.Info("todo created", "id", id)
	return Result{ID: id, Message: msgCreated}, nil
}

// OnToggleDone flips the done flag of a displayed todo.
func (c *Controller) OnToggleDone(ctx context.Context, id int64) (Result, error) {
	cached, ok := c.cache.Get(id)
	if !ok {
		return Result{}, fmt.Errorf("toggling todo %d: %w", id, types.ErrNotFound)
	}

	if err := c.store.ToggleDone(ctx, id); err != nil {
		return Result{}, fmt.Errorf("toggling todo %d: %w", id, err)
	}
	if err := c.RefreshOne(ctx, id); err != nil {
		return Result{ID: id}, err
	}

	c.logger.Info("todo toggled", "id", id, "was_done", cached.Done)
	msg := msgMarkedDone
	if cached.Done {
		msg = msgMarkedOpen
	}
	return Result{ID: id, Message: msg}, nil
}

// OnEdit submits the edit form: all three editable fields are written, the
// record is refreshed, and the item leaves edit view.
func (c *Controller) OnEdit(ctx context.Context, id int64, title, description string, due time.Time) (Result, error) {
	return c.OnEditFields(ctx, id, types.TodoUpdate{
		Title:       &title,
		Description: &description,
		DueAt:       &due,
	})
}

// OnEditFields writes only the fields present in u. A supplied blank title
// is rejected with a warning and the item stays in edit view.
func (c *Controller) OnEditFields(ctx context.Context, id int64, u types.TodoUpdate) (Result, error) {
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		c.logger.Debug("edit rejected", "id", id, "reason", "empty title")
		return Result{ID: id, Warning: warnEmptyTitle}, nil
	}

	if err := c.store.UpdateFields(ctx, id, u); err != nil {
		if res, ok := warning(err); ok {
			res.ID = id
			return res, nil
		}
		return Result{}, fmt.Errorf("editing todo %d: %w", id, err)
	}
	if err := c.RefreshOne(ctx, id); err != nil {
		return Result{ID: id}, err
	}
	c.cache.setEditing(id, false)

	c.logger.Info("todo edited", "id", id)
	return Result{ID: id, Message: msgUpdated}, nil
}

// OnDelete removes a todo and reloads the record set.
func (c *Controller) OnDelete(ctx context.Context, id int64) (Result, error) {
	if err := c.store.Delete(ctx, id); err != nil {
		return Result{}, fmt.Errorf("deleting todo %d: %w", id, err)
	}
	if err := c.RefreshAll(ctx); err != nil {
		return Result{ID: id}, err
	}

	c.logger.Info("todo deleted", "id", id)
	return Result{ID: id, Message: msgDeleted}, nil
}

// ToggleEditMode flips whether the item is shown in edit view and returns
// the new state. It never touches the store.
func (c *Controller) ToggleEditMode(id int64) bool {
	on := !c.cache.Editing(id)
	c.cache.setEditing(id, on)
	return on
}

// warning converts a validation error into a user-visible warning.
func warning(err error) (Result, bool) {
	if !errors.Is(err, types.ErrValidation) {
		return Result{}, false
	}
	if errors.Is(err, types.ErrInvalidTitle) {
		return Result{Warning: warnEmptyTitle}, true
	}
	return Result{Warning: err.Error()}, true
}
