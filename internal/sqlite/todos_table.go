package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// ListAll returns every todo ordered by ascending id.
func (b *Backend) ListAll(ctx context.Context) ([]*types.Todo, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return nil, types.ErrStoreClosed
	}

	rows, err := b.db.QueryContext(ctx, "SELECT "+todoColumns+" FROM "+tableName+" ORDER BY id ASC")
	if err != nil {
		return nil, unavailable("listing todos", err)
	}
	defer rows.Close()

	todos := []*types.Todo{}
	for rows.Next() {
		todo, err := hydrateTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterating todos", err)
	}

	b.logger.Debug("todos listed", "count", len(todos))
	return todos, nil
}

// Get returns the todo with the given id.
func (b *Backend) Get(ctx context.Context, id int64) (*types.Todo, error) {
	if err := types.ValidateID(id); err != nil {
		return nil, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return nil, types.ErrStoreClosed
	}

	row := b.db.QueryRowContext(ctx, "SELECT "+todoColumns+" FROM "+tableName+" WHERE id = ?", id)
	todo, err := hydrateTodo(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("todo %d: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting todo %d: %w", id, err)
	}
	return todo, nil
}

// Insert stores a new todo with done=false and created_at=today, and
// returns the assigned id. The title is stored trimmed.
func (b *Backend) Insert(ctx context.Context, in types.NewTodo) (int64, error) {
	if err := types.ValidateTitle(in.Title); err != nil {
		return 0, err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return 0, types.ErrStoreClosed
	}

	var id int64
	err := b.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO "+tableName+" (title, description, created_at, due_at, done) VALUES (?, ?, ?, ?, ?)",
			strings.TrimSpace(in.Title), in.Description, formatDate(b.today()), nullableDate(in.DueAt), false,
		)
		if err != nil {
			return unavailable("inserting todo", err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading inserted id: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	b.logger.Info("todo inserted", "id", id)
	return id, nil
}

// UpdateFields writes only the fields present in u. A supplied title must
// not be blank. An empty update only checks that the todo exists.
func (b *Backend) UpdateFields(ctx context.Context, id int64, u types.TodoUpdate) error {
	if err := types.ValidateID(id); err != nil {
		return err
	}
	if u.Title != nil {
		if err := types.ValidateTitle(*u.Title); err != nil {
			return err
		}
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return types.ErrStoreClosed
	}

	if u.IsEmpty() {
		return b.checkExists(ctx, id)
	}

	var sets []string
	var args []any
	if u.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, strings.TrimSpace(*u.Title))
	}
	if u.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *u.Description)
	}
	if u.DueAt != nil {
		sets = append(sets, "due_at = ?")
		args = append(args, nullableDate(*u.DueAt))
	}
	args = append(args, id)

	query := "UPDATE " + tableName + " SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	if err := b.execOne(ctx, id, query, args...); err != nil {
		return err
	}

	b.logger.Info("todo updated", "id", id, "fields", len(sets))
	return nil
}

// ToggleDone flips the done flag in a single statement.
func (b *Backend) ToggleDone(ctx context.Context, id int64) error {
	if err := types.ValidateID(id); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return types.ErrStoreClosed
	}

	if err := b.execOne(ctx, id, "UPDATE "+tableName+" SET done = NOT done WHERE id = ?", id); err != nil {
		return err
	}

	b.logger.Info("todo toggled", "id", id)
	return nil
}

// Delete removes the todo. A missing id is not an error: deletes are only
// triggered from displayed state, so a miss means the row is already gone.
func (b *Backend) Delete(ctx context.Context, id int64) error {
	if err := types.ValidateID(id); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.db == nil {
		return types.ErrStoreClosed
	}

	var affected int64
	err := b.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+tableName+" WHERE id = ?", id)
		if err != nil {
			return unavailable("deleting todo", err)
		}
		affected, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return err
	}

	if affected == 0 {
		b.logger.Debug("delete of missing todo ignored", "id", id)
		return nil
	}
	b.logger.Info("todo deleted", "id", id)
	return nil
}

// execOne runs a single-row mutation in its own transaction and reports
// ErrNotFound when no row matched. The caller must hold b.mu.
func (b *Backend) execOne(ctx context.Context, id int64, query string, args ...any) error {
	return b.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return unavailable("updating todo", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("reading affected rows: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("todo %d: %w", id, types.ErrNotFound)
		}
		return nil
	})
}

// checkExists returns ErrNotFound when no todo has the given id.
// The caller must hold b.mu.
func (b *Backend) checkExists(ctx context.Context, id int64) error {
	var one int
	err := b.db.QueryRowContext(ctx, "SELECT 1 FROM "+tableName+" WHERE id = ?", id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("todo %d: %w", id, types.ErrNotFound)
		}
		return unavailable("checking todo existence", err)
	}
	return nil
}

// inTx runs fn inside a transaction and commits it. The caller must hold
// b.mu.
func (b *Backend) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("beginning transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return unavailable("committing transaction", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// hydrateTodo converts one row in todoColumns order into a *types.Todo.
func hydrateTodo(s scanner) (*types.Todo, error) {
	var (
		t           types.Todo
		description sql.NullString
		createdAt   any
		dueAt       any
	)
	if err := s.Scan(&t.ID, &t.Title, &description, &createdAt, &dueAt, &t.Done); err != nil {
		return nil, err
	}
	t.Description = description.String

	var err error
	if t.CreatedAt, err = parseDate(createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.DueAt, err = parseDate(dueAt); err != nil {
		return nil, fmt.Errorf("parsing due_at: %w", err)
	}
	return &t, nil
}

// parseDate normalizes a DATE column value. The driver may hand back text
// or an already-parsed time depending on how the value was written.
func parseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return types.Date(d), nil
	case string:
		return parseDateText(d)
	case []byte:
		return parseDateText(string(d))
	default:
		return time.Time{}, fmt.Errorf("unexpected date value of type %T: %w", v, types.ErrInvalidDate)
	}
}

func parseDateText(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if len(s) >= len(types.DateLayout) {
		if t, err := time.Parse(types.DateLayout, s[:len(types.DateLayout)]); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing %q: %w", s, types.ErrInvalidDate)
}

func formatDate(t time.Time) string {
	return types.Date(t).Format(types.DateLayout)
}

// nullableDate maps the zero time to SQL NULL.
func nullableDate(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return formatDate(t)
}
