package types

import (
	"context"
	"errors"
	"fmt"
)

// Store persists todo items. Every mutating call is a single committed unit
// of work; nothing is batched across calls.
type Store interface {
	// EnsureInitialized creates the backing table if it does not exist.
	// Safe to call any number of times.
	EnsureInitialized(ctx context.Context) error

	// ListAll returns every item ordered by ascending ID. Returns an empty
	// slice, never nil, when the store holds no items.
	ListAll(ctx context.Context) ([]*Todo, error)

	// Get returns the item with the given ID or ErrNotFound.
	Get(ctx context.Context, id int64) (*Todo, error)

	// Insert validates the title, stamps CreatedAt with today's date, sets
	// Done to false, and returns the newly assigned ID.
	Insert(ctx context.Context, in NewTodo) (int64, error)

	// UpdateFields applies only the fields present in u.
	// Returns ErrNotFound if no item has the given ID.
	UpdateFields(ctx context.Context, id int64, u TodoUpdate) error

	// ToggleDone flips the Done flag. Returns ErrNotFound if no item has
	// the given ID.
	ToggleDone(ctx context.Context, id int64) error

	// Delete removes the item permanently. Deleting an ID that does not
	// exist is a no-op.
	Delete(ctx context.Context, id int64) error

	// Close releases the underlying connection. Idempotent.
	Close() error
}

// ErrValidation is the parent of every input validation error. Controllers
// turn errors matching it into user-visible warnings.
var ErrValidation = errors.New("validation failed")

// Validation errors.
var (
	ErrInvalidTitle = fmt.Errorf("%w: title cannot be empty", ErrValidation)
	ErrInvalidID    = fmt.Errorf("%w: invalid todo ID", ErrValidation)
	ErrInvalidDate  = fmt.Errorf("%w: invalid date", ErrValidation)
)

// Store errors.
var (
	ErrNotFound         = errors.New("todo not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrStoreClosed      = errors.New("store is closed")
)
