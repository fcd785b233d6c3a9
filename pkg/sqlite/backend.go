// Package sqlite provides the public API for the SQLite todo store.
// This package exposes the factory function while keeping implementation
// details internal.
package sqlite

import (
	"github.com/mesh-intelligence/todo/internal/sqlite"
	"github.com/mesh-intelligence/todo/pkg/types"
)

// Open opens (creating if needed) the SQLite store described by config and
// ensures its table exists. The caller must Close the returned Store.
//
// Example:
//
//	store, err := sqlite.Open(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".todo",
//	})
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
func Open(config types.Config) (types.Store, error) {
	b, err := sqlite.Open(config)
	if err != nil {
		return nil, err
	}
	return b, nil
}
