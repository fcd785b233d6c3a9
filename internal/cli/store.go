package cli

import (
	"context"

	"github.com/mesh-intelligence/todo/internal/paths"
	"github.com/mesh-intelligence/todo/internal/sqlite"
	"github.com/mesh-intelligence/todo/internal/state"
	"github.com/mesh-intelligence/todo/pkg/types"
)

// storeConfig builds the store configuration from flags and config.yaml.
// Data directory precedence: --data-dir > config.yaml data_dir >
// TODO_DATA_DIR > $(CWD)/.todo.
func (a *app) storeConfig() (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, a.configDataDir())
	if err != nil {
		return types.Config{}, sysError("resolve data dir: %w", err)
	}
	return types.Config{
		Backend: a.config.GetString(cfgKeyBackend),
		DataDir: dataDir,
		DBFile:  a.config.GetString(cfgKeyDBFile),
	}, nil
}

// openStore opens the configured store. The caller must Close it.
func (a *app) openStore() (*sqlite.Backend, error) {
	cfg, err := a.storeConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, userError("invalid configuration: %w", err)
	}
	b, err := sqlite.Open(cfg, sqlite.WithClock(a.now), sqlite.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	return b, nil
}

// withController opens the store, loads a session cache and runs fn. The
// store is closed when fn returns.
func (a *app) withController(ctx context.Context, fn func(*state.Controller) error) error {
	b, err := a.openStore()
	if err != nil {
		return err
	}
	defer b.Close()

	ctrl := state.NewController(b, state.NewCache(), a.logger)
	if err := ctrl.Load(ctx); err != nil {
		return err
	}
	return fn(ctrl)
}
