package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/todo/pkg/types"
)

// configFile holds the structure init writes to config.yaml.
type configFile struct {
	Backend string `yaml:"backend"`
	DataDir string `yaml:"data_dir,omitempty"`
	DBFile  string `yaml:"db_file"`
	Log     struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the todo store",
		Long:  "Create the configuration directory and config.yaml, then create the store file and its table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd)
		},
	}
}

func (a *app) runInit(cmd *cobra.Command) error {
	if err := os.MkdirAll(a.configDir, 0o755); err != nil {
		return sysError("create config directory: %w", err)
	}

	cfg, err := a.storeConfig()
	if err != nil {
		return err
	}

	// Without --data-dir the file keeps the per-directory default.
	var dataDir string
	if a.flags.dataDir != "" {
		dataDir = cfg.DataDir
	}
	configPath := filepath.Join(a.configDir, configFileExt)
	created, err := writeConfigIfMissing(configPath, dataDir, cfg.DBFile)
	if err != nil {
		return sysError("write config: %w", err)
	}

	b, err := a.openStore()
	if err != nil {
		return err
	}
	path := b.Path()
	if err := b.Close(); err != nil {
		return sysError("close store: %w", err)
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, map[string]any{
			"config":         configPath,
			"config_created": created,
			"store":          path,
		})
	}
	fmt.Fprintf(out, "Config: %s\n", configPath)
	fmt.Fprintf(out, "Store:  %s\n", path)
	fmt.Fprintln(out, "todo initialized successfully")
	return nil
}

// writeConfigIfMissing creates config.yaml if the file does not exist and
// reports whether it wrote one. An existing file is left untouched.
func writeConfigIfMissing(path, dataDir, dbFile string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	if dbFile == "" {
		dbFile = types.DefaultDBFile
	}
	cfg := configFile{
		Backend: types.BackendSQLite,
		DataDir: dataDir,
		DBFile:  dbFile,
	}
	cfg.Log.Level = defaultLogLevel

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
