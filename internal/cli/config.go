package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/todo/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	logFileName    = "todo.log"

	cfgKeyBackend       = "backend"
	cfgKeyDataDir       = "data_dir"
	cfgKeyDBFile        = "db_file"
	cfgKeyLogLevel      = "log.level"
	cfgKeyLogFile       = "log.file"
	cfgKeyLogFormat     = "log.format"
	cfgKeyShowCompleted = "show_completed"
	cfgKeyMarkdownStyle = "markdown_style"

	defaultLogLevel = "warn"
)

// envBindings maps config keys to environment overrides. data_dir is left
// out: its environment variable ranks below config.yaml and is handled by
// paths.ResolveDataDir.
var envBindings = map[string]string{
	cfgKeyBackend:       "TODO_BACKEND",
	cfgKeyDBFile:        "TODO_DB_FILE",
	cfgKeyLogLevel:      "TODO_LOG_LEVEL",
	cfgKeyLogFile:       "TODO_LOG_FILE",
	cfgKeyLogFormat:     "TODO_LOG_FORMAT",
	cfgKeyShowCompleted: "TODO_SHOW_COMPLETED",
	cfgKeyMarkdownStyle: "TODO_MARKDOWN_STYLE",
}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# todo configuration

# Storage backend
backend: sqlite

# Data directory (optional; overridable by --data-dir)
# data_dir:

# Store file name inside the data directory
db_file: todo_db.db

# Show completed todos by default
show_completed: false

log:
  # debug, info, warn, error
  level: warn
  # text or json
  format: text
  # Log file (optional; the terminal UI always logs to a file)
  # file:
`

// loadConfig reads config.yaml from configDir with viper. When
// createDefault is set, the directory and a commented default file are
// created on first run. A missing config.yaml is not an error.
func loadConfig(configDir string, createDefault bool) (*viper.Viper, error) {
	if createDefault {
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure config dir: %w", err)
		}
		if err := ensureDefaultConfigFile(configDir); err != nil {
			return nil, fmt.Errorf("ensure default config: %w", err)
		}
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyDBFile, types.DefaultDBFile)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyShowCompleted, false)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

func defaultLogFile(configDir string) string {
	return filepath.Join(configDir, logFileName)
}

// configDataDir returns data_dir as written in config.yaml.
func (a *app) configDataDir() string {
	return a.config.GetString(cfgKeyDataDir)
}
