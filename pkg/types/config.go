package types

import "errors"

// Config holds backend selection and the location of the store file.
type Config struct {
	Backend string `json:"backend" yaml:"backend"`
	DataDir string `json:"data_dir" yaml:"data_dir"`
	DBFile  string `json:"db_file" yaml:"db_file"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// DefaultDBFile is the store file name used when Config.DBFile is empty.
const DefaultDBFile = "todo_db.db"

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
	ErrDBFileInvalid  = errors.New("db file must be a bare file name")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if c.DBFile != "" && !isBareFileName(c.DBFile) {
		return ErrDBFileInvalid
	}
	return nil
}

// DBFileName returns the configured store file name or DefaultDBFile.
func (c Config) DBFileName() string {
	if c.DBFile == "" {
		return DefaultDBFile
	}
	return c.DBFile
}

func isBareFileName(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		if r == '/' || r == '\\' {
			return false
		}
	}
	return true
}
