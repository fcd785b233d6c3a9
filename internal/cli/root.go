// Package cli implements the todo command-line interface: a cobra command
// tree over the SQLite store, with the terminal UI as the default command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/todo/internal/logging"
	"github.com/mesh-intelligence/todo/internal/paths"
	"github.com/mesh-intelligence/todo/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	logLevel  string
}

// app is the per-invocation state shared by the command tree.
type app struct {
	flags rootFlags
	now   func() time.Time

	configDir string
	config    *viper.Viper
	logger    *slog.Logger
	logCloser io.Closer
}

// NewRootCmd creates the top-level "todo" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	if a.now == nil {
		a.now = time.Now
	}

	root := &cobra.Command{
		Use:   "todo",
		Short: "A small SQLite-backed todo list",
		Long: "todo keeps a list of tasks in a local SQLite file.\n" +
			"Run without a subcommand to open the interactive terminal UI.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.todo)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn, error")

	tui := newTUICmd(a)
	root.RunE = tui.RunE
	root.Flags().AddFlagSet(tui.Flags())

	root.AddCommand(
		newVersionCmd(a),
		newInitCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newEditCmd(a),
		newDoneCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		tui,
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	a := &app{now: time.Now}
	if err := a.execute(newRootCmd(a)); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(ExitCode(err))
	}
}

// execute runs the command tree and closes the log file afterwards,
// whether or not the command succeeded.
func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	if cerr := a.closeLog(); err == nil && cerr != nil {
		err = sysError("close log: %w", cerr)
	}
	return err
}

// ExitCode maps a command error to the process exit code: 1 for bad input
// or a missing todo, 2 when the store cannot be used.
func ExitCode(err error) int {
	var ce *codeError
	switch {
	case err == nil:
		return exitSuccess
	case errors.As(err, &ce):
		return ce.code
	case errors.Is(err, types.ErrStoreUnavailable), errors.Is(err, types.ErrStoreClosed):
		return exitSysError
	default:
		return exitUserError
	}
}

// codeError pins an explicit exit code on an error.
type codeError struct {
	code int
	err  error
}

func (e *codeError) Error() string { return e.err.Error() }
func (e *codeError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &codeError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &codeError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// setup resolves the config directory, loads config.yaml and builds the
// logger. It runs before every command.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError("resolve config dir: %w", err)
	}
	a.configDir = configDir

	// init writes its own config file; every other command gets the
	// commented default on first run.
	v, err := loadConfig(configDir, cmd.Name() != "init")
	if err != nil {
		return sysError("load config: %w", err)
	}
	if f := cmd.Root().PersistentFlags().Lookup("log-level"); f != nil {
		if err := v.BindPFlag(cfgKeyLogLevel, f); err != nil {
			return sysError("bind log level: %w", err)
		}
	}
	a.config = v

	logFile := v.GetString(cfgKeyLogFile)
	if logFile == "" && isTUI(cmd) {
		// The terminal UI owns the screen.
		logFile = defaultLogFile(configDir)
	}
	logger, closer, err := logging.New(logging.Options{
		Level:  v.GetString(cfgKeyLogLevel),
		Format: v.GetString(cfgKeyLogFormat),
		File:   logFile,
	})
	if err != nil {
		return userError("configure logging: %w", err)
	}
	a.logger = logger.With("cmd", cmd.Name())
	a.logCloser = closer
	return nil
}

func (a *app) closeLog() error {
	if a.logCloser == nil {
		return nil
	}
	err := a.logCloser.Close()
	a.logCloser = nil
	return err
}

func isTUI(cmd *cobra.Command) bool {
	return cmd.Name() == "tui" || !cmd.HasParent()
}
