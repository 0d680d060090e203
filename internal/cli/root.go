// Package cli provides the command-line interface for BenDB.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/config"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/engine"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/logging"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/manager"
)

// Version is set at build time.
var Version = "0.1.0"

// flagKeys maps command-local flags onto nested config keys
var flagKeys = map[string]map[string]string{
	"admin": {
		"addr":           "admin.addr",
		"session-secret": "admin.session_secret",
		"table":          "default_table",
	},
	"serve": {
		"addr": "server.addr",
	},
}

// app carries what PersistentPreRunE builds for the subcommands
type app struct {
	cfgFile string

	cfg      *config.Config
	registry *manager.Registry
	engine   *engine.Engine
	cleanup  []func()
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags(), flagKeys[cmd.Name()])
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger, closeLog := logging.SetupLogger(logging.Options{
		Level:  cfg.EffectiveLogLevel(),
		SeqURL: cfg.SeqURL,
		Output: cmd.ErrOrStderr(),
	})
	a.cleanup = append(a.cleanup, closeLog)
	slog.SetDefault(logger)

	if cfg.File != "" {
		slog.Debug("using config file", slog.String("path", cfg.File))
	}

	store, err := manager.OpenStore(manager.Options{
		Backend:    cfg.Backend,
		DataDir:    cfg.DataDir,
		SQLitePath: cfg.SQLitePath,
	})
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.registry = manager.NewRegistry(store)
	a.cleanup = append(a.cleanup, func() {
		if err := a.registry.Close(); err != nil {
			slog.Error("failed to close storage", slog.Any("error", err))
		}
	})

	a.engine = engine.New(a.registry)
	a.engine.AddObserver(engine.NewLoggingObserver(logger))
	return nil
}

// close releases everything setup acquired, in reverse order
func (a *app) close() {
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		a.cleanup[i]()
	}
	a.cleanup = nil
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bendb",
		Short: "BenDB - a small file-backed database",
		Long: `BenDB stores each table as one document and answers a small SQL-like
command language: CREATE TABLE, INSERT, SELECT *, UPDATE and DELETE.

Run without a subcommand to open the interactive shell.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip setup for help, completion and version
			switch cmd.Name() {
			case "help", "completion", "__complete", "version":
				return nil
			}
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, a)
		},
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	// Global persistent flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: ./bendb.yaml)")
	flags.String("data-dir", "", "Directory holding table files")
	flags.String("backend", "", "Storage backend (json|sqlite)")
	flags.String("sqlite-path", "", "SQLite database path (default: <data-dir>/bendb.sqlite)")
	flags.String("log-level", "", "Log level (debug|info|warn|error)")
	flags.String("seq-url", "", "Seq ingestion URL for structured logs")
	flags.StringP("format", "f", "", "Output format (table|json|yaml)")
	flags.BoolP("verbose", "v", false, "Verbose output")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("backend", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{manager.BackendJSON, manager.BackendSQLite}, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.AddCommand(
		newShellCommand(a),
		newExecCommand(a),
		newJoinCommand(a),
		newTablesCommand(a),
		newAdminCommand(a),
		newServeCommand(a),
		newVersionCommand(),
	)
	return rootCmd
}

// Execute runs the root command with args, writing to stdout and stderr.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	a := &app{}
	defer a.close()

	rootCmd := newRootCmd(a)
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return err
	}
	return nil
}
