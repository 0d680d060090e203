package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/config"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/network"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/repl"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/web"
)

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive shell",
		Long: `Start the interactive shell. When stdin is not a terminal, every line
is executed in turn and the shell exits at end of input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, a)
		},
	}
}

func runShell(cmd *cobra.Command, a *app) error {
	sh := repl.New(a.engine, repl.Options{
		Format:      a.cfg.Format,
		HistoryFile: a.cfg.HistoryFile,
		Out:         cmd.OutOrStdout(),
		Err:         cmd.ErrOrStderr(),
	})

	in := cmd.InOrStdin()
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return sh.Run()
	}
	slog.Debug("stdin is not a terminal, reading statements line by line")
	return sh.RunPiped(in)
}

func newExecCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <statement>",
		Short: "Execute one statement and print the result",
		Example: `  bendb exec "CREATE TABLE users (id INT, name STRING)"
  bendb exec "SELECT * FROM users" --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.engine.Execute(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return repl.PrintResult(cmd.OutOrStdout(), result, a.cfg.Format)
		},
	}
}

func newJoinCommand(a *app) *cobra.Command {
	var on string
	cmd := &cobra.Command{
		Use:   "join <left> <right>",
		Short: "Inner join two tables on a shared column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := a.engine.Join(args[0], args[1], on)
			if err != nil {
				return err
			}
			return repl.PrintResult(cmd.OutOrStdout(), result, a.cfg.Format)
		},
	}
	cmd.Flags().StringVar(&on, "on", "", "Column compared between the two tables")
	_ = cmd.MarkFlagRequired("on")
	return cmd
}

func newTablesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables with row counts and sizes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			stats, err := a.registry.Stats()
			if err != nil {
				return err
			}
			return repl.PrintTables(cmd.OutOrStdout(), stats, a.cfg.Format)
		},
	}
}

func newAdminCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Serve the web admin UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv, err := web.NewServer(web.Config{
				Registry:      a.registry,
				Addr:          a.cfg.Admin.Addr,
				DefaultTable:  a.cfg.DefaultTable,
				SessionSecret: a.cfg.Admin.SessionSecret,
				Logger:        slog.Default(),
			})
			if err != nil {
				return err
			}
			return srv.Serve(cmd.Context())
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default: "+config.DefaultAdminAddr+")")
	cmd.Flags().String("session-secret", "", "Key for signing flash-message cookies")
	cmd.Flags().String("table", "", "Table shown when none is selected")
	return cmd
}

func newServeCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve newline-delimited JSON commands over TCP",
		Long: `Serve commands over TCP. Each request is one JSON object per line,
{"query": "SELECT * FROM users"}, answered by one JSON response per line.
Send {"query": "exit"} to close the connection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return network.NewServer(a.engine).ListenAndServe(cmd.Context(), a.cfg.Server.Addr)
		},
	}
	cmd.Flags().String("addr", "", "Listen address (default: "+config.DefaultServerAddr+")")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "BenDB v%s\n", Version)
		},
	}
}
