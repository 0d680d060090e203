package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/chzyer/readline"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/engine"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser"
)

const prompt = "bendb> "

// maxLineSize bounds one piped statement; bufio's default is 64 KiB
const maxLineSize = 16 << 20

// Options configures a Shell
type Options struct {
	Format      string // table, json or yaml
	HistoryFile string // empty disables history
	Out         io.Writer
	Err         io.Writer
}

// Shell reads commands line by line and hands them to the engine.
// EXIT (any case) ends the session without reaching the engine.
type Shell struct {
	eng         *engine.Engine
	format      string
	historyFile string
	out         io.Writer
	errOut      io.Writer
}

// New creates a shell over eng
func New(eng *engine.Engine, opts Options) *Shell {
	s := &Shell{
		eng:         eng,
		format:      opts.Format,
		historyFile: opts.HistoryFile,
		out:         opts.Out,
		errOut:      opts.Err,
	}
	if s.format == "" {
		s.format = FormatTable
	}
	if s.errOut == nil {
		s.errOut = s.out
	}
	return s
}

// Run starts the interactive loop on the terminal
func (s *Shell) Run() error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     s.historyFile,
		AutoComplete:    s.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "EXIT",
		Stdout:          s.out,
		Stderr:          s.errOut,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize shell: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintln(s.out, "BenDB: Simple RDBMS")
	_, _ = fmt.Fprintln(s.out, "Type .help for commands, 'EXIT' to quit.")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		if quit := s.HandleLine(line); quit {
			return nil
		}
	}
}

// RunPiped executes every line read from r, for non-interactive input
func (s *Shell) RunPiped(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		if quit := s.HandleLine(scanner.Text()); quit {
			return nil
		}
	}
	return scanner.Err()
}

// HandleLine processes one input line and reports whether the session should end
func (s *Shell) HandleLine(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if strings.EqualFold(line, "EXIT") {
		return true
	}

	// Handle dot-commands
	if strings.HasPrefix(line, ".") {
		return s.handleDotCommand(line)
	}

	result, err := s.eng.Execute(line)
	if err != nil {
		slog.Debug("command failed", slog.String("input", line), slog.Any("error", err))
		PrintError(s.errOut, err)
		return false
	}
	if err := PrintResult(s.out, result, s.format); err != nil {
		PrintError(s.errOut, err)
	}
	return false
}

func (s *Shell) handleDotCommand(line string) bool {
	parts := strings.Fields(line)
	command := strings.ToLower(parts[0])

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printHelp(s.out)

	case ".tables":
		stats, err := s.eng.Registry().Stats()
		if err != nil {
			PrintError(s.errOut, err)
			return false
		}
		if err := PrintTables(s.out, stats, s.format); err != nil {
			PrintError(s.errOut, err)
		}

	case ".format":
		if len(parts) < 2 {
			_, _ = fmt.Fprintf(s.out, "Output format: %s\n", s.format)
			return false
		}
		switch parts[1] {
		case FormatTable, FormatJSON, FormatYAML:
			s.format = parts[1]
		default:
			_, _ = fmt.Fprintln(s.errOut, "Usage: .format table|json|yaml")
		}

	default:
		_, _ = fmt.Fprintf(s.errOut, "Unknown command: %s (type .help for commands)\n", command)
	}
	return false
}

func printHelp(w io.Writer) {
	help := `
Statements:
  CREATE TABLE <name> (<col> [<type>], ...)
  INSERT INTO <name> (<cols>) VALUES (<vals>)
  SELECT * FROM <name>
  UPDATE <name> SET <col>=<val>, ... WHERE <col>=<val>
  DELETE FROM <name> WHERE <col>=<val>

Commands:
  .help                    Show this help message
  .tables                  List tables
  .format table|json|yaml  Set the output format
  EXIT                     Leave the shell
`
	_, _ = fmt.Fprintln(w, help)
}

// completer offers statement keywords followed by the current table names
func (s *Shell) completer() *readline.PrefixCompleter {
	tables := readline.PcItemDynamic(func(string) []string {
		names, err := s.eng.ListTables()
		if err != nil {
			return nil
		}
		return names
	})

	var items []readline.PrefixCompleterInterface
	for _, kw := range parser.Keywords() {
		items = append(items, readline.PcItem(kw, tables))
	}

	// Add dot-commands
	items = append(items,
		readline.PcItem(".help"),
		readline.PcItem(".tables"),
		readline.PcItem(".format",
			readline.PcItem(FormatTable),
			readline.PcItem(FormatJSON),
			readline.PcItem(FormatYAML),
		),
		readline.PcItem(".quit"),
		readline.PcItem("EXIT"),
	)

	return readline.NewPrefixCompleter(items...)
}
