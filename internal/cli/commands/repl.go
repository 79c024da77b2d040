package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rpn"
	"github.com/zephyrtronium/rpn/internal/config"
)

const replPrompt = "rpn> "

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Evaluate expressions interactively",
		Long: `Start an interactive session which evaluates one expression per line.

Type .help for commands, .quit to exit.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	calc, err := newCalculator(ctx)
	if err != nil {
		return err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile(cfg.History),
		AutoComplete:    newCompleter(calc.Registry()),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	p := calc.Policy()
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "rpncalc (precision %d, places %d, rounding %s)\n", p.Precision, p.Places, p.Rounding)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		if replLine(cmd.OutOrStdout(), cmd.ErrOrStderr(), calc, cfg.Output, line) {
			break
		}
	}
	return nil
}

// replLine handles one line of REPL input and reports whether to quit.
func replLine(w, errw io.Writer, calc *rpn.Calculator, format, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if strings.HasPrefix(line, ".") {
		cmd, arg, _ := strings.Cut(line, " ")
		switch strings.ToLower(cmd) {
		case ".quit", ".exit":
			return true
		case ".help":
			printREPLHelp(w)
		case ".funcs":
			renderStrategies(w, strategies(calc.Registry()))
		case ".rpn":
			q, err := calc.Convert(arg)
			if err != nil {
				_, _ = fmt.Fprintf(errw, "Error: %v\n", err)
				return false
			}
			_, _ = fmt.Fprintln(w, q)
		default:
			_, _ = fmt.Fprintf(errw, "Unknown command: %s (type .help for commands)\n", cmd)
		}
		return false
	}
	r := evaluate(calc, line, false)
	if format == config.OutputText {
		// Errors are shown without repeating the expression.
		if r.Error != "" {
			_, _ = fmt.Fprintf(errw, "Error: %s\n", r.Error)
			return false
		}
		_, _ = fmt.Fprintln(w, r.Value)
		return false
	}
	if err := renderResults(w, errw, format, []result{r}); err != nil {
		_, _ = fmt.Fprintf(errw, "Error: %v\n", err)
	}
	return false
}

func printREPLHelp(w io.Writer) {
	_, _ = fmt.Fprint(w, `Commands:
  .help          Show this help
  .rpn <expr>    Show an expression in RPN without evaluating it
  .funcs         List operators and functions
  .quit, .exit   Exit the REPL

Any other line is evaluated as an expression.
`)
}

// historyFile returns the REPL history path. An empty name means a file in
// the home directory, if there is one.
func historyFile(name string) string {
	if name != "" {
		return name
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rpncalc_history")
}

// newCompleter creates a readline completer for dot commands and function
// names.
func newCompleter(reg *rpn.Registry) *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem(".help"),
		readline.PcItem(".rpn"),
		readline.PcItem(".funcs"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	}
	seen := make(map[string]bool)
	for _, fn := range reg.Funcs() {
		name := fn.Name()
		if seen[name] {
			continue
		}
		seen[name] = true
		if reg.CanCall(name, 0) {
			items = append(items, readline.PcItem(name))
		}
		if a := reg.Arities(name); a[len(a)-1] > 0 {
			items = append(items, readline.PcItem(name+"("))
		}
	}
	return readline.NewPrefixCompleter(items...)
}
