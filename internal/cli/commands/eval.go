package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/rpn"
	"github.com/zephyrtronium/rpn/internal/config"
)

// EvalOptions holds options for evaluating expressions.
type EvalOptions struct {
	File    string
	Postfix bool
	Echo    bool
}

// AddEvalFlags adds the flags for evaluating expressions to cmd.
func AddEvalFlags(cmd *cobra.Command, opts *EvalOptions) {
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "Read expressions from a file, one per line (- for stdin)")
	cmd.Flags().BoolVar(&opts.Postfix, "postfix", false, "Expressions are in postfix notation, e.g. '2 3 neg ^'")
	cmd.Flags().BoolVar(&opts.Echo, "echo", false, "Print each expression's RPN before its result (text output)")
}

// NewEvalCommand creates the eval command.
func NewEvalCommand() *cobra.Command {
	opts := &EvalOptions{}
	cmd := &cobra.Command{
		Use:   "eval [expr...]",
		Short: "Evaluate expressions",
		Long: `Evaluate each argument as an expression.

Without arguments, expressions are read one per line from --file or standard
input. Blank lines and lines starting with # are skipped. Up to --jobs
expressions are evaluated at once, and results are printed in input order.`,
		Example: `  rpncalc eval '2+3*4' 'max(12 345.50, 8 000.66)'
  rpncalc eval --postfix '1 5 max:2'
  rpncalc eval -f expressions.txt -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return RunEval(cmd, args, opts)
		},
	}
	AddEvalFlags(cmd, opts)
	return cmd
}

// RunEval evaluates each of args, or each line of the input when args is
// empty, and renders the results. It fails if any expression fails.
func RunEval(cmd *cobra.Command, args []string, opts *EvalOptions) error {
	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	log := config.GetLogger(ctx)

	exprs := args
	if len(exprs) == 0 {
		var err error
		exprs, err = readExprs(cmd.InOrStdin(), opts.File)
		if err != nil {
			return err
		}
	}

	calc, err := newCalculator(ctx)
	if err != nil {
		return err
	}

	results := make([]result, len(exprs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, expr := range exprs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = evaluate(calc, expr, opts.Postfix)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
	}
	log.Debug("evaluated expressions", slog.Int("count", len(results)), slog.Int("failed", failed), slog.Int("jobs", cfg.Jobs))

	if opts.Echo && cfg.Output == config.OutputText {
		for i := range results {
			if results[i].Error == "" {
				results[i].Value = results[i].RPN + " : " + results[i].Value
			}
		}
	}
	if err := renderResults(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Output, results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d expressions failed", failed, len(results))
	}
	return nil
}

// evaluate computes one expression.
func evaluate(calc *rpn.Calculator, expr string, postfix bool) result {
	r := result{Expr: expr}
	var q rpn.RPN
	var err error
	if postfix {
		q, err = rpn.ParseRPN(expr, calc.Registry())
	} else {
		q, err = calc.Convert(expr)
	}
	if err != nil {
		r.fail(err)
		return r
	}
	r.RPN = q.String()
	v, err := calc.Eval(q)
	if err != nil {
		r.fail(err)
		return r
	}
	r.Value = v.String()
	return r
}

// readExprs reads expressions one per line from the named file, or from
// stdin if name is empty or "-".
func readExprs(stdin io.Reader, name string) ([]string, error) {
	r := stdin
	if name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, fmt.Errorf("failed to open expressions: %w", err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	var exprs []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exprs = append(exprs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read expressions: %w", err)
	}
	return exprs, nil
}
