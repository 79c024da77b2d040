package commands

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rpn"
	"github.com/zephyrtronium/rpn/internal/config"
)

// stages is the output of the rpn command.
type stages struct {
	Expr   string   `json:"expr"`
	Tokens []string `json:"tokens"`
	RPN    string   `json:"rpn"`
}

// NewRPNCommand creates the rpn command.
func NewRPNCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rpn <expr>",
		Short: "Show how an expression is converted",
		Long: `Print the normalized tokens of an infix expression and its conversion to
reverse Polish notation, without evaluating it.

In RPN output, unary minus is written "neg" and a function call is written
as its name and argument count, e.g. "max:2".`,
		Example: `  rpncalc rpn '2^-2'
  rpncalc rpn -o table 'max(12 345.50, 8 000.66)'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			calc, err := newCalculator(ctx)
			if err != nil {
				return err
			}
			s, err := convertStages(calc, strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("%s error: %w", errKind(err), err)
			}
			return renderStages(cmd, config.FromContext(ctx).Output, s)
		},
	}
}

func convertStages(calc *rpn.Calculator, expr string) (*stages, error) {
	toks, err := rpn.Normalize(expr, calc.Registry())
	if err != nil {
		return nil, err
	}
	q, err := calc.Convert(expr)
	if err != nil {
		return nil, err
	}
	return &stages{Expr: expr, Tokens: toks, RPN: q.String()}, nil
}

func renderStages(cmd *cobra.Command, format string, s *stages) error {
	w := cmd.OutOrStdout()
	switch format {
	case config.OutputJSON:
		return renderJSON(w, s)
	case config.OutputTable:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Stage", "Output"})
		t.AppendRow(table.Row{"input", s.Expr})
		t.AppendRow(table.Row{"tokens", strings.Join(s.Tokens, " ")})
		t.AppendRow(table.Row{"rpn", s.RPN})
		t.Render()
		return nil
	default:
		_, _ = fmt.Fprintf(w, "tokens: %s\n", strings.Join(s.Tokens, " "))
		_, _ = fmt.Fprintf(w, "rpn:    %s\n", s.RPN)
		return nil
	}
}
