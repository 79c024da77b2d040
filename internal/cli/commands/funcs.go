package commands

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rpn"
	"github.com/zephyrtronium/rpn/internal/config"
)

// strategyInfo describes one registered operator or function.
type strategyInfo struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	Arity      int    `json:"arity"`
	Precedence int    `json:"precedence,omitempty"`
	Assoc      string `json:"assoc,omitempty"`
}

// NewFuncsCommand creates the funcs command.
func NewFuncsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "funcs",
		Aliases: []string{"functions", "ops"},
		Short:   "List operators and functions",
		Long:    `List the operators and functions available in expressions.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			calc, err := newCalculator(ctx)
			if err != nil {
				return err
			}
			infos := strategies(calc.Registry())
			if config.FromContext(ctx).Output == config.OutputJSON {
				return renderJSON(cmd.OutOrStdout(), infos)
			}
			renderStrategies(cmd.OutOrStdout(), infos)
			return nil
		},
	}
}

func strategies(reg *rpn.Registry) []strategyInfo {
	var infos []strategyInfo
	for _, op := range reg.Operators() {
		infos = append(infos, strategyInfo{
			Kind:       "operator",
			Name:       op.Symbol(),
			Arity:      2,
			Precedence: op.Precedence(),
			Assoc:      op.Assoc().String(),
		})
	}
	for _, fn := range reg.Funcs() {
		infos = append(infos, strategyInfo{
			Kind:  "function",
			Name:  fn.Name(),
			Arity: fn.Arity(),
		})
	}
	return infos
}

func renderStrategies(w io.Writer, infos []strategyInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Kind", "Name", "Arity", "Precedence", "Assoc"})
	for _, s := range infos {
		prec := ""
		if s.Kind == "operator" {
			prec = strconv.Itoa(s.Precedence)
		}
		t.AppendRow(table.Row{s.Kind, s.Name, s.Arity, prec, s.Assoc})
	}
	t.Render()
}
