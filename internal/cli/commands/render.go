package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/zephyrtronium/rpn/internal/config"
)

// result is the outcome of evaluating one expression.
type result struct {
	Expr  string `json:"expr"`
	RPN   string `json:"rpn,omitempty"`
	Value string `json:"value,omitempty"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func (r *result) fail(err error) {
	r.Error = err.Error()
	r.Kind = errKind(err)
}

// renderResults writes results in the given format. In text format, errors
// go to errw.
func renderResults(w, errw io.Writer, format string, results []result) error {
	switch format {
	case config.OutputJSON:
		return renderJSON(w, results)
	case config.OutputTable:
		return renderTable(w, results)
	default:
		for _, r := range results {
			if r.Error != "" {
				_, _ = fmt.Fprintf(errw, "Error: %s: %s\n", r.Expr, r.Error)
				continue
			}
			_, _ = fmt.Fprintln(w, r.Value)
		}
		return nil
	}
}

func renderTable(w io.Writer, results []result) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Expression", "RPN", "Result"})
	for i, r := range results {
		v := r.Value
		if r.Error != "" {
			v = r.Kind + " error: " + r.Error
		}
		t.AppendRow(table.Row{i + 1, r.Expr, r.RPN, v})
	}
	t.Render()
	return nil
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
