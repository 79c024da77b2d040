package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/rpn"
	"github.com/zephyrtronium/rpn/internal/config"
)

// execute runs cmd with cfg in its context and returns its output.
func execute(t *testing.T, cmd *cobra.Command, cfg *config.Config, stdin string, args ...string) (string, string, error) {
	t.Helper()
	if cfg == nil {
		cfg = config.Default()
	}
	if args == nil {
		// cobra falls back to os.Args on nil.
		args = []string{}
	}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(config.WithConfig(context.Background(), cfg))
	return out.String(), errOut.String(), err
}

func withOutput(format string) *config.Config {
	cfg := config.Default()
	cfg.Output = format
	return cfg
}

func TestNewEvalCommand(t *testing.T) {
	cmd := NewEvalCommand()

	assert.Equal(t, "eval [expr...]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	for _, flag := range []string{"file", "postfix", "echo"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestEval_Args(t *testing.T) {
	out, errOut, err := execute(t, NewEvalCommand(), nil, "", "2+3*4", "max(12 345.50, 8 000.66)", "2^3*(12/6)+18/3+5.0/2")
	require.NoError(t, err)
	assert.Empty(t, errOut)
	assert.Equal(t, "14.00\n12345.50\n24.50\n", out)
}

func TestEval_Stdin(t *testing.T) {
	out, _, err := execute(t, NewEvalCommand(), nil, "2+2\n\n  # comment\n3*3\n")
	require.NoError(t, err)
	assert.Equal(t, "4.00\n9.00\n", out)
}

func TestEval_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exprs.txt")
	require.NoError(t, os.WriteFile(path, []byte("sqrt(16)\nlog(8; 2)\n"), 0o600))

	out, _, err := execute(t, NewEvalCommand(), nil, "ignored", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "4.00\n3.00\n", out)

	_, _, err = execute(t, NewEvalCommand(), nil, "", "--file", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open expressions")
}

func TestEval_Ordered(t *testing.T) {
	cfg := config.Default()
	cfg.Jobs = 4
	var in, want strings.Builder
	for i := range 100 {
		fmt.Fprintf(&in, "%d*2/2\n", i)
		fmt.Fprintf(&want, "%d.00\n", i)
	}
	out, _, err := execute(t, NewEvalCommand(), cfg, in.String())
	require.NoError(t, err)
	assert.Equal(t, want.String(), out)
}

func TestEval_Postfix(t *testing.T) {
	out, _, err := execute(t, NewEvalCommand(), nil, "", "--postfix", "2 3 4 * +", "1 5 max:2", "2 neg 2 ^")
	require.NoError(t, err)
	assert.Equal(t, "14.00\n5.00\n4.00\n", out)
}

func TestEval_Echo(t *testing.T) {
	out, _, err := execute(t, NewEvalCommand(), nil, "", "--echo", "--", "2+3", "-2^2")
	require.NoError(t, err)
	assert.Equal(t, "2 3 + : 5.00\n2 2 ^ neg : -4.00\n", out)
}

func TestEval_Errors(t *testing.T) {
	out, errOut, err := execute(t, NewEvalCommand(), nil, "", "1+1", "2 & 3", "1/0")
	require.Error(t, err)
	assert.Equal(t, "2 of 3 expressions failed", err.Error())
	assert.Equal(t, "2.00\n", out)
	assert.Contains(t, errOut, "Error: 2 & 3: ")
	assert.Contains(t, errOut, "Error: 1/0: ")
}

func TestEval_JSON(t *testing.T) {
	out, _, err := execute(t, NewEvalCommand(), withOutput(config.OutputJSON), "", "2+3", "2 & 3", "(1", "sqrt(-4)")
	require.Error(t, err)

	var results []result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 4)

	assert.Equal(t, result{Expr: "2+3", RPN: "2 3 +", Value: "5.00"}, results[0])
	assert.Equal(t, "normalize", results[1].Kind)
	assert.Equal(t, "convert", results[2].Kind)
	assert.Equal(t, "eval", results[3].Kind)
	assert.Equal(t, "4 neg sqrt:1", results[3].RPN)
	for _, r := range results[1:] {
		assert.NotEmpty(t, r.Error)
		assert.Empty(t, r.Value)
	}
}

func TestEval_Table(t *testing.T) {
	out, _, err := execute(t, NewEvalCommand(), withOutput(config.OutputTable), "", "2+3", "1/0")
	require.Error(t, err)
	assert.Contains(t, out, "Expression")
	assert.Contains(t, out, "2 3 +")
	assert.Contains(t, out, "5.00")
	assert.Contains(t, out, "eval error")
}

func TestEval_Policy(t *testing.T) {
	cfg := config.Default()
	cfg.Places = 0
	cfg.Rounding = "half_up"
	out, _, err := execute(t, NewEvalCommand(), cfg, "", "22.5", "23.5")
	require.NoError(t, err)
	assert.Equal(t, "23\n24\n", out)

	cfg.Rounding = "bogus"
	_, _, err = execute(t, NewEvalCommand(), cfg, "", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rpn.ErrConfig))
}

func TestNewRPNCommand(t *testing.T) {
	cmd := NewRPNCommand()

	assert.Equal(t, "rpn <expr>", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")
}

func TestRPN(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		args    []string
		wantOut []string
	}{
		{
			name:    "text",
			format:  config.OutputText,
			args:    []string{"2^-2"},
			wantOut: []string{"tokens: 2 ^ - 2\n", "rpn:    2 2 neg ^\n"},
		},
		{
			name:    "joined args",
			format:  config.OutputText,
			args:    []string{"12", "345.50", "+", "1"},
			wantOut: []string{"tokens: 12345.50 + 1\n", "rpn:    12345.50 1 +\n"},
		},
		{
			name:    "table",
			format:  config.OutputTable,
			args:    []string{"max(1, 5)"},
			wantOut: []string{"Stage", "tokens", "max ( 1 , 5 )", "1 5 max:2"},
		},
		{
			name:    "json",
			format:  config.OutputJSON,
			args:    []string{"sin(-1)"},
			wantOut: []string{`"rpn": "1 neg sin:1"`, `"sin",`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, NewRPNCommand(), withOutput(tt.format), "", tt.args...)
			require.NoError(t, err)
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestRPN_Errors(t *testing.T) {
	_, _, err := execute(t, NewRPNCommand(), nil, "")
	require.Error(t, err, "rpn requires an expression")

	_, _, err = execute(t, NewRPNCommand(), nil, "", "2 & 3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rpn.ErrNormalize))
	assert.Contains(t, err.Error(), "normalize error")

	_, _, err = execute(t, NewRPNCommand(), nil, "", "(1+2]")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rpn.ErrConvert))
}

func TestFuncs(t *testing.T) {
	out, _, err := execute(t, NewFuncsCommand(), nil, "")
	require.NoError(t, err)
	for _, want := range []string{"Kind", "operator", "function", "sqrt", "right", "÷"} {
		assert.Contains(t, out, want)
	}

	out, _, err = execute(t, NewFuncsCommand(), withOutput(config.OutputJSON), "")
	require.NoError(t, err)
	var infos []strategyInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	// Operators come first, tightest binding first.
	require.NotEmpty(t, infos)
	assert.Equal(t, strategyInfo{Kind: "operator", Name: "^", Arity: 2, Precedence: rpn.PrecPow, Assoc: "right"}, infos[0])
	assert.Contains(t, infos, strategyInfo{Kind: "function", Name: "log", Arity: 2})
	assert.Len(t, infos, len(rpn.DefaultOperators())+len(rpn.DefaultFuncs()))
}

func TestReplLine(t *testing.T) {
	calc, err := rpn.New()
	require.NoError(t, err)

	tests := []struct {
		name    string
		line    string
		format  string
		quit    bool
		wantOut string
		wantErr string
	}{
		{name: "blank", line: "   "},
		{name: "expr", line: "2^3*(12/6)+18/3+5.0/2", wantOut: "24.50\n"},
		{name: "expr json", line: "2+3", format: config.OutputJSON, wantOut: `"value": "5.00"`},
		{name: "error", line: "1/0", wantErr: "Error: "},
		{name: "help", line: ".help", wantOut: ".rpn <expr>"},
		{name: "rpn", line: ".rpn 2*-3", wantOut: "2 3 neg *\n"},
		{name: "rpn error", line: ".rpn (1", wantErr: "Error: "},
		{name: "funcs", line: ".funcs", wantOut: "sqrt"},
		{name: "unknown", line: ".bogus", wantErr: "Unknown command: .bogus"},
		{name: "quit", line: ".quit", quit: true},
		{name: "exit", line: " .EXIT ", quit: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format := tt.format
			if format == "" {
				format = config.OutputText
			}
			var out, errOut bytes.Buffer
			quit := replLine(&out, &errOut, calc, format, tt.line)
			assert.Equal(t, tt.quit, quit)
			if tt.wantOut == "" {
				assert.Empty(t, out.String())
			} else {
				assert.Contains(t, out.String(), tt.wantOut)
			}
			if tt.wantErr == "" {
				assert.Empty(t, errOut.String())
			} else {
				assert.Contains(t, errOut.String(), tt.wantErr)
			}
		})
	}
}

func TestHistoryFile(t *testing.T) {
	assert.Equal(t, "hist", historyFile("hist"))

	t.Setenv("HOME", "/home/calc")
	assert.Equal(t, filepath.Join("/home/calc", ".rpncalc_history"), historyFile(""))
}

func TestErrKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&rpn.CharError{Char: '&', Col: 3}, "normalize"},
		{&rpn.BracketError{Left: "("}, "convert"},
		{&rpn.StackError{}, "eval"},
		{&rpn.ConfigError{Key: "rounding"}, "config"},
		{errors.New("other"), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, errKind(tt.err), "%v", tt.err)
	}
}

func TestNewVersionCommand(t *testing.T) {
	tests := []struct {
		name    string
		version string
		wantOut []string
	}{
		{name: "default version", version: "0.1.0", wantOut: []string{"rpncalc v0.1.0", "commit abc123", "built today"}},
		{name: "dev version", version: "dev", wantOut: []string{"rpncalc vdev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := NewVersionCommand(tt.version, "today", "abc123")
			out, _, err := execute(t, cmd, nil, "")
			require.NoError(t, err)
			for _, want := range tt.wantOut {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestNewCompleter(t *testing.T) {
	fns := []rpn.Func{
		rpn.FloatNiladic("pi", nil),
		rpn.Monadic("abs", nil),
		rpn.NewFunc("f", 0, nil),
		rpn.NewFunc("f", 2, nil),
	}
	reg, err := rpn.NewRegistry(nil, fns)
	require.NoError(t, err)

	var names []string
	for _, c := range newCompleter(reg).GetChildren() {
		names = append(names, strings.TrimSpace(string(c.GetName())))
	}
	assert.Equal(t, []string{".help", ".rpn", ".funcs", ".quit", ".exit", "abs(", "f", "f(", "pi"}, names)
}
