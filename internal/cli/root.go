// Package cli provides the command-line interface for rpncalc.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/zephyrtronium/rpn/internal/cli/commands"
	"github.com/zephyrtronium/rpn/internal/config"
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	var cfgFile string
	evalOpts := &commands.EvalOptions{}
	rootCmd := &cobra.Command{
		Use:   "rpncalc [expr...]",
		Short: "rpncalc - decimal calculator",
		Long: `rpncalc evaluates infix arithmetic expressions over arbitrary-precision
decimals by converting them to reverse Polish notation.

Expressions may use + - * × / ÷ ^, brackets ( ) [ ] { }, unary minus, and
functions such as sqrt(2), log(8; 2), and max(12 345.50, 8 000.66).
Results are rounded to a fixed number of decimal places, half to even
by default.`,
		Example: `  rpncalc '2^3*(12/6)+18/3+5.0/2'
  rpncalc eval --postfix '2 3 4 * +'
  rpncalc rpn 'sin(-1)'
  echo '1/3' | rpncalc eval --places 10`,
		Version: Version,
		Args:    cobra.ArbitraryArgs,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.Load(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			log := config.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
			if cfg.File != "" {
				log.Debug("loaded config", slog.String("file", cfg.File))
			}

			ctx := config.WithConfig(cmd.Context(), cfg)
			ctx = config.WithLogger(ctx, log)
			cmd.SetContext(ctx)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && evalOpts.File == "" {
				return cmd.Help()
			}
			return commands.RunEval(cmd, args, evalOpts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./"+config.DefaultFile+")")
	pf.Uint32P("precision", "p", 0, "Significant digits kept by every operation")
	pf.Int32P("places", "d", 0, "Decimal places of every result (negative to disable)")
	pf.StringP("rounding", "r", "", "Rounding mode (half_even|half_up|half_down|up|down|ceiling|floor)")
	pf.Int("neg-precedence", 0, "Binding power of unary minus")
	pf.StringP("output", "o", "", "Output format (text|json|table)")
	pf.IntP("jobs", "j", 0, "Expressions evaluated concurrently")
	pf.BoolP("verbose", "v", false, "Verbose output")
	pf.String("history", "", "REPL history file (default: ~/.rpncalc_history)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return config.Outputs, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("rounding", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"half_even", "half_up", "half_down", "up", "down", "ceiling", "floor"}, cobra.ShellCompDirectiveNoFileComp
	})

	// The bare command evaluates its arguments.
	commands.AddEvalFlags(rootCmd, evalOpts)

	rootCmd.AddCommand(commands.NewVersionCommand(Version, BuildDate, GitCommit))
	rootCmd.AddCommand(commands.NewEvalCommand())
	rootCmd.AddCommand(commands.NewRPNCommand())
	rootCmd.AddCommand(commands.NewREPLCommand())
	rootCmd.AddCommand(commands.NewFuncsCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for rpncalc.

To load completions:

Bash:
  $ source <(rpncalc completion bash)

Zsh:
  $ rpncalc completion zsh > "${fpath[1]}/_rpncalc"

Fish:
  $ rpncalc completion fish | source

PowerShell:
  PS> rpncalc completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(w)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}
	return cmd
}
