// Package config provides configuration management for the rpncalc CLI.
package config

import (
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/zephyrtronium/rpn"
)

// Default values.
const (
	DefaultFile   = "rpncalc.yaml"
	DefaultOutput = OutputText
	EnvPrefix     = "RPNCALC_"
)

// Output formats.
const (
	OutputText  = "text"
	OutputJSON  = "json"
	OutputTable = "table"
)

// Outputs lists the valid output formats.
var Outputs = []string{OutputText, OutputJSON, OutputTable}

// Config holds the calculator settings and CLI behavior.
type Config struct {
	Precision     uint32 `koanf:"precision"`
	Places        int32  `koanf:"places"`
	Rounding      string `koanf:"rounding"`
	NegPrecedence int    `koanf:"neg_precedence"`
	Output        string `koanf:"output"`
	Jobs          int    `koanf:"jobs"`
	Verbose       bool   `koanf:"verbose"`
	History       string `koanf:"history"`

	// File is the config file that was loaded, if any.
	File string `koanf:"-"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Precision:     rpn.DefaultPolicy.Precision,
		Places:        rpn.DefaultPolicy.Places,
		Rounding:      rpn.DefaultPolicy.Rounding.String(),
		NegPrecedence: rpn.DefaultNegPrecedence,
		Output:        DefaultOutput,
		Jobs:          runtime.GOMAXPROCS(0),
	}
}

// findConfigFile finds the config file to use.
// Priority: explicit path > rpncalc.yaml > rpncalc.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{DefaultFile, "rpncalc.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load loads configuration from defaults, a YAML file, environment
// variables, and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Load defaults
	d := Default()
	if err := k.Load(confmap.Provider(map[string]any{
		"precision":      d.Precision,
		"places":         d.Places,
		"rounding":       d.Rounding,
		"neg_precedence": d.NegPrecedence,
		"output":         d.Output,
		"jobs":           d.Jobs,
		"verbose":        d.Verbose,
		"history":        d.History,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Load environment variables
	// Transform: RPNCALC_NEG_PRECEDENCE -> neg_precedence
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			// Only load flags that were explicitly set
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal and validate
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings which the calculator doesn't check itself.
func (c *Config) Validate() error {
	if !slices.Contains(Outputs, c.Output) {
		return fmt.Errorf("invalid output format %q (want one of %s)", c.Output, strings.Join(Outputs, ", "))
	}
	if c.Jobs < 1 {
		return fmt.Errorf("invalid jobs %d: must be at least 1", c.Jobs)
	}
	if _, err := c.Policy(); err != nil {
		return fmt.Errorf("invalid calculator settings: %w", err)
	}
	return nil
}

// Policy returns the rounding policy the config describes.
func (c *Config) Policy() (rpn.Policy, error) {
	r, err := rpn.ParseRounding(c.Rounding)
	if err != nil {
		return rpn.Policy{}, err
	}
	p := rpn.Policy{Precision: c.Precision, Places: c.Places, Rounding: r}
	if err := p.Validate(); err != nil {
		return rpn.Policy{}, err
	}
	return p, nil
}

// Options returns the calculator options the config describes.
func (c *Config) Options() ([]rpn.Option, error) {
	p, err := c.Policy()
	if err != nil {
		return nil, err
	}
	return []rpn.Option{rpn.WithPolicy(p), rpn.NegPrecedence(c.NegPrecedence)}, nil
}
