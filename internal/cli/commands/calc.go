// Package commands implements the rpncalc subcommands.
package commands

import (
	"context"
	"errors"

	"github.com/zephyrtronium/rpn"
	"github.com/zephyrtronium/rpn/internal/config"
)

// newCalculator creates a calculator from the config and logger in ctx.
func newCalculator(ctx context.Context) (*rpn.Calculator, error) {
	opts, err := config.FromContext(ctx).Options()
	if err != nil {
		return nil, err
	}
	opts = append(opts, rpn.Logger(config.GetLogger(ctx)))
	return rpn.New(opts...)
}

// errKind names the stage that produced err.
func errKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, rpn.ErrNormalize):
		return "normalize"
	case errors.Is(err, rpn.ErrConvert):
		return "convert"
	case errors.Is(err, rpn.ErrEval):
		return "eval"
	case errors.Is(err, rpn.ErrConfig):
		return "config"
	default:
		return "unknown"
	}
}
