package rpn

import (
	"log/slog"
	"sync"

	"github.com/cockroachdb/apd/v3"
)

// Calculator evaluates infix expressions with a fixed set of strategies and a
// fixed rounding policy. A Calculator is immutable, so it is safe to use
// concurrently.
type Calculator struct {
	reg     *Registry
	policy  Policy
	negprec int
	log     *slog.Logger
}

// New creates a calculator. Without options, it uses DefaultPolicy,
// DefaultOperators, DefaultFuncs, and DefaultNegPrecedence. An invalid policy
// or strategy set gives a nil calculator and a *ConfigError.
func New(opts ...Option) (*Calculator, error) {
	s := settings{policy: DefaultPolicy, negprec: DefaultNegPrecedence}
	for _, opt := range opts {
		opt.calcOption(&s)
	}
	if err := s.policy.Validate(); err != nil {
		return nil, err
	}
	if s.ops == nil {
		s.ops = DefaultOperators()
	}
	if s.fns == nil {
		s.fns = DefaultFuncs()
	}
	reg, err := NewRegistry(s.ops, s.fns)
	if err != nil {
		return nil, err
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	c := Calculator{
		reg:     reg,
		policy:  s.policy,
		negprec: s.negprec,
		log:     s.log,
	}
	return &c, nil
}

// Calculate normalizes, converts, and evaluates an infix expression. The
// first stage to fail aborts the calculation.
func (c *Calculator) Calculate(input string) (*apd.Decimal, error) {
	rpn, err := c.Convert(input)
	if err != nil {
		return nil, err
	}
	return c.Eval(rpn)
}

// Convert normalizes an infix expression and converts it to RPN.
func (c *Calculator) Convert(input string) (RPN, error) {
	toks, err := Normalize(input, c.reg)
	if err != nil {
		c.log.Debug("normalize failed", slog.String("input", input), slog.Any("error", err))
		return nil, err
	}
	c.log.Debug("normalized", slog.String("input", input), slog.Any("tokens", toks))
	rpn, err := convert(toks, c.reg, c.negprec)
	if err != nil {
		c.log.Debug("convert failed", slog.String("input", input), slog.Any("error", err))
		return nil, err
	}
	c.log.Debug("converted", slog.String("input", input), slog.String("rpn", rpn.String()))
	return rpn, nil
}

// EvalRPN evaluates an expression written in postfix notation as formatted by
// RPN.String, e.g. "2 3 neg ^" or "1 5 max:2".
func (c *Calculator) EvalRPN(postfix string) (*apd.Decimal, error) {
	rpn, err := ParseRPN(postfix, c.reg)
	if err != nil {
		return nil, err
	}
	return c.Eval(rpn)
}

// Eval evaluates an expression already converted to RPN.
func (c *Calculator) Eval(rpn RPN) (*apd.Decimal, error) {
	v, err := Eval(rpn, c.reg, c.policy)
	if err != nil {
		c.log.Debug("eval failed", slog.String("rpn", rpn.String()), slog.Any("error", err))
		return nil, err
	}
	c.log.Debug("evaluated", slog.String("rpn", rpn.String()), slog.String("result", v.String()))
	return v, nil
}

// Registry returns the calculator's strategies.
func (c *Calculator) Registry() *Registry {
	return c.reg
}

// Policy returns the calculator's rounding policy.
func (c *Calculator) Policy() Policy {
	return c.policy
}

var defaultCalc = sync.OnceValues(func() (*Calculator, error) { return New() })

// Calculate evaluates an infix expression with a calculator using the default
// options.
func Calculate(input string) (*apd.Decimal, error) {
	c, err := defaultCalc()
	if err != nil {
		// The defaults are always valid.
		panic(err)
	}
	return c.Calculate(input)
}
