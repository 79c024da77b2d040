package rpn

import (
	"log/slog"
)

// Option is an option used when creating a Calculator.
type Option interface {
	calcOption(*settings)
}

// settings holds the options for creating a Calculator.
type settings struct {
	policy  Policy
	ops     []Operator
	fns     []Func
	negprec int
	log     *slog.Logger
}

type (
	precopt    uint32
	placesopt  int32
	roundopt   Rounding
	policyopt  Policy
	opsopt     []Operator
	funcsopt   []Func
	negprecopt int
	logopt     struct{ l *slog.Logger }
)

// Prec sets the number of significant digits kept by every operation.
func Prec(digits uint32) Option {
	return precopt(digits)
}

func (o precopt) calcOption(s *settings) { s.policy.Precision = uint32(o) }

// Places sets the number of decimal places every result is quantized to. A
// negative value rounds results to precision only.
func Places(n int32) Option {
	return placesopt(n)
}

func (o placesopt) calcOption(s *settings) { s.policy.Places = int32(o) }

// RoundingMode sets the rounding mode.
func RoundingMode(r Rounding) Option {
	return roundopt(r)
}

func (o roundopt) calcOption(s *settings) { s.policy.Rounding = Rounding(o) }

// WithPolicy sets the precision, places, and rounding mode at once. Options
// which follow it may change individual settings.
func WithPolicy(p Policy) Option {
	return policyopt(p)
}

func (o policyopt) calcOption(s *settings) { s.policy = Policy(o) }

// Operators sets the operators, replacing the defaults. With no arguments, the
// calculator has no operators.
func Operators(ops ...Operator) Option {
	// Always make a copy.
	return opsopt(append([]Operator{}, ops...))
}

func (o opsopt) calcOption(s *settings) { s.ops = o }

// Funcs sets the functions, replacing the defaults. With no arguments, the
// calculator has no functions.
func Funcs(fns ...Func) Option {
	return funcsopt(append([]Func{}, fns...))
}

func (o funcsopt) calcOption(s *settings) { s.fns = o }

// NegPrecedence sets the precedence of unary negation relative to binary
// operators. The default is DefaultNegPrecedence.
func NegPrecedence(prec int) Option {
	return negprecopt(prec)
}

func (o negprecopt) calcOption(s *settings) { s.negprec = int(o) }

// Logger sets the logger which receives a debug record for each stage of a
// calculation. The default discards everything.
func Logger(l *slog.Logger) Option {
	return logopt{l}
}

func (o logopt) calcOption(s *settings) { s.log = o.l }
