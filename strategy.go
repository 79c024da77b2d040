package rpn

import (
	"github.com/cockroachdb/apd/v3"
)

// Assoc is the associativity of an operator.
type Assoc int8

const (
	// Left means that a op b op c groups as (a op b) op c.
	Left Assoc = iota
	// Right means that a op b op c groups as a op (b op c).
	Right
)

func (a Assoc) String() string {
	if a == Right {
		return "right"
	}
	return "left"
}

// Operator is a binary infix operator strategy.
type Operator interface {
	// Symbol is the operator's single-rune symbol.
	Symbol() string
	// Precedence is the operator's binding strength. Higher binds tighter.
	Precedence() int
	// Assoc is the operator's associativity.
	Assoc() Assoc
	// Apply computes x op y. The result is rounded to the calculator's policy
	// after Apply returns, so Apply need not round beyond what ctx does. Apply
	// must not modify x or y.
	Apply(ctx *apd.Context, x, y *apd.Decimal) (*apd.Decimal, error)
}

// Func is a function strategy. A function is identified by its name together
// with its arity, so several functions may share a name.
type Func interface {
	// Name is the name used to call the function.
	Name() string
	// Arity is the number of arguments the function takes.
	Arity() int
	// Call evaluates the function. len(args) is always Arity. Call must not
	// modify the elements of args. As with Operator.Apply, the result is
	// rounded after Call returns.
	Call(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error)
}

// Checker classifies tokens during normalization and conversion.
type Checker interface {
	// IsOperator returns whether tok is the symbol of a binary operator.
	IsOperator(tok string) bool
	// IsFunction returns whether name names a function of any arity.
	IsFunction(name string) bool
	// Precedence returns the precedence of an operator symbol.
	Precedence(sym string) int
	// Assoc returns the associativity of an operator symbol.
	Assoc(sym string) Assoc
}

// Executor resolves strategies during evaluation. Lookups return nil if there
// is no such strategy.
type Executor interface {
	// LookupOperator returns the operator with the given symbol.
	LookupOperator(sym string) Operator
	// LookupFunc returns the function with the given name and arity.
	LookupFunc(name string, arity int) Func
}

// Arith is the shape of binary operations on apd.Context, e.g.
// (*apd.Context).Add.
type Arith func(ctx *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error)

type binop struct {
	sym   string
	prec  int
	assoc Assoc
	f     Arith
}

// BinaryOp creates an operator from an arithmetic function. f must set d to
// its result.
func BinaryOp(sym string, prec int, assoc Assoc, f Arith) Operator {
	return &binop{sym: sym, prec: prec, assoc: assoc, f: f}
}

func (o *binop) Symbol() string  { return o.sym }
func (o *binop) Precedence() int { return o.prec }
func (o *binop) Assoc() Assoc    { return o.assoc }

func (o *binop) Apply(ctx *apd.Context, x, y *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	if _, err := o.f(ctx, d, x, y); err != nil {
		return nil, err
	}
	return d, nil
}
