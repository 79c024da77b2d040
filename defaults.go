package rpn

import (
	"errors"
	"math/big"

	"github.com/cockroachdb/apd/v3"
	"github.com/zephyrtronium/bigfloat"
)

// Default operator precedences.
const (
	PrecAdd = 1
	PrecMul = 2
	PrecPow = 4
)

// DefaultOperators returns the operators a Calculator uses unless it is given
// others: + and - at PrecAdd, * / × ÷ at PrecMul, all left-associative, and
// right-associative ^ at PrecPow.
func DefaultOperators() []Operator {
	return []Operator{
		BinaryOp("+", PrecAdd, Left, (*apd.Context).Add),
		BinaryOp("-", PrecAdd, Left, (*apd.Context).Sub),
		BinaryOp("*", PrecMul, Left, (*apd.Context).Mul),
		BinaryOp("×", PrecMul, Left, (*apd.Context).Mul),
		BinaryOp("/", PrecMul, Left, (*apd.Context).Quo),
		BinaryOp("÷", PrecMul, Left, (*apd.Context).Quo),
		powOp{},
	}
}

// powOp is exponentiation. Integer exponents are computed exactly to the
// context's precision; other exponents require a non-negative base.
type powOp struct{}

func (powOp) Symbol() string  { return "^" }
func (powOp) Precedence() int { return PrecPow }
func (powOp) Assoc() Assoc    { return Right }

func (powOp) Apply(ctx *apd.Context, x, y *apd.Decimal) (d *apd.Decimal, err error) {
	var integ, frac apd.Decimal
	y.Modf(&integ, &frac)
	if frac.IsZero() {
		d = new(apd.Decimal)
		if _, err := ctx.Pow(d, x, y); err != nil {
			return nil, err
		}
		return d, nil
	}
	// Guard against invalid exponentiations, i.e. negative base.
	switch x.Sign() {
	case -1:
		return nil, &DomainError{X: x, Arg: 1}
	case 0:
		if y.Sign() < 0 {
			return nil, &DomainError{X: x, Arg: 1}
		}
		return new(apd.Decimal), nil
	}
	// x^y is exp(y ln x), so its range is that of exp.
	var t apd.Decimal
	est := apd.BaseContext.WithPrecision(8)
	if _, err := est.Ln(&t, x); err != nil {
		return nil, &DomainError{X: x, Arg: 1, Err: err}
	}
	if _, err := est.Mul(&t, &t, y); err != nil || !expArg(&t) {
		return nil, &DomainError{X: y, Arg: 2, Err: err}
	}
	prec := floatPrec(ctx)
	l, err := toFloat(x, prec)
	if err != nil {
		return nil, &DomainError{X: x, Arg: 1, Err: err}
	}
	r, err := toFloat(y, prec)
	if err != nil {
		return nil, &DomainError{X: y, Arg: 2, Err: err}
	}
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		err = p.(error) // panic if not error
		if errors.As(err, &big.ErrNaN{}) {
			d, err = nil, &DomainError{X: x, Arg: 1, Err: err}
			return
		}
		panic(err)
	}()
	z := new(big.Float).SetPrec(prec)
	bigfloat.Pow(z, l, r)
	if z.IsInf() {
		return nil, &DomainError{X: y, Arg: 2}
	}
	return fromFloat(ctx, z)
}
