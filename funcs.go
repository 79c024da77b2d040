package rpn

import (
	"errors"
	"math"
	"math/big"

	"github.com/cockroachdb/apd/v3"
	"github.com/zephyrtronium/bigfloat"
)

// Unary is the shape of unary operations on apd.Context, e.g.
// (*apd.Context).Abs.
type Unary func(ctx *apd.Context, d, x *apd.Decimal) (apd.Condition, error)

type simpleFunc struct {
	name  string
	arity int
	f     func(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error)
}

func (f *simpleFunc) Name() string { return f.name }
func (f *simpleFunc) Arity() int   { return f.arity }

func (f *simpleFunc) Call(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error) {
	return f.f(ctx, args)
}

// NewFunc creates a function of the given arity. f receives exactly arity
// arguments and must not modify them.
func NewFunc(name string, arity int, f func(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error)) Func {
	return &simpleFunc{name: name, arity: arity, f: f}
}

// Monadic wraps a unary decimal operation into a function of one argument.
func Monadic(name string, f Unary) Func {
	return NewFunc(name, 1, func(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error) {
		d := new(apd.Decimal)
		if _, err := f(ctx, d, args[0]); err != nil {
			return nil, &DomainError{X: args[0], Arg: 1, Err: err}
		}
		return d, nil
	})
}

// Dyadic wraps a binary decimal operation into a function of two arguments.
func Dyadic(name string, f Arith) Func {
	return NewFunc(name, 2, func(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error) {
		d := new(apd.Decimal)
		if _, err := f(ctx, d, args[0], args[1]); err != nil {
			return nil, err
		}
		return d, nil
	})
}

type floatMonadic struct {
	name string
	f    func(out, in *big.Float) *big.Float
}

func (m *floatMonadic) Name() string { return m.name }
func (m *floatMonadic) Arity() int   { return 1 }

func (m *floatMonadic) Call(ctx *apd.Context, args []*apd.Decimal) (d *apd.Decimal, err error) {
	x := args[0]
	prec := floatPrec(ctx)
	in, err := toFloat(x, prec)
	if err != nil {
		return nil, &DomainError{X: x, Arg: 1, Err: err}
	}
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err = r.(error) // panic if not error
		if errors.As(err, &big.ErrNaN{}) {
			d, err = nil, &DomainError{X: x, Arg: 1, Err: err}
			return
		}
		panic(err)
	}()
	out := new(big.Float).SetPrec(prec)
	m.f(out, in)
	if out.IsInf() {
		return nil, &DomainError{X: x, Arg: 1}
	}
	return fromFloat(ctx, out)
}

// FloatMonadic wraps a function of one big.Float into a function of one
// argument. The argument is converted with enough bits to hold the context's
// precision. f must set out to its result, to the precision of out; its return
// value is ignored. If f is called on an argument outside its domain, it
// should panic with an error of type big.ErrNaN, or return an infinity.
func FloatMonadic(name string, f func(out, in *big.Float) *big.Float) Func {
	return &floatMonadic{name: name, f: f}
}

// FloatNiladic wraps a function of no arguments, generally a constant, into a
// Func. f must set out to its result; its return value is ignored. Unlike
// FloatMonadic, the wrapped function is expected never to panic.
func FloatNiladic(name string, f func(out *big.Float) *big.Float) Func {
	return NewFunc(name, 0, func(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error) {
		out := new(big.Float).SetPrec(floatPrec(ctx))
		f(out)
		return fromFloat(ctx, out)
	})
}

// Float64Monadic wraps a function of one float64 into a function of one
// argument. The argument and result pass through float64, so the result has
// at most about 16 significant digits. A NaN or infinite result is a
// *DomainError.
func Float64Monadic(name string, f func(float64) float64) Func {
	return NewFunc(name, 1, func(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error) {
		x := args[0]
		v, err := x.Float64()
		if err != nil {
			return nil, &DomainError{X: x, Arg: 1, Err: err}
		}
		r := f(v)
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, &DomainError{X: x, Arg: 1}
		}
		d, err := new(apd.Decimal).SetFloat64(r)
		if err != nil {
			return nil, &DomainError{X: x, Arg: 1, Err: err}
		}
		return d, nil
	})
}

// floatPrec returns the number of mantissa bits which hold the context's
// precision in decimal digits, with some guard bits.
func floatPrec(ctx *apd.Context) uint {
	return uint(ctx.Precision)*10/3 + 32
}

func toFloat(x *apd.Decimal, prec uint) (*big.Float, error) {
	f, _, err := big.ParseFloat(x.String(), 10, prec, big.ToNearestEven)
	return f, err
}

func fromFloat(ctx *apd.Context, f *big.Float) (*apd.Decimal, error) {
	d, _, err := ctx.NewFromString(f.Text('g', int(ctx.Precision)+2))
	return d, err
}

// DefaultFuncs returns the functions a Calculator uses unless it is given
// others.
//
// Constants pi and e, exp, natural logarithm ln, common logarithm log, and
// square root sqrt are computed to the full precision of the calculator.
// log(x, b) is the logarithm of x to base b. min and max take two arguments,
// and abs one. The trigonometric functions sin, cos, tg or tan, and ctg or cot
// take radians and are computed in float64.
func DefaultFuncs() []Func {
	return []Func{
		FloatNiladic("pi", bigfloat.Pi),
		FloatNiladic("e", func(out *big.Float) *big.Float {
			var one big.Float
			one.SetFloat64(1)
			return bigfloat.Exp(out, &one)
		}),
		guard(FloatMonadic("exp", bigfloat.Exp), expArg),
		guard(FloatMonadic("ln", bigfloat.Log), positive),
		guard(FloatMonadic("log", func(out, in *big.Float) *big.Float {
			bigfloat.Log(out, in)
			in.SetFloat64(10).SetPrec(out.Prec())
			bigfloat.Log(in, in)
			return out.Quo(out, in)
		}), positive),
		NewFunc("log", 2, logBase),
		guard(FloatMonadic("sqrt", (*big.Float).Sqrt), nonnegative),
		Monadic("abs", (*apd.Context).Abs),
		Dyadic("min", func(ctx *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error) {
			if x.Cmp(y) <= 0 {
				d.Set(x)
			} else {
				d.Set(y)
			}
			return 0, nil
		}),
		Dyadic("max", func(ctx *apd.Context, d, x, y *apd.Decimal) (apd.Condition, error) {
			if x.Cmp(y) >= 0 {
				d.Set(x)
			} else {
				d.Set(y)
			}
			return 0, nil
		}),
		Float64Monadic("sin", math.Sin),
		Float64Monadic("cos", math.Cos),
		Float64Monadic("tg", math.Tan),
		Float64Monadic("tan", math.Tan),
		Float64Monadic("ctg", cot),
		Float64Monadic("cot", cot),
	}
}

type guarded struct {
	Func
	ok func(*apd.Decimal) bool
}

func (g guarded) Call(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error) {
	for i, x := range args {
		if !g.ok(x) {
			return nil, &DomainError{X: x, Arg: i + 1}
		}
	}
	return g.Func.Call(ctx, args)
}

// guard restricts the domain of f to arguments for which ok returns true.
func guard(f Func, ok func(*apd.Decimal) bool) Func {
	return guarded{Func: f, ok: ok}
}

// expLimit bounds |x| for exp(x), just above MaxExponent·ln 10. Beyond it the
// result cannot be represented and bigfloat.Exp takes unbounded time.
var expLimit = apd.New(apd.MaxExponent*2303, -3)

func expArg(x *apd.Decimal) bool { return new(apd.Decimal).Abs(x).Cmp(expLimit) <= 0 }

func positive(x *apd.Decimal) bool    { return x.Sign() > 0 }
func nonnegative(x *apd.Decimal) bool { return x.Sign() >= 0 }

func cot(x float64) float64 {
	return 1 / math.Tan(x)
}

// logBase computes log(x, b) as ln x / ln b with guard digits.
func logBase(ctx *apd.Context, args []*apd.Decimal) (*apd.Decimal, error) {
	x, b := args[0], args[1]
	if x.Sign() <= 0 {
		return nil, &DomainError{X: x, Arg: 1}
	}
	if b.Sign() <= 0 || b.Cmp(decimalOne) == 0 {
		return nil, &DomainError{X: b, Arg: 2}
	}
	wide := ctx.WithPrecision(ctx.Precision + 5)
	var lx, lb apd.Decimal
	if _, err := wide.Ln(&lx, x); err != nil {
		return nil, &DomainError{X: x, Arg: 1, Err: err}
	}
	if _, err := wide.Ln(&lb, b); err != nil {
		return nil, &DomainError{X: b, Arg: 2, Err: err}
	}
	d := new(apd.Decimal)
	if _, err := ctx.Quo(d, &lx, &lb); err != nil {
		return nil, err
	}
	return d, nil
}

var decimalOne = apd.New(1, 0)
