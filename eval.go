package rpn

import (
	"errors"

	"github.com/cockroachdb/apd/v3"
)

// Eval evaluates an expression in RPN. Operators and functions are resolved
// through x, and every result is rounded to p into a new value before it is
// pushed, so values returned by strategies are never modified. Exactly one
// value must remain once the expression is exhausted; that value, rounded to
// p, is the result.
//
// Too few operands give a *StackError, unregistered operators and function
// signatures give a *LookupError, operator and function failures give a
// *DomainError, and a stream which leaves no value or several values gives a
// *ResidueError.
func Eval(rpn RPN, x Executor, p Policy) (*apd.Decimal, error) {
	ctx := p.Context()
	stack := make([]*apd.Decimal, 0, len(rpn))
	for _, tok := range rpn {
		switch tok.Kind {
		case TokenNum:
			d, err := parseNum(ctx, tok.Text)
			if err != nil {
				return nil, err
			}
			stack = append(stack, d)
		case TokenNeg:
			if len(stack) < 1 {
				return nil, &StackError{Token: negText, Need: 1, Have: len(stack)}
			}
			v := stack[len(stack)-1]
			stack[len(stack)-1] = new(apd.Decimal).Neg(v)
		case TokenOp:
			if len(stack) < 2 {
				return nil, &StackError{Token: tok.Text, Need: 2, Have: len(stack)}
			}
			op := x.LookupOperator(tok.Text)
			if op == nil {
				return nil, &LookupError{Name: tok.Text, Arity: 2, Operator: true}
			}
			r, l := stack[len(stack)-1], stack[len(stack)-2]
			v, err := op.Apply(ctx, l, r)
			if err != nil {
				return nil, domain(tok.Text, err)
			}
			if v, err = p.round(ctx, v); err != nil {
				return nil, domain(tok.Text, err)
			}
			stack[len(stack)-2] = v
			stack = stack[:len(stack)-1]
		case TokenCall:
			fn := x.LookupFunc(tok.Text, tok.Args)
			if fn == nil {
				return nil, &LookupError{Name: tok.Text, Arity: tok.Args}
			}
			if len(stack) < tok.Args {
				return nil, &StackError{Token: tok.String(), Need: tok.Args, Have: len(stack)}
			}
			k := len(stack) - tok.Args
			args := make([]*apd.Decimal, tok.Args)
			copy(args, stack[k:])
			v, err := fn.Call(ctx, args)
			if err != nil {
				return nil, domain(tok.Text, err)
			}
			if v, err = p.round(ctx, v); err != nil {
				return nil, domain(tok.Text, err)
			}
			stack = append(stack[:k], v)
		default:
			return nil, &TokenError{Token: tok.String()}
		}
	}
	if len(stack) != 1 {
		return nil, &ResidueError{Values: len(stack)}
	}
	v, err := p.round(ctx, stack[0])
	if err != nil {
		return nil, &NumberError{Text: stack[0].String(), Err: err}
	}
	return v, nil
}

// domain wraps a strategy error in a *DomainError naming the operator or
// function, unless it already is one.
func domain(name string, err error) error {
	var d *DomainError
	if errors.As(err, &d) {
		if d.Func == "" {
			d.Func = name
		}
		return d
	}
	return &DomainError{Func: name, Err: err}
}
