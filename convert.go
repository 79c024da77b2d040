package rpn

import (
	"strings"
)

// DefaultNegPrecedence is the default precedence of unary negation. It binds
// tighter than the default multiplicative operators and looser than ^, so
// "-2^2" is -(2^2) and "2*-3" is 2*(-3).
const DefaultNegPrecedence = 3

// entryKind is the kind of an operator stack entry.
type entryKind int8

const (
	entryOp entryKind = iota
	entryNeg
	entryOpen
	entryFunc
)

// entry is an element of the operator stack.
type entry struct {
	text string
	kind entryKind
	// call is whether an entryOpen begins a function's argument list.
	call bool
	// seps is the number of separators seen directly inside an entryOpen.
	seps int
}

// class is the syntactic class of the previous token, which determines
// whether + and - are unary and whether a separator ends an empty argument.
type class int8

const (
	classNone class = iota // start of input
	classOperand
	classOperator
	classOpen
	classSep
)

// ToRPN converts a token stream from Normalize to RPN using the shunting-yard
// algorithm. Among operators of equal precedence, a left-associative operator
// already on the stack is output before the incoming one, and a
// right-associative one is not.
//
// A function name followed by an open bracket is a call, and the call token
// carries the number of arguments found inside the brackets. A function name
// without brackets is a call with no arguments. A + or - where an operand is
// expected is unary; unary + is dropped.
//
// Unbalanced or mismatched brackets give a *BracketError, misplaced
// separators give a *SeparatorError, and any other unrecognized token gives a
// *TokenError. Other errors, such as missing operands, are detected by Eval.
func ToRPN(tokens []string, c Checker) (RPN, error) {
	return convert(tokens, c, DefaultNegPrecedence)
}

func convert(tokens []string, c Checker, negprec int) (RPN, error) {
	out := make(RPN, 0, len(tokens))
	stack := make([]entry, 0, 8)
	last := classNone
	for i, tok := range tokens {
		switch {
		case isNumber(tok):
			out = append(out, Token{Text: tok, Kind: TokenNum})
			last = classOperand
		case c.IsOperator(tok) && (last == classOperand || tok != "-" && tok != "+"):
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				if !pops(top, tok, c, negprec) {
					break
				}
				stack = stack[:len(stack)-1]
				out = append(out, top.token())
			}
			stack = append(stack, entry{text: tok, kind: entryOp})
			last = classOperator
		case tok == "-":
			// Prefix operators have no left operand, so they never pop.
			stack = append(stack, entry{text: tok, kind: entryNeg})
			last = classOperator
		case tok == "+":
			last = classOperator
		case oneOf(OpenBrackets, tok):
			call := len(stack) > 0 && stack[len(stack)-1].kind == entryFunc && last == classOperator
			stack = append(stack, entry{text: tok, kind: entryOpen, call: call})
			last = classOpen
		case oneOf(CloseBrackets, tok):
			var top entry
			for {
				if len(stack) == 0 {
					return nil, &BracketError{Right: tok}
				}
				top = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if top.kind == entryOpen {
					break
				}
				out = append(out, top.token())
			}
			if strings.Index(OpenBrackets, top.text) != strings.Index(CloseBrackets, tok) {
				return nil, &BracketError{Left: top.text, Right: tok}
			}
			if top.call {
				n := 0
				switch last {
				case classOpen:
					// Empty argument list.
				case classSep:
					return nil, &SeparatorError{Sep: tok}
				default:
					n = top.seps + 1
				}
				fn := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				out = append(out, Token{Text: fn.text, Kind: TokenCall, Args: n})
			}
			last = classOperand
		case oneOf(Separators, tok):
			if last == classOpen || last == classSep {
				return nil, &SeparatorError{Sep: tok}
			}
			for len(stack) > 0 && stack[len(stack)-1].kind != entryOpen {
				out = append(out, stack[len(stack)-1].token())
				stack = stack[:len(stack)-1]
			}
			if len(stack) == 0 || !stack[len(stack)-1].call {
				return nil, &SeparatorError{Sep: tok}
			}
			stack[len(stack)-1].seps++
			last = classSep
		case c.IsFunction(tok):
			if i+1 < len(tokens) && oneOf(OpenBrackets, tokens[i+1]) {
				stack = append(stack, entry{text: tok, kind: entryFunc})
				// The function is an operator in the sense that the bracket
				// following it opens its argument list.
				last = classOperator
				continue
			}
			out = append(out, Token{Text: tok, Kind: TokenCall})
			last = classOperand
		default:
			return nil, &TokenError{Token: tok}
		}
	}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.kind == entryOpen {
			return nil, &BracketError{Left: top.text}
		}
		out = append(out, top.token())
	}
	return out, nil
}

// pops returns whether the stack entry top is output before pushing the
// binary operator op.
func pops(top entry, op string, c Checker, negprec int) bool {
	switch top.kind {
	case entryOp:
		tp, p := c.Precedence(top.text), c.Precedence(op)
		if c.Assoc(top.text) == Right {
			return tp > p
		}
		return tp >= p
	case entryNeg:
		return negprec > c.Precedence(op)
	default:
		return false
	}
}

// token returns the RPN token for an operator stack entry.
func (e entry) token() Token {
	switch e.kind {
	case entryNeg:
		return Token{Text: e.text, Kind: TokenNeg}
	case entryFunc:
		return Token{Text: e.text, Kind: TokenCall}
	default:
		return Token{Text: e.text, Kind: TokenOp}
	}
}

// oneOf returns whether tok is a single byte from set.
func oneOf(set, tok string) bool {
	return len(tok) == 1 && strings.Contains(set, tok)
}
