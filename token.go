package rpn

import (
	"strconv"
	"strings"
)

// TokenKind is the kind of a token in RPN.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNum is a numeric literal.
	TokenNum
	// TokenOp is a binary operator.
	TokenOp
	// TokenNeg is unary negation.
	TokenNeg
	// TokenCall is a function call. The token's Args is the number of
	// arguments.
	TokenCall
)

func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "None"
	case TokenNum:
		return "Num"
	case TokenOp:
		return "Op"
	case TokenNeg:
		return "Neg"
	case TokenCall:
		return "Call"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// negText is the text of negation in postfix notation.
const negText = "neg"

// Token is an element of an expression in RPN.
type Token struct {
	// Text is the literal, operator symbol, or function name.
	Text string
	// Kind is the kind of token.
	Kind TokenKind
	// Args is the number of arguments to a function call.
	Args int
}

// String formats the token as it appears in postfix notation: literals and
// operators as themselves, negation as "neg", and function calls as the name
// and argument count separated by a colon, e.g. "max:2".
func (t Token) String() string {
	switch t.Kind {
	case TokenNeg:
		return negText
	case TokenCall:
		return t.Text + ":" + strconv.Itoa(t.Args)
	default:
		return t.Text
	}
}

// RPN is an expression in Reverse Polish Notation.
type RPN []Token

// String formats the expression as space-separated postfix notation.
func (r RPN) String() string {
	var b strings.Builder
	for i, t := range r {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(t.String())
	}
	return b.String()
}

// ParseRPN parses space-separated postfix notation as formatted by
// RPN.String. Operator symbols and function names are checked against c, but
// function arities are not.
func ParseRPN(src string, c Checker) (RPN, error) {
	f := strings.Fields(src)
	r := make(RPN, 0, len(f))
	for _, s := range f {
		switch {
		case isNumber(s):
			r = append(r, Token{Text: s, Kind: TokenNum})
		case s == negText:
			r = append(r, Token{Text: "-", Kind: TokenNeg})
		case c.IsOperator(s):
			r = append(r, Token{Text: s, Kind: TokenOp})
		default:
			name, n, ok := strings.Cut(s, ":")
			if !ok || !c.IsFunction(name) {
				return nil, &TokenError{Token: s}
			}
			k, err := strconv.Atoi(n)
			if err != nil || k < 0 {
				return nil, &TokenError{Token: s}
			}
			r = append(r, Token{Text: name, Kind: TokenCall, Args: k})
		}
	}
	return r, nil
}
