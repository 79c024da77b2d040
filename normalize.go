package rpn

import (
	"strings"
	"unicode"
)

// Normalize splits an infix expression into tokens: numeric literals, operator
// symbols, function names, brackets, and argument separators. Characters that
// are none of those, nor whitespace, cause a *CharError.
//
// Whitespace between digits is dropped so that numerals may be grouped, as in
// "12 345.50". A comma is a decimal separator and becomes a period, except
// directly inside the argument list of a function call. Whitespace and commas
// which follow an operator do not continue a number.
//
// Normalize does not check brackets. Normalizing the tokens of an expression
// joined by single spaces gives the same tokens.
func Normalize(raw string, c Checker) ([]string, error) {
	var (
		b strings.Builder
		// digit, oper, and space are whether the last character continued a
		// number, was an operator or bracket, or was emitted as a separating
		// space, respectively.
		digit, oper, space bool
		// name is whether the last character was part of a name.
		name bool
		// callable is whether the last token was a name, so that an opening
		// bracket begins an argument list.
		callable bool
		// group is whether the whitespace run in progress follows a digit.
		group bool
		// calls holds, for each open bracket, whether it began an argument
		// list.
		calls []bool
	)
	col := 0
	for _, r := range strings.TrimSpace(raw) {
		col++
		if !unicode.IsSpace(r) {
			group = false
		}
		switch {
		case name && (isNameStart(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case isNameStart(r):
			if !space {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			name, callable = true, true
			digit, oper, space = false, false, false
		case r == ';' || r == ',' && len(calls) > 0 && calls[len(calls)-1]:
			if !space {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			digit, name, callable, space = false, false, false, false
			oper = true
		case (isDigit(r) || r == '.' || r == ',') && (digit || !oper):
			if r == ',' {
				r = '.'
			}
			if name {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			digit = true
			name, callable, space = false, false, false
		case isDigit(r):
			if !space {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			digit = true
			oper, name, callable, space = false, false, false, false
		case strings.ContainsRune(OpenBrackets, r):
			calls = append(calls, callable)
			fallthrough
		case strings.ContainsRune(CloseBrackets, r), c.IsOperator(string(r)):
			if strings.ContainsRune(CloseBrackets, r) && len(calls) > 0 {
				calls = calls[:len(calls)-1]
			}
			if !space {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			oper = true
			digit, name, callable, space = false, false, false, false
		case unicode.IsSpace(r):
			// Whitespace after a digit is dropped so that the next digit
			// continues the same number.
			if !space && !digit && !group {
				b.WriteByte(' ')
				space = true
			}
			group = group || digit
			digit, oper, name = false, false, false
		default:
			return nil, &CharError{Char: r, Col: col}
		}
	}
	s := strings.TrimSpace(b.String())
	if s == "" {
		return nil, nil
	}
	return strings.Split(s, " "), nil
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}
