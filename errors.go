package rpn

import (
	"errors"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Error kinds. Every error returned from this package reports exactly one of
// these through errors.Is. ErrNormalize, ErrConvert, and ErrEval mean that an
// expression was invalid; ErrConfig means that a Calculator or Registry was
// built wrong.
var (
	ErrNormalize = errors.New("rpn: invalid character")
	ErrConvert   = errors.New("rpn: invalid expression syntax")
	ErrEval      = errors.New("rpn: evaluation failed")
	ErrConfig    = errors.New("rpn: invalid configuration")
)

// CharError indicates a character the normalizer does not recognize. Its kind
// is ErrNormalize.
type CharError struct {
	// Char is the unrecognized character.
	Char rune
	// Col is the number of runes up to and including Char, after leading
	// whitespace is trimmed.
	Col int
}

func (err *CharError) Error() string {
	return errpos(err.Col, "unrecognized character "+strconv.QuoteRune(err.Char))
}

func (err *CharError) Is(target error) bool {
	return target == ErrNormalize
}

// Pos returns the position of the character.
func (err *CharError) Pos() int {
	return err.Col
}

// TokenError indicates a token that is neither a number, an operator, a
// function, a bracket, nor a separator. Its kind is ErrConvert.
type TokenError struct {
	// Token is the token that was not understood.
	Token string
}

func (err *TokenError) Error() string {
	return "unrecognized token " + strconv.Quote(err.Token)
}

func (err *TokenError) Is(target error) bool {
	return target == ErrConvert
}

// BracketError indicates unbalanced or mismatched brackets. Its kind is
// ErrConvert.
type BracketError struct {
	// Left is the opening bracket.
	Left string
	// Right is the closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return "unbalanced brackets: close bracket " + err.Right + " with no open bracket"
	}
	if err.Right == "" {
		return "unbalanced brackets: open bracket " + err.Left + " with no close bracket"
	}
	return "mismatched brackets: " + err.Left + "expr" + err.Right
}

func (err *BracketError) Is(target error) bool {
	return target == ErrConvert
}

// SeparatorError indicates an argument separator outside a function's
// argument list, or an empty argument. Its kind is ErrConvert.
type SeparatorError struct {
	// Sep is the separator, or the closing bracket that ended an empty
	// argument.
	Sep string
}

func (err *SeparatorError) Error() string {
	return "invalid occurrence of separator " + strconv.Quote(err.Sep)
}

func (err *SeparatorError) Is(target error) bool {
	return target == ErrConvert
}

// StackError indicates an operator or function with too few operands. Its
// kind is ErrEval.
type StackError struct {
	// Token is the operator or function.
	Token string
	// Need is the number of operands the token consumes.
	Need int
	// Have is the number of operands that were available.
	Have int
}

func (err *StackError) Error() string {
	return "stack underflow: " + err.Token + " needs " + strconv.Itoa(err.Need) + " operands, have " + strconv.Itoa(err.Have)
}

func (err *StackError) Is(target error) bool {
	return target == ErrEval
}

// LookupError indicates an operator symbol or function signature that is not
// registered. Its kind is ErrEval.
type LookupError struct {
	// Name is the operator symbol or function name.
	Name string
	// Arity is the number of arguments of the function call.
	Arity int
	// Operator is whether Name is an operator symbol.
	Operator bool
}

func (err *LookupError) Error() string {
	if err.Operator {
		return "unknown operator " + strconv.Quote(err.Name)
	}
	return "unknown function " + strconv.Quote(err.Name) + " with " + strconv.Itoa(err.Arity) + " arguments"
}

func (err *LookupError) Is(target error) bool {
	return target == ErrEval
}

// ResidueError indicates an RPN stream that leaves other than exactly one value
// on the stack. Its kind is ErrEval.
type ResidueError struct {
	// Values is the number of values left.
	Values int
}

func (err *ResidueError) Error() string {
	if err.Values == 0 {
		return "malformed expression: no value"
	}
	return "malformed expression: " + strconv.Itoa(err.Values) + " values left"
}

func (err *ResidueError) Is(target error) bool {
	return target == ErrEval
}

// NumberError indicates a numeric literal that cannot be represented. Its kind
// is ErrEval.
type NumberError struct {
	// Text is the literal.
	Text string
	// Err is the underlying parse error, if any.
	Err error
}

func (err *NumberError) Error() string {
	if err.Err == nil {
		return "invalid number " + strconv.Quote(err.Text)
	}
	return "invalid number " + strconv.Quote(err.Text) + ": " + err.Err.Error()
}

func (err *NumberError) Unwrap() error {
	return err.Err
}

func (err *NumberError) Is(target error) bool {
	return target == ErrEval
}

// DomainError is an error from an operator or function applied to arguments
// for which it has no result, e.g. division by zero. Its kind is ErrEval.
type DomainError struct {
	// Func is the operator symbol or function name.
	Func string
	// X is the out-of-domain argument, if it is known.
	X *apd.Decimal
	// Arg is the 1-based index of X, if it is known.
	Arg int
	// Err is the underlying error, if any.
	Err error
}

func (err *DomainError) Error() string {
	var r string
	switch {
	case err.X != nil:
		r = err.X.String() + " outside domain"
	case err.Err != nil:
		r = err.Err.Error()
	default:
		r = "outside domain"
	}
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Unwrap() error {
	return err.Err
}

func (err *DomainError) Is(target error) bool {
	return target == ErrEval
}

// ConfigError indicates a strategy set or policy that cannot be used. Its kind
// is ErrConfig.
type ConfigError struct {
	// Key identifies the setting or strategy, e.g. "precision" or "operator".
	Key string
	// Value is the offending value.
	Value string
	// Reason describes the problem.
	Reason string
}

func (err *ConfigError) Error() string {
	return "invalid " + err.Key + " " + strconv.Quote(err.Value) + ": " + err.Reason
}

func (err *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

