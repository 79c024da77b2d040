package rpn

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// A bracket in byte position k in OpenBrackets is matched with the bracket in
// byte position k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// Separators contains the runes which separate function arguments. A comma is
// a separator only directly inside a function's argument list.
const Separators = ",;"

// funcKey identifies a function strategy.
type funcKey struct {
	name  string
	arity int
}

// Registry maps operator symbols and function signatures to strategies. A
// Registry is immutable, so it is safe to use concurrently. It implements both
// Checker and Executor.
type Registry struct {
	ops   map[string]Operator
	funcs map[funcKey]Func
	// arities lists the arities registered for each function name, ascending.
	arities map[string][]int
}

// NewRegistry creates a registry from a list of operators and a list of
// functions. No two operators may share a symbol, and no two functions may
// share both a name and an arity. If any strategy is invalid, the result is
// nil and a *ConfigError.
func NewRegistry(ops []Operator, fns []Func) (*Registry, error) {
	r := Registry{
		ops:     make(map[string]Operator, len(ops)),
		funcs:   make(map[funcKey]Func, len(fns)),
		arities: make(map[string][]int),
	}
	for i, op := range ops {
		if op == nil {
			return nil, &ConfigError{Key: "operator", Value: "#" + strconv.Itoa(i), Reason: "nil strategy"}
		}
		sym := op.Symbol()
		if reason := checkSymbol(sym); reason != "" {
			return nil, &ConfigError{Key: "operator", Value: sym, Reason: reason}
		}
		if a := op.Assoc(); a != Left && a != Right {
			return nil, &ConfigError{Key: "operator", Value: sym, Reason: "invalid associativity " + strconv.Itoa(int(a))}
		}
		if _, ok := r.ops[sym]; ok {
			return nil, &ConfigError{Key: "operator", Value: sym, Reason: "duplicate symbol"}
		}
		r.ops[sym] = op
	}
	for i, fn := range fns {
		if fn == nil {
			return nil, &ConfigError{Key: "function", Value: "#" + strconv.Itoa(i), Reason: "nil strategy"}
		}
		k := funcKey{fn.Name(), fn.Arity()}
		if !isName(k.name) {
			return nil, &ConfigError{Key: "function", Value: k.name, Reason: "name must be a letter or _ followed by letters, digits, or _"}
		}
		if k.arity < 0 {
			return nil, &ConfigError{Key: "function", Value: k.name, Reason: "negative arity " + strconv.Itoa(k.arity)}
		}
		if _, ok := r.funcs[k]; ok {
			return nil, &ConfigError{Key: "function", Value: k.name + "/" + strconv.Itoa(k.arity), Reason: "duplicate signature"}
		}
		r.funcs[k] = fn
		r.arities[k.name] = append(r.arities[k.name], k.arity)
	}
	for _, v := range r.arities {
		sort.Ints(v)
	}
	return &r, nil
}

// checkSymbol returns the reason sym cannot be an operator symbol, or the
// empty string if it can.
func checkSymbol(sym string) string {
	if utf8.RuneCountInString(sym) != 1 {
		return "symbol must be exactly one character"
	}
	r, _ := utf8.DecodeRuneInString(sym)
	switch {
	case r == utf8.RuneError:
		return "symbol is not valid UTF-8"
	case r == '.', r == '_', unicode.IsDigit(r), unicode.IsLetter(r), unicode.IsSpace(r):
		return "symbol would be read as part of a number, name, or space"
	case strings.ContainsRune(OpenBrackets+CloseBrackets+Separators, r):
		return "symbol is a bracket or separator"
	}
	return ""
}

// isName returns whether s can name a function.
func isName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if !isNameStart(r) && (i == 0 || !unicode.IsDigit(r)) {
			return false
		}
	}
	return true
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

// LookupOperator returns the operator with the given symbol, or nil.
func (r *Registry) LookupOperator(sym string) Operator {
	return r.ops[sym]
}

// LookupFunc returns the function with the given name and arity, or nil.
func (r *Registry) LookupFunc(name string, arity int) Func {
	return r.funcs[funcKey{name, arity}]
}

// IsOperator returns whether tok is a registered operator symbol.
func (r *Registry) IsOperator(tok string) bool {
	_, ok := r.ops[tok]
	return ok
}

// IsFunction returns whether name is registered with any arity.
func (r *Registry) IsFunction(name string) bool {
	return len(r.arities[name]) > 0
}

// CanCall returns whether a function name is registered with arity n.
func (r *Registry) CanCall(name string, n int) bool {
	_, ok := r.funcs[funcKey{name, n}]
	return ok
}

// Precedence returns the precedence of the operator with the given symbol, or
// 0 if there is none.
func (r *Registry) Precedence(sym string) int {
	if op := r.ops[sym]; op != nil {
		return op.Precedence()
	}
	return 0
}

// Assoc returns the associativity of the operator with the given symbol, or
// Left if there is none.
func (r *Registry) Assoc(sym string) Assoc {
	if op := r.ops[sym]; op != nil {
		return op.Assoc()
	}
	return Left
}

// Arities returns the arities with which name is registered, ascending.
func (r *Registry) Arities(name string) []int {
	return append([]int(nil), r.arities[name]...)
}

// Operators returns the registered operators ordered by descending precedence,
// then symbol.
func (r *Registry) Operators() []Operator {
	v := make([]Operator, 0, len(r.ops))
	for _, op := range r.ops {
		v = append(v, op)
	}
	sort.Slice(v, func(i, j int) bool {
		if v[i].Precedence() != v[j].Precedence() {
			return v[i].Precedence() > v[j].Precedence()
		}
		return v[i].Symbol() < v[j].Symbol()
	})
	return v
}

// Funcs returns the registered functions ordered by name, then arity.
func (r *Registry) Funcs() []Func {
	v := make([]Func, 0, len(r.funcs))
	for _, fn := range r.funcs {
		v = append(v, fn)
	}
	sort.Slice(v, func(i, j int) bool {
		if v[i].Name() != v[j].Name() {
			return v[i].Name() < v[j].Name()
		}
		return v[i].Arity() < v[j].Arity()
	})
	return v
}

var (
	_ Checker  = (*Registry)(nil)
	_ Executor = (*Registry)(nil)
)
