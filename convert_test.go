package rpn

import (
	"errors"
	"reflect"
	"testing"
)

func TestToRPN(t *testing.T) {
	cases := []struct {
		name string
		src  string
		rpn  string
	}{
		{"num", "1", "1"},
		{"empty", "", ""},
		// precedence and associativity
		{"prec", "2+3*4", "2 3 4 * +"},
		{"prec-rev", "2*3+4", "2 3 * 4 +"},
		{"left", "10-3-2", "10 3 - 2 -"},
		{"left-mul", "8/4/2", "8 4 / 2 /"},
		{"right", "2^3^2", "2 3 2 ^ ^"},
		{"mixed", "2^3*(12/6)+18/3+5.0/2", "2 3 ^ 12 6 / * 18 3 / + 5.0 2 / +"},
		{"alt-ops", "6÷3×2", "6 3 ÷ 2 ×"},
		// brackets
		{"paren", "(2+3)*4", "2 3 + 4 *"},
		{"square-curly", "{1+2}*[3]", "1 2 + 3 *"},
		{"nested", "((1))", "1"},
		{"empty-parens", "()", ""},
		// unary
		{"neg", "-1", "1 neg"},
		{"neg-pow", "-2^2", "2 2 ^ neg"},
		{"pow-neg", "2^-1", "2 1 neg ^"},
		{"neg-mul", "-3*2", "3 neg 2 *"},
		{"mul-neg", "2*-3", "2 3 neg *"},
		{"neg-neg", "--1", "1 neg neg"},
		{"sub-neg", "1--1", "1 1 neg -"},
		{"plus", "+5", "5"},
		{"paren-neg", "(-1)^0.5", "1 neg 0.5 ^"},
		// calls
		{"call1", "sin(2)", "2 sin:1"},
		{"call-neg", "sin(-1)", "1 neg sin:1"},
		{"call-expr", "sin(1+1)", "1 1 + sin:1"},
		{"call-sum", "1 + sin(2)", "1 2 sin:1 +"},
		{"call2", "max(12 345.50, 8 000.66)", "12345.50 8000.66 max:2"},
		{"call2-semicolon", "max(1;5)", "1 5 max:2"},
		{"call2-expr", "log(2+6, 2)", "2 6 + 2 log:2"},
		{"call-nested", "sin(max(1,2))", "1 2 max:2 sin:1"},
		{"call-then-op", "max(10, 8) -5", "10 8 max:2 5 -"},
		{"call0", "pi()", "pi:0"},
		{"call0-bare", "pi", "pi:0"},
		{"call0-bare-expr", "2*pi", "2 pi:0 *"},
		{"call-arity-unchecked", "max(1)", "1 max:1"},
	}
	reg := testRegistry(t)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Normalize(c.src, reg)
			if err != nil {
				t.Fatalf("%q failed to normalize: %v", c.src, err)
			}
			r, err := ToRPN(toks, reg)
			if err != nil {
				t.Fatalf("%q failed to convert: %v", c.src, err)
			}
			if got := r.String(); got != c.rpn {
				t.Errorf("wrong RPN for %q: want %q, got %q", c.src, c.rpn, got)
			}
			p, err := ParseRPN(r.String(), reg)
			if err != nil {
				t.Fatalf("couldn't parse RPN %q: %v", r.String(), err)
			}
			if len(r) == 0 && len(p) == 0 {
				return
			}
			if !reflect.DeepEqual(p, r) {
				t.Errorf("RPN doesn't survive formatting: %q parsed as %v, want %v", r.String(), p, r)
			}
		})
	}
}

func TestNegPrecedence(t *testing.T) {
	reg := testRegistry(t)
	toks, err := Normalize("-2^2", reg)
	if err != nil {
		t.Fatal(err)
	}
	r, err := convert(toks, reg, PrecPow+1)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := r.String(), "2 neg 2 ^"; got != want {
		t.Errorf("wrong RPN with negation above ^: want %q, got %q", want, got)
	}
}

func TestToRPNErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		err  error
	}{
		{"left", "(1+2", new(BracketError)},
		{"right", "1+2)", new(BracketError)},
		{"mismatch", "(1+2]", new(BracketError)},
		{"call-open", "max(1, 2", new(BracketError)},
		{"sep-outside", "1;2", new(SeparatorError)},
		{"sep-brackets", "(1;2)", new(SeparatorError)},
		{"sep-first", "max(,1)", new(SeparatorError)},
		{"sep-last", "max(1,)", new(SeparatorError)},
		{"sep-double", "max(1,,2)", new(SeparatorError)},
		{"unknown", "aaaaa", new(TokenError)},
		{"unknown-call", "foo(1)", new(TokenError)},
	}
	reg := testRegistry(t)
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, err := Normalize(c.src, reg)
			if err != nil {
				t.Fatalf("%q failed to normalize: %v", c.src, err)
			}
			r, err := ToRPN(toks, reg)
			if r != nil {
				t.Errorf("%q converted to %q despite error", c.src, r)
			}
			if reflect.TypeOf(err) != reflect.TypeOf(c.err) {
				t.Errorf("wrong error type from %q: want %T, got %T (%v)", c.src, c.err, err, err)
			}
			if !errors.Is(err, ErrConvert) {
				t.Errorf("error %v from %q is not ErrConvert", err, c.src)
			}
		})
	}
}

func TestParseRPNErrors(t *testing.T) {
	cases := []string{
		"1 2 foo:2",
		"1 max",
		"1 max:x",
		"1 max:-1",
		"1 2 &",
		"1..2",
	}
	reg := testRegistry(t)
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			r, err := ParseRPN(src, reg)
			if r != nil {
				t.Errorf("%q parsed to %q despite error", src, r)
			}
			var e *TokenError
			if !errors.As(err, &e) {
				t.Errorf("wrong error from %q: want *TokenError, got %T (%v)", src, err, err)
			}
		})
	}
}
