package rpn

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func FuzzCalculate(f *testing.F) {
	f.Add("2+3*4")
	f.Add("12 000 + 15")
	f.Add("max(12 345.50, 8 000.66)")
	f.Add("-2^-2")
	f.Add("sin(1;2)")
	f.Add("1×2÷3")
	f.Add("(((")
	c, err := New()
	if err != nil {
		f.Fatal(err)
	}
	kinds := []error{ErrNormalize, ErrConvert, ErrEval}
	f.Fuzz(func(t *testing.T, s string) {
		r, err := c.Calculate(s)
		if err == nil {
			if r == nil {
				t.Errorf("%q gave nil result without error", s)
			}
			return
		}
		n := 0
		for _, k := range kinds {
			if errors.Is(err, k) {
				n++
			}
		}
		if n != 1 {
			t.Errorf("%q gave error %v of %d kinds", s, err, n)
		}
	})
}

func FuzzNormalize(f *testing.F) {
	f.Add("12 345.50")
	f.Add("1  2")
	f.Add("max(1,5)")
	f.Add("x(,")
	f.Add("a,5")
	reg := testRegistry(f)
	f.Fuzz(func(t *testing.T, s string) {
		a, err := Normalize(s, reg)
		if err != nil {
			return
		}
		j := strings.Join(a, " ")
		b, err := Normalize(j, reg)
		if err != nil {
			t.Fatalf("%q normalized to %q, which fails to renormalize: %v", s, j, err)
		}
		if !reflect.DeepEqual(a, b) {
			t.Errorf("renormalizing changed tokens:\n\t%q gave %q\n\t%q gave %q", s, a, j, b)
		}
	})
}
