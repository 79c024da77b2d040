package rpn

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Rounding is a rounding mode.
type Rounding int8

const (
	// HalfEven rounds to the nearest neighbor, and ties to the even neighbor.
	// 23.5 becomes 24 and 22.5 becomes 22.
	HalfEven Rounding = iota
	// HalfUp rounds ties away from zero.
	HalfUp
	// HalfDown rounds ties toward zero.
	HalfDown
	// Up rounds away from zero.
	Up
	// Down rounds toward zero.
	Down
	// Ceiling rounds toward positive infinity.
	Ceiling
	// Floor rounds toward negative infinity.
	Floor
)

var roundingNames = [...]string{
	HalfEven: "half_even",
	HalfUp:   "half_up",
	HalfDown: "half_down",
	Up:       "up",
	Down:     "down",
	Ceiling:  "ceiling",
	Floor:    "floor",
}

func (r Rounding) String() string {
	if r < 0 || int(r) >= len(roundingNames) {
		return "Rounding(" + strconv.Itoa(int(r)) + ")"
	}
	return roundingNames[r]
}

// ParseRounding returns the rounding mode with the given name, as returned by
// Rounding.String. Case is ignored, and - may be used in place of _.
func ParseRounding(name string) (Rounding, error) {
	k := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	for i, n := range roundingNames {
		if n == k {
			return Rounding(i), nil
		}
	}
	return 0, &ConfigError{Key: "rounding", Value: name, Reason: "unknown rounding mode"}
}

func (r Rounding) rounder() apd.Rounder {
	switch r {
	case HalfUp:
		return apd.RoundHalfUp
	case HalfDown:
		return apd.RoundHalfDown
	case Up:
		return apd.RoundUp
	case Down:
		return apd.RoundDown
	case Ceiling:
		return apd.RoundCeiling
	case Floor:
		return apd.RoundFloor
	default:
		return apd.RoundHalfEven
	}
}

// Policy is the rounding policy applied after every arithmetic step.
type Policy struct {
	// Precision is the number of significant digits kept by every operation.
	// It must be positive.
	Precision uint32
	// Places is the number of decimal places every result is quantized to,
	// as long as the integer digits leave room for them within Precision.
	// If Places is negative, results are rounded only to Precision.
	Places int32
	// Rounding is the rounding mode used for both Precision and Places.
	Rounding Rounding
}

// DefaultPolicy keeps 34 significant digits and two decimal places, rounding
// half to even.
var DefaultPolicy = Policy{Precision: 34, Places: 2, Rounding: HalfEven}

// Validate returns a *ConfigError if the policy cannot be used.
func (p Policy) Validate() error {
	if p.Precision == 0 {
		return &ConfigError{Key: "precision", Value: "0", Reason: "precision must be positive"}
	}
	if p.Rounding < 0 || int(p.Rounding) >= len(roundingNames) {
		return &ConfigError{Key: "rounding", Value: p.Rounding.String(), Reason: "unknown rounding mode"}
	}
	if p.Places >= 0 && uint32(p.Places) >= p.Precision {
		return &ConfigError{
			Key:    "places",
			Value:  strconv.Itoa(int(p.Places)),
			Reason: "decimal places must be fewer than precision " + strconv.FormatUint(uint64(p.Precision), 10),
		}
	}
	return nil
}

// Context returns a new decimal context which computes to the policy's
// precision and rounding mode. Conditions such as division by zero are
// returned as errors.
func (p Policy) Context() *apd.Context {
	ctx := apd.BaseContext.WithPrecision(p.Precision)
	ctx.Rounding = p.Rounding.rounder()
	return ctx
}

// Round returns x rounded to the policy. x is not modified.
func (p Policy) Round(x *apd.Decimal) (*apd.Decimal, error) {
	return p.round(p.Context(), x)
}

// round returns a new decimal holding x rounded to the policy using ctx, which
// must be a context from p.Context.
//
// Places is the most decimal places a result keeps. A value with too many
// integer digits to also hold Places within Precision is rounded to Precision
// only, so large values lose places rather than failing. Zero results are
// never negative.
func (p Policy) round(ctx *apd.Context, x *apd.Decimal) (*apd.Decimal, error) {
	d := new(apd.Decimal)
	if p.Places >= 0 {
		if _, err := ctx.Quantize(d, x, -p.Places); err == nil {
			return unsignZero(d), nil
		}
	}
	if _, err := ctx.Round(d, x); err != nil {
		return nil, err
	}
	return unsignZero(d), nil
}

// unsignZero clears the sign of d if it is zero.
func unsignZero(d *apd.Decimal) *apd.Decimal {
	if d.IsZero() {
		d.Negative = false
	}
	return d
}

// parseNum parses a numeric literal as produced by Normalize. A trailing or
// leading decimal point is allowed.
func parseNum(ctx *apd.Context, s string) (*apd.Decimal, error) {
	if !isNumber(s) {
		return nil, &NumberError{Text: s}
	}
	t := strings.TrimSuffix(s, ".")
	if strings.HasPrefix(t, ".") {
		t = "0" + t
	}
	d, _, err := ctx.NewFromString(t)
	if err != nil {
		return nil, &NumberError{Text: s, Err: err}
	}
	return d, nil
}

// isNumber reports whether s is a run of digits with at most one decimal
// point.
func isNumber(s string) bool {
	dig, dot := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9':
			dig = true
		case c == '.':
			if dot {
				return false
			}
			dot = true
		default:
			return false
		}
	}
	return dig
}
