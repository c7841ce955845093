// Package value implements the tagged Value sum type shared by the
// compiler's constant pool and the VM's stack: Null, Bool, Integer, Float,
// String, and Function, plus the coercion and arithmetic rules that operate
// on them.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Type tags a Value's variant.
type Type int

const (
	Null Type = iota
	Bool
	Integer
	Float
	String
	Function
)

// Value is a flat, immutable tagged union. Only the field matching Type is
// meaningful; this keeps the hot dispatch path branchy but trivial to
// inline, matching the teacher's Value shape rather than an interface
// hierarchy of per-variant types.
type Value struct {
	Type Type

	AsBool  bool
	AsInt   int64
	AsFloat float64
	Str     string
	Fn      *Fn
}

// Fn is the FUNKSHUN variant's payload: arity, a name for display, and its
// compiled body. Chunk is an interface{} (rather than *chunk.Chunk) solely
// to avoid an import cycle between value and chunk (chunk.Chunk's constant
// pool is []value.Value); the vm and compiler packages assert it back to
// *chunk.Chunk.
type Fn struct {
	Name    string
	Arity   int
	Chunk   interface{}
	Version string // the HAI version literal; top-level script only, empty for nested functions
}

func NewNull() Value           { return Value{Type: Null} }
func NewBool(b bool) Value     { return Value{Type: Bool, AsBool: b} }
func NewInteger(i int64) Value { return Value{Type: Integer, AsInt: i} }
func NewFloat(f float64) Value { return Value{Type: Float, AsFloat: f} }
func NewString(s string) Value { return Value{Type: String, Str: s} }
func NewFunction(fn *Fn) Value { return Value{Type: Function, Fn: fn} }

// Truthy implements spec.md §4.4's truthiness table.
func (v Value) Truthy() bool {
	switch v.Type {
	case Null:
		return false
	case Bool:
		return v.AsBool
	case Integer:
		return v.AsInt != 0
	case Float:
		return v.AsFloat != 0
	case String:
		return v.Str != ""
	case Function:
		return true
	default:
		return false
	}
}

// ToNumber coerces a Value to Integer or Float per spec.md §4.4: Null->0,
// Bool->1/0, Integer/Float pass through, String parses (Integer if it has
// no '.', else Float; failure is an error), Function always errors.
func (v Value) ToNumber() (Value, error) {
	switch v.Type {
	case Null:
		return NewInteger(0), nil
	case Bool:
		if v.AsBool {
			return NewInteger(1), nil
		}
		return NewInteger(0), nil
	case Integer, Float:
		return v, nil
	case String:
		if !strings.Contains(v.Str, ".") {
			i, err := strconv.ParseInt(v.Str, 10, 64)
			if err != nil {
				return Value{}, fmt.Errorf("cannot coerce %q to a number", v.Str)
			}
			return NewInteger(i), nil
		}
		f, err := strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return Value{}, fmt.Errorf("cannot coerce %q to a number", v.Str)
		}
		return NewFloat(f), nil
	case Function:
		return Value{}, fmt.Errorf("cannot coerce a function to a number")
	default:
		return Value{}, fmt.Errorf("cannot coerce value to a number")
	}
}

// Add implements ADD, with the one exception to numeric coercion: two
// Strings concatenate instead of widening to numbers (spec.md §4.4).
func (v Value) Add(other Value) (Value, error) {
	if v.Type == String && other.Type == String {
		return NewString(v.Str + other.Str), nil
	}
	return arith(v, other, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
}

func (v Value) Sub(other Value) (Value, error) {
	return arith(v, other, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
}

func (v Value) Mul(other Value) (Value, error) {
	return arith(v, other, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
}

func (v Value) Div(other Value) (Value, error) {
	ln, err := v.ToNumber()
	if err != nil {
		return Value{}, err
	}
	rn, err := other.ToNumber()
	if err != nil {
		return Value{}, err
	}
	if ln.Type == Integer && rn.Type == Integer {
		if rn.AsInt == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return NewInteger(ln.AsInt / rn.AsInt), nil // truncated toward zero, per spec.md §4.4
	}
	lf, rf := asFloat(ln), asFloat(rn)
	if rf == 0 {
		return Value{}, fmt.Errorf("division by zero")
	}
	return NewFloat(lf / rf), nil
}

func (v Value) Min(other Value) (Value, error) {
	lt, err := v.Compare(other, CompareLT)
	if err != nil {
		return Value{}, err
	}
	if lt.AsBool {
		return v, nil
	}
	return other, nil
}

func (v Value) Max(other Value) (Value, error) {
	gt, err := v.Compare(other, CompareGT)
	if err != nil {
		return Value{}, err
	}
	if gt.AsBool {
		return v, nil
	}
	return other, nil
}

func arith(l, r Value, ints func(a, b int64) int64, floats func(a, b float64) float64) (Value, error) {
	ln, err := l.ToNumber()
	if err != nil {
		return Value{}, err
	}
	rn, err := r.ToNumber()
	if err != nil {
		return Value{}, err
	}
	if ln.Type == Integer && rn.Type == Integer {
		return NewInteger(ints(ln.AsInt, rn.AsInt)), nil
	}
	return NewFloat(floats(asFloat(ln), asFloat(rn))), nil
}

func asFloat(v Value) float64 {
	if v.Type == Integer {
		return float64(v.AsInt)
	}
	return v.AsFloat
}

// CompareOp selects a comparison in Compare.
type CompareOp int

const (
	CompareLT CompareOp = iota
	CompareLTE
	CompareGT
	CompareGTE
)

// Compare implements LT/LTE/GT/GTE: both sides coerce to number, result is
// always Bool (spec.md §4.4).
func (v Value) Compare(other Value, op CompareOp) (Value, error) {
	ln, err := v.ToNumber()
	if err != nil {
		return Value{}, err
	}
	rn, err := other.ToNumber()
	if err != nil {
		return Value{}, err
	}
	lf, rf := asFloat(ln), asFloat(rn)
	var result bool
	switch op {
	case CompareLT:
		result = lf < rf
	case CompareLTE:
		result = lf <= rf
	case CompareGT:
		result = lf > rf
	case CompareGTE:
		result = lf >= rf
	}
	return NewBool(result), nil
}

// Equals implements BOTH SAEM (spec.md §4.4): no coercion across unrelated
// variants, Integer==Float promotes to Float, otherwise equality only
// holds within the same variant.
func (v Value) Equals(other Value) bool {
	if v.Type == Integer && other.Type == Float {
		return float64(v.AsInt) == other.AsFloat
	}
	if v.Type == Float && other.Type == Integer {
		return v.AsFloat == float64(other.AsInt)
	}
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case Null:
		return true
	case Bool:
		return v.AsBool == other.AsBool
	case Integer:
		return v.AsInt == other.AsInt
	case Float:
		return v.AsFloat == other.AsFloat
	case String:
		return v.Str == other.Str
	case Function:
		return v.Fn == other.Fn
	default:
		return false
	}
}

// String renders a Value's display form per spec.md §6: NOOB, WIN/FAIL,
// decimal integer, decimal float with trailing zeros and a trailing dot
// stripped, raw string bytes, or <FUNKSHUN name>.
func (v Value) String() string {
	switch v.Type {
	case Null:
		return "NOOB"
	case Bool:
		if v.AsBool {
			return "WIN"
		}
		return "FAIL"
	case Integer:
		return strconv.FormatInt(v.AsInt, 10)
	case Float:
		s := strconv.FormatFloat(v.AsFloat, 'f', -1, 64)
		return s
	case String:
		return v.Str
	case Function:
		return fmt.Sprintf("<FUNKSHUN %s>", v.Fn.Name)
	default:
		return "?"
	}
}
