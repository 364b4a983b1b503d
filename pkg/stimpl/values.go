package stimpl

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value represents a runtime value. Every value knows its own tag.
type Value interface {
	Type() TypeTag
	String() string
}

// UnitValue is the only value of type Unit. It stands in for "no value".
type UnitValue struct{}

var _ Value = UnitValue{}

func (UnitValue) Type() TypeTag  { return UnitType }
func (UnitValue) String() string { return "Unit" }

func (UnitValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(nil)
}

// IntValue represents an integer value
type IntValue struct {
	Val int64
}

var _ Value = IntValue{}

func (i IntValue) Type() TypeTag { return IntegerType }

func (i IntValue) String() string {
	return strconv.FormatInt(i.Val, 10)
}

func (i IntValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Val)
}

// FloatValue represents a floating-point value
type FloatValue struct {
	Val float64
}

var _ Value = FloatValue{}

func (f FloatValue) Type() TypeTag { return FloatingPointType }

// String uses positional notation for magnitudes in [1e-4, 1e16) and
// exponent notation outside it. Integral values keep a trailing ".0".
func (f FloatValue) String() string {
	if math.IsInf(f.Val, 0) || math.IsNaN(f.Val) {
		return strconv.FormatFloat(f.Val, 'g', -1, 64)
	}
	format := byte('g')
	if abs := math.Abs(f.Val); abs == 0 || (abs >= 1e-4 && abs < 1e16) {
		format = 'f'
	}
	s := strconv.FormatFloat(f.Val, format, -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (f FloatValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Val)
}

// StringValue represents a string value
type StringValue struct {
	Val string
}

var _ Value = StringValue{}

func (s StringValue) Type() TypeTag  { return StringType }
func (s StringValue) String() string { return s.Val }

func (s StringValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Val)
}

// BoolValue represents a boolean value
type BoolValue struct {
	Val bool
}

var _ Value = BoolValue{}

func (b BoolValue) Type() TypeTag { return BooleanType }

func (b BoolValue) String() string {
	return strconv.FormatBool(b.Val)
}

func (b BoolValue) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Val)
}

// isZero reports whether v compares equal to zero. false counts as zero.
func isZero(v Value) bool {
	switch n := v.(type) {
	case IntValue:
		return n.Val == 0
	case FloatValue:
		return n.Val == 0
	case BoolValue:
		return !n.Val
	}
	return false
}
