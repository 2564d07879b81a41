package runtime

import (
	"fmt"
	"strconv"

	"fractus/interpreter-go/pkg/fraction"
)

// Kind identifies the runtime value category.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
	KindFraction
	KindVoid
)

// String returns the FraCtuS type name for the kind.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindString:
		return "string"
	case KindFraction:
		return "fraction"
	case KindVoid:
		return "void"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// KindForTypeName maps a declared type name to its kind.
func KindForTypeName(name string) (Kind, bool) {
	switch name {
	case "boolean":
		return KindBool, true
	case "integer":
		return KindInt, true
	case "string":
		return KindString, true
	case "fraction":
		return KindFraction, true
	case "void":
		return KindVoid, true
	default:
		return 0, false
	}
}

// Value is the shared behaviour for all runtime values.
type Value interface {
	Kind() Kind
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type BoolValue struct {
	Val bool
}

func (v BoolValue) Kind() Kind { return KindBool }

type IntValue struct {
	Val int64
}

func (v IntValue) Kind() Kind { return KindInt }

type StringValue struct {
	Val string
}

func (v StringValue) Kind() Kind { return KindString }

type FractionValue struct {
	Val fraction.Fraction
}

func (v FractionValue) Kind() Kind { return KindFraction }

// VoidValue is what a void procedure call evaluates to.
type VoidValue struct{}

func (VoidValue) Kind() Kind { return KindVoid }

// Zero returns the value a freshly declared variable of kind k holds.
func Zero(k Kind) Value {
	switch k {
	case KindBool:
		return BoolValue{}
	case KindInt:
		return IntValue{}
	case KindString:
		return StringValue{}
	case KindFraction:
		return FractionValue{Val: fraction.Zero()}
	default:
		return VoidValue{}
	}
}

// Format renders v the way print writes it.
func Format(v Value) string {
	switch val := v.(type) {
	case BoolValue:
		if val.Val {
			return "true"
		}
		return "false"
	case IntValue:
		return strconv.FormatInt(val.Val, 10)
	case StringValue:
		return val.Val
	case FractionValue:
		return val.Val.String()
	case VoidValue:
		return "void"
	case nil:
		return "<empty>"
	default:
		return fmt.Sprintf("<%T>", v)
	}
}

// Truthy reports the condition value of v: void is false, a boolean is
// itself, and everything else is true.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case nil, VoidValue:
		return false
	case BoolValue:
		return val.Val
	default:
		return true
	}
}

// Same reports whether a and b are the identical value. Fractions compare by
// representation, so 1_2 and 2_4 differ here.
func Same(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a == b
}
