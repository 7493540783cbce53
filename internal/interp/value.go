// Package interp is the I component: a tree-walking evaluator over the
// monomorphized program, used for the `run` and `test` targets (spec.md
// §4.I). It defines a boxed Value union, a lexically-scoped environment
// stack, the built-in function registry, and a minimal cooperative async
// executor.
package interp

import (
	"fmt"
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
)

// Kind discriminates the boxed value union the interpreter evaluates
// everything to, mirroring spec.md §4.I's list exactly.
type Kind int

const (
	VUnit Kind = iota
	VBool
	VInt
	VFloat
	VString
	VArray
	VTuple
	VStruct
	VLambda
	VVariant
	VFuture
	VPollResult
	VNative
	VBreak
	VContinue
	VResult
	VReturn
)

// Value is the interpreter's single boxed representation for every runtime
// value. Only the fields relevant to Kind are meaningful, the same
// one-struct-tagged-union shape internal/types.Type uses for resolved types.
type Value struct {
	Kind Kind

	Bool   bool
	Int    int64
	Float  float64
	Str    string
	Arr    []*Value
	Fields map[string]*Value // VStruct, VVariant (struct-shaped payload)
	Order  []string
	Name   string // VStruct type name, VVariant enum/variant name, VNative builtin name

	// VVariant
	Variant string
	Payload []*Value // tuple-shaped variant payload

	// VLambda
	Params  []*ast.Param
	Body    ast.Expression // either a BlockExpr or a single expression
	Closure *Env
	Self    *Value // bound receiver for a flattened method value, nil otherwise

	// VFuture: a suspended poll-function call. State advances in place.
	FuncName string
	State    *Value // the Future struct's own VStruct value, mutated by Poll

	// VPollResult: Kind Pending or Ready; Ready carries Payload[0]
	Pending bool

	// VResult: Ok or Err
	IsErr bool

	// control-flow carriers
	Inner *Value // VReturn's value
	Err   error  // VResult's Err payload represented as a Go error when convenient
}

func Unit() *Value                { return &Value{Kind: VUnit} }
func Bool(b bool) *Value          { return &Value{Kind: VBool, Bool: b} }
func Int(i int64) *Value          { return &Value{Kind: VInt, Int: i} }
func Float(f float64) *Value      { return &Value{Kind: VFloat, Float: f} }
func Str(s string) *Value         { return &Value{Kind: VString, Str: s} }
func Arr(elems []*Value) *Value   { return &Value{Kind: VArray, Arr: elems} }
func Tuple(elems []*Value) *Value { return &Value{Kind: VTuple, Arr: elems} }

func Struct(name string, fields map[string]*Value, order []string) *Value {
	return &Value{Kind: VStruct, Name: name, Fields: fields, Order: order}
}

func Variant(enum, variant string, payload []*Value, fields map[string]*Value) *Value {
	return &Value{Kind: VVariant, Name: enum, Variant: variant, Payload: payload, Fields: fields}
}

func BreakValue() *Value    { return &Value{Kind: VBreak} }
func ContinueValue() *Value { return &Value{Kind: VContinue} }
func ReturnValue(v *Value) *Value {
	return &Value{Kind: VReturn, Inner: v}
}

// Truthy reports whether v counts as true in a boolean context (if/while
// conditions); only VBool participates, everything else is a type error the
// checker should already have caught, so this defaults to false rather than
// panicking.
func (v *Value) Truthy() bool {
	return v != nil && v.Kind == VBool && v.Bool
}

// IsControl reports whether v is one of the control-flow carrier kinds that
// must short-circuit block/statement evaluation (break, continue, return).
func (v *Value) IsControl() bool {
	return v != nil && (v.Kind == VBreak || v.Kind == VContinue || v.Kind == VReturn)
}

func (v *Value) String() string {
	if v == nil {
		return "unit"
	}
	switch v.Kind {
	case VUnit:
		return "()"
	case VBool:
		return fmt.Sprintf("%t", v.Bool)
	case VInt:
		return fmt.Sprintf("%d", v.Int)
	case VFloat:
		return fmt.Sprintf("%g", v.Float)
	case VString:
		return v.Str
	case VArray:
		parts := make([]string, len(v.Arr))
		for i, e := range v.Arr {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case VTuple:
		parts := make([]string, len(v.Arr))
		for i, e := range v.Arr {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case VStruct:
		parts := make([]string, 0, len(v.Order))
		for _, k := range v.Order {
			parts = append(parts, fmt.Sprintf("%s: %s", k, v.Fields[k]))
		}
		return fmt.Sprintf("%s { %s }", v.Name, strings.Join(parts, ", "))
	case VVariant:
		if len(v.Payload) > 0 {
			parts := make([]string, len(v.Payload))
			for i, p := range v.Payload {
				parts[i] = p.String()
			}
			return fmt.Sprintf("%s::%s(%s)", v.Name, v.Variant, strings.Join(parts, ", "))
		}
		return fmt.Sprintf("%s::%s", v.Name, v.Variant)
	case VLambda:
		return "<lambda>"
	case VNative:
		return "<native " + v.Name + ">"
	case VFuture:
		return "<future " + v.FuncName + ">"
	case VPollResult:
		if v.Pending {
			return "Poll::Pending"
		}
		return fmt.Sprintf("Poll::Ready(%s)", v.Payload[0])
	default:
		return "<value>"
	}
}

// Equal is the interpreter's `==` for values the checker lets through:
// scalars compare by value, compounds compare structurally (used by both
// `==` and match's literal patterns).
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case VUnit:
		return true
	case VBool:
		return a.Bool == b.Bool
	case VInt:
		return a.Int == b.Int
	case VFloat:
		return a.Float == b.Float
	case VString:
		return a.Str == b.Str
	case VArray, VTuple:
		if len(a.Arr) != len(b.Arr) {
			return false
		}
		for i := range a.Arr {
			if !Equal(a.Arr[i], b.Arr[i]) {
				return false
			}
		}
		return true
	case VStruct:
		if a.Name != b.Name {
			return false
		}
		for k, av := range a.Fields {
			if !Equal(av, b.Fields[k]) {
				return false
			}
		}
		return true
	case VVariant:
		if a.Name != b.Name || a.Variant != b.Variant {
			return false
		}
		if len(a.Payload) != len(b.Payload) {
			return false
		}
		for i := range a.Payload {
			if !Equal(a.Payload[i], b.Payload[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
