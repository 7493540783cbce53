// Package types resolves every named type in the parsed AST into a concrete
// resolved Type, records the auxiliary field/variant/prop/input-output tables
// a real checker needs, and enforces the effect-call soundness rule. It is
// the home of the resolved-types data model and of the first-class
// EffectSet value type (effect.go).
package types

import (
	"fmt"
	"strings"
)

// Kind discriminates the resolved-type union.
type Kind int

const (
	Unit Kind = iota
	Bool
	Int
	Float
	String
	Char
	Array
	Slice
	Tuple
	Option
	Result
	Ref
	Func
	Struct
	Enum
	Generic
	Never
	Unknown
)

// Variant is one enum arm's resolved payload shape.
type Variant struct {
	Name   string
	Kind   int // mirrors ast.EnumVariantKind: 0 unit, 1 tuple, 2 struct
	Tuple  []*Type
	Fields map[string]*Type
	Order  []string
}

// Type is the resolved form of a type annotation. Only the fields relevant
// to Kind are meaningful; this mirrors a tagged union the way the original
// Rust ResolvedType enum does, expressed as one Go struct so unification and
// substitution (internal/monomorphize) can pattern-match on Kind directly
// without a type switch over a dozen concrete struct types.
type Type struct {
	Kind Kind

	Width int // Int/Float bit width, e.g. 64

	Elem    *Type // Array/Slice/Option/Ref element; Result's Ok type
	ErrElem *Type // Result's Err type
	Length  int   // Array length

	Elems []*Type // Tuple members

	Mutable bool // Ref

	Params  []*Type // Func
	Return  *Type   // Func
	Effects EffectSet

	Name       string // Struct/Enum/Generic name
	Fields     map[string]*Type
	FieldOrder []string
	Variants   []*Variant
}

func (t *Type) String() string {
	if t == nil {
		return "Unknown"
	}
	switch t.Kind {
	case Unit:
		return "Unit"
	case Bool:
		return "Bool"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Char:
		return "Char"
	case Array:
		return fmt.Sprintf("[%s; %d]", t.Elem, t.Length)
	case Slice:
		return fmt.Sprintf("[%s]", t.Elem)
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case Option:
		return fmt.Sprintf("Option<%s>", t.Elem)
	case Result:
		return fmt.Sprintf("Result<%s, %s>", t.Elem, t.ErrElem)
	case Ref:
		if t.Mutable {
			return "&mut " + t.Elem.String()
		}
		return "&" + t.Elem.String()
	case Func:
		parts := make([]string, len(t.Params))
		for i, p := range t.Params {
			parts[i] = p.String()
		}
		return fmt.Sprintf("fn(%s) -> %s", strings.Join(parts, ", "), t.Return)
	case Struct:
		return t.Name
	case Enum:
		return t.Name
	case Generic:
		return t.Name
	case Never:
		return "Never"
	default:
		return "Unknown"
	}
}

// MangleName is the name used in a monomorphized mangled function name, e.g.
// "Int", "String", or a struct/enum's own name. Matches the original
// implementation's type_to_string.
func (t *Type) MangleName() string {
	if t == nil {
		return "Any"
	}
	switch t.Kind {
	case Int:
		return "Int"
	case Float:
		return "Float"
	case String:
		return "String"
	case Bool:
		return "Bool"
	case Unit:
		return "Unit"
	case Struct, Enum:
		return t.Name
	case Tuple:
		parts := make([]string, len(t.Elems))
		for i, e := range t.Elems {
			parts[i] = e.MangleName()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return "Any"
	}
}

// Equal reports structural equality, used by unification in
// internal/monomorphize.
func (t *Type) Equal(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case Int, Float:
		return t.Width == o.Width
	case Array:
		return t.Length == o.Length && t.Elem.Equal(o.Elem)
	case Slice, Option, Ref:
		return t.Elem.Equal(o.Elem)
	case Result:
		return t.Elem.Equal(o.Elem) && t.ErrElem.Equal(o.ErrElem)
	case Tuple:
		if len(t.Elems) != len(o.Elems) {
			return false
		}
		for i := range t.Elems {
			if !t.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case Func:
		if len(t.Params) != len(o.Params) || !t.Return.Equal(o.Return) {
			return false
		}
		for i := range t.Params {
			if !t.Params[i].Equal(o.Params[i]) {
				return false
			}
		}
		return true
	case Struct, Enum, Generic:
		return t.Name == o.Name
	default:
		return true
	}
}

// Builtin constructors, used throughout the checker and monomorphizer.
func UnitType() *Type    { return &Type{Kind: Unit} }
func BoolType() *Type    { return &Type{Kind: Bool} }
func IntType() *Type     { return &Type{Kind: Int, Width: 64} }
func FloatType() *Type   { return &Type{Kind: Float, Width: 64} }
func StringType() *Type  { return &Type{Kind: String} }
func CharType() *Type    { return &Type{Kind: Char} }
func NeverType() *Type   { return &Type{Kind: Never} }
func UnknownType() *Type { return &Type{Kind: Unknown} }
func GenericType(name string) *Type {
	return &Type{Kind: Generic, Name: name}
}

// Table holds every resolved-type auxiliary map the checker needs: field
// types for structs, payload types per variant for enums, state field types
// for actors, prop types for components, input/output types for shaders, and
// the trait-implementation set the monomorphizer checks generic bounds
// against.
type Table struct {
	Structs    map[string]*Type // Kind == Struct
	Enums      map[string]*Type // Kind == Enum
	Actors     map[string]map[string]*Type
	Components map[string]map[string]*Type
	ShaderIn   map[string]map[string]*Type
	ShaderOut  map[string]*Type
	TraitImpls map[[2]string]bool // (trait, type) -> implemented
	Aliases    map[string]*Type
}

func NewTable() *Table {
	return &Table{
		Structs:    map[string]*Type{},
		Enums:      map[string]*Type{},
		Actors:     map[string]map[string]*Type{},
		Components: map[string]map[string]*Type{},
		ShaderIn:   map[string]map[string]*Type{},
		ShaderOut:  map[string]*Type{},
		TraitImpls: map[[2]string]bool{},
		Aliases:    map[string]*Type{},
	}
}

// Lookup resolves a bare type name against structs, enums, and aliases, used
// by the checker's named-type fallthrough rule. Returns nil (not found)
// rather than an error: the caller decides what to do with a missing name.
func (t *Table) Lookup(name string) *Type {
	if s, ok := t.Structs[name]; ok {
		return s
	}
	if e, ok := t.Enums[name]; ok {
		return e
	}
	if a, ok := t.Aliases[name]; ok {
		return a
	}
	return nil
}
