// Package ast defines the unified abstract syntax tree produced by the parser:
// items, statements, expressions, embedded markup nodes, shader declarations,
// and patterns.
package ast

import "github.com/nyxlang/nyxc/internal/source"

// Node is the base interface satisfied by every AST node.
type Node interface {
	Pos() source.Span
}

// Program is the root node: an ordered sequence of top-level items.
type Program struct {
	Items []Item
	Span  source.Span
}

func (p *Program) Pos() source.Span { return p.Span }

// Item is any top-level declaration.
type Item interface {
	Node
	itemNode()
}

// ============ TYPE EXPRESSIONS ============

// TypeExpr is the unresolved syntactic form of a type annotation. The checker
// (internal/types) turns these into resolved types.
type TypeExpr interface {
	Node
	typeExprNode()
}

// NamedType is a bare name: "Int", "T", "_Elem", "User".
type NamedType struct {
	Name string
	Span source.Span
}

func (t *NamedType) Pos() source.Span { return t.Span }
func (*NamedType) typeExprNode()      {}

// GenericType is a name applied to type arguments: "Array<T>", "Option<User>".
type GenericType struct {
	Name string
	Args []TypeExpr
	Span source.Span
}

func (t *GenericType) Pos() source.Span { return t.Span }
func (*GenericType) typeExprNode()      {}

// ArrayType is a fixed-length array type: "[Int; 4]".
type ArrayType struct {
	Elem   TypeExpr
	Length int
	Span   source.Span
}

func (t *ArrayType) Pos() source.Span { return t.Span }
func (*ArrayType) typeExprNode()      {}

// SliceType is "[Int]".
type SliceType struct {
	Elem TypeExpr
	Span source.Span
}

func (t *SliceType) Pos() source.Span { return t.Span }
func (*SliceType) typeExprNode()      {}

// TupleType is "(Int, String)".
type TupleType struct {
	Elems []TypeExpr
	Span  source.Span
}

func (t *TupleType) Pos() source.Span { return t.Span }
func (*TupleType) typeExprNode()      {}

// RefType is "&T" or "&mut T".
type RefType struct {
	Mutable bool
	Elem    TypeExpr
	Span    source.Span
}

func (t *RefType) Pos() source.Span { return t.Span }
func (*RefType) typeExprNode()      {}

// FuncType is a first-class function type: "fn(Int, Int) -> Int".
type FuncType struct {
	Params  []TypeExpr
	Return  TypeExpr
	Effects []string
	Span    source.Span
}

func (t *FuncType) Pos() source.Span { return t.Span }
func (*FuncType) typeExprNode()      {}

// ============ SHARED DECLARATION PIECES ============

// Param is a function/method/lambda parameter.
type Param struct {
	Name string
	Type TypeExpr
	Span source.Span
}

// EffectClause is the `with Effect1, Effect2` suffix on a function header.
type EffectClause struct {
	Names []string
	Span  source.Span
}

// TraitBound is a generic parameter's `T: Bound1 + Bound2` constraint.
type TraitBound struct {
	Param string
	Bounds []string
	Span   source.Span
}

// ============ ITEMS ============

// FuncDecl covers plain functions and, via Effects containing "Async", async
// functions: an async function is just a function carrying the Async effect.
type FuncDecl struct {
	Name       string
	Generics   []string
	Bounds     []*TraitBound
	Params     []*Param
	ReturnType TypeExpr // nil means unit
	Effects    *EffectClause
	Body       *Block
	Public     bool
	Span       source.Span
}

func (f *FuncDecl) Pos() source.Span { return f.Span }
func (*FuncDecl) itemNode()          {}

// IsAsync reports whether this function's declared effect clause carries Async.
func (f *FuncDecl) IsAsync() bool {
	if f.Effects == nil {
		return false
	}
	for _, e := range f.Effects.Names {
		if e == "Async" {
			return true
		}
	}
	return false
}

// ComponentDecl: `component Name(props) -> UI with Reactive: state...; fn...; render: <tree>`.
type ComponentDecl struct {
	Name    string
	Props   []*Param
	State   []*VarDecl
	Methods []*FuncDecl
	Render  Expression // a MarkupElement (or expression hole) — the single render-tree body
	Span    source.Span
}

func (c *ComponentDecl) Pos() source.Span { return c.Span }
func (*ComponentDecl) itemNode()          {}

// ShaderUniform: `uniform name: Type @ binding`.
type ShaderUniform struct {
	Name    string
	Type    TypeExpr
	Binding int
	Span    source.Span
}

// ShaderDecl: `shader <stage> name(inputs) -> Output: uniforms...; body`.
type ShaderDecl struct {
	Name     string
	Stage    string // "vertex" | "fragment" | "compute"
	Inputs   []*Param
	Output   TypeExpr
	Uniforms []*ShaderUniform
	Body     *Block
	Span     source.Span
}

func (s *ShaderDecl) Pos() source.Span { return s.Span }
func (*ShaderDecl) itemNode()          {}

// ActorHandler: a `receive Message(params): body` clause inside an actor.
type ActorHandler struct {
	Message string
	Params  []*Param
	Body    *Block
	Span    source.Span
}

// ActorDecl: `actor Name: state...; receive ...`.
type ActorDecl struct {
	Name     string
	State    []*VarDecl
	Handlers []*ActorHandler
	Span     source.Span
}

func (a *ActorDecl) Pos() source.Span { return a.Span }
func (*ActorDecl) itemNode()          {}

// StructDecl: `struct Name { field: Type, ... }`.
type StructDecl struct {
	Name     string
	Generics []string
	Fields   []*Param
	Span     source.Span
}

func (s *StructDecl) Pos() source.Span { return s.Span }
func (*StructDecl) itemNode()          {}

// EnumVariantKind distinguishes the three variant shapes an enum may declare.
type EnumVariantKind int

const (
	VariantUnit EnumVariantKind = iota
	VariantTuple
	VariantStruct
)

// EnumVariant is one arm of an enum: unit, tuple-of-types, or struct-of-fields.
type EnumVariant struct {
	Name   string
	Kind   EnumVariantKind
	Tuple  []TypeExpr // VariantTuple
	Fields []*Param   // VariantStruct
	Span   source.Span
}

// EnumDecl: `enum Name { Variant, Variant(T), Variant { field: T } }`.
type EnumDecl struct {
	Name     string
	Generics []string
	Variants []*EnumVariant
	Span     source.Span
}

func (e *EnumDecl) Pos() source.Span { return e.Span }
func (*EnumDecl) itemNode()          {}

// TraitDecl: `trait Name { fn method(...) -> T }` (signatures only).
type TraitDecl struct {
	Name    string
	Methods []*FuncDecl // Body nil on trait method signatures
	Span    source.Span
}

func (t *TraitDecl) Pos() source.Span { return t.Span }
func (*TraitDecl) itemNode()          {}

// ImplDecl: `impl Trait for Type { methods }`, or `impl Type { methods }` when
// Trait == "".
type ImplDecl struct {
	Trait   string
	Type    string
	Methods []*FuncDecl
	Span    source.Span
}

func (i *ImplDecl) Pos() source.Span { return i.Span }
func (*ImplDecl) itemNode()          {}

// TypeAliasDecl: `type Alias = Type`.
type TypeAliasDecl struct {
	Name string
	Type TypeExpr
	Span source.Span
}

func (t *TypeAliasDecl) Pos() source.Span { return t.Span }
func (*TypeAliasDecl) itemNode()          {}

// UseDecl: `use path::to::item`.
type UseDecl struct {
	Path []string
	Span source.Span
}

func (u *UseDecl) Pos() source.Span { return u.Span }
func (*UseDecl) itemNode()          {}

// ModDecl: `mod name`.
type ModDecl struct {
	Name string
	Span source.Span
}

func (m *ModDecl) Pos() source.Span { return m.Span }
func (*ModDecl) itemNode()          {}

// ConstDecl: `const NAME: Type = value`.
type ConstDecl struct {
	Name  string
	Type  TypeExpr
	Value Expression
	Span  source.Span
}

func (c *ConstDecl) Pos() source.Span { return c.Span }
func (*ConstDecl) itemNode()          {}

// ComptimeItem: a top-level `comptime { ... }` block.
type ComptimeItem struct {
	Body *Block
	Span source.Span
}

func (c *ComptimeItem) Pos() source.Span { return c.Span }
func (*ComptimeItem) itemNode()          {}

// MacroDecl: `macro name!(params) { expansion }`. Expansion is kept as raw
// statements; macro application is resolved by the parser at the call site
// Macro semantics are limited to a fixed built-in set (println!, dbg! and
// friends) recognized directly by the codegens; user macro bodies are stored
// for future expansion but not expanded by this core.
type MacroDecl struct {
	Name   string
	Params []string
	Body   *Block
	Span   source.Span
}

func (m *MacroDecl) Pos() source.Span { return m.Span }
func (*MacroDecl) itemNode()          {}

// TestDecl: `test "name": body`.
type TestDecl struct {
	Name string
	Body *Block
	Span source.Span
}

func (t *TestDecl) Pos() source.Span { return t.Span }
func (*TestDecl) itemNode()          {}

// ============ STATEMENTS ============

type Statement interface {
	Node
	stmtNode()
}

// Block is an indented sequence of statements.
type Block struct {
	Stmts []Statement
	Span  source.Span
}

func (b *Block) Pos() source.Span { return b.Span }

// VarDecl: `let name: Type = value` or `let mut name = value`, used both as a
// statement (see LetStmt) and for component/actor state fields.
type VarDecl struct {
	Name    string
	Mutable bool
	Type    TypeExpr
	Value   Expression
	Span    source.Span
}

// LetStmt wraps a VarDecl as a statement.
type LetStmt struct {
	Decl *VarDecl
	Span source.Span
}

func (l *LetStmt) Pos() source.Span { return l.Span }
func (*LetStmt) stmtNode()          {}

// ReturnStmt: `return expr` (Value nil for a bare return).
type ReturnStmt struct {
	Value Expression
	Span  source.Span
}

func (r *ReturnStmt) Pos() source.Span { return r.Span }
func (*ReturnStmt) stmtNode()          {}

// WhileStmt: `while cond: body`.
type WhileStmt struct {
	Cond Expression
	Body *Block
	Span source.Span
}

func (w *WhileStmt) Pos() source.Span { return w.Span }
func (*WhileStmt) stmtNode()          {}

// ForStmt: `for name in iter: body`. Iter is typically a RangeExpr or a
// collection expression.
type ForStmt struct {
	Name string
	Iter Expression
	Body *Block
	Span source.Span
}

func (f *ForStmt) Pos() source.Span { return f.Span }
func (*ForStmt) stmtNode()          {}

// LoopStmt: `loop: body` — an unconditional loop broken only by `break`.
type LoopStmt struct {
	Body *Block
	Span source.Span
}

func (l *LoopStmt) Pos() source.Span { return l.Span }
func (*LoopStmt) stmtNode()          {}

// BreakStmt / ContinueStmt, used as statements (they are also valid as
// expressions — see BreakExpr/ContinueExpr).
type BreakStmt struct {
	Span source.Span
}

func (b *BreakStmt) Pos() source.Span { return b.Span }
func (*BreakStmt) stmtNode()          {}

type ContinueStmt struct {
	Span source.Span
}

func (c *ContinueStmt) Pos() source.Span { return c.Span }
func (*ContinueStmt) stmtNode()          {}

// ExprStmt wraps an expression used as a statement, including assignment.
type ExprStmt struct {
	Expr Expression
	Span source.Span
}

func (e *ExprStmt) Pos() source.Span { return e.Span }
func (*ExprStmt) stmtNode()          {}

// ============ EXPRESSIONS ============

type Expression interface {
	Node
	exprNode()
}

type IntLit struct {
	Value string
	Span  source.Span
}

func (i *IntLit) Pos() source.Span { return i.Span }
func (*IntLit) exprNode()          {}

type FloatLit struct {
	Value string
	Span  source.Span
}

func (f *FloatLit) Pos() source.Span { return f.Span }
func (*FloatLit) exprNode()          {}

type BoolLit struct {
	Value bool
	Span  source.Span
}

func (b *BoolLit) Pos() source.Span { return b.Span }
func (*BoolLit) exprNode()          {}

// StringLit is a plain double-quoted string; escapes are already expanded.
type StringLit struct {
	Value string
	Span  source.Span
}

func (s *StringLit) Pos() source.Span { return s.Span }
func (*StringLit) exprNode()          {}

// FStringPart is one segment of an f-string: literal text or a sub-expression.
type FStringPart struct {
	IsExpr bool
	Text   string
	Expr   Expression
}

// FStringLit is an f-prefixed string: alternating literal-text and
// sub-expression parts.
type FStringLit struct {
	Parts []FStringPart
	Span  source.Span
}

func (f *FStringLit) Pos() source.Span { return f.Span }
func (*FStringLit) exprNode()          {}

type Ident struct {
	Name string
	Span source.Span
}

func (i *Ident) Pos() source.Span { return i.Span }
func (*Ident) exprNode()          {}

// EnumConstructor: `Enum::Variant(args)` or `Enum::Variant { fields }`.
type EnumConstructor struct {
	Enum    string
	Variant string
	Args    []Expression
	Fields  map[string]Expression // nil unless struct-shaped
	Span    source.Span
}

func (e *EnumConstructor) Pos() source.Span { return e.Span }
func (*EnumConstructor) exprNode()          {}

// StructLit: `Name { field: value, ... }`.
type StructLit struct {
	TypeName string
	Fields   map[string]Expression
	Order    []string // preserves field write order for deterministic codegen
	Span     source.Span
}

func (s *StructLit) Pos() source.Span { return s.Span }
func (*StructLit) exprNode()          {}

type TupleLit struct {
	Elems []Expression
	Span  source.Span
}

func (t *TupleLit) Pos() source.Span { return t.Span }
func (*TupleLit) exprNode()          {}

type ArrayLit struct {
	Elems []Expression
	Span  source.Span
}

func (a *ArrayLit) Pos() source.Span { return a.Span }
func (*ArrayLit) exprNode()          {}

type IndexExpr struct {
	Collection Expression
	Index      Expression
	Span       source.Span
}

func (i *IndexExpr) Pos() source.Span { return i.Span }
func (*IndexExpr) exprNode()          {}

type FieldExpr struct {
	Object Expression
	Field  string
	Span   source.Span
}

func (f *FieldExpr) Pos() source.Span { return f.Span }
func (*FieldExpr) exprNode()          {}

// CallExpr: `callee(args...)`.
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Span   source.Span
}

func (c *CallExpr) Pos() source.Span { return c.Span }
func (*CallExpr) exprNode()          {}

// MethodCallExpr: `receiver.method(args...)`, kept distinct from a plain call
// on a FieldExpr so the monomorphizer's impl-flattening pass can rewrite it to
// `TypeName_method(receiver, args...)` once the receiver's type is known.
type MethodCallExpr struct {
	Receiver Expression
	Method   string
	Args     []Expression
	Span     source.Span
}

func (m *MethodCallExpr) Pos() source.Span { return m.Span }
func (*MethodCallExpr) exprNode()          {}

// LambdaExpr: `|params| body` or `fn(params) [-> T]: body`.
type LambdaExpr struct {
	Params     []*Param
	ReturnType TypeExpr
	Body       Expression // either a Block wrapped in BlockExpr, or a single expression
	Span       source.Span
}

func (l *LambdaExpr) Pos() source.Span { return l.Span }
func (*LambdaExpr) exprNode()          {}

type BinaryExpr struct {
	Op    string
	Left  Expression
	Right Expression
	Span  source.Span
}

func (b *BinaryExpr) Pos() source.Span { return b.Span }
func (*BinaryExpr) exprNode()          {}

type UnaryExpr struct {
	Op      string
	Operand Expression
	Span    source.Span
}

func (u *UnaryExpr) Pos() source.Span { return u.Span }
func (*UnaryExpr) exprNode()          {}

// AssignExpr: `target = value` (also compound forms `+=` etc., kept as Op).
type AssignExpr struct {
	Op     string // "=", "+=", "-=", "*=", "/="
	Target Expression
	Value  Expression
	Span   source.Span
}

func (a *AssignExpr) Pos() source.Span { return a.Span }
func (*AssignExpr) exprNode()          {}

// BlockExpr wraps a Block so it can appear in expression position (lambda
// bodies, if/else branch values).
type BlockExpr struct {
	Block *Block
	Span  source.Span
}

func (b *BlockExpr) Pos() source.Span { return b.Span }
func (*BlockExpr) exprNode()          {}

// IfExpr is the if/else-if/else chain, usable both as a statement and as an
// expression whose value is the taken branch's trailing expression.
type IfExpr struct {
	Cond   Expression
	Then   *Block
	ElseIf *IfExpr // non-nil for an "else if"
	Else   *Block  // non-nil for a plain "else", nil otherwise
	Span   source.Span
}

func (i *IfExpr) Pos() source.Span { return i.Span }
func (*IfExpr) exprNode()          {}

// MatchArm: one `pattern => body` (or `pattern: body`) arm.
type MatchArm struct {
	Pattern Pattern
	Guard   Expression // optional `if cond`
	Body    Expression
	Span    source.Span
}

type MatchExpr struct {
	Scrutinee Expression
	Arms      []*MatchArm
	Span      source.Span
}

func (m *MatchExpr) Pos() source.Span { return m.Span }
func (*MatchExpr) exprNode()          {}

type ReturnExpr struct {
	Value Expression
	Span  source.Span
}

func (r *ReturnExpr) Pos() source.Span { return r.Span }
func (*ReturnExpr) exprNode()          {}

type BreakExpr struct {
	Span source.Span
}

func (b *BreakExpr) Pos() source.Span { return b.Span }
func (*BreakExpr) exprNode()          {}

type ContinueExpr struct {
	Span source.Span
}

func (c *ContinueExpr) Pos() source.Span { return c.Span }
func (*ContinueExpr) exprNode()          {}

// TryExpr: `expr?` — unwrap a Result/Option or propagate its error/none.
type TryExpr struct {
	Expr Expression
	Span source.Span
}

func (t *TryExpr) Pos() source.Span { return t.Span }
func (*TryExpr) exprNode()          {}

// CastExpr: `expr as Type`.
type CastExpr struct {
	Expr Expression
	Type TypeExpr
	Span source.Span
}

func (c *CastExpr) Pos() source.Span { return c.Span }
func (*CastExpr) exprNode()          {}

// RangeExpr: `start..end`, `start..=end`, or open-ended forms (Start/End nil).
type RangeExpr struct {
	Start     Expression
	End       Expression
	Inclusive bool
	Span      source.Span
}

func (r *RangeExpr) Pos() source.Span { return r.Span }
func (*RangeExpr) exprNode()          {}

// AwaitExpr: `await expr`.
type AwaitExpr struct {
	Expr Expression
	Span source.Span
}

func (a *AwaitExpr) Pos() source.Span { return a.Span }
func (*AwaitExpr) exprNode()          {}

// SpawnExpr: `spawn ActorName { field: value, ... }` or `spawn expr`.
type SpawnExpr struct {
	Actor  string
	Fields map[string]Expression
	Expr   Expression // set instead of Actor/Fields when spawning a future expr
	Span   source.Span
}

func (s *SpawnExpr) Pos() source.Span { return s.Span }
func (*SpawnExpr) exprNode()          {}

// SendExpr: `send target, Message(args...)`.
type SendExpr struct {
	Target  Expression
	Message string
	Args    []Expression
	Span    source.Span
}

func (s *SendExpr) Pos() source.Span { return s.Span }
func (*SendExpr) exprNode()          {}

// MacroCallExpr: `name!(args...)`.
type MacroCallExpr struct {
	Name string
	Args []Expression
	Span source.Span
}

func (m *MacroCallExpr) Pos() source.Span { return m.Span }
func (*MacroCallExpr) exprNode()          {}

// ComptimeExpr: `comptime { expr }` — evaluated and substituted away by the
// comptime folder.
type ComptimeExpr struct {
	Inner Expression
	Span  source.Span
}

func (c *ComptimeExpr) Pos() source.Span { return c.Span }
func (*ComptimeExpr) exprNode()          {}

// ============ EMBEDDED MARKUP ============

// MarkupChild is the union of a nested element, an `{expr}` hole, or a
// reconstructed text run.
type MarkupChild interface {
	Node
	markupChildNode()
}

// MarkupAttr: `name="value"` or `name={expr}`.
type MarkupAttr struct {
	Name  string
	Value Expression // StringLit for literal values, arbitrary expr for holes
	Span  source.Span
}

// MarkupElement: `<tag attr=…>children</tag>`.
type MarkupElement struct {
	Tag      string
	Attrs    []*MarkupAttr
	Children []MarkupChild
	Span     source.Span
}

func (m *MarkupElement) Pos() source.Span { return m.Span }
func (*MarkupElement) exprNode()          {}
func (*MarkupElement) markupChildNode()   {}

// MarkupText is a reconstructed run of literal text between markup tokens.
type MarkupText struct {
	Text string
	Span source.Span
}

func (m *MarkupText) Pos() source.Span { return m.Span }
func (*MarkupText) markupChildNode()   {}

// MarkupHole is a `{expr}` child.
type MarkupHole struct {
	Expr Expression
	Span source.Span
}

func (m *MarkupHole) Pos() source.Span { return m.Span }
func (*MarkupHole) markupChildNode()   {}

// ============ PATTERNS ============

type Pattern interface {
	Node
	patternNode()
}

type WildcardPattern struct{ Span source.Span }

func (w *WildcardPattern) Pos() source.Span { return w.Span }
func (*WildcardPattern) patternNode()       {}

type BindingPattern struct {
	Name    string
	Mutable bool
	Span    source.Span
}

func (b *BindingPattern) Pos() source.Span { return b.Span }
func (*BindingPattern) patternNode()       {}

// LiteralPattern matches an integer, string, or bool literal.
type LiteralPattern struct {
	Value Expression
	Span  source.Span
}

func (l *LiteralPattern) Pos() source.Span { return l.Span }
func (*LiteralPattern) patternNode()       {}

type TuplePattern struct {
	Elems []Pattern
	Span  source.Span
}

func (t *TuplePattern) Pos() source.Span { return t.Span }
func (*TuplePattern) patternNode()       {}

// SlicePattern: `[p1, p2, ...rest]`. Rest is "" when there is no rest binding.
type SlicePattern struct {
	Elems []Pattern
	Rest  string
	Span  source.Span
}

func (s *SlicePattern) Pos() source.Span { return s.Span }
func (*SlicePattern) patternNode()       {}

type StructPattern struct {
	TypeName string
	Fields   map[string]Pattern
	Span     source.Span
}

func (s *StructPattern) Pos() source.Span { return s.Span }
func (*StructPattern) patternNode()       {}

// VariantPattern: `Enum::Variant(pats)` (Enum set) or unqualified `Variant(pats)`
// (Enum == ""), resolved later by the checker using the scrutinee type.
type VariantPattern struct {
	Enum    string
	Variant string
	Elems   []Pattern
	Fields  map[string]Pattern
	Span    source.Span
}

func (v *VariantPattern) Pos() source.Span { return v.Span }
func (*VariantPattern) patternNode()       {}

// OrPattern: `pat1 | pat2 | ...`.
type OrPattern struct {
	Alts []Pattern
	Span source.Span
}

func (o *OrPattern) Pos() source.Span { return o.Span }
func (*OrPattern) patternNode()       {}
