package types

import (
	"fmt"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/mangle"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/stdlib"
)

// FuncInfo is the resolved signature and effect set the checker records for
// every function-shaped item: top-level functions, component methods
// (mangled under mangle.Method(ComponentName, method)), actor handlers
// (mangled under mangle.Method(ActorName, message)), and impl methods.
type FuncInfo struct {
	Name      string
	Generics  []string
	Bounds    []*ast.TraitBound
	Type      *Type // Kind == Func
	Effects   EffectSet
	Decl      *ast.FuncDecl
	Receiver  string // type name for methods/handlers, "" for plain functions
	IsHandler bool
}

// Program is the TypedProgram a checker pass produces: the
// original AST alongside the resolved-type table and every function's
// resolved signature, passed by pointer to the monomorphizer and every
// backend so none of them re-derive what this pass already established.
type Program struct {
	AST   *ast.Program
	Table *Table
	Funcs map[string]*FuncInfo
}

type checker struct {
	table *Table
	errs  *diag.ErrorList
	funcs map[string]*FuncInfo
	// globals is every name resolvable without a lexical binding: function
	// names, const names, struct/enum names, macro names.
	globals map[string]bool
}

// Check resolves every named type in prog, builds the auxiliary tables, and
// enforces the effect-call soundness rule (spec.md §8 "Effect soundness").
func Check(prog *ast.Program) (*Program, *diag.ErrorList) {
	c := &checker{
		table:   NewTable(),
		errs:    diag.NewErrorList(),
		funcs:   map[string]*FuncInfo{},
		globals: map[string]bool{},
	}
	for n := range c.globals {
		_ = n
	}
	for _, name := range stdlib.Names() {
		c.globals[name] = true
	}

	c.registerStubs(prog)
	c.fillTypes(prog)
	c.registerFuncs(prog)
	c.checkBodies(prog)

	return &Program{AST: prog, Table: c.table, Funcs: c.funcs}, c.errs
}

// ===== pass 1: register stub Type objects so forward references resolve =====

func (c *checker) registerStubs(prog *ast.Program) {
	for _, it := range prog.Items {
		switch n := it.(type) {
		case *ast.StructDecl:
			c.table.Structs[n.Name] = &Type{Kind: Struct, Name: n.Name, Fields: map[string]*Type{}}
			c.globals[n.Name] = true
		case *ast.EnumDecl:
			c.table.Enums[n.Name] = &Type{Kind: Enum, Name: n.Name}
			c.globals[n.Name] = true
		case *ast.TypeAliasDecl:
			c.table.Aliases[n.Name] = UnknownType()
			c.globals[n.Name] = true
		case *ast.FuncDecl:
			c.globals[n.Name] = true
		case *ast.ConstDecl:
			c.globals[n.Name] = true
		case *ast.MacroDecl:
			c.globals[n.Name] = true
		case *ast.ComponentDecl:
			c.globals[n.Name] = true
		case *ast.ActorDecl:
			c.globals[n.Name] = true
		}
	}
}

// ===== pass 2: fill field/variant/prop/input-output tables =====

func (c *checker) fillTypes(prog *ast.Program) {
	for _, it := range prog.Items {
		switch n := it.(type) {
		case *ast.StructDecl:
			st := c.table.Structs[n.Name]
			fieldSpans := map[string]source.Span{}
			for _, f := range n.Fields {
				if prior, dup := fieldSpans[f.Name]; dup {
					c.errs.AddNote(diag.Type, f.Span,
						fmt.Sprintf("field %q is declared more than once on struct %s", f.Name, n.Name),
						[]string{"remove or rename the duplicate field"},
						[]source.Span{prior})
					continue
				}
				fieldSpans[f.Name] = f.Span
				st.Fields[f.Name] = ResolveTypeExpr(f.Type, c.table)
				st.FieldOrder = append(st.FieldOrder, f.Name)
			}
		case *ast.EnumDecl:
			en := c.table.Enums[n.Name]
			for _, v := range n.Variants {
				variant := &Variant{Name: v.Name, Kind: int(v.Kind)}
				switch v.Kind {
				case ast.VariantTuple:
					for _, te := range v.Tuple {
						variant.Tuple = append(variant.Tuple, ResolveTypeExpr(te, c.table))
					}
				case ast.VariantStruct:
					variant.Fields = map[string]*Type{}
					for _, f := range v.Fields {
						variant.Fields[f.Name] = ResolveTypeExpr(f.Type, c.table)
						variant.Order = append(variant.Order, f.Name)
					}
				}
				en.Variants = append(en.Variants, variant)
			}
		case *ast.TypeAliasDecl:
			c.table.Aliases[n.Name] = ResolveTypeExpr(n.Type, c.table)
		case *ast.ActorDecl:
			fields := map[string]*Type{}
			for _, s := range n.State {
				fields[s.Name] = ResolveTypeExpr(s.Type, c.table)
			}
			c.table.Actors[n.Name] = fields
		case *ast.ComponentDecl:
			props := map[string]*Type{}
			for _, p := range n.Props {
				props[p.Name] = ResolveTypeExpr(p.Type, c.table)
			}
			c.table.Components[n.Name] = props
		case *ast.ShaderDecl:
			ins := map[string]*Type{}
			for _, p := range n.Inputs {
				ins[p.Name] = ResolveTypeExpr(p.Type, c.table)
			}
			c.table.ShaderIn[n.Name] = ins
			c.table.ShaderOut[n.Name] = ResolveTypeExpr(n.Output, c.table)
		case *ast.ImplDecl:
			if n.Trait != "" {
				c.table.TraitImpls[[2]string{n.Trait, n.Type}] = true
			}
		}
	}
}

// ===== pass 3: register every function-shaped item's resolved signature =====

func buildFuncType(params []*ast.Param, ret ast.TypeExpr, effects *ast.EffectClause, table *Table) (*Type, EffectSet) {
	names := []string{}
	if effects != nil {
		names = effects.Names
	}
	es := NewEffectSet(names...)
	return &Type{Kind: Func, Params: ResolveParams(params, table), Return: ResolveTypeExpr(ret, table), Effects: es}, es
}

func (c *checker) registerFuncs(prog *ast.Program) {
	for _, it := range prog.Items {
		switch n := it.(type) {
		case *ast.FuncDecl:
			ft, es := buildFuncType(n.Params, n.ReturnType, n.Effects, c.table)
			c.funcs[n.Name] = &FuncInfo{Name: n.Name, Generics: n.Generics, Bounds: n.Bounds, Type: ft, Effects: es, Decl: n}
		case *ast.ComponentDecl:
			for _, m := range n.Methods {
				ft, es := buildFuncType(m.Params, m.ReturnType, m.Effects, c.table)
				name := mangle.Method(n.Name, m.Name)
				c.funcs[name] = &FuncInfo{Name: name, Generics: m.Generics, Bounds: m.Bounds, Type: ft, Effects: es, Decl: m, Receiver: n.Name}
			}
		case *ast.ActorDecl:
			for _, h := range n.Handlers {
				ft, _ := buildFuncType(h.Params, nil, nil, c.table)
				es := NewEffectSet("IO")
				ft.Effects = es
				name := mangle.Method(n.Name, h.Message)
				decl := &ast.FuncDecl{Name: h.Message, Params: h.Params, Body: h.Body, Span: h.Span}
				c.funcs[name] = &FuncInfo{Name: name, Type: ft, Effects: es, Decl: decl, Receiver: n.Name, IsHandler: true}
			}
		case *ast.ImplDecl:
			for _, m := range n.Methods {
				ft, es := buildFuncType(m.Params, m.ReturnType, m.Effects, c.table)
				name := mangle.Method(n.Type, m.Name)
				c.funcs[name] = &FuncInfo{Name: name, Generics: m.Generics, Bounds: m.Bounds, Type: ft, Effects: es, Decl: m, Receiver: n.Type}
			}
		}
	}
}

// ===== pass 4: walk bodies, enforcing identifier resolution and effect calls =====

// scope is a chain of lexical frames; innermost first.
type scope struct {
	names  map[string]bool
	parent *scope
}

func newScope(parent *scope) *scope { return &scope{names: map[string]bool{}, parent: parent} }

func (s *scope) define(name string) {
	if name != "" && name != "_" {
		s.names[name] = true
	}
}

func (s *scope) resolves(name string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.names[name] {
			return true
		}
	}
	return false
}

func (c *checker) checkBodies(prog *ast.Program) {
	for name, info := range c.funcs {
		if info.Decl == nil || info.Decl.Body == nil {
			continue
		}
		sc := newScope(nil)
		sc.define("self")
		for _, p := range info.Decl.Params {
			sc.define(p.Name)
		}
		for _, g := range info.Generics {
			c.globals[g] = true
		}
		c.checkBlock(info.Decl.Body, sc, info.Effects, name)
	}
	for _, it := range prog.Items {
		switch n := it.(type) {
		case *ast.ShaderDecl:
			sc := newScope(nil)
			for _, p := range n.Inputs {
				sc.define(p.Name)
			}
			for _, u := range n.Uniforms {
				sc.define(u.Name)
			}
			c.checkBlock(n.Body, sc, NewEffectSet("GPU", "Pure"), "shader:"+n.Name)
		case *ast.ComponentDecl:
			sc := newScope(nil)
			for _, p := range n.Props {
				sc.define(p.Name)
			}
			for _, s := range n.State {
				sc.define(s.Name)
			}
			if n.Render != nil {
				c.checkExpr(n.Render, sc, NewEffectSet("Reactive", "Pure"), "component:"+n.Name)
			}
		case *ast.TestDecl:
			sc := newScope(nil)
			c.checkBlock(n.Body, sc, NewEffectSet("Unsafe"), "test:"+n.Name)
		}
	}
}

func (c *checker) unresolved(name string, span source.Span, sc *scope) {
	if sc.resolves(name) || c.globals[name] {
		return
	}
	if _, ok := stdlib.Lookup(name); ok {
		return
	}
	c.errs.Add(diag.Type, span, fmt.Sprintf("unresolved identifier %q", name))
}

func (c *checker) checkEffectCall(calleeName string, span source.Span, callerEffects EffectSet) {
	callee, ok := c.funcs[calleeName]
	if !ok {
		return
	}
	if !callerEffects.CanCall(callee.Effects) {
		c.errs.Add(diag.Effect, span, fmt.Sprintf(
			"effect violation: caller with effects %v cannot call %q with effects %v",
			callerEffects.Slice(), calleeName, callee.Effects.Slice()))
	}
}

func (c *checker) checkBlock(b *ast.Block, sc *scope, effects EffectSet, fnName string) {
	inner := newScope(sc)
	for _, s := range b.Stmts {
		c.checkStmt(s, inner, effects, fnName)
	}
}

func (c *checker) checkStmt(s ast.Statement, sc *scope, effects EffectSet, fnName string) {
	switch n := s.(type) {
	case *ast.LetStmt:
		if n.Decl.Value != nil {
			c.checkExpr(n.Decl.Value, sc, effects, fnName)
		}
		sc.define(n.Decl.Name)
	case *ast.ReturnStmt:
		if n.Value != nil {
			c.checkExpr(n.Value, sc, effects, fnName)
		}
	case *ast.WhileStmt:
		c.checkExpr(n.Cond, sc, effects, fnName)
		c.checkBlock(n.Body, sc, effects, fnName)
	case *ast.ForStmt:
		c.checkExpr(n.Iter, sc, effects, fnName)
		inner := newScope(sc)
		inner.define(n.Name)
		for _, st := range n.Body.Stmts {
			c.checkStmt(st, inner, effects, fnName)
		}
	case *ast.LoopStmt:
		c.checkBlock(n.Body, sc, effects, fnName)
	case *ast.ExprStmt:
		c.checkExpr(n.Expr, sc, effects, fnName)
	}
}

func (c *checker) definePattern(p ast.Pattern, sc *scope) {
	switch n := p.(type) {
	case *ast.BindingPattern:
		sc.define(n.Name)
	case *ast.TuplePattern:
		for _, e := range n.Elems {
			c.definePattern(e, sc)
		}
	case *ast.SlicePattern:
		for _, e := range n.Elems {
			c.definePattern(e, sc)
		}
		if n.Rest != "" {
			sc.define(n.Rest)
		}
	case *ast.StructPattern:
		for _, f := range n.Fields {
			c.definePattern(f, sc)
		}
	case *ast.VariantPattern:
		for _, e := range n.Elems {
			c.definePattern(e, sc)
		}
		for _, f := range n.Fields {
			c.definePattern(f, sc)
		}
	case *ast.OrPattern:
		for _, a := range n.Alts {
			c.definePattern(a, sc)
		}
	}
}

func (c *checker) checkExpr(e ast.Expression, sc *scope, effects EffectSet, fnName string) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.Ident:
		c.unresolved(n.Name, n.Span, sc)
	case *ast.FStringLit:
		for _, part := range n.Parts {
			if part.IsExpr {
				c.checkExpr(part.Expr, sc, effects, fnName)
			}
		}
	case *ast.EnumConstructor:
		for _, a := range n.Args {
			c.checkExpr(a, sc, effects, fnName)
		}
		for _, v := range n.Fields {
			c.checkExpr(v, sc, effects, fnName)
		}
	case *ast.StructLit:
		for _, v := range n.Fields {
			c.checkExpr(v, sc, effects, fnName)
		}
	case *ast.TupleLit:
		for _, el := range n.Elems {
			c.checkExpr(el, sc, effects, fnName)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elems {
			c.checkExpr(el, sc, effects, fnName)
		}
	case *ast.IndexExpr:
		c.checkExpr(n.Collection, sc, effects, fnName)
		c.checkExpr(n.Index, sc, effects, fnName)
	case *ast.FieldExpr:
		c.checkExpr(n.Object, sc, effects, fnName)
	case *ast.CallExpr:
		if id, ok := n.Callee.(*ast.Ident); ok {
			c.checkEffectCall(id.Name, n.Span, effects)
		} else {
			c.checkExpr(n.Callee, sc, effects, fnName)
		}
		for _, a := range n.Args {
			c.checkExpr(a, sc, effects, fnName)
		}
	case *ast.MethodCallExpr:
		c.checkExpr(n.Receiver, sc, effects, fnName)
		if typeName, ok := receiverTypeName(n.Receiver); ok {
			c.checkEffectCall(mangle.Method(typeName, n.Method), n.Span, effects)
		}
		for _, a := range n.Args {
			c.checkExpr(a, sc, effects, fnName)
		}
	case *ast.LambdaExpr:
		inner := newScope(sc)
		for _, p := range n.Params {
			inner.define(p.Name)
		}
		c.checkExpr(n.Body, inner, effects, fnName)
	case *ast.BinaryExpr:
		c.checkExpr(n.Left, sc, effects, fnName)
		c.checkExpr(n.Right, sc, effects, fnName)
	case *ast.UnaryExpr:
		c.checkExpr(n.Operand, sc, effects, fnName)
	case *ast.AssignExpr:
		c.checkExpr(n.Target, sc, effects, fnName)
		c.checkExpr(n.Value, sc, effects, fnName)
	case *ast.BlockExpr:
		c.checkBlock(n.Block, sc, effects, fnName)
	case *ast.IfExpr:
		c.checkExpr(n.Cond, sc, effects, fnName)
		c.checkBlock(n.Then, sc, effects, fnName)
		if n.ElseIf != nil {
			c.checkExpr(n.ElseIf, sc, effects, fnName)
		}
		if n.Else != nil {
			c.checkBlock(n.Else, sc, effects, fnName)
		}
	case *ast.MatchExpr:
		c.checkExpr(n.Scrutinee, sc, effects, fnName)
		for _, arm := range n.Arms {
			inner := newScope(sc)
			c.definePattern(arm.Pattern, inner)
			if arm.Guard != nil {
				c.checkExpr(arm.Guard, inner, effects, fnName)
			}
			c.checkExpr(arm.Body, inner, effects, fnName)
		}
	case *ast.ReturnExpr:
		if n.Value != nil {
			c.checkExpr(n.Value, sc, effects, fnName)
		}
	case *ast.TryExpr:
		c.checkExpr(n.Expr, sc, effects, fnName)
	case *ast.CastExpr:
		c.checkExpr(n.Expr, sc, effects, fnName)
	case *ast.RangeExpr:
		if n.Start != nil {
			c.checkExpr(n.Start, sc, effects, fnName)
		}
		if n.End != nil {
			c.checkExpr(n.End, sc, effects, fnName)
		}
	case *ast.AwaitExpr:
		c.checkExpr(n.Expr, sc, effects, fnName)
	case *ast.SpawnExpr:
		if n.Expr != nil {
			c.checkExpr(n.Expr, sc, effects, fnName)
		}
		for _, v := range n.Fields {
			c.checkExpr(v, sc, effects, fnName)
		}
	case *ast.SendExpr:
		c.checkExpr(n.Target, sc, effects, fnName)
		for _, a := range n.Args {
			c.checkExpr(a, sc, effects, fnName)
		}
	case *ast.MacroCallExpr:
		for _, a := range n.Args {
			c.checkExpr(a, sc, effects, fnName)
		}
	case *ast.MarkupElement:
		for _, a := range n.Attrs {
			c.checkExpr(a.Value, sc, effects, fnName)
		}
		for _, ch := range n.Children {
			c.checkMarkupChild(ch, sc, effects, fnName)
		}
	case *ast.ComptimeExpr:
		c.checkExpr(n.Inner, sc, effects, fnName)
	}
}

func (c *checker) checkMarkupChild(n ast.MarkupChild, sc *scope, effects EffectSet, fnName string) {
	switch ch := n.(type) {
	case *ast.MarkupElement:
		c.checkExpr(ch, sc, effects, fnName)
	case *ast.MarkupHole:
		c.checkExpr(ch.Expr, sc, effects, fnName)
	}
}

// receiverTypeName makes a best-effort guess at a method-call receiver's
// struct type without full expression-level inference: method calls
// currently yield Unknown, so this only recognizes a receiver built
// directly from a struct literal, since that is the one syntactic form a
// type is ascertained from with no inference engine at all.
func receiverTypeName(e ast.Expression) (string, bool) {
	if sl, ok := e.(*ast.StructLit); ok {
		return sl.TypeName, true
	}
	return "", false
}
