package parser

import (
	"testing"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/lexer"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.Tokenize(src)
	if err != nil {
		t.Fatalf("Tokenize error: %v", err)
	}
	prog, errs := Parse(toks)
	if errs.HasErrors() {
		t.Fatalf("Parse errors: %s", errs.String())
	}
	return prog
}

func TestParseRecursivePureFunction(t *testing.T) {
	src := "fn fib(n: Int) -> Int with Pure:\n" +
		"    if n < 2:\n" +
		"        return n\n" +
		"    return fib(n - 1) + fib(n - 2)\n"
	prog := mustParse(t, src)
	if len(prog.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(prog.Items))
	}
	fn, ok := prog.Items[0].(*ast.FuncDecl)
	if !ok {
		t.Fatalf("item type = %T, want *ast.FuncDecl", prog.Items[0])
	}
	if fn.Name != "fib" {
		t.Fatalf("fn.Name = %q, want fib", fn.Name)
	}
	if len(fn.Params) != 1 || fn.Params[0].Name != "n" {
		t.Fatalf("fn.Params = %+v", fn.Params)
	}
	if fn.Effects == nil || len(fn.Effects.Names) != 1 || fn.Effects.Names[0] != "Pure" {
		t.Fatalf("fn.Effects = %+v", fn.Effects)
	}
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("body stmts = %d, want 2", len(fn.Body.Stmts))
	}
	es, ok := fn.Body.Stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("stmt[0] = %T, want ExprStmt(IfExpr)", fn.Body.Stmts[0])
	}
	if _, ok := es.Expr.(*ast.IfExpr); !ok {
		t.Fatalf("stmt[0] = %T, want IfExpr", es.Expr)
	}
}

func TestParseGenericInstantiationCallSite(t *testing.T) {
	src := "fn identity<T>(x: T) -> T with Pure:\n" +
		"    return x\n" +
		"\n" +
		"fn main() with IO:\n" +
		"    let a = identity(1)\n" +
		"    let b = identity(\"s\")\n"
	prog := mustParse(t, src)
	if len(prog.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(prog.Items))
	}
	generic := prog.Items[0].(*ast.FuncDecl)
	if len(generic.Generics) != 1 || generic.Generics[0] != "T" {
		t.Fatalf("generic.Generics = %+v", generic.Generics)
	}
	main := prog.Items[1].(*ast.FuncDecl)
	if len(main.Body.Stmts) != 2 {
		t.Fatalf("main body stmts = %d, want 2", len(main.Body.Stmts))
	}
	for i, want := range []string{"a", "b"} {
		let, ok := main.Body.Stmts[i].(*ast.LetStmt)
		if !ok {
			t.Fatalf("stmt[%d] = %T, want *ast.LetStmt", i, main.Body.Stmts[i])
		}
		if let.Decl.Name != want {
			t.Fatalf("stmt[%d] name = %q, want %q", i, let.Decl.Name, want)
		}
		call, ok := let.Decl.Value.(*ast.CallExpr)
		if !ok {
			t.Fatalf("stmt[%d] value = %T, want *ast.CallExpr", i, let.Decl.Value)
		}
		callee, ok := call.Callee.(*ast.Ident)
		if !ok || callee.Name != "identity" {
			t.Fatalf("stmt[%d] callee = %+v", i, call.Callee)
		}
	}
}

func TestParseAwaitChain(t *testing.T) {
	src := "fn load() -> Int with Async:\n" +
		"    let a = await fetch()\n" +
		"    let b = await process(a)\n" +
		"    return b\n"
	prog := mustParse(t, src)
	fn := prog.Items[0].(*ast.FuncDecl)
	if !fn.IsAsync() {
		t.Fatalf("fn.IsAsync() = false, want true")
	}
	let0 := fn.Body.Stmts[0].(*ast.LetStmt)
	await0, ok := let0.Decl.Value.(*ast.AwaitExpr)
	if !ok {
		t.Fatalf("let0 value = %T, want *ast.AwaitExpr", let0.Decl.Value)
	}
	if _, ok := await0.Expr.(*ast.CallExpr); !ok {
		t.Fatalf("await0.Expr = %T, want *ast.CallExpr", await0.Expr)
	}
}

func TestParseMarkupTranslation(t *testing.T) {
	src := "component Greeter(name: String) -> UI:\n" +
		"    render: <div class=\"greeting\">Hello {name}</div>\n"
	prog := mustParse(t, src)
	comp, ok := prog.Items[0].(*ast.ComponentDecl)
	if !ok {
		t.Fatalf("item = %T, want *ast.ComponentDecl", prog.Items[0])
	}
	el, ok := comp.Render.(*ast.MarkupElement)
	if !ok {
		t.Fatalf("Render = %T, want *ast.MarkupElement", comp.Render)
	}
	if el.Tag != "div" {
		t.Fatalf("el.Tag = %q, want div", el.Tag)
	}
	if len(el.Attrs) != 1 || el.Attrs[0].Name != "class" {
		t.Fatalf("el.Attrs = %+v", el.Attrs)
	}
	foundHole := false
	for _, c := range el.Children {
		if _, ok := c.(*ast.MarkupHole); ok {
			foundHole = true
		}
	}
	if !foundHole {
		t.Fatalf("el.Children = %+v, want a MarkupHole for {name}", el.Children)
	}
}

func TestParseShaderConstructor(t *testing.T) {
	src := "shader fragment tint(uv: Vec2) -> Vec4:\n" +
		"    uniform color: Vec4 @ 0\n" +
		"    return Vec4 { x: color.x, y: color.y, z: color.z, w: 1.0 }\n"
	prog := mustParse(t, src)
	sh, ok := prog.Items[0].(*ast.ShaderDecl)
	if !ok {
		t.Fatalf("item = %T, want *ast.ShaderDecl", prog.Items[0])
	}
	if sh.Stage != "fragment" || sh.Name != "tint" {
		t.Fatalf("sh = %+v", sh)
	}
	if len(sh.Uniforms) != 1 || sh.Uniforms[0].Name != "color" || sh.Uniforms[0].Binding != 0 {
		t.Fatalf("sh.Uniforms = %+v", sh.Uniforms)
	}
	ret, ok := sh.Body.Stmts[0].(*ast.ReturnStmt)
	if !ok {
		t.Fatalf("stmt[0] = %T, want *ast.ReturnStmt", sh.Body.Stmts[0])
	}
	lit, ok := ret.Value.(*ast.StructLit)
	if !ok || lit.TypeName != "Vec4" {
		t.Fatalf("ret.Value = %+v", ret.Value)
	}
	if len(lit.Fields) != 4 {
		t.Fatalf("lit.Fields = %+v", lit.Fields)
	}
}

func TestParseMatchWithVariantPatterns(t *testing.T) {
	src := "fn describe(x: Option<Int>) -> String with Pure:\n" +
		"    match x:\n" +
		"        Some(n) => \"has value\"\n" +
		"        None => \"empty\"\n"
	prog := mustParse(t, src)
	fn := prog.Items[0].(*ast.FuncDecl)
	expr := exprOf(t, fn.Body.Stmts[0])
	m, ok := expr.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("stmt[0] = %T, want *ast.MatchExpr", expr)
	}
	if len(m.Arms) != 2 {
		t.Fatalf("arms = %d, want 2", len(m.Arms))
	}
	variant, ok := m.Arms[0].Pattern.(*ast.VariantPattern)
	if !ok || variant.Variant != "Some" || len(variant.Elems) != 1 {
		t.Fatalf("arm[0].Pattern = %+v", m.Arms[0].Pattern)
	}
}

func exprOf(t *testing.T, s ast.Statement) ast.Expression {
	t.Helper()
	if es, ok := s.(*ast.ExprStmt); ok {
		return es.Expr
	}
	t.Fatalf("stmt = %T, want *ast.ExprStmt", s)
	return nil
}
