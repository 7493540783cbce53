package parser

import (
	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/token"
)

// parseFuncDecl parses `fn name<Generics>(params) -> Ret with Effects: body`.
// presetEffects is non-nil when the caller already consumed an `async` prefix.
func (p *Parser) parseFuncDecl(public bool, presetEffects *ast.EffectClause) *ast.FuncDecl {
	start := p.span()
	p.expect(token.FN)
	name := p.parseIdentName()

	generics, bounds := p.parseGenericsClause()
	params := p.parseParamList()

	var ret ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseTypeExpr()
	}

	effects := presetEffects
	if p.curIs(token.WITH) {
		effects = p.parseEffectClause()
	}

	var body *ast.Block
	if p.curIs(token.COLON) {
		body = p.parseBlockOrInline()
	}

	end := p.span()
	return &ast.FuncDecl{
		Name: name, Generics: generics, Bounds: bounds, Params: params,
		ReturnType: ret, Effects: effects, Body: body, Public: public,
		Span: source.Merge(start, end),
	}
}

func (p *Parser) parseIdentName() string {
	if p.curIs(token.IDENT) {
		return p.advance().Literal
	}
	p.errorf("expected identifier, got %s", p.cur().Type)
	return ""
}

// parseGenericsClause parses the optional `<T, U: Bound1 + Bound2>` suffix on
// a function or struct/enum name.
func (p *Parser) parseGenericsClause() ([]string, []*ast.TraitBound) {
	if !p.curIs(token.LT) {
		return nil, nil
	}
	p.advance()
	var names []string
	var bounds []*ast.TraitBound
	for !p.curIs(token.GT) && !p.atEnd() {
		start := p.span()
		name := p.parseIdentName()
		names = append(names, name)
		if p.curIs(token.COLON) {
			p.advance()
			var bs []string
			bs = append(bs, p.parseIdentName())
			for p.curIs(token.PLUS) {
				p.advance()
				bs = append(bs, p.parseIdentName())
			}
			bounds = append(bounds, &ast.TraitBound{Param: name, Bounds: bs, Span: source.Merge(start, p.span())})
		}
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.GT)
	return names, bounds
}

func (p *Parser) parseParamList() []*ast.Param {
	p.expect(token.LPAREN)
	var params []*ast.Param
	for !p.curIs(token.RPAREN) && !p.atEnd() {
		start := p.span()
		name := p.parseIdentName()
		var typ ast.TypeExpr
		if p.curIs(token.COLON) {
			p.advance()
			typ = p.parseTypeExpr()
		}
		params = append(params, &ast.Param{Name: name, Type: typ, Span: source.Merge(start, p.span())})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	return params
}

// parseEffectClause parses `with Effect1, Effect2`.
func (p *Parser) parseEffectClause() *ast.EffectClause {
	start := p.span()
	p.expect(token.WITH)
	var names []string
	names = append(names, p.parseIdentName())
	for p.curIs(token.COMMA) {
		p.advance()
		names = append(names, p.parseIdentName())
	}
	return &ast.EffectClause{Names: names, Span: source.Merge(start, p.span())}
}

// parseBlockOrInline parses the body following a header-terminating `:`:
// either an indented block, or a single inline statement on the same line.
func (p *Parser) parseBlockOrInline() *ast.Block {
	start := p.span()
	p.expect(token.COLON)
	if !p.curIs(token.NEWLINE) {
		stmt := p.parseStatement()
		var stmts []ast.Statement
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
		return &ast.Block{Stmts: stmts, Span: source.Merge(start, p.span())}
	}
	p.skipNewlines()
	if !p.curIs(token.INDENT) {
		p.errorf("expected indented block, got %s", p.cur().Type)
		return &ast.Block{Span: source.Merge(start, p.span())}
	}
	p.advance()
	var stmts []ast.Statement
	for !p.curIs(token.DEDENT) && !p.atEnd() {
		p.skipNewlines()
		if p.curIs(token.DEDENT) || p.atEnd() {
			break
		}
		if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.skipNewlines()
	}
	end := p.span()
	p.expect(token.DEDENT)
	return &ast.Block{Stmts: stmts, Span: source.Merge(start, end)}
}

// parseComponentDecl: `component Name(props) -> UI with Effects: state...; fn...; render: <tree>`.
func (p *Parser) parseComponentDecl() *ast.ComponentDecl {
	start := p.span()
	p.expect(token.COMPONENT)
	name := p.parseIdentName()
	props := p.parseParamList()
	if p.curIs(token.ARROW) {
		p.advance()
		p.parseTypeExpr() // component return type is always UI; parsed and discarded
	}
	if p.curIs(token.WITH) {
		p.parseEffectClause()
	}
	p.expect(token.COLON)
	p.skipNewlines()
	p.expect(token.INDENT)

	var state []*ast.VarDecl
	var methods []*ast.FuncDecl
	var render ast.Expression

	for !p.curIs(token.DEDENT) && !p.atEnd() {
		p.skipNewlines()
		if p.curIs(token.DEDENT) || p.atEnd() {
			break
		}
		switch {
		case p.curIs(token.LET):
			if v := p.parseVarDecl(); v != nil {
				state = append(state, v)
			}
		case p.curIs(token.FN):
			methods = append(methods, p.parseFuncDecl(false, nil))
		case p.curIs(token.IDENT) && p.cur().Literal == "render":
			p.advance()
			p.expect(token.COLON)
			p.skipNewlines()
			render = p.parseExpression(LOWEST)
		default:
			p.errorf("expected state, method, or render clause in component body, got %s", p.cur().Type)
			p.advance()
		}
		p.skipNewlines()
	}
	end := p.span()
	p.expect(token.DEDENT)
	return &ast.ComponentDecl{Name: name, Props: props, State: state, Methods: methods, Render: render, Span: source.Merge(start, end)}
}

// parseShaderDecl: `shader <stage> name(inputs) -> Output: uniforms...; body`.
func (p *Parser) parseShaderDecl() *ast.ShaderDecl {
	start := p.span()
	p.expect(token.SHADER)
	stage := ""
	if p.curIs(token.VERTEX) || p.curIs(token.FRAGMENT) || p.curIs(token.COMPUTE) {
		stage = p.advance().Literal
	} else {
		p.errorf("expected shader stage, got %s", p.cur().Type)
	}
	name := p.parseIdentName()
	inputs := p.parseParamList()
	var output ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		output = p.parseTypeExpr()
	}
	p.expect(token.COLON)
	p.skipNewlines()
	p.expect(token.INDENT)

	var uniforms []*ast.ShaderUniform
	var stmts []ast.Statement
	for !p.curIs(token.DEDENT) && !p.atEnd() {
		p.skipNewlines()
		if p.curIs(token.DEDENT) || p.atEnd() {
			break
		}
		if p.curIs(token.UNIFORM) {
			uStart := p.span()
			p.advance()
			uName := p.parseIdentName()
			p.expect(token.COLON)
			uType := p.parseTypeExpr()
			binding := 0
			if p.curIs(token.AT) {
				p.advance()
				binding = p.parseIntLiteralValue()
			}
			uniforms = append(uniforms, &ast.ShaderUniform{Name: uName, Type: uType, Binding: binding, Span: source.Merge(uStart, p.span())})
		} else if s := p.parseStatement(); s != nil {
			stmts = append(stmts, s)
		}
		p.skipNewlines()
	}
	end := p.span()
	p.expect(token.DEDENT)
	body := &ast.Block{Stmts: stmts, Span: source.Merge(start, end)}
	return &ast.ShaderDecl{Name: name, Stage: stage, Inputs: inputs, Output: output, Uniforms: uniforms, Body: body, Span: source.Merge(start, end)}
}

func (p *Parser) parseIntLiteralValue() int {
	if !p.curIs(token.INT) {
		p.errorf("expected integer literal, got %s", p.cur().Type)
		return 0
	}
	lit := p.advance().Literal
	n := 0
	for _, c := range lit {
		if c == '_' {
			continue
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// parseActorDecl: `actor Name: state...; receive Message(params): body`.
func (p *Parser) parseActorDecl() *ast.ActorDecl {
	start := p.span()
	p.expect(token.ACTOR)
	name := p.parseIdentName()
	p.expect(token.COLON)
	p.skipNewlines()
	p.expect(token.INDENT)

	var state []*ast.VarDecl
	var handlers []*ast.ActorHandler
	for !p.curIs(token.DEDENT) && !p.atEnd() {
		p.skipNewlines()
		if p.curIs(token.DEDENT) || p.atEnd() {
			break
		}
		switch {
		case p.curIs(token.LET):
			if v := p.parseVarDecl(); v != nil {
				state = append(state, v)
			}
		case p.curIs(token.RECEIVE):
			hStart := p.span()
			p.advance()
			msg := p.parseIdentName()
			params := p.parseParamList()
			body := p.parseBlockOrInline()
			handlers = append(handlers, &ast.ActorHandler{Message: msg, Params: params, Body: body, Span: source.Merge(hStart, p.span())})
		default:
			p.errorf("expected state declaration or receive handler in actor body, got %s", p.cur().Type)
			p.advance()
		}
		p.skipNewlines()
	}
	end := p.span()
	p.expect(token.DEDENT)
	return &ast.ActorDecl{Name: name, State: state, Handlers: handlers, Span: source.Merge(start, end)}
}

// parseStructDecl: `struct Name<Generics> { field: Type, ... }`.
func (p *Parser) parseStructDecl() *ast.StructDecl {
	start := p.span()
	p.expect(token.STRUCT)
	name := p.parseIdentName()
	generics, _ := p.parseGenericsClause()
	p.expect(token.LBRACE)
	var fields []*ast.Param
	for !p.curIs(token.RBRACE) && !p.atEnd() {
		p.skipNewlines()
		if p.curIs(token.RBRACE) {
			break
		}
		fStart := p.span()
		fName := p.parseIdentName()
		p.expect(token.COLON)
		fType := p.parseTypeExpr()
		fields = append(fields, &ast.Param{Name: fName, Type: fType, Span: source.Merge(fStart, p.span())})
		if p.curIs(token.COMMA) {
			p.advance()
		}
		p.skipNewlines()
	}
	end := p.span()
	p.expect(token.RBRACE)
	return &ast.StructDecl{Name: name, Generics: generics, Fields: fields, Span: source.Merge(start, end)}
}

// parseEnumDecl: `enum Name { Variant, Variant(T), Variant { field: T } }`.
func (p *Parser) parseEnumDecl() *ast.EnumDecl {
	start := p.span()
	p.expect(token.ENUM)
	name := p.parseIdentName()
	generics, _ := p.parseGenericsClause()
	p.expect(token.LBRACE)
	var variants []*ast.EnumVariant
	for !p.curIs(token.RBRACE) && !p.atEnd() {
		p.skipNewlines()
		if p.curIs(token.RBRACE) {
			break
		}
		vStart := p.span()
		vName := p.parseIdentName()
		variant := &ast.EnumVariant{Name: vName, Kind: ast.VariantUnit}
		switch {
		case p.curIs(token.LPAREN):
			p.advance()
			for !p.curIs(token.RPAREN) && !p.atEnd() {
				variant.Tuple = append(variant.Tuple, p.parseTypeExpr())
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			p.expect(token.RPAREN)
			variant.Kind = ast.VariantTuple
		case p.curIs(token.LBRACE):
			p.advance()
			for !p.curIs(token.RBRACE) && !p.atEnd() {
				p.skipNewlines()
				if p.curIs(token.RBRACE) {
					break
				}
				fStart := p.span()
				fName := p.parseIdentName()
				p.expect(token.COLON)
				fType := p.parseTypeExpr()
				variant.Fields = append(variant.Fields, &ast.Param{Name: fName, Type: fType, Span: source.Merge(fStart, p.span())})
				if p.curIs(token.COMMA) {
					p.advance()
				}
				p.skipNewlines()
			}
			p.expect(token.RBRACE)
			variant.Kind = ast.VariantStruct
		}
		variant.Span = source.Merge(vStart, p.span())
		variants = append(variants, variant)
		if p.curIs(token.COMMA) {
			p.advance()
		}
		p.skipNewlines()
	}
	end := p.span()
	p.expect(token.RBRACE)
	return &ast.EnumDecl{Name: name, Generics: generics, Variants: variants, Span: source.Merge(start, end)}
}

// parseTraitDecl: `trait Name { fn method(...) -> T; ... }` (signatures only).
func (p *Parser) parseTraitDecl() *ast.TraitDecl {
	start := p.span()
	p.expect(token.TRAIT)
	name := p.parseIdentName()
	p.expect(token.LBRACE)
	var methods []*ast.FuncDecl
	for !p.curIs(token.RBRACE) && !p.atEnd() {
		p.skipNewlines()
		if p.curIs(token.RBRACE) {
			break
		}
		if p.curIs(token.FN) {
			methods = append(methods, p.parseFuncDecl(false, nil))
		} else {
			p.errorf("expected method signature in trait body, got %s", p.cur().Type)
			p.advance()
		}
		p.skipNewlines()
	}
	end := p.span()
	p.expect(token.RBRACE)
	return &ast.TraitDecl{Name: name, Methods: methods, Span: source.Merge(start, end)}
}

// parseImplDecl: `impl Trait for Type { methods }` or `impl Type { methods }`.
func (p *Parser) parseImplDecl() *ast.ImplDecl {
	start := p.span()
	p.expect(token.IMPL)
	first := p.parseIdentName()
	trait := ""
	typeName := first
	if p.curIs(token.IDENT) && p.cur().Literal == "for" {
		p.advance()
		trait = first
		typeName = p.parseIdentName()
	}
	p.expect(token.LBRACE)
	var methods []*ast.FuncDecl
	for !p.curIs(token.RBRACE) && !p.atEnd() {
		p.skipNewlines()
		if p.curIs(token.RBRACE) {
			break
		}
		if p.curIs(token.FN) {
			methods = append(methods, p.parseFuncDecl(false, nil))
		} else {
			p.errorf("expected method in impl body, got %s", p.cur().Type)
			p.advance()
		}
		p.skipNewlines()
	}
	end := p.span()
	p.expect(token.RBRACE)
	return &ast.ImplDecl{Trait: trait, Type: typeName, Methods: methods, Span: source.Merge(start, end)}
}

func (p *Parser) parseTypeAliasDecl() *ast.TypeAliasDecl {
	start := p.span()
	p.expect(token.TYPE)
	name := p.parseIdentName()
	p.expect(token.ASSIGN)
	typ := p.parseTypeExpr()
	return &ast.TypeAliasDecl{Name: name, Type: typ, Span: source.Merge(start, p.span())}
}

func (p *Parser) parseUseDecl() *ast.UseDecl {
	start := p.span()
	p.expect(token.USE)
	var parts []string
	parts = append(parts, p.parseIdentName())
	for p.curIs(token.COLONCOLON) {
		p.advance()
		parts = append(parts, p.parseIdentName())
	}
	return &ast.UseDecl{Path: parts, Span: source.Merge(start, p.span())}
}

func (p *Parser) parseModDecl() *ast.ModDecl {
	start := p.span()
	p.expect(token.MOD)
	name := p.parseIdentName()
	return &ast.ModDecl{Name: name, Span: source.Merge(start, p.span())}
}

func (p *Parser) parseConstDecl() *ast.ConstDecl {
	start := p.span()
	p.expect(token.CONST)
	name := p.parseIdentName()
	var typ ast.TypeExpr
	if p.curIs(token.COLON) {
		p.advance()
		typ = p.parseTypeExpr()
	}
	p.expect(token.ASSIGN)
	val := p.parseExpression(LOWEST)
	return &ast.ConstDecl{Name: name, Type: typ, Value: val, Span: source.Merge(start, p.span())}
}

func (p *Parser) parseComptimeItem() *ast.ComptimeItem {
	start := p.span()
	p.expect(token.COMPTIME)
	body := p.parseBlockOrInline()
	return &ast.ComptimeItem{Body: body, Span: source.Merge(start, p.span())}
}

func (p *Parser) parseMacroDecl() *ast.MacroDecl {
	start := p.span()
	p.expect(token.MACRO)
	name := p.parseIdentName()
	p.expect(token.BANG)
	p.expect(token.LPAREN)
	var params []string
	for !p.curIs(token.RPAREN) && !p.atEnd() {
		params = append(params, p.parseIdentName())
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.RPAREN)
	body := p.parseBlockOrInline()
	return &ast.MacroDecl{Name: name, Params: params, Body: body, Span: source.Merge(start, p.span())}
}

func (p *Parser) parseTestDecl() *ast.TestDecl {
	start := p.span()
	p.expect(token.TEST)
	var name string
	if p.curIs(token.STRING) {
		name = p.advance().Literal
	}
	body := p.parseBlockOrInline()
	return &ast.TestDecl{Name: name, Body: body, Span: source.Merge(start, p.span())}
}

// parseVarDecl parses the shared `let [mut] name: Type = value` shape used by
// both let-statements and component/actor state fields.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	start := p.span()
	p.expect(token.LET)
	mutable := false
	if p.curIs(token.MUT) {
		mutable = true
		p.advance()
	}
	name := p.parseIdentName()
	var typ ast.TypeExpr
	if p.curIs(token.COLON) {
		p.advance()
		typ = p.parseTypeExpr()
	}
	var val ast.Expression
	if p.curIs(token.ASSIGN) {
		p.advance()
		val = p.parseExpression(LOWEST)
	}
	return &ast.VarDecl{Name: name, Mutable: mutable, Type: typ, Value: val, Span: source.Merge(start, p.span())}
}
