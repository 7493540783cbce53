package parser

import (
	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/token"
)

// parseTypeExpr parses a single type annotation: named, generic, array,
// slice, tuple, reference, or function type.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	start := p.span()
	switch p.cur().Type {
	case token.AMP:
		p.advance()
		mutable := false
		if p.curIs(token.MUT) {
			mutable = true
			p.advance()
		}
		elem := p.parseTypeExpr()
		return &ast.RefType{Mutable: mutable, Elem: elem, Span: source.Merge(start, p.span())}

	case token.LBRACKET:
		p.advance()
		elem := p.parseTypeExpr()
		if p.curIs(token.SEMICOLON) {
			p.advance()
			length := p.parseIntLiteralValue()
			end := p.span()
			p.expect(token.RBRACKET)
			return &ast.ArrayType{Elem: elem, Length: length, Span: source.Merge(start, end)}
		}
		end := p.span()
		p.expect(token.RBRACKET)
		return &ast.SliceType{Elem: elem, Span: source.Merge(start, end)}

	case token.LPAREN:
		p.advance()
		var elems []ast.TypeExpr
		for !p.curIs(token.RPAREN) && !p.atEnd() {
			elems = append(elems, p.parseTypeExpr())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		end := p.span()
		p.expect(token.RPAREN)
		return &ast.TupleType{Elems: elems, Span: source.Merge(start, end)}

	case token.FN:
		p.advance()
		p.expect(token.LPAREN)
		var params []ast.TypeExpr
		for !p.curIs(token.RPAREN) && !p.atEnd() {
			params = append(params, p.parseTypeExpr())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		p.expect(token.RPAREN)
		var ret ast.TypeExpr
		if p.curIs(token.ARROW) {
			p.advance()
			ret = p.parseTypeExpr()
		}
		var effects []string
		if p.curIs(token.WITH) {
			effects = p.parseEffectClause().Names
		}
		return &ast.FuncType{Params: params, Return: ret, Effects: effects, Span: source.Merge(start, p.span())}

	case token.IDENT:
		name := p.advance().Literal
		if p.curIs(token.LT) {
			p.advance()
			var args []ast.TypeExpr
			for !p.curIs(token.GT) && !p.atEnd() {
				args = append(args, p.parseTypeExpr())
				if p.curIs(token.COMMA) {
					p.advance()
				}
			}
			end := p.span()
			p.expect(token.GT)
			return &ast.GenericType{Name: name, Args: args, Span: source.Merge(start, end)}
		}
		return &ast.NamedType{Name: name, Span: source.Merge(start, p.span())}

	default:
		p.errorf("expected type, got %s", p.cur().Type)
		p.advance()
		return &ast.NamedType{Name: "_unknown", Span: start}
	}
}
