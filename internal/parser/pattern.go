package parser

import (
	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/token"
)

// parsePattern parses the full pattern grammar: wildcard, binding, literal,
// tuple, slice (with optional rest binding), struct, qualified/unqualified
// variant, and or-patterns.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePrimaryPattern()
	if !p.curIs(token.PIPE) {
		return first
	}
	alts := []ast.Pattern{first}
	start := first.Pos()
	for p.curIs(token.PIPE) {
		p.advance()
		alts = append(alts, p.parsePrimaryPattern())
	}
	return &ast.OrPattern{Alts: alts, Span: source.Merge(start, p.span())}
}

func (p *Parser) parsePrimaryPattern() ast.Pattern {
	start := p.span()
	switch p.cur().Type {
	case token.MUT:
		p.advance()
		name := p.parseIdentName()
		return &ast.BindingPattern{Name: name, Mutable: true, Span: source.Merge(start, p.span())}

	case token.IDENT:
		name := p.cur().Literal
		if name == "_" {
			p.advance()
			return &ast.WildcardPattern{Span: start}
		}
		p.advance()
		switch {
		case p.curIs(token.COLONCOLON):
			p.advance()
			variant := p.parseIdentName()
			return p.parseVariantPatternTail(name, variant, start)
		case p.curIs(token.LPAREN):
			return p.parseVariantPatternTail("", name, start)
		case p.curIs(token.LBRACE):
			fields := p.parseStructPatternFields()
			return &ast.StructPattern{TypeName: name, Fields: fields, Span: source.Merge(start, p.span())}
		default:
			return &ast.BindingPattern{Name: name, Span: source.Merge(start, p.span())}
		}

	case token.INT:
		return &ast.LiteralPattern{Value: p.parseIntLit(), Span: start}
	case token.FLOAT:
		return &ast.LiteralPattern{Value: p.parseFloatLit(), Span: start}
	case token.STRING:
		return &ast.LiteralPattern{Value: p.parseStringLit(), Span: start}
	case token.TRUE, token.FALSE:
		return &ast.LiteralPattern{Value: p.parseBoolLit(), Span: start}

	case token.MINUS:
		p.advance()
		lit := p.parseIntLit()
		neg := &ast.UnaryExpr{Op: "-", Operand: lit, Span: source.Merge(start, lit.Pos())}
		return &ast.LiteralPattern{Value: neg, Span: source.Merge(start, lit.Pos())}

	case token.LPAREN:
		p.advance()
		var elems []ast.Pattern
		for !p.curIs(token.RPAREN) && !p.atEnd() {
			elems = append(elems, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		end := p.span()
		p.expect(token.RPAREN)
		return &ast.TuplePattern{Elems: elems, Span: source.Merge(start, end)}

	case token.LBRACKET:
		p.advance()
		var elems []ast.Pattern
		rest := ""
		for !p.curIs(token.RBRACKET) && !p.atEnd() {
			if p.curIs(token.DOTDOTDOT) {
				p.advance()
				rest = p.parseIdentName()
				break
			}
			elems = append(elems, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		end := p.span()
		p.expect(token.RBRACKET)
		return &ast.SlicePattern{Elems: elems, Rest: rest, Span: source.Merge(start, end)}

	default:
		p.errorf("expected pattern, got %s", p.cur().Type)
		p.advance()
		return &ast.WildcardPattern{Span: start}
	}
}

// parseVariantPatternTail parses the `(pats)` / `{fields}` / bare-unit tail of
// a variant pattern, qualified (enum != "") or unqualified.
func (p *Parser) parseVariantPatternTail(enum, variant string, start source.Span) ast.Pattern {
	switch {
	case p.curIs(token.LPAREN):
		p.advance()
		var elems []ast.Pattern
		for !p.curIs(token.RPAREN) && !p.atEnd() {
			elems = append(elems, p.parsePattern())
			if p.curIs(token.COMMA) {
				p.advance()
			}
		}
		end := p.span()
		p.expect(token.RPAREN)
		return &ast.VariantPattern{Enum: enum, Variant: variant, Elems: elems, Span: source.Merge(start, end)}
	case p.curIs(token.LBRACE):
		fields := p.parseStructPatternFields()
		return &ast.VariantPattern{Enum: enum, Variant: variant, Fields: fields, Span: source.Merge(start, p.span())}
	default:
		return &ast.VariantPattern{Enum: enum, Variant: variant, Span: source.Merge(start, p.span())}
	}
}

func (p *Parser) parseStructPatternFields() map[string]ast.Pattern {
	p.expect(token.LBRACE)
	p.skipLayout()
	fields := map[string]ast.Pattern{}
	for !p.curIs(token.RBRACE) && !p.atEnd() {
		name := p.parseIdentName()
		p.expect(token.COLON)
		fields[name] = p.parsePattern()
		p.skipLayout()
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipLayout()
		}
	}
	p.expect(token.RBRACE)
	return fields
}
