package parser

import (
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/token"
)

// parseMarkupElement parses `<tag attr=…>children</tag>` (or the self-closing
// `<tag attr=…/>` form) as a dedicated node tree distinct from ordinary
// expressions, per the grammar's embedded-markup rule.
func (p *Parser) parseMarkupElement() ast.Expression {
	start := p.span()
	p.advance() // consumes '<'
	tag := p.parseIdentName()

	var attrs []*ast.MarkupAttr
	for !p.curIs(token.SLASH) && !p.curIs(token.GT) && !p.atEnd() {
		attrs = append(attrs, p.parseMarkupAttr())
	}

	if p.curIs(token.SLASH) {
		p.advance()
		end := p.span()
		p.expect(token.GT)
		return &ast.MarkupElement{Tag: tag, Attrs: attrs, Span: source.Merge(start, end)}
	}

	p.expect(token.GT)
	children := p.parseMarkupChildren()
	end := p.span()
	p.expect(token.LT_SLASH)
	p.parseIdentName() // closing tag name, unchecked against the opening tag
	p.expect(token.GT)
	return &ast.MarkupElement{Tag: tag, Attrs: attrs, Children: children, Span: source.Merge(start, end)}
}

func (p *Parser) parseMarkupAttr() *ast.MarkupAttr {
	start := p.span()
	name := p.parseIdentName()
	p.expect(token.ASSIGN)
	var value ast.Expression
	if p.curIs(token.STRING) {
		value = p.parseStringLit()
	} else if p.curIs(token.LBRACE) {
		p.advance()
		value = p.parseExpression(LOWEST)
		p.expect(token.RBRACE)
	} else {
		p.errorf("expected string or {expr} attribute value, got %s", p.cur().Type)
	}
	return &ast.MarkupAttr{Name: name, Value: value, Span: source.Merge(start, p.span())}
}

// parseMarkupChildren collects the child union: nested elements, `{expr}`
// holes, and reconstructed text runs. Whitespace between adjacent child
// tokens collapses to a single space in the text reconstruction; any gap
// between the previous token's end and the current token's start (including
// a synthetic layout token) signals one.
func (p *Parser) parseMarkupChildren() []ast.MarkupChild {
	var children []ast.MarkupChild
	for !p.curIs(token.LT_SLASH) && !p.atEnd() {
		switch {
		case p.curIs(token.LBRACE):
			start := p.span()
			p.advance()
			expr := p.parseExpression(LOWEST)
			end := p.span()
			p.expect(token.RBRACE)
			children = append(children, &ast.MarkupHole{Expr: expr, Span: source.Merge(start, end)})
		case p.curIs(token.LT):
			children = append(children, p.parseMarkupElement().(*ast.MarkupElement))
		default:
			children = append(children, p.parseMarkupText())
		}
	}
	return children
}

// parseMarkupText collects a run of non-structural tokens into one
// reconstructed text node.
func (p *Parser) parseMarkupText() *ast.MarkupText {
	start := p.span()
	var b strings.Builder
	prevEnd := -1
	gap := false
	for !p.curIs(token.LT) && !p.curIs(token.LBRACE) && !p.curIs(token.LT_SLASH) && !p.atEnd() {
		tok := p.cur()
		if tok.Type == token.NEWLINE || tok.Type == token.INDENT || tok.Type == token.DEDENT {
			gap = true
			p.advance()
			continue
		}
		if prevEnd >= 0 && (gap || tok.Span.Start > prevEnd) && b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Literal)
		prevEnd = tok.Span.End
		gap = false
		p.advance()
	}
	return &ast.MarkupText{Text: b.String(), Span: source.Merge(start, p.span())}
}
