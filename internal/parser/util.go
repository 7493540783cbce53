package parser

import (
	"strings"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/lexer"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/token"
)

// skipLayout consumes any run of synthetic layout tokens (Newline/Indent/Dedent).
// The indentation pass injects these unconditionally from raw newlines, so any
// bracketed construct that spans multiple lines (arrays, struct literals, call
// argument lists) must tolerate and discard them internally.
func (p *Parser) skipLayout() {
	for p.curIs(token.NEWLINE) || p.curIs(token.INDENT) || p.curIs(token.DEDENT) {
		p.advance()
	}
}

// parseCallArgs parses a parenthesized, comma-separated argument list,
// tolerating layout tokens for multi-line call sites.
func (p *Parser) parseCallArgs() ([]ast.Expression, source.Span) {
	start := p.span()
	p.expect(token.LPAREN)
	p.skipLayout()
	var args []ast.Expression
	for !p.curIs(token.RPAREN) && !p.atEnd() {
		args = append(args, p.parseExpression(LOWEST))
		p.skipLayout()
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipLayout()
		}
	}
	end := p.span()
	p.expect(token.RPAREN)
	return args, source.Merge(start, end)
}

// parseStructFieldsBraced parses the `{ field: value, ... }` body shared by
// struct literals and struct-shaped enum constructors, supporting the
// multi-line indented form.
func (p *Parser) parseStructFieldsBraced() (map[string]ast.Expression, []string, source.Span) {
	start := p.span()
	p.expect(token.LBRACE)
	p.skipLayout()
	fields := map[string]ast.Expression{}
	var order []string
	for !p.curIs(token.RBRACE) && !p.atEnd() {
		name := p.parseIdentName()
		p.expect(token.COLON)
		val := p.parseExpression(LOWEST)
		fields[name] = val
		order = append(order, name)
		p.skipLayout()
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipLayout()
		}
	}
	end := p.span()
	p.expect(token.RBRACE)
	return fields, order, source.Merge(start, end)
}

// unescape expands the standard backslash escapes in a raw string literal's
// body. The lexer intentionally keeps string bodies raw so the parser (here)
// owns escape expansion for plain strings, and f-strings keep their literal
// text segments raw until this same function processes them.
func unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// splitFString splits a raw f-string body into alternating literal-text and
// sub-expression parts, re-parsing each `{...}` hole with a fresh sub-parser.
// Brace nesting inside a hole (e.g. a nested struct literal) is tracked by
// depth so the split point is the matching close brace, not the first one.
func splitFString(raw string, span source.Span) []ast.FStringPart {
	var parts []ast.FStringPart
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, ast.FStringPart{Text: unescape(text.String())})
			text.Reset()
		}
	}
	i := 0
	for i < len(raw) {
		if raw[i] == '{' {
			flush()
			depth := 1
			j := i + 1
			for j < len(raw) && depth > 0 {
				switch raw[j] {
				case '{':
					depth++
				case '}':
					depth--
					if depth == 0 {
						goto found
					}
				}
				j++
			}
		found:
			exprSrc := raw[i+1 : j]
			parts = append(parts, ast.FStringPart{IsExpr: true, Expr: parseEmbeddedExpr(exprSrc, span)})
			if j < len(raw) {
				i = j + 1
			} else {
				i = j
			}
			continue
		}
		text.WriteByte(raw[i])
		i++
	}
	flush()
	return parts
}

// parseEmbeddedExpr re-lexes and re-parses a f-string hole's source text as a
// standalone expression, reusing the same expression-parsing core on a fresh
// sub-parser instance.
func parseEmbeddedExpr(src string, fallback source.Span) ast.Expression {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return &ast.Ident{Name: "_error", Span: fallback}
	}
	sub := &Parser{toks: toks, errs: diag.NewErrorList()}
	sub.prefix = map[token.Type]prefixParseFn{}
	sub.infix = map[token.Type]infixParseFn{}
	sub.registerExprParsers()
	return sub.parseExpression(LOWEST)
}
