package parser

import (
	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/token"
)

// parseStatement dispatches the fixed set of statement-introducing keywords;
// everything else (including a bare break/continue/return used as a value, or
// an assignment) falls through to an expression statement.
func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Type {
	case token.LET:
		decl := p.parseVarDecl()
		return &ast.LetStmt{Decl: decl, Span: decl.Span}
	case token.RETURN:
		return p.parseReturnStmt()
	case token.WHILE:
		return p.parseWhileStmt()
	case token.FOR:
		return p.parseForStmt()
	case token.LOOP:
		return p.parseLoopStmt()
	case token.BREAK:
		tok := p.advance()
		return &ast.BreakStmt{Span: tok.Span}
	case token.CONTINUE:
		tok := p.advance()
		return &ast.ContinueStmt{Span: tok.Span}
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseReturnStmt() ast.Statement {
	start := p.span()
	p.advance() // consumes 'return'
	if p.endsExprPosition() {
		return &ast.ReturnStmt{Span: start}
	}
	val := p.parseExpression(LOWEST)
	return &ast.ReturnStmt{Value: val, Span: source.Merge(start, val.Pos())}
}

func (p *Parser) parseWhileStmt() ast.Statement {
	start := p.span()
	p.advance() // consumes 'while'
	cond := p.parseExpression(LOWEST)
	body := p.parseBlockOrInline()
	return &ast.WhileStmt{Cond: cond, Body: body, Span: source.Merge(start, body.Span)}
}

// parseForStmt parses `for name in iter: body`, where iter is typically a
// range expression (parsed generally, since range is just another operator).
func (p *Parser) parseForStmt() ast.Statement {
	start := p.span()
	p.advance() // consumes 'for'
	name := p.parseIdentName()
	p.expect(token.IN)
	iter := p.parseExpression(LOWEST)
	body := p.parseBlockOrInline()
	return &ast.ForStmt{Name: name, Iter: iter, Body: body, Span: source.Merge(start, body.Span)}
}

func (p *Parser) parseLoopStmt() ast.Statement {
	start := p.span()
	p.advance() // consumes 'loop'
	body := p.parseBlockOrInline()
	return &ast.LoopStmt{Body: body, Span: source.Merge(start, body.Span)}
}

func (p *Parser) parseExprStmt() ast.Statement {
	start := p.span()
	expr := p.parseExpression(LOWEST)
	return &ast.ExprStmt{Expr: expr, Span: source.Merge(start, expr.Pos())}
}
