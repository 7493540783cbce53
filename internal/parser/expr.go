package parser

import (
	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/token"
)

// parseExpression is the precedence-climbing core: a prefix parser produces
// the left operand, then infix parsers consume operators whose precedence
// beats the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefix[p.cur().Type]
	if prefix == nil {
		p.errorf("unexpected token %s in expression", p.cur().Type)
		tok := p.advance()
		return &ast.Ident{Name: "_error", Span: tok.Span}
	}
	left := prefix()

	for !p.curIs(token.NEWLINE) && precedence < p.curPrecedence() {
		infix := p.infix[p.cur().Type]
		if infix == nil {
			return left
		}
		left = infix(left)
	}
	return left
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur().Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parseIntLit() ast.Expression {
	tok := p.advance()
	return &ast.IntLit{Value: tok.Literal, Span: tok.Span}
}

func (p *Parser) parseFloatLit() ast.Expression {
	tok := p.advance()
	return &ast.FloatLit{Value: tok.Literal, Span: tok.Span}
}

func (p *Parser) parseStringLit() ast.Expression {
	tok := p.advance()
	return &ast.StringLit{Value: unescape(tok.Literal), Span: tok.Span}
}

func (p *Parser) parseFStringLit() ast.Expression {
	tok := p.advance()
	return &ast.FStringLit{Parts: splitFString(tok.Literal, tok.Span), Span: tok.Span}
}

func (p *Parser) parseBoolLit() ast.Expression {
	tok := p.advance()
	return &ast.BoolLit{Value: tok.Type == token.TRUE, Span: tok.Span}
}

// parseIdentOrCtor handles a bare identifier plus everything that can follow
// one in primary position: a macro call `name!(args)`, a qualified enum
// constructor `Enum::Variant(...)`/`Enum::Variant{...}`, or a struct literal
// `Name { field: value, ... }`. There is no ambiguity with block syntax here
// because blocks always follow a header-terminating `:` plus indentation,
// never a bare `{`.
func (p *Parser) parseIdentOrCtor() ast.Expression {
	start := p.span()
	name := p.advance().Literal

	if p.curIs(token.BANG) {
		p.advance()
		args, end := p.parseCallArgs()
		return &ast.MacroCallExpr{Name: name, Args: args, Span: source.Merge(start, end)}
	}

	if p.curIs(token.COLONCOLON) {
		p.advance()
		variant := p.parseIdentName()
		switch {
		case p.curIs(token.LPAREN):
			args, end := p.parseCallArgs()
			return &ast.EnumConstructor{Enum: name, Variant: variant, Args: args, Span: source.Merge(start, end)}
		case p.curIs(token.LBRACE):
			fields, _, end := p.parseStructFieldsBraced()
			return &ast.EnumConstructor{Enum: name, Variant: variant, Fields: fields, Span: source.Merge(start, end)}
		default:
			return &ast.EnumConstructor{Enum: name, Variant: variant, Span: source.Merge(start, p.span())}
		}
	}

	if p.curIs(token.LBRACE) {
		fields, order, end := p.parseStructFieldsBraced()
		return &ast.StructLit{TypeName: name, Fields: fields, Order: order, Span: source.Merge(start, end)}
	}

	return &ast.Ident{Name: name, Span: source.Merge(start, start)}
}

func (p *Parser) parseUnary() ast.Expression {
	start := p.span()
	op := p.advance().Literal
	operand := p.parseExpression(UNARY)
	return &ast.UnaryExpr{Op: op, Operand: operand, Span: source.Merge(start, operand.Pos())}
}

func (p *Parser) parseAwait() ast.Expression {
	start := p.advance().Span // consumes 'await'
	operand := p.parseExpression(UNARY)
	return &ast.AwaitExpr{Expr: operand, Span: source.Merge(start, operand.Pos())}
}

// parseSend parses `send target, Message(args...)`.
func (p *Parser) parseSend() ast.Expression {
	start := p.advance().Span // consumes 'send'
	target := p.parseExpression(UNARY)
	p.expect(token.COMMA)
	msg := p.parseIdentName()
	var args []ast.Expression
	end := p.span()
	if p.curIs(token.LPAREN) {
		args, end = p.parseCallArgs()
	}
	return &ast.SendExpr{Target: target, Message: msg, Args: args, Span: source.Merge(start, end)}
}

// parseSpawn parses `spawn ActorName { field: value, ... }` or `spawn expr`.
func (p *Parser) parseSpawn() ast.Expression {
	start := p.advance().Span // consumes 'spawn'
	if p.curIs(token.IDENT) && p.peekIs(token.LBRACE) {
		name := p.advance().Literal
		fields, _, end := p.parseStructFieldsBraced()
		return &ast.SpawnExpr{Actor: name, Fields: fields, Span: source.Merge(start, end)}
	}
	expr := p.parseExpression(UNARY)
	return &ast.SpawnExpr{Expr: expr, Span: source.Merge(start, expr.Pos())}
}

func (p *Parser) parseParenOrTuple() ast.Expression {
	start := p.span()
	p.advance() // consumes '('
	p.skipLayout()
	if p.curIs(token.RPAREN) {
		end := p.span()
		p.advance()
		return &ast.TupleLit{Span: source.Merge(start, end)}
	}
	first := p.parseExpression(LOWEST)
	p.skipLayout()
	if p.curIs(token.COMMA) {
		elems := []ast.Expression{first}
		for p.curIs(token.COMMA) {
			p.advance()
			p.skipLayout()
			if p.curIs(token.RPAREN) {
				break
			}
			elems = append(elems, p.parseExpression(LOWEST))
			p.skipLayout()
		}
		end := p.span()
		p.expect(token.RPAREN)
		return &ast.TupleLit{Elems: elems, Span: source.Merge(start, end)}
	}
	p.expect(token.RPAREN)
	return first
}

func (p *Parser) parseArrayLit() ast.Expression {
	start := p.span()
	p.advance() // consumes '['
	p.skipLayout()
	var elems []ast.Expression
	for !p.curIs(token.RBRACKET) && !p.atEnd() {
		elems = append(elems, p.parseExpression(LOWEST))
		p.skipLayout()
		if p.curIs(token.COMMA) {
			p.advance()
			p.skipLayout()
		}
	}
	end := p.span()
	p.expect(token.RBRACKET)
	return &ast.ArrayLit{Elems: elems, Span: source.Merge(start, end)}
}

// parseLambdaPipes parses `|params| body`.
func (p *Parser) parseLambdaPipes() ast.Expression {
	start := p.span()
	p.advance() // consumes '|'
	var params []*ast.Param
	for !p.curIs(token.PIPE) && !p.atEnd() {
		pStart := p.span()
		name := p.parseIdentName()
		var typ ast.TypeExpr
		if p.curIs(token.COLON) {
			p.advance()
			typ = p.parseTypeExpr()
		}
		params = append(params, &ast.Param{Name: name, Type: typ, Span: source.Merge(pStart, p.span())})
		if p.curIs(token.COMMA) {
			p.advance()
		}
	}
	p.expect(token.PIPE)
	body := p.parseExpression(LOWEST)
	return &ast.LambdaExpr{Params: params, Body: body, Span: source.Merge(start, body.Pos())}
}

// parseLambdaFn parses `fn(params) [-> T]: body`.
func (p *Parser) parseLambdaFn() ast.Expression {
	start := p.span()
	p.advance() // consumes 'fn'
	params := p.parseParamList()
	var ret ast.TypeExpr
	if p.curIs(token.ARROW) {
		p.advance()
		ret = p.parseTypeExpr()
	}
	block := p.parseBlockOrInline()
	body := &ast.BlockExpr{Block: block, Span: block.Span}
	return &ast.LambdaExpr{Params: params, ReturnType: ret, Body: body, Span: source.Merge(start, block.Span)}
}

func (p *Parser) parseIfExpr() ast.Expression {
	start := p.span()
	p.advance() // consumes 'if'
	cond := p.parseExpression(LOWEST)
	then := p.parseBlockOrInline()
	ie := &ast.IfExpr{Cond: cond, Then: then, Span: source.Merge(start, then.Span)}
	if p.curIs(token.ELSE) {
		p.advance()
		if p.curIs(token.IF) {
			sub := p.parseIfExpr().(*ast.IfExpr)
			ie.ElseIf = sub
			ie.Span = source.Merge(ie.Span, sub.Span)
		} else {
			elseBlock := p.parseBlockOrInline()
			ie.Else = elseBlock
			ie.Span = source.Merge(ie.Span, elseBlock.Span)
		}
	}
	return ie
}

func (p *Parser) parseMatchExpr() ast.Expression {
	start := p.span()
	p.advance() // consumes 'match'
	scrutinee := p.parseExpression(LOWEST)
	p.expect(token.COLON)
	p.skipNewlines()
	p.expect(token.INDENT)
	var arms []*ast.MatchArm
	for !p.curIs(token.DEDENT) && !p.atEnd() {
		p.skipNewlines()
		if p.curIs(token.DEDENT) || p.atEnd() {
			break
		}
		arms = append(arms, p.parseMatchArm())
		p.skipNewlines()
	}
	end := p.span()
	p.expect(token.DEDENT)
	return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, Span: source.Merge(start, end)}
}

func (p *Parser) parseMatchArm() *ast.MatchArm {
	start := p.span()
	pat := p.parsePattern()
	var guard ast.Expression
	if p.curIs(token.IF) {
		p.advance()
		guard = p.parseExpression(LOWEST)
	}
	if p.curIs(token.FATARROW) || p.curIs(token.COLON) {
		p.advance()
	} else {
		p.errorf("expected => or : in match arm, got %s", p.cur().Type)
	}
	p.skipNewlines()
	body := p.parseExpression(LOWEST)
	if p.curIs(token.COMMA) {
		p.advance()
	}
	return &ast.MatchArm{Pattern: pat, Guard: guard, Body: body, Span: source.Merge(start, body.Pos())}
}

func (p *Parser) parseReturnExpr() ast.Expression {
	start := p.span()
	p.advance() // consumes 'return'
	if p.endsExprPosition() {
		return &ast.ReturnExpr{Span: start}
	}
	val := p.parseExpression(LOWEST)
	return &ast.ReturnExpr{Value: val, Span: source.Merge(start, val.Pos())}
}

func (p *Parser) parseBreakExpr() ast.Expression {
	tok := p.advance()
	return &ast.BreakExpr{Span: tok.Span}
}

func (p *Parser) parseContinueExpr() ast.Expression {
	tok := p.advance()
	return &ast.ContinueExpr{Span: tok.Span}
}

// endsExprPosition reports whether the current token can only terminate an
// expression (used to detect a bare `return` with no value).
func (p *Parser) endsExprPosition() bool {
	switch p.cur().Type {
	case token.NEWLINE, token.DEDENT, token.EOF, token.RPAREN, token.RBRACE, token.RBRACKET, token.COMMA:
		return true
	}
	return false
}

// parseComptimeExpr parses `comptime { expr }`, evaluated away by the
// comptime folder before the type checker ever sees it.
func (p *Parser) parseComptimeExpr() ast.Expression {
	start := p.span()
	p.advance() // consumes 'comptime'
	p.expect(token.LBRACE)
	p.skipLayout()
	var inner ast.Expression
	if p.curIs(token.RBRACE) {
		inner = &ast.BlockExpr{Block: &ast.Block{Span: p.span()}, Span: p.span()}
	} else {
		inner = p.parseExpression(LOWEST)
	}
	p.skipLayout()
	end := p.span()
	p.expect(token.RBRACE)
	return &ast.ComptimeExpr{Inner: inner, Span: source.Merge(start, end)}
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	op := p.cur().Literal
	precedence := p.curPrecedence()
	p.advance()
	right := p.parseExpression(precedence)
	return &ast.BinaryExpr{Op: op, Left: left, Right: right, Span: source.Merge(left.Pos(), right.Pos())}
}

func (p *Parser) parseAssign(left ast.Expression) ast.Expression {
	op := p.cur().Literal
	p.advance()
	value := p.parseExpression(ASSIGNMENT - 1)
	return &ast.AssignExpr{Op: op, Target: left, Value: value, Span: source.Merge(left.Pos(), value.Pos())}
}

// parseRange parses `..` and `...` as infix operators producing an open or
// closed range, tolerating an absent end expression (`a..`).
func (p *Parser) parseRange(left ast.Expression) ast.Expression {
	inclusive := p.curIs(token.DOTDOTDOT)
	p.advance()
	var end ast.Expression
	if !p.endsExprPosition() && !p.curIs(token.COLON) {
		end = p.parseExpression(RANGE)
	}
	endSpan := left.Pos()
	if end != nil {
		endSpan = end.Pos()
	}
	return &ast.RangeExpr{Start: left, End: end, Inclusive: inclusive, Span: source.Merge(left.Pos(), endSpan)}
}

func (p *Parser) parseFieldOrMethod(left ast.Expression) ast.Expression {
	p.advance() // consumes '.'
	name := p.parseIdentName()
	if p.curIs(token.LPAREN) {
		args, end := p.parseCallArgs()
		return &ast.MethodCallExpr{Receiver: left, Method: name, Args: args, Span: source.Merge(left.Pos(), end)}
	}
	return &ast.FieldExpr{Object: left, Field: name, Span: source.Merge(left.Pos(), p.span())}
}

func (p *Parser) parseCall(left ast.Expression) ast.Expression {
	args, end := p.parseCallArgs()
	return &ast.CallExpr{Callee: left, Args: args, Span: source.Merge(left.Pos(), end)}
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	p.advance() // consumes '['
	idx := p.parseExpression(LOWEST)
	end := p.span()
	p.expect(token.RBRACKET)
	return &ast.IndexExpr{Collection: left, Index: idx, Span: source.Merge(left.Pos(), end)}
}

func (p *Parser) parseTry(left ast.Expression) ast.Expression {
	tok := p.advance() // consumes '?'
	return &ast.TryExpr{Expr: left, Span: source.Merge(left.Pos(), tok.Span)}
}

func (p *Parser) parseCast(left ast.Expression) ast.Expression {
	p.advance() // consumes 'as'
	typ := p.parseTypeExpr()
	return &ast.CastExpr{Expr: left, Type: typ, Span: source.Merge(left.Pos(), typ.Pos())}
}
