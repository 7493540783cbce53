// Package parser builds the unified AST from a layout-aware token stream: a
// hand-written recursive-descent parser over items and statements, with a
// Pratt precedence-climbing core for expressions.
package parser

import (
	"fmt"

	"github.com/nyxlang/nyxc/internal/ast"
	"github.com/nyxlang/nyxc/internal/diag"
	"github.com/nyxlang/nyxc/internal/source"
	"github.com/nyxlang/nyxc/internal/token"
)

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

const (
	_ int = iota
	LOWEST
	ASSIGNMENT // = += -= *= /=
	OR         // ||
	AND        // &&
	EQUALITY   // == !=
	RELATIONAL // < > <= >=
	RANGE      // .. ...
	ADDITIVE   // + -
	MULTIPLY   // * / %
	POWER      // reserved for a future '**' operator; binds tighter than * /
	UNARY      // - ! await send
	POSTFIX    // () . [] ? as !macro
)

var precedences = map[token.Type]int{
	token.ASSIGN:       ASSIGNMENT,
	token.PLUS_ASSIGN:  ASSIGNMENT,
	token.MINUS_ASSIGN: ASSIGNMENT,
	token.STAR_ASSIGN:  ASSIGNMENT,
	token.SLASH_ASSIGN:  ASSIGNMENT,
	token.OR:           OR,
	token.AND:          AND,
	token.EQ:           EQUALITY,
	token.NOT_EQ:       EQUALITY,
	token.LT:           RELATIONAL,
	token.GT:           RELATIONAL,
	token.LT_EQ:        RELATIONAL,
	token.GT_EQ:        RELATIONAL,
	token.DOTDOT:       RANGE,
	token.DOTDOTDOT:    RANGE,
	token.PLUS:         ADDITIVE,
	token.MINUS:        ADDITIVE,
	token.ASTERISK:     MULTIPLY,
	token.SLASH:        MULTIPLY,
	token.PERCENT:      MULTIPLY,
	token.LPAREN:       POSTFIX,
	token.DOT:          POSTFIX,
	token.LBRACKET:     POSTFIX,
	token.QUESTION:     POSTFIX,
	token.AS:           POSTFIX,
}

// Parser consumes a flat token slice produced by the lexer's layout pass.
type Parser struct {
	toks []token.Token
	pos  int
	errs *diag.ErrorList

	prefix map[token.Type]prefixParseFn
	infix  map[token.Type]infixParseFn
}

// Parse builds a Program from a token stream, returning every parse error
// accumulated along the way (spec-level contract: parse(tokens) -> Program | ParseError).
func Parse(toks []token.Token) (*ast.Program, *diag.ErrorList) {
	p := &Parser{toks: toks, errs: diag.NewErrorList()}
	p.prefix = map[token.Type]prefixParseFn{}
	p.infix = map[token.Type]infixParseFn{}
	p.registerExprParsers()

	start := p.span()
	items := p.parseTopLevel()
	end := p.span()

	return &ast.Program{Items: items, Span: source.Merge(start, end)}, p.errs
}

func (p *Parser) registerExprParsers() {
	p.prefix[token.INT] = p.parseIntLit
	p.prefix[token.FLOAT] = p.parseFloatLit
	p.prefix[token.STRING] = p.parseStringLit
	p.prefix[token.FSTRING] = p.parseFStringLit
	p.prefix[token.TRUE] = p.parseBoolLit
	p.prefix[token.FALSE] = p.parseBoolLit
	p.prefix[token.IDENT] = p.parseIdentOrCtor
	p.prefix[token.MINUS] = p.parseUnary
	p.prefix[token.BANG] = p.parseUnary
	p.prefix[token.AWAIT] = p.parseAwait
	p.prefix[token.SEND] = p.parseSend
	p.prefix[token.SPAWN] = p.parseSpawn
	p.prefix[token.LPAREN] = p.parseParenOrTuple
	p.prefix[token.LBRACKET] = p.parseArrayLit
	p.prefix[token.PIPE] = p.parseLambdaPipes
	p.prefix[token.FN] = p.parseLambdaFn
	p.prefix[token.IF] = p.parseIfExpr
	p.prefix[token.MATCH] = p.parseMatchExpr
	p.prefix[token.RETURN] = p.parseReturnExpr
	p.prefix[token.BREAK] = p.parseBreakExpr
	p.prefix[token.CONTINUE] = p.parseContinueExpr
	p.prefix[token.COMPTIME] = p.parseComptimeExpr
	p.prefix[token.LT] = p.parseMarkupElement

	p.infix[token.PLUS] = p.parseBinary
	p.infix[token.MINUS] = p.parseBinary
	p.infix[token.ASTERISK] = p.parseBinary
	p.infix[token.SLASH] = p.parseBinary
	p.infix[token.PERCENT] = p.parseBinary
	p.infix[token.EQ] = p.parseBinary
	p.infix[token.NOT_EQ] = p.parseBinary
	p.infix[token.LT] = p.parseBinary
	p.infix[token.GT] = p.parseBinary
	p.infix[token.LT_EQ] = p.parseBinary
	p.infix[token.GT_EQ] = p.parseBinary
	p.infix[token.AND] = p.parseBinary
	p.infix[token.OR] = p.parseBinary
	p.infix[token.DOTDOT] = p.parseRange
	p.infix[token.DOTDOTDOT] = p.parseRange
	p.infix[token.DOT] = p.parseFieldOrMethod
	p.infix[token.LPAREN] = p.parseCall
	p.infix[token.LBRACKET] = p.parseIndex
	p.infix[token.QUESTION] = p.parseTry
	p.infix[token.AS] = p.parseCast
	p.infix[token.ASSIGN] = p.parseAssign
	p.infix[token.PLUS_ASSIGN] = p.parseAssign
	p.infix[token.MINUS_ASSIGN] = p.parseAssign
	p.infix[token.STAR_ASSIGN] = p.parseAssign
	p.infix[token.SLASH_ASSIGN] = p.parseAssign
}

// ===== token navigation =====

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // Eof
	}
	return p.toks[p.pos]
}

func (p *Parser) peek() token.Token {
	if p.pos+1 >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+1]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur().Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek().Type == t }

func (p *Parser) span() source.Span { return p.cur().Span }

func (p *Parser) expect(t token.Type) (token.Token, bool) {
	if p.curIs(t) {
		return p.advance(), true
	}
	p.errorf("expected %s, got %s", t, p.cur().Type)
	return p.cur(), false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errs.Add(diag.Parse, p.span(), fmt.Sprintf(format, args...))
}

// skipNewlines consumes any run of NEWLINE tokens (blank statement separators).
func (p *Parser) skipNewlines() {
	for p.curIs(token.NEWLINE) {
		p.advance()
	}
}

// atEnd reports whether the parser is positioned at Eof.
func (p *Parser) atEnd() bool { return p.curIs(token.EOF) }

// ===== top level =====

// parseTopLevel dispatches item keywords to item parsers; any leading
// statement tokens are collected and wrapped into a synthesized main function.
func (p *Parser) parseTopLevel() []ast.Item {
	var items []ast.Item
	var mainStmts []ast.Statement
	var mainStart source.Span
	haveMain := false

	p.skipNewlines()
	for !p.atEnd() {
		if p.isItemStart() {
			if it := p.parseItem(); it != nil {
				items = append(items, it)
			}
		} else {
			if !haveMain {
				mainStart = p.span()
				haveMain = true
			}
			if s := p.parseStatement(); s != nil {
				mainStmts = append(mainStmts, s)
			}
		}
		p.skipNewlines()
	}

	if haveMain {
		end := p.span()
		items = append(items, &ast.FuncDecl{
			Name: "main",
			Body: &ast.Block{Stmts: mainStmts, Span: source.Merge(mainStart, end)},
			Span: source.Merge(mainStart, end),
		})
	}
	return items
}

func (p *Parser) isItemStart() bool {
	switch p.cur().Type {
	case token.PUB, token.FN, token.ASYNC, token.COMPONENT, token.SHADER, token.STRUCT,
		token.ENUM, token.ACTOR, token.TRAIT, token.IMPL, token.TYPE, token.USE, token.MOD,
		token.CONST, token.COMPTIME, token.MACRO, token.TEST:
		return true
	}
	return false
}

func (p *Parser) parseItem() ast.Item {
	public := false
	if p.curIs(token.PUB) {
		public = true
		p.advance()
	}
	switch p.cur().Type {
	case token.FN:
		return p.parseFuncDecl(public, nil)
	case token.ASYNC:
		start := p.advance().Span
		asyncEffects := &ast.EffectClause{Names: []string{"Async"}, Span: start}
		fn := p.parseFuncDecl(public, asyncEffects)
		return fn
	case token.COMPONENT:
		return p.parseComponentDecl()
	case token.SHADER:
		return p.parseShaderDecl()
	case token.STRUCT:
		return p.parseStructDecl()
	case token.ENUM:
		return p.parseEnumDecl()
	case token.ACTOR:
		return p.parseActorDecl()
	case token.TRAIT:
		return p.parseTraitDecl()
	case token.IMPL:
		return p.parseImplDecl()
	case token.TYPE:
		return p.parseTypeAliasDecl()
	case token.USE:
		return p.parseUseDecl()
	case token.MOD:
		return p.parseModDecl()
	case token.CONST:
		return p.parseConstDecl()
	case token.COMPTIME:
		return p.parseComptimeItem()
	case token.MACRO:
		return p.parseMacroDecl()
	case token.TEST:
		return p.parseTestDecl()
	default:
		p.errorf("expected item declaration, got %s", p.cur().Type)
		p.advance()
		return nil
	}
}
