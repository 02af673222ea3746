// Package parser builds the syntax tree from the token stream.
//
// The parser is total: ParseProgram always returns a usable *ast.Program, no
// matter how broken the input is. Rules that cannot make sense of the tokens
// record a diagnostic, drop an ast.ErrorNode in place, and resynchronize at
// the next statement boundary.
package parser

import (
	"fmt"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/pipeline"
	"github.com/pclint/pclint/internal/token"
)

// MaxRecursionDepth bounds expression nesting so a pathological input cannot
// blow the goroutine stack.
const MaxRecursionDepth = 500

// Operator precedence, lowest binds loosest.
const (
	LOWEST = iota
	LOGIC_OR
	LOGIC_AND
	LOGIC_NOT
	COMPARE // = <> < <= > >=
	CONCAT  // |
	SUM     // + -
	PRODUCT // * /
	EXPONENT
	PREFIX
	CALL // . ( [
)

var precedences = map[token.Type]int{
	token.OR:       LOGIC_OR,
	token.AND:      LOGIC_AND,
	token.EQ:       COMPARE,
	token.NEQ:      COMPARE,
	token.LT:       COMPARE,
	token.LE:       COMPARE,
	token.GT:       COMPARE,
	token.GE:       COMPARE,
	token.AS:       COMPARE,
	token.PIPE:     CONCAT,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.POWER:    EXPONENT,
	token.DOT:      CALL,
	token.LPAREN:   CALL,
	token.LBRACKET: CALL,
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	stream *token.Stream
	ctx    *pipeline.Context

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	depth               int
	inRecursionRecovery bool
	cancelled           bool
}

func New(stream *token.Stream, ctx *pipeline.Context) *Parser {
	p := &Parser{stream: stream, ctx: ctx}

	p.prefixParseFns = map[token.Type]prefixParseFn{
		token.IDENT:               p.parseIdentifier,
		token.USER_VARIABLE:       p.parseIdentifier,
		token.SYSTEM_VARIABLE:     p.parseIdentifier,
		token.INTEGER:             p.parseIntegerLiteral,
		token.DECIMAL:             p.parseDecimalLiteral,
		token.STRING:              p.parseStringLiteral,
		token.UNTERMINATED_STRING: p.parseStringLiteral,
		token.TRUE:                p.parseBooleanLiteral,
		token.FALSE:               p.parseBooleanLiteral,
		token.NULL:                p.parseNullLiteral,
		token.MINUS:               p.parsePrefixExpression,
		token.NOT:                 p.parseNotExpression,
		token.LPAREN:              p.parseGroupedExpression,
		token.AT:                  p.parseAtExpression,
		token.CREATE:              p.parseCreateExpression,
		token.STRING_START:        p.parseInterpolatedString,
		// Soft keywords that double as builtin function names.
		token.VALUE: p.parseIdentifier,
		token.ERROR: p.parseIdentifier,
	}

	p.infixParseFns = map[token.Type]infixParseFn{
		token.OR:       p.parseInfixExpression,
		token.AND:      p.parseInfixExpression,
		token.EQ:       p.parseInfixExpression,
		token.NEQ:      p.parseInfixExpression,
		token.LT:       p.parseInfixExpression,
		token.LE:       p.parseInfixExpression,
		token.GT:       p.parseInfixExpression,
		token.GE:       p.parseInfixExpression,
		token.PIPE:     p.parseInfixExpression,
		token.PLUS:     p.parseInfixExpression,
		token.MINUS:    p.parseInfixExpression,
		token.STAR:     p.parseInfixExpression,
		token.SLASH:    p.parseInfixExpression,
		token.POWER:    p.parseRightAssocInfixExpression,
		token.DOT:      p.parseMemberExpression,
		token.LPAREN:   p.parseCallExpression,
		token.LBRACKET: p.parseIndexExpression,
		token.AS:       p.parseCastExpression,
	}

	// Prime curToken and peekToken.
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.stream.Next()
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrP001, p.peekToken.Span,
		"expected %s, found %s", t, describe(p.peekToken))
	return false
}

// expectMemberName advances onto a method or property name. A handful of
// keywords (Value, Error, Warning, Step) are legal member names, so name
// positions accept them alongside IDENT, the way the expression grammar
// already does for calls.
func (p *Parser) expectMemberName() bool {
	switch p.peekToken.Type {
	case token.IDENT, token.VALUE, token.ERROR, token.WARNING, token.STEP:
		p.nextToken()
		return true
	}
	return p.expectPeek(token.IDENT)
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) errorf(code diagnostics.Code, span token.Span, format string, args ...interface{}) {
	p.ctx.AddError(diagnostics.NewError(code, span, fmt.Sprintf(format, args...)))
}

// checkCancelled is consulted at statement granularity. Once the context is
// done the parser consumes nothing further and returns what it has.
func (p *Parser) checkCancelled() bool {
	if p.cancelled {
		return true
	}
	if p.ctx.Context().Err() != nil {
		p.cancelled = true
	}
	return p.cancelled
}

// describe renders a token for an error message.
func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.IDENT, token.USER_VARIABLE, token.SYSTEM_VARIABLE,
		token.INTEGER, token.DECIMAL:
		return fmt.Sprintf("'%s'", tok.Lexeme)
	case token.STRING:
		return "string literal"
	}
	return fmt.Sprintf("'%s'", tok.Type)
}

// statementBoundary reports whether t closes or starts a statement, which is
// where panic-mode recovery resynchronizes.
func statementBoundary(t token.Type) bool {
	switch t {
	case token.SEMICOLON, token.EOF,
		token.IF, token.ELSE, token.END_IF,
		token.FOR, token.END_FOR,
		token.WHILE, token.END_WHILE,
		token.REPEAT, token.UNTIL,
		token.EVALUATE, token.WHEN, token.WHEN_OTHER, token.END_EVALUATE,
		token.TRY, token.CATCH, token.END_TRY,
		token.RETURN, token.THROW, token.BREAK, token.CONTINUE, token.EXIT,
		token.LOCAL, token.GLOBAL, token.COMPONENT,
		token.METHOD, token.END_METHOD, token.FUNCTION, token.END_FUNCTION,
		token.CLASS, token.END_CLASS, token.INTERFACE, token.END_INTERFACE,
		token.GET, token.END_GET, token.SET, token.END_SET:
		return true
	}
	return false
}

// skipToStatementBoundary advances to the nearest statement boundary and
// stops on it; callers resume from there.
func (p *Parser) skipToStatementBoundary() {
	for !statementBoundary(p.curToken.Type) {
		p.nextToken()
	}
}

// errorNodeHere records a diagnostic and returns a placeholder node spanning
// the current token.
func (p *Parser) errorNodeHere(code diagnostics.Code, format string, args ...interface{}) *ast.ErrorNode {
	msg := fmt.Sprintf(format, args...)
	p.errorf(code, p.curToken.Span, "%s", msg)
	n := &ast.ErrorNode{Message: msg}
	n.SetSpan(p.curToken.Span)
	return n
}

// consumeSemicolon eats the statement terminator if present. PeopleCode
// tolerates a missing semicolon before a block terminator, so absence is not
// an error when the next token closes a block.
func (p *Parser) consumeSemicolon() {
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
		return
	}
	if statementBoundary(p.peekToken.Type) || p.peekTokenIs(token.EOF) {
		return
	}
	p.errorf(diagnostics.ErrP002, p.curToken.Span,
		"expected ';' after statement, found %s", describe(p.peekToken))
}
