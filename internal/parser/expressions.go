package parser

import (
	"strconv"
	"strings"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/token"
)

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > MaxRecursionDepth {
		if !p.inRecursionRecovery {
			p.errorf(diagnostics.ErrP006, p.curToken.Span,
				"expression too complex: recursion depth limit exceeded")
			p.inRecursionRecovery = true
		}
		p.skipToStatementBoundary()
		p.inRecursionRecovery = false
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		return p.errorNodeHere(diagnostics.ErrP004,
			"unexpected %s in expression", describe(p.curToken))
	}
	leftExp := prefix()

	for !p.peekTokenIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}
		p.nextToken()
		nextExp := infix(leftExp)
		if nextExp == nil {
			return leftExp
		}
		leftExp = nextExp
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	n := &ast.IdentifierNode{Name: p.curToken.Lexeme}
	n.SetSpan(p.curToken.Span)
	return n
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	n := &ast.IntegerLiteral{Raw: p.curToken.Lexeme}
	n.SetSpan(p.curToken.Span)
	v, err := strconv.ParseInt(p.curToken.Lexeme, 10, 64)
	if err != nil {
		p.errorf(diagnostics.ErrP004, p.curToken.Span,
			"could not parse %q as integer", p.curToken.Lexeme)
	}
	n.Value = v
	return n
}

func (p *Parser) parseDecimalLiteral() ast.Expression {
	n := &ast.DecimalLiteral{Raw: p.curToken.Lexeme}
	n.SetSpan(p.curToken.Span)
	v, err := strconv.ParseFloat(p.curToken.Lexeme, 64)
	if err != nil {
		p.errorf(diagnostics.ErrP004, p.curToken.Span,
			"could not parse %q as number", p.curToken.Lexeme)
	}
	n.Value = v
	return n
}

func (p *Parser) parseStringLiteral() ast.Expression {
	n := &ast.StringLiteral{Value: p.curToken.Lexeme}
	n.SetSpan(p.curToken.Span)
	return n
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	n := &ast.BooleanLiteral{Value: p.curTokenIs(token.TRUE)}
	n.SetSpan(p.curToken.Span)
	return n
}

func (p *Parser) parseNullLiteral() ast.Expression {
	n := &ast.NullLiteral{}
	n.SetSpan(p.curToken.Span)
	return n
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	n := &ast.UnaryNode{Op: p.curToken.Type}
	start := p.curToken.Span
	p.nextToken()
	n.Operand = p.parseExpression(PREFIX)
	n.SetSpan(token.Cover(start, spanOf(n.Operand, start)))
	ast.Adopt(n, n.Operand)
	return n
}

// Not binds looser than comparisons: `Not &a = &b` negates the comparison.
func (p *Parser) parseNotExpression() ast.Expression {
	n := &ast.UnaryNode{Op: p.curToken.Type}
	start := p.curToken.Span
	p.nextToken()
	n.Operand = p.parseExpression(LOGIC_NOT)
	n.SetSpan(token.Cover(start, spanOf(n.Operand, start)))
	ast.Adopt(n, n.Operand)
	return n
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	n := &ast.BinaryNode{Left: left, Op: p.curToken.Type}
	precedence := p.curPrecedence()
	p.nextToken()
	n.Right = p.parseExpression(precedence)
	n.SetSpan(token.Cover(spanOf(left, p.curToken.Span), spanOf(n.Right, p.curToken.Span)))
	ast.Adopt(n, n.Left, n.Right)
	return n
}

func (p *Parser) parseRightAssocInfixExpression(left ast.Expression) ast.Expression {
	n := &ast.BinaryNode{Left: left, Op: p.curToken.Type}
	precedence := p.curPrecedence()
	p.nextToken()
	n.Right = p.parseExpression(precedence - 1)
	n.SetSpan(token.Cover(spanOf(left, p.curToken.Span), spanOf(n.Right, p.curToken.Span)))
	ast.Adopt(n, n.Left, n.Right)
	return n
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	start := p.curToken.Span
	p.nextToken()
	inner := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return inner
	}
	n := &ast.ParenNode{Inner: inner}
	n.SetSpan(token.Cover(start, p.curToken.Span))
	ast.Adopt(n, inner)
	return n
}

func (p *Parser) parseAtExpression() ast.Expression {
	n := &ast.AtNode{}
	start := p.curToken.Span
	if !p.expectPeek(token.LPAREN) {
		n.SetSpan(start)
		return n
	}
	p.nextToken()
	n.Target = p.parseExpression(LOWEST)
	if p.expectPeek(token.RPAREN) {
		n.SetSpan(token.Cover(start, p.curToken.Span))
	} else {
		n.SetSpan(token.Cover(start, spanOf(n.Target, start)))
	}
	ast.Adopt(n, n.Target)
	return n
}

func (p *Parser) parseCreateExpression() ast.Expression {
	n := &ast.CreateNode{}
	start := p.curToken.Span

	if !p.peekTokenIs(token.IDENT) {
		p.errorf(diagnostics.ErrP004, p.peekToken.Span,
			"expected class name after 'create', found %s", describe(p.peekToken))
		n.SetSpan(start)
		return n
	}
	p.nextToken()
	n.Class = p.parseAppClassPath()
	end := spanOf(n.Class, start)

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		n.Args = p.parseArgumentList()
		end = p.curToken.Span
	}
	n.SetSpan(token.Cover(start, end))
	ast.Adopt(n, n.Class)
	for _, a := range n.Args {
		ast.Adopt(n, a)
	}
	return n
}

// parseMemberExpression handles `.name` and `.name(args)` with curToken on
// the dot.
func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	if !p.peekTokenIs(token.IDENT) && !p.peekTokenIs(token.USER_VARIABLE) &&
		!p.peekToken.Type.IsKeyword() {
		p.errorf(diagnostics.ErrP004, p.peekToken.Span,
			"expected member name after '.', found %s", describe(p.peekToken))
		return left
	}
	p.nextToken()
	name := p.curToken.Lexeme
	nameSpan := p.curToken.Span

	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		call := &ast.MethodCallNode{Receiver: left, Method: name, MethodSpan: nameSpan}
		call.Args = p.parseArgumentList()
		call.SetSpan(token.Cover(spanOf(left, nameSpan), p.curToken.Span))
		ast.Adopt(call, left)
		for _, a := range call.Args {
			ast.Adopt(call, a)
		}
		return call
	}

	n := &ast.PropertyAccessNode{Object: left, Property: name, PropSpan: nameSpan}
	n.SetSpan(token.Cover(spanOf(left, nameSpan), nameSpan))
	ast.Adopt(n, left)
	return n
}

// parseCallExpression handles `name(args)` with curToken on the left paren.
// Only a bare identifier can head a call; anything else is left alone so the
// checker can flag it.
func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	ident, ok := left.(*ast.IdentifierNode)
	if !ok {
		p.errorf(diagnostics.ErrP004, p.curToken.Span, "expression is not callable")
		// Consume the argument list anyway to stay synchronized.
		p.parseArgumentList()
		return left
	}
	n := &ast.FunctionCallNode{Name: ident}
	n.Args = p.parseArgumentList()
	n.SetSpan(token.Cover(ident.Span(), p.curToken.Span))
	ast.Adopt(n, ident)
	for _, a := range n.Args {
		ast.Adopt(n, a)
	}
	return n
}

// parseArgumentList consumes `(a, b, c)` with curToken on the left paren,
// leaving curToken on the right paren.
func (p *Parser) parseArgumentList() []ast.Expression {
	var args []ast.Expression
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return args
	}
	p.nextToken()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		args = append(args, p.parseExpression(LOWEST))
	}
	p.expectPeek(token.RPAREN)
	return args
}

func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	n := &ast.ArrayAccessNode{Base: left}
	start := spanOf(left, p.curToken.Span)

	p.nextToken()
	n.Indices = append(n.Indices, p.parseExpression(LOWEST))
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		n.Indices = append(n.Indices, p.parseExpression(LOWEST))
	}
	p.expectPeek(token.RBRACKET)
	n.SetSpan(token.Cover(start, p.curToken.Span))
	ast.Adopt(n, left)
	for _, i := range n.Indices {
		ast.Adopt(n, i)
	}
	return n
}

// parseCastExpression handles `expr As PKG:Class` with curToken on As.
func (p *Parser) parseCastExpression(left ast.Expression) ast.Expression {
	n := &ast.TypeCastNode{Expr: left}
	start := spanOf(left, p.curToken.Span)
	p.nextToken()
	n.Target = p.parseTypeAnnotation()
	n.SetSpan(token.Cover(start, spanOf(n.Target, start)))
	ast.Adopt(n, left, n.Target)
	return n
}

// parseInterpolatedString lowers the lexer's part tokens into an alternating
// fragment/expression list. curToken is STRING_START.
func (p *Parser) parseInterpolatedString() ast.Expression {
	n := &ast.InterpolatedStringNode{}
	start := p.curToken.Span
	end := start

	for {
		switch p.peekToken.Type {
		case token.STRING_FRAGMENT:
			p.nextToken()
			frag := &ast.StringFragmentNode{Text: p.curToken.Lexeme}
			frag.SetSpan(p.curToken.Span)
			n.Parts = append(n.Parts, frag)
			end = p.curToken.Span
		case token.INTERP_START:
			p.nextToken()
			p.nextToken()
			expr := p.parseExpression(LOWEST)
			n.Parts = append(n.Parts, expr)
			if p.peekTokenIs(token.INTERP_END) {
				p.nextToken()
				end = p.curToken.Span
			} else {
				// The lexer bailed out of the interpolation at end of line.
				n.Unterminated = true
				end = spanOf(expr, end)
			}
		case token.STRING_END:
			p.nextToken()
			end = p.curToken.Span
			n.SetSpan(token.Cover(start, end))
			p.adoptParts(n)
			return n
		case token.UNTERMINATED_STRING:
			p.nextToken()
			n.Unterminated = true
			n.SetSpan(token.Cover(start, p.curToken.Span))
			p.adoptParts(n)
			return n
		default:
			// Defensive: the lexer guarantees a terminator token, but the
			// parser must not spin if the stream is hand-built.
			n.Unterminated = true
			n.SetSpan(token.Cover(start, end))
			p.adoptParts(n)
			return n
		}
	}
}

func (p *Parser) adoptParts(n *ast.InterpolatedStringNode) {
	for _, part := range n.Parts {
		ast.Adopt(n, part)
	}
}

// parseAppClassPath reads `PKG:SUB:Name` with curToken on the first segment,
// leaving curToken on the last.
func (p *Parser) parseAppClassPath() *ast.AppClassTypeNode {
	n := &ast.AppClassTypeNode{}
	start := p.curToken.Span
	end := start

	segments := []string{p.curToken.Lexeme}
	for p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.peekTokenIs(token.IDENT) && !p.peekTokenIs(token.STAR) {
			p.errorf(diagnostics.ErrP003, p.peekToken.Span,
				"expected name after ':', found %s", describe(p.peekToken))
			break
		}
		p.nextToken()
		segments = append(segments, p.curToken.Lexeme)
		end = p.curToken.Span
	}

	n.ClassName = segments[len(segments)-1]
	n.PackagePath = segments[:len(segments)-1]
	n.SetSpan(token.Cover(start, end))
	return n
}

// spanOf returns a node's span, or the fallback for nil nodes.
func spanOf(n ast.Node, fallback token.Span) token.Span {
	if n == nil {
		return fallback
	}
	v := n.Span()
	if v == (token.Span{}) {
		return fallback
	}
	return v
}

// isBuiltinTypeName reports whether a bare identifier names a language type
// in annotation position.
func isBuiltinTypeName(name string) bool {
	switch strings.ToLower(name) {
	case "string", "number", "integer", "float", "boolean", "date", "time",
		"datetime", "object", "any":
		return true
	}
	return false
}
