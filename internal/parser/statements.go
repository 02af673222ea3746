package parser

import (
	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/token"
)

// parseBlock collects statements until one of the given terminators (or EOF)
// appears in peek position. The terminator is not consumed.
func (p *Parser) parseBlock(terminators ...token.Type) *ast.BlockNode {
	block := &ast.BlockNode{}
	start := p.peekToken.Span

	for !p.peekTokenIs(token.EOF) && !p.peekIsOneOf(terminators) {
		if p.checkCancelled() {
			break
		}
		p.nextToken()
		if p.curTokenIs(token.SEMICOLON) {
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
			ast.Adopt(block, stmt)
		}
	}

	end := p.curToken.Span
	if len(block.Statements) > 0 {
		end = spanOf(block.Statements[len(block.Statements)-1], end)
	}
	block.SetSpan(token.Cover(start, end))
	return block
}

func (p *Parser) peekIsOneOf(types []token.Type) bool {
	for _, t := range types {
		if p.peekToken.Type == t {
			return true
		}
	}
	return false
}

// parseStatement dispatches on the current token. It never returns without
// leaving the parser at (or past) the statement's last token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.REPEAT:
		return p.parseRepeatStatement()
	case token.EVALUATE:
		return p.parseEvaluateStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.BREAK:
		n := &ast.BreakNode{}
		n.SetSpan(p.curToken.Span)
		p.consumeSemicolon()
		return n
	case token.CONTINUE:
		n := &ast.ContinueNode{}
		n.SetSpan(p.curToken.Span)
		p.consumeSemicolon()
		return n
	case token.EXIT:
		return p.parseExitStatement()
	case token.ERROR:
		return p.parseErrorStatement()
	case token.WARNING:
		return p.parseWarningStatement()
	case token.LOCAL:
		return p.parseLocalDeclaration()
	case token.CONSTANT:
		return p.parseConstantDeclaration()
	default:
		return p.parseSimpleStatement()
	}
}

// parseSimpleStatement is an assignment or an expression statement. The
// target is parsed below comparison precedence so the first `=` reads as the
// assignment operator; any `=` inside the right-hand side is equality.
func (p *Parser) parseSimpleStatement() ast.Statement {
	target := p.parseExpression(COMPARE)
	if target == nil {
		p.skipToStatementBoundary()
		return nil
	}

	switch p.peekToken.Type {
	case token.EQ, token.PLUS_EQ, token.MINUS_EQ, token.PIPE_EQ:
		p.nextToken()
		n := &ast.AssignmentNode{Target: target, Op: p.curToken.Type}
		p.nextToken()
		n.Value = p.parseExpression(LOWEST)
		n.SetSpan(token.Cover(spanOf(target, p.curToken.Span), spanOf(n.Value, p.curToken.Span)))
		ast.Adopt(n, n.Target, n.Value)
		p.consumeSemicolon()
		return n
	}

	n := &ast.ExpressionStatement{Expr: target}
	n.SetSpan(spanOf(target, p.curToken.Span))
	ast.Adopt(n, target)
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseIfStatement() ast.Statement {
	n := &ast.IfNode{}
	start := p.curToken.Span

	p.nextToken()
	n.Cond = p.parseExpression(LOWEST)
	if !p.expectPeek(token.THEN) {
		p.skipToStatementBoundary()
	}

	n.Then = p.parseBlock(token.ELSE, token.END_IF)
	if p.peekTokenIs(token.ELSE) {
		p.nextToken()
		n.Else = p.parseBlock(token.END_IF)
	}
	if p.expectPeek(token.END_IF) {
		n.SetSpan(token.Cover(start, p.curToken.Span))
	} else {
		n.SetSpan(token.Cover(start, p.curToken.Span))
		p.skipToStatementBoundary()
	}
	ast.Adopt(n, n.Cond, n.Then, n.Else)
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseForStatement() ast.Statement {
	n := &ast.ForNode{}
	start := p.curToken.Span

	if p.expectPeek(token.USER_VARIABLE) {
		v := &ast.IdentifierNode{Name: p.curToken.Lexeme}
		v.SetSpan(p.curToken.Span)
		n.Var = v
	}
	if p.expectPeek(token.EQ) {
		p.nextToken()
		n.From = p.parseExpression(LOWEST)
	}
	if p.expectPeek(token.TO) {
		p.nextToken()
		n.To = p.parseExpression(LOWEST)
	}
	if p.peekTokenIs(token.STEP) {
		p.nextToken()
		p.nextToken()
		n.Step = p.parseExpression(LOWEST)
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	n.Body = p.parseBlock(token.END_FOR)
	p.expectPeek(token.END_FOR)
	n.SetSpan(token.Cover(start, p.curToken.Span))
	ast.Adopt(n, ast.Node(n.Var), n.From, n.To, n.Step, n.Body)
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseWhileStatement() ast.Statement {
	n := &ast.WhileNode{}
	start := p.curToken.Span

	p.nextToken()
	n.Cond = p.parseExpression(LOWEST)
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	n.Body = p.parseBlock(token.END_WHILE)
	p.expectPeek(token.END_WHILE)
	n.SetSpan(token.Cover(start, p.curToken.Span))
	ast.Adopt(n, n.Cond, n.Body)
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseRepeatStatement() ast.Statement {
	n := &ast.RepeatNode{}
	start := p.curToken.Span

	n.Body = p.parseBlock(token.UNTIL)
	if p.expectPeek(token.UNTIL) {
		p.nextToken()
		n.Cond = p.parseExpression(LOWEST)
	}
	n.SetSpan(token.Cover(start, spanOf(n.Cond, p.curToken.Span)))
	ast.Adopt(n, n.Body, n.Cond)
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseEvaluateStatement() ast.Statement {
	n := &ast.EvaluateNode{}
	start := p.curToken.Span

	p.nextToken()
	n.Subject = p.parseExpression(LOWEST)

	for p.peekTokenIs(token.WHEN) || p.peekTokenIs(token.SEMICOLON) {
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		p.nextToken()
		clause := p.parseWhenClause()
		n.Whens = append(n.Whens, clause)
		ast.Adopt(n, clause)
	}
	if p.peekTokenIs(token.WHEN_OTHER) {
		p.nextToken()
		n.Other = p.parseBlock(token.END_EVALUATE)
	}
	p.expectPeek(token.END_EVALUATE)
	n.SetSpan(token.Cover(start, p.curToken.Span))
	ast.Adopt(n, n.Subject, ast.Node(n.Other))
	p.consumeSemicolon()
	return n
}

// parseWhenClause reads one `When [op] value` arm with curToken on When. An
// omitted operator means equality.
func (p *Parser) parseWhenClause() *ast.WhenClauseNode {
	n := &ast.WhenClauseNode{Op: token.EQ}
	start := p.curToken.Span

	switch p.peekToken.Type {
	case token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE:
		p.nextToken()
		n.Op = p.curToken.Type
	}
	p.nextToken()
	n.Value = p.parseExpression(LOWEST)

	n.Body = p.parseBlock(token.WHEN, token.WHEN_OTHER, token.END_EVALUATE)
	n.SetSpan(token.Cover(start, spanOf(n.Body, p.curToken.Span)))
	ast.Adopt(n, n.Value, n.Body)
	return n
}

func (p *Parser) parseTryStatement() ast.Statement {
	n := &ast.TryNode{}
	start := p.curToken.Span

	n.Body = p.parseBlock(token.CATCH, token.END_TRY)
	for p.peekTokenIs(token.CATCH) {
		p.nextToken()
		c := p.parseCatchClause()
		n.Catches = append(n.Catches, c)
		ast.Adopt(n, c)
	}
	p.expectPeek(token.END_TRY)
	n.SetSpan(token.Cover(start, p.curToken.Span))
	ast.Adopt(n, ast.Node(n.Body))
	p.consumeSemicolon()
	return n
}

// parseCatchClause reads `Catch Exception &ex ...` with curToken on Catch.
func (p *Parser) parseCatchClause() *ast.CatchNode {
	n := &ast.CatchNode{}
	start := p.curToken.Span

	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		n.ExceptionType = p.parseTypeAnnotation()
	} else {
		p.errorf(diagnostics.ErrP003, p.peekToken.Span,
			"expected exception type after 'catch', found %s", describe(p.peekToken))
	}
	if p.peekTokenIs(token.USER_VARIABLE) {
		p.nextToken()
		v := &ast.IdentifierNode{Name: p.curToken.Lexeme}
		v.SetSpan(p.curToken.Span)
		n.Var = v
	}

	n.Body = p.parseBlock(token.CATCH, token.END_TRY)
	n.SetSpan(token.Cover(start, spanOf(n.Body, p.curToken.Span)))
	ast.Adopt(n, n.ExceptionType, ast.Node(n.Var), n.Body)
	return n
}

func (p *Parser) parseReturnStatement() ast.Statement {
	n := &ast.ReturnNode{}
	start := p.curToken.Span

	if !p.peekTokenIs(token.SEMICOLON) && !statementBoundary(p.peekToken.Type) {
		p.nextToken()
		n.Value = p.parseExpression(LOWEST)
	}
	n.SetSpan(token.Cover(start, spanOf(n.Value, start)))
	ast.Adopt(n, n.Value)
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseThrowStatement() ast.Statement {
	n := &ast.ThrowNode{}
	start := p.curToken.Span

	p.nextToken()
	n.Value = p.parseExpression(LOWEST)
	n.SetSpan(token.Cover(start, spanOf(n.Value, start)))
	ast.Adopt(n, n.Value)
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseExitStatement() ast.Statement {
	n := &ast.ExitNode{}
	start := p.curToken.Span

	if !p.peekTokenIs(token.SEMICOLON) && !statementBoundary(p.peekToken.Type) {
		p.nextToken()
		n.Code = p.parseExpression(LOWEST)
	}
	n.SetSpan(token.Cover(start, spanOf(n.Code, start)))
	ast.Adopt(n, n.Code)
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseErrorStatement() ast.Statement {
	start := p.curToken.Span
	// `Error` also names the builtin function; with a paren right behind it
	// this is a plain call statement.
	if p.peekTokenIs(token.LPAREN) {
		return p.parseSimpleStatement()
	}
	n := &ast.ErrorStatementNode{}
	p.nextToken()
	n.Value = p.parseExpression(LOWEST)
	n.SetSpan(token.Cover(start, spanOf(n.Value, start)))
	ast.Adopt(n, n.Value)
	p.consumeSemicolon()
	return n
}

func (p *Parser) parseWarningStatement() ast.Statement {
	start := p.curToken.Span
	if p.peekTokenIs(token.LPAREN) {
		return p.parseSimpleStatement()
	}
	n := &ast.WarningStatementNode{}
	p.nextToken()
	n.Value = p.parseExpression(LOWEST)
	n.SetSpan(token.Cover(start, spanOf(n.Value, start)))
	ast.Adopt(n, n.Value)
	p.consumeSemicolon()
	return n
}

// parseLocalDeclaration reads `Local TYPE &a, &b [= expr];` with curToken on
// Local.
func (p *Parser) parseLocalDeclaration() ast.Statement {
	n := &ast.LocalVariableDecl{}
	start := p.curToken.Span

	p.nextToken()
	n.Type = p.parseTypeAnnotation()

	if !p.expectPeek(token.USER_VARIABLE) {
		p.skipToStatementBoundary()
		n.SetSpan(token.Cover(start, p.curToken.Span))
		return n
	}
	v := &ast.IdentifierNode{Name: p.curToken.Lexeme}
	v.SetSpan(p.curToken.Span)
	n.Names = append(n.Names, v)

	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		if !p.expectPeek(token.USER_VARIABLE) {
			break
		}
		v := &ast.IdentifierNode{Name: p.curToken.Lexeme}
		v.SetSpan(p.curToken.Span)
		n.Names = append(n.Names, v)
	}

	if p.peekTokenIs(token.EQ) {
		if len(n.Names) > 1 {
			p.errorf(diagnostics.ErrP003, p.peekToken.Span,
				"an initializer requires a single variable name")
		}
		p.nextToken()
		p.nextToken()
		n.Value = p.parseExpression(LOWEST)
	}

	n.SetSpan(token.Cover(start, spanOf(n.Value, p.curToken.Span)))
	ast.Adopt(n, n.Type, n.Value)
	for _, name := range n.Names {
		ast.Adopt(n, name)
	}
	p.consumeSemicolon()
	return n
}

// parseConstantDeclaration reads `Constant &NAME = literal;` with curToken on
// Constant.
func (p *Parser) parseConstantDeclaration() ast.Statement {
	n := &ast.ConstantNode{}
	start := p.curToken.Span

	if p.expectPeek(token.USER_VARIABLE) {
		v := &ast.IdentifierNode{Name: p.curToken.Lexeme}
		v.SetSpan(p.curToken.Span)
		n.Name = v
	}
	if p.expectPeek(token.EQ) {
		p.nextToken()
		n.Value = p.parseExpression(LOWEST)
	}
	n.SetSpan(token.Cover(start, spanOf(n.Value, p.curToken.Span)))
	ast.Adopt(n, ast.Node(n.Name), n.Value)
	p.consumeSemicolon()
	return n
}
