package parser

import (
	"strings"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/token"
)

// parseTypeAnnotation reads a type in declaration position with curToken on
// its first token: a scalar or builtin object name, `array [of T]`, or a
// colon-delimited application class path.
func (p *Parser) parseTypeAnnotation() ast.TypeNode {
	if !p.curTokenIs(token.IDENT) {
		p.errorf(diagnostics.ErrP003, p.curToken.Span,
			"expected type name, found %s", describe(p.curToken))
		n := &ast.BuiltInTypeNode{Name: "any"}
		n.SetSpan(p.curToken.Span)
		return n
	}

	if strings.EqualFold(p.curToken.Lexeme, "array") {
		return p.parseArrayType()
	}

	if p.peekTokenIs(token.COLON) {
		return p.parseAppClassPath()
	}

	n := &ast.BuiltInTypeNode{Name: p.curToken.Lexeme}
	n.SetSpan(p.curToken.Span)
	return n
}

// parseArrayType reads `array`, `array of T`, `array of array of T`, folding
// the leading `array of array` chain into a dimension count.
func (p *Parser) parseArrayType() ast.TypeNode {
	n := &ast.ArrayTypeNode{Dims: 1}
	start := p.curToken.Span
	end := start

	for p.peekTokenIs(token.IDENT) && strings.EqualFold(p.peekToken.Lexeme, "of") {
		p.nextToken() // of
		if !p.peekTokenIs(token.IDENT) {
			p.errorf(diagnostics.ErrP003, p.peekToken.Span,
				"expected element type after 'of', found %s", describe(p.peekToken))
			break
		}
		p.nextToken()
		if strings.EqualFold(p.curToken.Lexeme, "array") {
			n.Dims++
			end = p.curToken.Span
			continue
		}
		if p.peekTokenIs(token.COLON) {
			n.Elem = p.parseAppClassPath()
		} else {
			elem := &ast.BuiltInTypeNode{Name: p.curToken.Lexeme}
			elem.SetSpan(p.curToken.Span)
			n.Elem = elem
		}
		end = spanOf(n.Elem, p.curToken.Span)
		break
	}

	n.SetSpan(token.Cover(start, end))
	ast.Adopt(n, n.Elem)
	return n
}
