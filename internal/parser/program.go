package parser

import (
	"strings"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/token"
)

// ParseProgram parses one compilation unit. It always returns a non-nil
// Program, however damaged the input.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	main := &ast.BlockNode{}
	start := p.curToken.Span

	for !p.curTokenIs(token.EOF) {
		if p.checkCancelled() {
			break
		}
		switch p.curToken.Type {
		case token.SEMICOLON:
			// stray terminator
		case token.IMPORT:
			if imp := p.parseImport(); imp != nil {
				prog.Imports = append(prog.Imports, imp)
				ast.Adopt(prog, imp)
			}
		case token.GLOBAL, token.COMPONENT:
			if decl := p.parseProgramVariable(); decl != nil {
				prog.Variables = append(prog.Variables, decl)
				ast.Adopt(prog, decl)
			}
		case token.LOCAL:
			if decl, ok := p.parseLocalDeclaration().(*ast.LocalVariableDecl); ok {
				prog.Locals = append(prog.Locals, decl)
				ast.Adopt(prog, decl)
			}
		case token.CONSTANT:
			if decl, ok := p.parseConstantDeclaration().(*ast.ConstantNode); ok {
				prog.Constants = append(prog.Constants, decl)
				ast.Adopt(prog, decl)
			}
		case token.DECLARE:
			if decl := p.parseFunctionDeclare(); decl != nil {
				prog.Declares = append(prog.Declares, decl)
				ast.Adopt(prog, decl)
			}
		case token.CLASS:
			class := p.parseClassDeclaration()
			if prog.Class != nil || prog.Interface != nil {
				p.errorf(diagnostics.ErrP005, class.Span(),
					"a unit may declare at most one class or interface")
			} else {
				prog.Class = class
				ast.Adopt(prog, class)
			}
		case token.INTERFACE:
			iface := p.parseInterfaceDeclaration()
			if prog.Class != nil || prog.Interface != nil {
				p.errorf(diagnostics.ErrP005, iface.Span(),
					"a unit may declare at most one class or interface")
			} else {
				prog.Interface = iface
				ast.Adopt(prog, iface)
			}
		case token.FUNCTION:
			if fn := p.parseFunctionImplementation(); fn != nil {
				prog.Functions = append(prog.Functions, fn)
				ast.Adopt(prog, fn)
			}
		case token.METHOD, token.GET, token.SET:
			impl := p.parseMethodImplementation()
			if impl != nil {
				p.attachImplementation(prog, impl)
			}
		default:
			stmt := p.parseStatement()
			if stmt != nil {
				main.Statements = append(main.Statements, stmt)
				ast.Adopt(main, stmt)
			}
		}
		p.nextToken()
	}

	if len(main.Statements) > 0 {
		last := main.Statements[len(main.Statements)-1]
		main.SetSpan(token.Cover(spanOf(main.Statements[0], start), spanOf(last, start)))
		prog.Main = main
		ast.Adopt(prog, main)
	}
	prog.SetSpan(token.Cover(start, p.curToken.Span))
	return prog
}

// parseImport reads `import PKG:SUB:Class;` or `import PKG:*;` with curToken
// on import.
func (p *Parser) parseImport() *ast.ImportNode {
	n := &ast.ImportNode{}
	start := p.curToken.Span

	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	segments := []string{p.curToken.Lexeme}
	end := p.curToken.Span

	for p.peekTokenIs(token.COLON) {
		p.nextToken()
		if p.peekTokenIs(token.STAR) {
			p.nextToken()
			n.Wildcard = true
			end = p.curToken.Span
			break
		}
		if !p.expectPeek(token.IDENT) {
			break
		}
		segments = append(segments, p.curToken.Lexeme)
		end = p.curToken.Span
	}

	if n.Wildcard {
		n.PackagePath = segments
	} else if len(segments) > 1 {
		n.PackagePath = segments[:len(segments)-1]
		n.ClassName = segments[len(segments)-1]
	} else {
		p.errorf(diagnostics.ErrP003, end,
			"import requires a package-qualified class name")
		n.ClassName = segments[0]
	}
	n.SetSpan(token.Cover(start, end))
	p.consumeSemicolon()
	return n
}

// parseProgramVariable reads `Global TYPE &x, &y;` or `Component TYPE &x;`
// with curToken on the scope keyword.
func (p *Parser) parseProgramVariable() *ast.ProgramVariableNode {
	n := &ast.ProgramVariableNode{Scope: p.curToken.Type}
	start := p.curToken.Span

	p.nextToken()
	n.Type = p.parseTypeAnnotation()

	if !p.expectPeek(token.USER_VARIABLE) {
		p.skipToStatementBoundary()
		return nil
	}
	for {
		v := &ast.IdentifierNode{Name: p.curToken.Lexeme}
		v.SetSpan(p.curToken.Span)
		n.Names = append(n.Names, v)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		if !p.expectPeek(token.USER_VARIABLE) {
			break
		}
	}

	n.SetSpan(token.Cover(start, p.curToken.Span))
	ast.Adopt(n, n.Type)
	for _, name := range n.Names {
		ast.Adopt(n, name)
	}
	p.consumeSemicolon()
	return n
}

// parseFunctionDeclare reads
// `Declare Function Name PeopleCode RECORD.FIELD EventName;`.
func (p *Parser) parseFunctionDeclare() *ast.FunctionDeclareNode {
	n := &ast.FunctionDeclareNode{}
	start := p.curToken.Span

	if !p.expectPeek(token.FUNCTION) {
		p.skipToStatementBoundary()
		return nil
	}
	if !p.expectPeek(token.IDENT) {
		p.skipToStatementBoundary()
		return nil
	}
	n.Name = p.curToken.Lexeme
	n.NameSpan = p.curToken.Span

	if !p.expectPeek(token.PEOPLECODE) {
		p.skipToStatementBoundary()
		return n
	}
	if p.expectPeek(token.IDENT) {
		n.RecordName = p.curToken.Lexeme
	}
	if p.expectPeek(token.DOT) && p.expectPeek(token.IDENT) {
		n.FieldName = p.curToken.Lexeme
	}
	if p.peekTokenIs(token.IDENT) {
		p.nextToken()
		n.EventName = p.curToken.Lexeme
	}

	n.SetSpan(token.Cover(start, p.curToken.Span))
	p.consumeSemicolon()
	return n
}

// parseClassDeclaration reads the `class ... end-class` header block with
// curToken on class. Method and property bodies follow separately and are
// attached by attachImplementation.
func (p *Parser) parseClassDeclaration() *ast.AppClassNode {
	n := &ast.AppClassNode{}
	start := p.curToken.Span

	if p.expectPeek(token.IDENT) {
		n.Name = p.curToken.Lexeme
		n.NameSpan = p.curToken.Span
	}

	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		p.nextToken()
		n.Extends = p.parseTypeAnnotation()
		ast.Adopt(n, n.Extends)
	}
	if p.peekTokenIs(token.IMPLEMENTS) {
		p.nextToken()
		if p.expectPeek(token.IDENT) {
			n.Implements = p.parseAppClassPath()
			ast.Adopt(n, n.Implements)
		}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	p.parseClassBody(n)

	if p.expectPeek(token.END_CLASS) {
		n.SetSpan(token.Cover(start, p.curToken.Span))
	} else {
		n.SetSpan(token.Cover(start, p.curToken.Span))
		p.skipToStatementBoundary()
	}
	p.consumeSemicolon()

	// Mark the constructor now that the class name is known.
	for _, m := range n.Methods {
		if strings.EqualFold(m.Name, n.Name) {
			m.IsConstructor = true
		}
	}
	return n
}

// parseClassBody reads member declarations until end-class, tracking the
// access section. Members start out public; `protected` and `private` switch
// the section for everything that follows.
func (p *Parser) parseClassBody(class *ast.AppClassNode) {
	access := ast.AccessPublic

	for !p.peekTokenIs(token.END_CLASS) && !p.peekTokenIs(token.EOF) {
		if p.checkCancelled() {
			return
		}
		p.nextToken()
		switch p.curToken.Type {
		case token.SEMICOLON:
			continue
		case token.PROTECTED:
			access = ast.AccessProtected
		case token.PRIVATE:
			access = ast.AccessPrivate
		case token.METHOD:
			m := p.parseMethodSignature(access)
			class.Methods = append(class.Methods, m)
			ast.Adopt(class, m)
		case token.PROPERTY:
			prop := p.parsePropertySignature(access)
			class.Properties = append(class.Properties, prop)
			ast.Adopt(class, prop)
		case token.INSTANCE:
			iv := p.parseInstanceVariable()
			class.Instances = append(class.Instances, iv)
			ast.Adopt(class, iv)
		case token.CONSTANT:
			if c, ok := p.parseConstantDeclaration().(*ast.ConstantNode); ok {
				class.Constants = append(class.Constants, c)
				ast.Adopt(class, c)
			}
		default:
			p.errorf(diagnostics.ErrP003, p.curToken.Span,
				"unexpected %s in class body", describe(p.curToken))
			p.skipToStatementBoundary()
		}
	}
}

// parseMethodSignature reads `method Name([params]) [Returns T] [abstract];`
// with curToken on method.
func (p *Parser) parseMethodSignature(access ast.MemberAccess) *ast.MethodNode {
	n := &ast.MethodNode{Access: access}
	start := p.curToken.Span

	if p.expectMemberName() {
		n.Name = p.curToken.Lexeme
		n.NameSpan = p.curToken.Span
	}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		n.Params = p.parseParameterList()
	}
	if p.peekTokenIs(token.RETURNS) {
		p.nextToken()
		p.nextToken()
		n.ReturnType = p.parseTypeAnnotation()
		ast.Adopt(n, n.ReturnType)
	}
	if p.peekTokenIs(token.ABSTRACT) {
		p.nextToken()
		n.IsAbstract = true
	}
	for _, param := range n.Params {
		ast.Adopt(n, param)
	}
	n.SetSpan(token.Cover(start, p.curToken.Span))
	p.consumeSemicolon()
	return n
}

// parseParameterList consumes `(&a As T, &b As T out)` with curToken on the
// left paren, leaving curToken on the right paren.
func (p *Parser) parseParameterList() []*ast.ParameterNode {
	var params []*ast.ParameterNode
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		if !p.expectPeek(token.USER_VARIABLE) {
			p.skipToStatementBoundary()
			return params
		}
		param := &ast.ParameterNode{}
		start := p.curToken.Span
		name := &ast.IdentifierNode{Name: p.curToken.Lexeme}
		name.SetSpan(p.curToken.Span)
		param.Name = name

		if p.peekTokenIs(token.AS) {
			p.nextToken()
			p.nextToken()
			param.Type = p.parseTypeAnnotation()
			ast.Adopt(param, param.Type)
		}
		if p.peekTokenIs(token.OUT) {
			p.nextToken()
			param.IsOut = true
		}
		param.SetSpan(token.Cover(start, p.curToken.Span))
		ast.Adopt(param, name)
		params = append(params, param)

		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.RPAREN)
	return params
}

// parsePropertySignature reads
// `property TYPE Name [get] [set] | [abstract] [readonly];` with curToken on
// property.
func (p *Parser) parsePropertySignature(access ast.MemberAccess) *ast.PropertyNode {
	n := &ast.PropertyNode{Access: access}
	start := p.curToken.Span

	p.nextToken()
	n.Type = p.parseTypeAnnotation()
	ast.Adopt(n, n.Type)

	if p.expectMemberName() {
		n.Name = p.curToken.Lexeme
		n.NameSpan = p.curToken.Span
	}

	for {
		switch p.peekToken.Type {
		case token.GET:
			p.nextToken()
			n.HasGet = true
			continue
		case token.SET:
			p.nextToken()
			n.HasSet = true
			continue
		case token.ABSTRACT:
			p.nextToken()
			n.IsAbstract = true
			continue
		case token.READONLY:
			p.nextToken()
			n.IsReadonly = true
			continue
		}
		break
	}

	n.SetSpan(token.Cover(start, p.curToken.Span))
	p.consumeSemicolon()
	return n
}

// parseInstanceVariable reads `instance TYPE &a, &b;` with curToken on
// instance.
func (p *Parser) parseInstanceVariable() *ast.InstanceVariableNode {
	n := &ast.InstanceVariableNode{}
	start := p.curToken.Span

	p.nextToken()
	n.Type = p.parseTypeAnnotation()
	ast.Adopt(n, n.Type)

	if p.expectPeek(token.USER_VARIABLE) {
		for {
			v := &ast.IdentifierNode{Name: p.curToken.Lexeme}
			v.SetSpan(p.curToken.Span)
			n.Names = append(n.Names, v)
			ast.Adopt(n, v)
			if !p.peekTokenIs(token.COMMA) {
				break
			}
			p.nextToken()
			if !p.expectPeek(token.USER_VARIABLE) {
				break
			}
		}
	}

	n.SetSpan(token.Cover(start, p.curToken.Span))
	p.consumeSemicolon()
	return n
}

// parseInterfaceDeclaration reads `interface ... end-interface` with
// curToken on interface.
func (p *Parser) parseInterfaceDeclaration() *ast.InterfaceNode {
	n := &ast.InterfaceNode{}
	start := p.curToken.Span

	if p.expectPeek(token.IDENT) {
		n.Name = p.curToken.Lexeme
		n.NameSpan = p.curToken.Span
	}
	if p.peekTokenIs(token.EXTENDS) {
		p.nextToken()
		if p.expectPeek(token.IDENT) {
			n.Extends = p.parseAppClassPath()
			ast.Adopt(n, n.Extends)
		}
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	for !p.peekTokenIs(token.END_INTERFACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
		switch p.curToken.Type {
		case token.SEMICOLON:
			continue
		case token.METHOD:
			m := p.parseMethodSignature(ast.AccessPublic)
			m.IsAbstract = true
			n.Methods = append(n.Methods, m)
			ast.Adopt(n, m)
		case token.PROPERTY:
			prop := p.parsePropertySignature(ast.AccessPublic)
			prop.IsAbstract = true
			n.Properties = append(n.Properties, prop)
			ast.Adopt(n, prop)
		default:
			p.errorf(diagnostics.ErrP003, p.curToken.Span,
				"unexpected %s in interface body", describe(p.curToken))
			p.skipToStatementBoundary()
		}
	}
	p.expectPeek(token.END_INTERFACE)
	n.SetSpan(token.Cover(start, p.curToken.Span))
	p.consumeSemicolon()
	return n
}

// parseMethodImplementation reads a `method Name ... end-method`,
// `get Name ... end-get` or `set Name ... end-set` body section with
// curToken on the opening keyword.
func (p *Parser) parseMethodImplementation() *ast.MethodImplNode {
	n := &ast.MethodImplNode{}
	start := p.curToken.Span

	var terminator token.Type
	switch p.curToken.Type {
	case token.GET:
		n.Kind = ast.ImplGetter
		terminator = token.END_GET
	case token.SET:
		n.Kind = ast.ImplSetter
		terminator = token.END_SET
	default:
		n.Kind = ast.ImplMethod
		terminator = token.END_METHOD
	}

	if p.expectMemberName() {
		n.Name = p.curToken.Lexeme
		n.NameSpan = p.curToken.Span
	}
	if n.Kind == ast.ImplMethod && p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		n.Params = p.parseParameterList()
		for _, param := range n.Params {
			ast.Adopt(n, param)
		}
	}
	if p.peekTokenIs(token.RETURNS) {
		p.nextToken()
		p.nextToken()
		n.ReturnType = p.parseTypeAnnotation()
		ast.Adopt(n, n.ReturnType)
	}

	n.Body = p.parseBlock(terminator)
	ast.Adopt(n, n.Body)
	p.expectPeek(terminator)
	n.SetSpan(token.Cover(start, p.curToken.Span))
	p.consumeSemicolon()
	return n
}

// attachImplementation correlates a body section with its declaration by
// name. PeopleCode splits class declarations from implementations; a body
// with no matching declaration is an error, but the body is kept under the
// closest match target so its statements still get analyzed.
func (p *Parser) attachImplementation(prog *ast.Program, impl *ast.MethodImplNode) {
	class := prog.Class
	if class == nil {
		p.errorf(diagnostics.ErrP005, impl.Span(),
			"%s body outside a class unit", implKindName(impl.Kind))
		return
	}

	switch impl.Kind {
	case ast.ImplMethod:
		if m := class.FindMethod(impl.Name); m != nil {
			if m.Implementation != nil {
				p.errorf(diagnostics.ErrP003, impl.NameSpan,
					"duplicate implementation for method %s", impl.Name)
				return
			}
			m.Implementation = impl
			ast.Adopt(m, impl)
			return
		}
		p.errorf(diagnostics.ErrP003, impl.NameSpan,
			"no declaration for method %s", impl.Name)
	case ast.ImplGetter:
		if prop := class.FindProperty(impl.Name); prop != nil {
			prop.Getter = impl
			ast.Adopt(prop, impl)
			return
		}
		p.errorf(diagnostics.ErrP003, impl.NameSpan,
			"no property declaration for get %s", impl.Name)
	case ast.ImplSetter:
		if prop := class.FindProperty(impl.Name); prop != nil {
			prop.Setter = impl
			ast.Adopt(prop, impl)
			return
		}
		p.errorf(diagnostics.ErrP003, impl.NameSpan,
			"no property declaration for set %s", impl.Name)
	}
}

func implKindName(k ast.ImplKind) string {
	switch k {
	case ast.ImplGetter:
		return "get"
	case ast.ImplSetter:
		return "set"
	}
	return "method"
}

// parseFunctionImplementation reads
// `Function Name([params]) [Returns T] ... End-Function` with curToken on
// Function.
func (p *Parser) parseFunctionImplementation() *ast.FunctionNode {
	n := &ast.FunctionNode{}
	start := p.curToken.Span

	if p.expectPeek(token.IDENT) {
		n.Name = p.curToken.Lexeme
		n.NameSpan = p.curToken.Span
	}
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		n.Params = p.parseParameterList()
		for _, param := range n.Params {
			ast.Adopt(n, param)
		}
	}
	if p.peekTokenIs(token.RETURNS) {
		p.nextToken()
		p.nextToken()
		n.ReturnType = p.parseTypeAnnotation()
		ast.Adopt(n, n.ReturnType)
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}

	n.Body = p.parseBlock(token.END_FUNCTION)
	ast.Adopt(n, n.Body)
	p.expectPeek(token.END_FUNCTION)
	n.SetSpan(token.Cover(start, p.curToken.Span))
	p.consumeSemicolon()
	return n
}
