package scope

import (
	"strings"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/token"
	"github.com/pclint/pclint/internal/typemeta"
	"github.com/pclint/pclint/internal/types"
)

// Build walks a parsed unit and returns its populated variable registry.
func Build(program *ast.Program) *Registry {
	reg := NewRegistry()
	c := &collector{}
	c.InitScoped(c, reg)
	if program != nil {
		program.Accept(c)
	}
	return reg
}

// collector registers declarations and classifies every variable occurrence.
type collector struct {
	ScopedVisitor[struct{}]
}

func (c *collector) declare(name string, declType ast.TypeNode, kind VarKind, span token.Span, in *ScopeContext) *VariableInfo {
	info := &VariableInfo{
		Name:     name,
		Kind:     kind,
		DeclSpan: span,
		Type:     types.Any{},
	}
	if declType != nil {
		info.DeclaredType = declType.TypeName()
		info.Type = typemeta.TypeFromNode(declType)
	}
	v := c.Registry.Declare(in, info)
	c.Registry.AddReference(v, VariableReference{
		Kind: RefDeclaration, Span: span, Scope: in,
	})
	return v
}

// reference records one occurrence, auto-declaring an implicit local on
// first use of an undeclared &-variable. The runtime does the same, so the
// registry mirrors it rather than losing the references.
func (c *collector) reference(name string, kind RefKind, span token.Span, context string) {
	v, ok := c.Registry.Lookup(name, c.Current())
	if !ok {
		v = c.Registry.Declare(c.EnclosingExecutable(), &VariableInfo{
			Name:     name,
			Kind:     VarLocal,
			Type:     types.Any{},
			DeclSpan: span,
			Implicit: true,
		})
	}
	c.Registry.AddReference(v, VariableReference{
		Kind: kind, Span: span, Scope: c.Current(), Context: context,
	})
}

func (c *collector) VisitProgramVariable(n *ast.ProgramVariableNode) {
	kind := VarGlobal
	if n.Scope == token.COMPONENT {
		kind = VarComponent
	}
	for _, name := range n.Names {
		c.declare(name.Name, n.Type, kind, name.Span(), c.Registry.Global)
	}
}

func (c *collector) VisitLocalVariableDecl(n *ast.LocalVariableDecl) {
	for _, name := range n.Names {
		c.declare(name.Name, n.Type, VarLocal, name.Span(), c.Current())
	}
	if n.Value != nil {
		n.Value.Accept(c)
		if len(n.Names) == 1 {
			c.reference(n.Names[0].Name, RefWrite, n.Names[0].Span(), "initializer")
		}
	}
}

func (c *collector) VisitConstant(n *ast.ConstantNode) {
	if n.Name == nil {
		return
	}
	v := c.declare(n.Name.Name, nil, VarConstant, n.Name.Span(), c.Current())
	v.Type = types.Constant{Inner: typemeta.LiteralType(n.Value)}
}

func (c *collector) VisitInstanceVariable(n *ast.InstanceVariableNode) {
	for _, name := range n.Names {
		c.declare(name.Name, n.Type, VarInstance, name.Span(), c.Current())
	}
}

// VisitAppClass registers every class-level declaration before walking any
// body section. Bodies reference instance variables, constants and
// properties declared anywhere in the class block, so registration cannot
// be interleaved with body traversal.
func (c *collector) VisitAppClass(n *ast.AppClassNode) {
	c.PushScope(ScopeClass, n.Name)

	for _, inst := range n.Instances {
		c.VisitInstanceVariable(inst)
	}
	for _, k := range n.Constants {
		c.VisitConstant(k)
	}
	for _, p := range n.Properties {
		c.VisitProperty(p)
	}

	for _, m := range n.Methods {
		if m.Implementation != nil {
			m.Implementation.Accept(c)
		}
	}
	for _, p := range n.Properties {
		if p.Getter != nil {
			p.Getter.Accept(c)
		}
		if p.Setter != nil {
			p.Setter.Accept(c)
		}
	}

	c.PopScope()
}

// Method signatures carry no executable code; their parameters are
// registered when the implementation scope opens. Reached only through the
// interface traversal: VisitAppClass walks class bodies itself.
func (c *collector) VisitMethod(n *ast.MethodNode) {
	if n.Implementation != nil {
		n.Implementation.Accept(c)
	}
}

// Properties are registered under their bare name so `%This.Name` member
// references resolve to them.
func (c *collector) VisitProperty(n *ast.PropertyNode) {
	c.declare(n.Name, n.Type, VarProperty, n.NameSpan, c.Current())
}

func (c *collector) VisitParameter(n *ast.ParameterNode) {}

func (c *collector) VisitMethodImpl(n *ast.MethodImplNode) {
	c.push(ScopeKindFor(n.Kind), n.Name)

	c.registerImplParameters(n)
	if n.Body != nil {
		n.Body.Accept(c)
	}

	c.pop()
}

// registerImplParameters declares the parameters of a body section. The
// typed signature lives on the declaration node; the restated parameters on
// the implementation only contribute annotation references. A setter gets
// its implicit &NewValue parameter typed as the property.
func (c *collector) registerImplParameters(n *ast.MethodImplNode) {
	switch parent := n.Parent().(type) {
	case *ast.MethodNode:
		for _, p := range parent.Params {
			if p.Name == nil {
				continue
			}
			c.declare(p.Name.Name, p.Type, VarParameter, p.Name.Span(), c.Current())
		}
	case *ast.PropertyNode:
		if n.Kind == ast.ImplSetter {
			v := c.declare("&NewValue", parent.Type, VarParameter, n.NameSpan, c.Current())
			v.Implicit = true
		}
	}

	for _, p := range n.Params {
		if p.Name == nil {
			continue
		}
		c.reference(p.Name.Name, RefParameterAnnotation, p.Name.Span(), "parameter annotation")
	}
}

func (c *collector) VisitFunction(n *ast.FunctionNode) {
	c.push(ScopeFunction, n.Name)
	for _, p := range n.Params {
		if p.Name == nil {
			continue
		}
		c.declare(p.Name.Name, p.Type, VarParameter, p.Name.Span(), c.Current())
	}
	if n.Body != nil {
		n.Body.Accept(c)
	}
	c.pop()
}

// Catch variables live in the enclosing method or function scope, not in the
// catch block; the runtime scopes them that way.
func (c *collector) VisitCatch(n *ast.CatchNode) {
	if n.Var != nil {
		c.declare(n.Var.Name, n.ExceptionType, VarException, n.Var.Span(), c.EnclosingExecutable())
	}
	if n.Body != nil {
		n.Body.Accept(c)
	}
}

func (c *collector) VisitAssignment(n *ast.AssignmentNode) {
	c.classifyWrite(n.Target)
	if n.Value != nil {
		n.Value.Accept(c)
	}
}

// classifyWrite records the write reference for an assignment target and the
// read references hiding inside it (index expressions, receivers).
func (c *collector) classifyWrite(target ast.Expression) {
	switch t := target.(type) {
	case *ast.IdentifierNode:
		if t.IsUserVariable() {
			c.reference(t.Name, RefWrite, t.Span(), "assignment")
		}
	case *ast.ArrayAccessNode:
		c.classifyWrite(t.Base)
		for _, idx := range t.Indices {
			if idx != nil {
				idx.Accept(c)
			}
		}
	case *ast.PropertyAccessNode:
		if recv, ok := t.Object.(*ast.IdentifierNode); ok &&
			strings.EqualFold(recv.Name, "%This") {
			c.thisMemberReference(t.Property, RefWrite, t.PropSpan)
			return
		}
		if t.Object != nil {
			t.Object.Accept(c)
		}
	case *ast.ParenNode:
		c.classifyWrite(t.Inner)
	default:
		if target != nil {
			target.Accept(c)
		}
	}
}

// thisMemberReference resolves `%This.Name`. Properties are declared bare
// and instance variables with the sigil, so both spellings are tried.
func (c *collector) thisMemberReference(name string, kind RefKind, span token.Span) {
	if v, ok := c.Registry.Lookup(name, c.Current()); ok {
		c.Registry.AddReference(v, VariableReference{
			Kind: kind, Span: span, Scope: c.Current(), Context: "%This member",
		})
		return
	}
	if v, ok := c.Registry.Lookup("&"+name, c.Current()); ok {
		c.Registry.AddReference(v, VariableReference{
			Kind: kind, Span: span, Scope: c.Current(), Context: "%This member",
		})
	}
}

func (c *collector) VisitPropertyAccess(n *ast.PropertyAccessNode) {
	if recv, ok := n.Object.(*ast.IdentifierNode); ok &&
		strings.EqualFold(recv.Name, "%This") {
		c.thisMemberReference(n.Property, RefRead, n.PropSpan)
		return
	}
	c.BaseVisitor.VisitPropertyAccess(n)
}

func (c *collector) VisitFor(n *ast.ForNode) {
	if n.Var != nil {
		c.reference(n.Var.Name, RefWrite, n.Var.Span(), "for loop")
	}
	for _, child := range []ast.Expression{n.From, n.To, n.Step} {
		if child != nil {
			child.Accept(c)
		}
	}
	if n.Body != nil {
		n.Body.Accept(c)
	}
}

func (c *collector) VisitIdentifier(n *ast.IdentifierNode) {
	if n.IsUserVariable() {
		c.reference(n.Name, RefRead, n.Span(), "")
	}
}

// Call names are function references, not variable reads — except a called
// user variable, which is a read of that variable.
func (c *collector) VisitFunctionCall(n *ast.FunctionCallNode) {
	if n.Name != nil && n.Name.IsUserVariable() {
		c.reference(n.Name.Name, RefRead, n.Name.Span(), "call")
	}
	for _, a := range n.Args {
		if a != nil {
			a.Accept(c)
		}
	}
}
