// Package checker verifies the typed tree: assignment compatibility, call
// arguments, and discarded results. It consumes the annotations the
// inference pass attached and never mutates types. All findings are node
// annotations; the pass itself cannot fail.
package checker

import (
	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/token"
	"github.com/pclint/pclint/internal/typemeta"
	"github.com/pclint/pclint/internal/types"
)

// Checker walks a typed program and attaches TypeError/TypeWarning
// annotations where the declared and inferred types disagree.
type Checker struct {
	ast.BaseVisitor

	meta      types.MetadataSource
	cancelled func() bool
}

// New builds a Checker. meta may be nil; cross-unit assignability then
// degrades to exact-name matching.
func New(meta types.MetadataSource) *Checker {
	c := &Checker{meta: meta}
	c.Init(c)
	return c
}

// Run checks the whole unit. cancelled, when non-nil, is polled at block
// granularity.
func (c *Checker) Run(program *ast.Program, cancelled func() bool) {
	if program == nil {
		return
	}
	c.cancelled = cancelled
	program.Accept(c)
}

func (c *Checker) stop() bool {
	return c.cancelled != nil && c.cancelled()
}

func (c *Checker) VisitBlock(n *ast.BlockNode) {
	if c.stop() {
		return
	}
	c.BaseVisitor.VisitBlock(n)
}

func (c *Checker) VisitAssignment(n *ast.AssignmentNode) {
	c.BaseVisitor.VisitAssignment(n)
	target := inferredType(n.Target)
	value := inferredType(n.Value)
	if target == nil || value == nil {
		return
	}

	switch n.Op {
	case token.PLUS_EQ, token.MINUS_EQ:
		if !openOrNumeric(target) || !openOrNumeric(value) {
			c.incompatible(n, target, value)
		}
	case token.PIPE_EQ:
		if !stringTarget(target) {
			c.incompatible(n, target, value)
		}
	default:
		if !types.AssignableTo(target, value, c.meta) {
			c.incompatible(n, target, value)
		}
	}
}

func (c *Checker) VisitLocalVariableDecl(n *ast.LocalVariableDecl) {
	c.BaseVisitor.VisitLocalVariableDecl(n)
	if n.Value == nil || len(n.Names) != 1 {
		return
	}
	declared := typemeta.TypeFromNode(n.Type)
	value := inferredType(n.Value)
	if value == nil {
		return
	}
	if !types.AssignableTo(declared, value, c.meta) {
		ast.SetTypeError(n, diagnostics.NewAnnotation(diagnostics.ErrT001, n.Span(),
			"cannot initialize %s %s with a %s value",
			declared, n.Names[0].Name, value))
	}
}

func (c *Checker) VisitExpressionStatement(n *ast.ExpressionStatement) {
	c.BaseVisitor.VisitExpressionStatement(n)
	if _, isErr := n.Expr.(*ast.ErrorNode); isErr {
		return
	}
	t := inferredType(n.Expr)
	if t == nil || types.IsOpen(t) {
		return
	}
	if p, ok := types.Unwrap(t).(types.Primitive); ok && p.Kind == types.KindVoid {
		return
	}
	ast.SetTypeWarning(n, diagnostics.NewAnnotation(diagnostics.ErrT006, n.Span(),
		"result of type %s is discarded", t))
}

func (c *Checker) VisitFunctionCall(n *ast.FunctionCallNode) {
	c.BaseVisitor.VisitFunctionCall(n)
	if fn, ok := ast.GetFunctionInfo(n); ok {
		c.validateCall(n, fn, n.Args)
	}
}

func (c *Checker) VisitMethodCall(n *ast.MethodCallNode) {
	c.BaseVisitor.VisitMethodCall(n)
	if fn, ok := ast.GetFunctionInfo(n); ok {
		c.validateCall(n, fn, n.Args)
	}
}

func (c *Checker) VisitCreate(n *ast.CreateNode) {
	c.BaseVisitor.VisitCreate(n)
	if fn, ok := ast.GetFunctionInfo(n); ok {
		c.validateCall(n, fn, n.Args)
	}
}

func (c *Checker) incompatible(n *ast.AssignmentNode, target, value types.TypeInfo) {
	ast.SetTypeError(n, diagnostics.NewAnnotation(diagnostics.ErrT001, n.Span(),
		"cannot assign %s to %s", value, target))
}

func inferredType(e ast.Expression) types.TypeInfo {
	if e == nil {
		return nil
	}
	t, _ := ast.GetInferredType(e)
	return t
}

func openOrNumeric(t types.TypeInfo) bool {
	return types.IsOpen(t) || types.IsNumeric(t)
}

func stringTarget(t types.TypeInfo) bool {
	if types.IsOpen(t) {
		return true
	}
	p, ok := types.Unwrap(t).(types.Primitive)
	return ok && p.Kind == types.KindString
}
