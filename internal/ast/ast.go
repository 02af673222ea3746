// Package ast defines the PeopleCode syntax tree.
//
// The node set is closed. Every node carries a source span, a non-owning
// parent back-reference, and four annotation slots (inferred type, resolved
// function info, type error, type warning) that later passes fill in; the
// parser is the only producer of structure, later passes only attach
// annotations. The Program node owns the whole tree.
package ast

import (
	"reflect"

	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/token"
	"github.com/pclint/pclint/internal/types"
)

// Node is the base interface for all AST nodes.
type Node interface {
	Span() token.Span
	Parent() Node
	SetParent(Node)
	Children() []Node
	Accept(v Visitor)
	annotations() *Annotations
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
}

// TypeNode is a Node that names a type in a declaration.
type TypeNode interface {
	Node
	typeNode()
	// TypeName renders the declared type as written, e.g. "array of string".
	TypeName() string
}

// Annotations are the open-but-bounded attribute slots of a node. They are
// written during the registry/inference/checking passes and read by
// consumers; absence is represented by nil, never by a panic.
type Annotations struct {
	InferredType types.TypeInfo
	Function     *types.FunctionInfo
	TypeError    *diagnostics.Annotation
	TypeWarning  *diagnostics.Annotation
}

// baseNode supplies the span/parent/annotation plumbing shared by every
// variant.
type baseNode struct {
	span   token.Span
	parent Node
	ann    Annotations
}

func (b *baseNode) Span() token.Span          { return b.span }
func (b *baseNode) SetSpan(s token.Span)      { b.span = s }
func (b *baseNode) Parent() Node              { return b.parent }
func (b *baseNode) SetParent(p Node)          { b.parent = p }
func (b *baseNode) annotations() *Annotations { return &b.ann }

// GetInferredType returns the type attached by the inference pass, if any.
func GetInferredType(n Node) (types.TypeInfo, bool) {
	if n == nil {
		return nil, false
	}
	t := n.annotations().InferredType
	return t, t != nil
}

func SetInferredType(n Node, t types.TypeInfo) {
	if n != nil {
		n.annotations().InferredType = t
	}
}

// GetFunctionInfo returns the callable metadata attached to a resolved call.
func GetFunctionInfo(n Node) (*types.FunctionInfo, bool) {
	if n == nil {
		return nil, false
	}
	f := n.annotations().Function
	return f, f != nil
}

func SetFunctionInfo(n Node, f *types.FunctionInfo) {
	if n != nil {
		n.annotations().Function = f
	}
}

func GetTypeError(n Node) (*diagnostics.Annotation, bool) {
	if n == nil {
		return nil, false
	}
	e := n.annotations().TypeError
	return e, e != nil
}

// SetTypeError attaches an error annotation. The first error on a node wins:
// later passes re-detecting the same broken spot must not bury the root
// cause.
func SetTypeError(n Node, e *diagnostics.Annotation) {
	if n == nil || e == nil {
		return
	}
	if n.annotations().TypeError == nil {
		n.annotations().TypeError = e
	}
}

func GetTypeWarning(n Node) (*diagnostics.Annotation, bool) {
	if n == nil {
		return nil, false
	}
	w := n.annotations().TypeWarning
	return w, w != nil
}

func SetTypeWarning(n Node, w *diagnostics.Annotation) {
	if n == nil || w == nil {
		return
	}
	if n.annotations().TypeWarning == nil {
		n.annotations().TypeWarning = w
	}
}

// CollectTypeErrors gathers every error annotation in the subtree rooted at
// n, in traversal order.
func CollectTypeErrors(n Node) []*diagnostics.Annotation {
	var out []*diagnostics.Annotation
	Walk(n, func(node Node) bool {
		if e, ok := GetTypeError(node); ok {
			out = append(out, e)
		}
		return true
	})
	return out
}

// CollectTypeWarnings gathers every warning annotation in the subtree rooted
// at n.
func CollectTypeWarnings(n Node) []*diagnostics.Annotation {
	var out []*diagnostics.Annotation
	Walk(n, func(node Node) bool {
		if w, ok := GetTypeWarning(node); ok {
			out = append(out, w)
		}
		return true
	})
	return out
}

// Walk calls fn for n and, while fn keeps returning true, for every
// descendant in child order.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || isNilNode(n) {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Adopt records n as the parent of each given child. The parser calls this
// as it builds structure; nil children are permitted and skipped.
func Adopt(parent Node, children ...Node) {
	for _, c := range children {
		if c != nil && !isNilNode(c) {
			c.SetParent(parent)
		}
	}
}

// NodeAt returns the innermost node whose span contains the given offset.
func NodeAt(root Node, offset int) Node {
	var best Node
	Walk(root, func(n Node) bool {
		sp := n.Span()
		if sp.Start.Offset <= offset && offset <= sp.End.Offset {
			// Pre-order traversal: a later hit is a deeper node.
			best = n
		}
		return true
	})
	return best
}

// isNilNode guards against typed-nil interface values, which show up when an
// optional child like an else block is absent.
func isNilNode(n Node) bool {
	if n == nil {
		return true
	}
	v := reflect.ValueOf(n)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

// children builds a child slice, dropping nil entries.
func children(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil && !isNilNode(n) {
			out = append(out, n)
		}
	}
	return out
}
