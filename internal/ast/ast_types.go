package ast

import "strings"

// BuiltInTypeNode names a language-provided type in a declaration: a scalar
// (string, number, ...) or a builtin object type (Record, Rowset, File, ...).
type BuiltInTypeNode struct {
	baseNode
	Name string
}

func (n *BuiltInTypeNode) Accept(v Visitor) { v.VisitBuiltInType(n) }
func (n *BuiltInTypeNode) Children() []Node { return nil }
func (n *BuiltInTypeNode) typeNode()        {}
func (n *BuiltInTypeNode) TypeName() string { return n.Name }

// ArrayTypeNode is `array of array of T`. Elem is nil for the untyped
// `array` form.
type ArrayTypeNode struct {
	baseNode
	Dims int
	Elem TypeNode
}

func (n *ArrayTypeNode) Accept(v Visitor) { v.VisitArrayType(n) }
func (n *ArrayTypeNode) Children() []Node { return children(n.Elem) }
func (n *ArrayTypeNode) typeNode()        {}
func (n *ArrayTypeNode) TypeName() string {
	var sb strings.Builder
	for i := 0; i < n.Dims; i++ {
		if i > 0 {
			sb.WriteString(" of ")
		}
		sb.WriteString("array")
	}
	if n.Elem != nil {
		sb.WriteString(" of ")
		sb.WriteString(n.Elem.TypeName())
	}
	return sb.String()
}

// AppClassTypeNode is a colon-delimited application class path,
// `PKG:SUB:ClassName`.
type AppClassTypeNode struct {
	baseNode
	PackagePath []string
	ClassName   string
}

func (n *AppClassTypeNode) Accept(v Visitor) { v.VisitAppClassType(n) }
func (n *AppClassTypeNode) Children() []Node { return nil }
func (n *AppClassTypeNode) typeNode()        {}
func (n *AppClassTypeNode) TypeName() string { return n.QualifiedName() }

// QualifiedName joins the package path and class name with colons.
func (n *AppClassTypeNode) QualifiedName() string {
	if len(n.PackagePath) == 0 {
		return n.ClassName
	}
	return strings.Join(n.PackagePath, ":") + ":" + n.ClassName
}
