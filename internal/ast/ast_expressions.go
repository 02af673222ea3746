package ast

import (
	"strings"

	"github.com/pclint/pclint/internal/token"
)

// IdentifierNode covers plain identifiers, user variables (&x) and system
// variables (%UserId). Name keeps the sigil.
type IdentifierNode struct {
	baseNode
	Name string
}

func (n *IdentifierNode) Accept(v Visitor) { v.VisitIdentifier(n) }
func (n *IdentifierNode) Children() []Node { return nil }
func (n *IdentifierNode) expressionNode()  {}

// IsUserVariable reports whether the identifier is &-prefixed.
func (n *IdentifierNode) IsUserVariable() bool {
	return strings.HasPrefix(n.Name, "&")
}

// IsSystemVariable reports whether the identifier is %-prefixed.
func (n *IdentifierNode) IsSystemVariable() bool {
	return strings.HasPrefix(n.Name, "%")
}

// IsBare reports whether the identifier has no sigil at all. Bare names on
// the left of a dot are reference expressions, not variables.
func (n *IdentifierNode) IsBare() bool {
	return !n.IsUserVariable() && !n.IsSystemVariable()
}

// IntegerLiteral is an integer literal.
type IntegerLiteral struct {
	baseNode
	Value int64
	Raw   string
}

func (n *IntegerLiteral) Accept(v Visitor) { v.VisitIntegerLiteral(n) }
func (n *IntegerLiteral) Children() []Node { return nil }
func (n *IntegerLiteral) expressionNode()  {}

// DecimalLiteral is a decimal number literal.
type DecimalLiteral struct {
	baseNode
	Value float64
	Raw   string
}

func (n *DecimalLiteral) Accept(v Visitor) { v.VisitDecimalLiteral(n) }
func (n *DecimalLiteral) Children() []Node { return nil }
func (n *DecimalLiteral) expressionNode()  {}

// StringLiteral is a plain (non-interpolated) string literal, unquoted.
type StringLiteral struct {
	baseNode
	Value string
}

func (n *StringLiteral) Accept(v Visitor) { v.VisitStringLiteral(n) }
func (n *StringLiteral) Children() []Node { return nil }
func (n *StringLiteral) expressionNode()  {}

// BooleanLiteral is True or False.
type BooleanLiteral struct {
	baseNode
	Value bool
}

func (n *BooleanLiteral) Accept(v Visitor) { v.VisitBooleanLiteral(n) }
func (n *BooleanLiteral) Children() []Node { return nil }
func (n *BooleanLiteral) expressionNode()  {}

// NullLiteral is the Null keyword.
type NullLiteral struct {
	baseNode
}

func (n *NullLiteral) Accept(v Visitor) { v.VisitNullLiteral(n) }
func (n *NullLiteral) Children() []Node { return nil }
func (n *NullLiteral) expressionNode()  {}

// BinaryNode is a binary operation. Op is the operator token type; for
// comparisons negated with Not (`If Not &a = &b`), the parser folds the Not
// into a UnaryNode around the comparison instead.
type BinaryNode struct {
	baseNode
	Left  Expression
	Op    token.Type
	Right Expression
}

func (n *BinaryNode) Accept(v Visitor) { v.VisitBinary(n) }
func (n *BinaryNode) Children() []Node { return children(n.Left, n.Right) }
func (n *BinaryNode) expressionNode()  {}

// UnaryNode is `-x` or `Not x`.
type UnaryNode struct {
	baseNode
	Op      token.Type
	Operand Expression
}

func (n *UnaryNode) Accept(v Visitor) { v.VisitUnary(n) }
func (n *UnaryNode) Children() []Node { return children(n.Operand) }
func (n *UnaryNode) expressionNode()  {}

// FunctionCallNode is a bare call, `Name(args)`, with no receiver.
type FunctionCallNode struct {
	baseNode
	Name *IdentifierNode
	Args []Expression
}

func (n *FunctionCallNode) Accept(v Visitor) { v.VisitFunctionCall(n) }
func (n *FunctionCallNode) Children() []Node {
	out := children(Node(n.Name))
	for _, a := range n.Args {
		out = append(out, a)
	}
	return out
}
func (n *FunctionCallNode) expressionNode() {}

// MethodCallNode is a dotted call, `expr.Method(args)`.
type MethodCallNode struct {
	baseNode
	Receiver   Expression
	Method     string
	MethodSpan token.Span
	Args       []Expression
}

func (n *MethodCallNode) Accept(v Visitor) { v.VisitMethodCall(n) }
func (n *MethodCallNode) Children() []Node {
	out := children(n.Receiver)
	for _, a := range n.Args {
		out = append(out, a)
	}
	return out
}
func (n *MethodCallNode) expressionNode() {}

// PropertyAccessNode is `expr.Name` without a call. When the base is a bare
// identifier this is a reference expression (Record.VENDOR), which the
// inference pass detects by looking at the receiver's sigil.
type PropertyAccessNode struct {
	baseNode
	Object   Expression
	Property string
	PropSpan token.Span
}

func (n *PropertyAccessNode) Accept(v Visitor) { v.VisitPropertyAccess(n) }
func (n *PropertyAccessNode) Children() []Node { return children(n.Object) }
func (n *PropertyAccessNode) expressionNode()  {}

// ArrayAccessNode is `base[expr, expr]`; multiple indices drop multiple
// dimensions at once.
type ArrayAccessNode struct {
	baseNode
	Base    Expression
	Indices []Expression
}

func (n *ArrayAccessNode) Accept(v Visitor) { v.VisitArrayAccess(n) }
func (n *ArrayAccessNode) Children() []Node {
	out := children(n.Base)
	for _, i := range n.Indices {
		out = append(out, i)
	}
	return out
}
func (n *ArrayAccessNode) expressionNode() {}

// CreateNode is `create PKG:Class(args)`.
type CreateNode struct {
	baseNode
	Class *AppClassTypeNode
	Args  []Expression
}

func (n *CreateNode) Accept(v Visitor) { v.VisitCreate(n) }
func (n *CreateNode) Children() []Node {
	out := children(Node(n.Class))
	for _, a := range n.Args {
		out = append(out, a)
	}
	return out
}
func (n *CreateNode) expressionNode() {}

// TypeCastNode is `expr As PKG:Class`.
type TypeCastNode struct {
	baseNode
	Expr   Expression
	Target TypeNode
}

func (n *TypeCastNode) Accept(v Visitor) { v.VisitTypeCast(n) }
func (n *TypeCastNode) Children() []Node { return children(n.Expr, n.Target) }
func (n *TypeCastNode) expressionNode()  {}

// AtNode is the dynamic reference operator, `@("RECORD.FIELD")`.
type AtNode struct {
	baseNode
	Target Expression
}

func (n *AtNode) Accept(v Visitor) { v.VisitAt(n) }
func (n *AtNode) Children() []Node { return children(n.Target) }
func (n *AtNode) expressionNode()  {}

// ParenNode preserves explicit grouping.
type ParenNode struct {
	baseNode
	Inner Expression
}

func (n *ParenNode) Accept(v Visitor) { v.VisitParen(n) }
func (n *ParenNode) Children() []Node { return children(n.Inner) }
func (n *ParenNode) expressionNode()  {}

// StringFragmentNode is one literal run inside an interpolated string.
type StringFragmentNode struct {
	baseNode
	Text string
}

func (n *StringFragmentNode) Accept(v Visitor) { v.VisitStringFragment(n) }
func (n *StringFragmentNode) Children() []Node { return nil }
func (n *StringFragmentNode) expressionNode()  {}

// InterpolatedStringNode is $"..." lowered to an alternating part list of
// StringFragmentNode and embedded expressions.
type InterpolatedStringNode struct {
	baseNode
	Parts []Expression
	// Unterminated is set when the lexer had to recover at end of line.
	Unterminated bool
}

func (n *InterpolatedStringNode) Accept(v Visitor) { v.VisitInterpolatedString(n) }
func (n *InterpolatedStringNode) Children() []Node {
	out := make([]Node, 0, len(n.Parts))
	for _, p := range n.Parts {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
func (n *InterpolatedStringNode) expressionNode() {}
