package inference

import (
	"strings"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/token"
	"github.com/pclint/pclint/internal/typemeta"
	"github.com/pclint/pclint/internal/types"
)

func (inf *Inferencer) VisitIntegerLiteral(n *ast.IntegerLiteral) {
	ast.SetInferredType(n, types.Primitive{Kind: types.KindInteger})
}

func (inf *Inferencer) VisitDecimalLiteral(n *ast.DecimalLiteral) {
	ast.SetInferredType(n, types.Primitive{Kind: types.KindNumber})
}

func (inf *Inferencer) VisitStringLiteral(n *ast.StringLiteral) {
	ast.SetInferredType(n, types.Primitive{Kind: types.KindString})
}

func (inf *Inferencer) VisitBooleanLiteral(n *ast.BooleanLiteral) {
	ast.SetInferredType(n, types.Primitive{Kind: types.KindBoolean})
}

func (inf *Inferencer) VisitNullLiteral(n *ast.NullLiteral) {
	ast.SetInferredType(n, types.Any{})
}

func (inf *Inferencer) VisitStringFragment(n *ast.StringFragmentNode) {
	ast.SetInferredType(n, types.Primitive{Kind: types.KindString})
}

func (inf *Inferencer) VisitInterpolatedString(n *ast.InterpolatedStringNode) {
	inf.BaseVisitor.VisitInterpolatedString(n)
	ast.SetInferredType(n, types.Primitive{Kind: types.KindString})
}

func (inf *Inferencer) VisitIdentifier(n *ast.IdentifierNode) {
	ast.SetInferredType(n, inf.identifierType(n))
}

func (inf *Inferencer) identifierType(n *ast.IdentifierNode) types.TypeInfo {
	switch {
	case n.IsUserVariable():
		if t, ok := inf.lookupVar(n.Name); ok {
			return t
		}
		return types.Unknown{Reason: "undeclared variable " + n.Name}
	case n.IsSystemVariable():
		if strings.EqualFold(n.Name, "%This") {
			if inf.classType != nil {
				return inf.classType
			}
			return types.Unknown{Reason: "%This outside a class"}
		}
		if strings.EqualFold(n.Name, "%Super") {
			if inf.baseType != nil {
				return inf.baseType
			}
			return types.Unknown{Reason: "%Super without a base class"}
		}
		if t, ok := typemeta.SystemVariableType(n.Name); ok {
			return t
		}
		return types.Unknown{Reason: "unknown system variable " + n.Name}
	}
	// A bare identifier on its own carries no value type; as the base of a
	// dot it becomes a reference expression, handled by the member rules.
	return types.Unknown{Reason: "bare identifier " + n.Name}
}

func (inf *Inferencer) VisitParen(n *ast.ParenNode) {
	inf.BaseVisitor.VisitParen(n)
	if t, ok := ast.GetInferredType(n.Inner); ok {
		ast.SetInferredType(n, t)
		return
	}
	ast.SetInferredType(n, types.Unknown{Reason: "untyped inner expression"})
}

func (inf *Inferencer) VisitAt(n *ast.AtNode) {
	inf.BaseVisitor.VisitAt(n)
	// Dynamic references resolve at runtime only.
	ast.SetInferredType(n, types.Unknown{Reason: "dynamic reference"})
}

func (inf *Inferencer) VisitTypeCast(n *ast.TypeCastNode) {
	inf.BaseVisitor.VisitTypeCast(n)
	ast.SetInferredType(n, typemeta.TypeFromNode(n.Target))
}

func (inf *Inferencer) VisitUnary(n *ast.UnaryNode) {
	inf.BaseVisitor.VisitUnary(n)
	operand := typeOf(n.Operand)

	if n.Op == token.NOT {
		if !acceptsBoolean(operand) {
			attachError(n, diagnostics.ErrT002, n.Span(),
				"operator Not wants boolean, got %s", operand)
		}
		ast.SetInferredType(n, types.Primitive{Kind: types.KindBoolean})
		return
	}

	// Unary minus.
	if !numericOperand(operand) {
		attachError(n, diagnostics.ErrT002, n.Span(),
			"operator - wants a numeric operand, got %s", operand)
		ast.SetInferredType(n, types.Primitive{Kind: types.KindNumber})
		return
	}
	if types.IsOpen(operand) {
		ast.SetInferredType(n, types.Primitive{Kind: types.KindNumber})
		return
	}
	ast.SetInferredType(n, types.Unwrap(operand))
}

func (inf *Inferencer) VisitBinary(n *ast.BinaryNode) {
	inf.BaseVisitor.VisitBinary(n)
	left := typeOf(n.Left)
	right := typeOf(n.Right)

	switch n.Op {
	case token.AND, token.OR:
		for _, side := range []types.TypeInfo{left, right} {
			if !acceptsBoolean(side) {
				attachError(n, diagnostics.ErrT002, n.Span(),
					"operator %s wants boolean operands, got %s", n.Op, side)
				break
			}
		}
		ast.SetInferredType(n, types.Primitive{Kind: types.KindBoolean})

	case token.EQ, token.NEQ, token.LT, token.LE, token.GT, token.GE:
		ast.SetInferredType(n, types.Primitive{Kind: types.KindBoolean})

	case token.PIPE:
		for _, side := range []types.TypeInfo{left, right} {
			if !concatenable(side) {
				attachError(n, diagnostics.ErrT002, n.Span(),
					"operator | wants string-convertible operands, got %s", side)
				break
			}
		}
		ast.SetInferredType(n, types.Primitive{Kind: types.KindString})

	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.POWER:
		for _, side := range []types.TypeInfo{left, right} {
			if !numericOperand(side) {
				attachError(n, diagnostics.ErrT002, n.Span(),
					"operator %s wants numeric operands, got %s", n.Op, side)
				break
			}
		}
		ast.SetInferredType(n, types.CommonNumeric(left, right))

	default:
		ast.SetInferredType(n, types.Unknown{Reason: "unhandled operator"})
	}
}

func (inf *Inferencer) VisitArrayAccess(n *ast.ArrayAccessNode) {
	inf.BaseVisitor.VisitArrayAccess(n)
	base := typeOf(n.Base)

	if types.IsOpen(base) {
		ast.SetInferredType(n, types.Any{})
		return
	}
	arr, ok := types.Unwrap(base).(types.Array)
	if !ok {
		attachError(n, diagnostics.ErrT003, n.Span(),
			"cannot index a value of type %s", base)
		ast.SetInferredType(n, types.Unknown{Reason: "indexed non-array"})
		return
	}

	result := types.TypeInfo(arr)
	for range n.Indices {
		cur, isArr := result.(types.Array)
		if !isArr {
			attachError(n, diagnostics.ErrT003, n.Span(),
				"too many indices for %s", base)
			result = types.Unknown{Reason: "over-indexed array"}
			break
		}
		result = cur.Reduce()
	}
	ast.SetInferredType(n, result)
}

// typeOf reads a child's annotation, degrading to Unknown so parents never
// see nil.
func typeOf(n ast.Node) types.TypeInfo {
	if n == nil {
		return types.Unknown{Reason: "missing expression"}
	}
	if t, ok := ast.GetInferredType(n); ok {
		return t
	}
	return types.Unknown{Reason: "untyped expression"}
}

func attachError(n ast.Node, code diagnostics.Code, span token.Span, format string, args ...interface{}) {
	ast.SetTypeError(n, diagnostics.NewAnnotation(code, span, format, args...))
}

func numericOperand(t types.TypeInfo) bool {
	return types.IsOpen(t) || types.IsNumeric(types.Unwrap(t))
}

func acceptsBoolean(t types.TypeInfo) bool {
	if types.IsOpen(t) {
		return true
	}
	p, ok := types.Unwrap(t).(types.Primitive)
	return ok && p.Kind == types.KindBoolean
}

// concatenable reports whether a value can appear in a `|` concatenation.
// All scalars stringify; objects do not.
func concatenable(t types.TypeInfo) bool {
	if types.IsOpen(t) {
		return true
	}
	p, ok := types.Unwrap(t).(types.Primitive)
	if !ok {
		return false
	}
	return p.Kind != types.KindObject && p.Kind != types.KindVoid
}
