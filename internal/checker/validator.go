package checker

import (
	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/types"
)

// validateCall checks a resolved call site against its signature: arity,
// per-argument assignability, and the by-reference restriction on out
// parameters. Errors attach to the offending argument node when one is
// identifiable, else to the call node itself.
func (c *Checker) validateCall(call ast.Expression, fn *types.FunctionInfo, args []ast.Expression) {
	params := fn.Params

	if len(args) < len(params) {
		ast.SetTypeError(call, diagnostics.NewAnnotation(diagnostics.ErrT004, call.Span(),
			"%s expects %d arguments, got %d", fn.Name, len(params), len(args)))
		return
	}
	if len(args) > len(params) && !fn.Variadic {
		extra := args[len(params)]
		ast.SetTypeError(extra, diagnostics.NewAnnotation(diagnostics.ErrT004, extra.Span(),
			"%s expects %d arguments, got %d", fn.Name, len(params), len(args)))
		return
	}

	for i, p := range params {
		arg := args[i]
		if p.MustBeVariable && !isAssignable(arg) {
			ast.SetTypeError(arg, diagnostics.NewAnnotation(diagnostics.ErrT004, arg.Span(),
				"argument %d of %s must be a variable", i+1, fn.Name))
			continue
		}
		at := inferredType(arg)
		if at == nil || p.Type == nil {
			continue
		}
		if !types.AssignableTo(p.Type, at, c.meta) {
			ast.SetTypeError(arg, diagnostics.NewAnnotation(diagnostics.ErrT004, arg.Span(),
				"argument %d of %s wants %s, got %s", i+1, fn.Name, p.Type, at))
		}
	}
}

// isAssignable reports whether the expression could appear on the left of an
// assignment, which is what an out parameter requires.
func isAssignable(e ast.Expression) bool {
	switch v := e.(type) {
	case *ast.IdentifierNode:
		return v.IsUserVariable()
	case *ast.PropertyAccessNode, *ast.ArrayAccessNode:
		return true
	case *ast.ParenNode:
		return isAssignable(v.Inner)
	}
	return false
}
