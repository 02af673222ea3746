package inference

import (
	"strings"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/typemeta"
	"github.com/pclint/pclint/internal/types"
)

func (inf *Inferencer) VisitPropertyAccess(n *ast.PropertyAccessNode) {
	// `Record.VENDOR` style chains are definition references, not value
	// reads; the bare receiver has no type of its own.
	if base, ok := n.Object.(*ast.IdentifierNode); ok && base.IsBare() {
		ast.SetInferredType(n, referenceType(base.Name, n.Property))
		return
	}

	inf.BaseVisitor.VisitPropertyAccess(n)
	receiver := typeOf(n.Object)

	if types.IsOpen(receiver) {
		ast.SetInferredType(n, types.Any{})
		return
	}

	switch r := types.Unwrap(receiver).(type) {
	case types.Array:
		if t, ok := typemeta.ArrayProperty(n.Property); ok {
			ast.SetInferredType(n, t)
			return
		}
		inf.unknownMember(n, n.Property, receiver)

	case types.BuiltinObject:
		meta, ok := typemeta.BuiltinObjectMeta(r.Name)
		if !ok {
			ast.SetInferredType(n, types.Unknown{Reason: "no metadata for " + r.Name})
			return
		}
		if t, ok := meta.Properties[lower(n.Property)]; ok {
			ast.SetInferredType(n, t)
			return
		}
		inf.unknownMember(n, n.Property, receiver)

	case types.AppClass:
		t, found, resolved := inf.classProperty(r.QualifiedName, n.Property)
		switch {
		case found:
			ast.SetInferredType(n, t)
		case resolved:
			inf.unknownMember(n, n.Property, receiver)
		default:
			// Metadata for the class is unavailable; stay quiet.
			ast.SetInferredType(n, types.Unknown{Reason: "unresolved class " + r.QualifiedName})
		}

	default:
		inf.unknownMember(n, n.Property, receiver)
	}
}

func (inf *Inferencer) VisitMethodCall(n *ast.MethodCallNode) {
	inf.BaseVisitor.VisitMethodCall(n)
	receiver := typeOf(n.Receiver)
	args := argTypes(n.Args)

	if types.IsOpen(receiver) {
		ast.SetInferredType(n, types.Any{})
		return
	}

	switch r := types.Unwrap(receiver).(type) {
	case types.Array:
		if fn, ok := typemeta.ArrayMethod(n.Method); ok {
			inf.applyCall(n, fn, receiver, args)
			return
		}
		inf.unknownMember(n, n.Method, receiver)

	case types.BuiltinObject:
		meta, ok := typemeta.BuiltinObjectMeta(r.Name)
		if !ok {
			ast.SetInferredType(n, types.Unknown{Reason: "no metadata for " + r.Name})
			return
		}
		if fn, ok := meta.Methods[lower(n.Method)]; ok {
			inf.applyCall(n, fn, receiver, args)
			return
		}
		inf.unknownMember(n, n.Method, receiver)

	case types.AppClass:
		fn, found, resolved := inf.classMethod(r.QualifiedName, n.Method)
		switch {
		case found:
			inf.applyCall(n, fn, receiver, args)
		case resolved:
			inf.unknownMember(n, n.Method, receiver)
		default:
			ast.SetInferredType(n, types.Unknown{Reason: "unresolved class " + r.QualifiedName})
		}

	default:
		inf.unknownMember(n, n.Method, receiver)
	}
}

// VisitFunctionCall resolves a bare call. Resolution order: the unit's own
// functions, declared externals, the builtin table, and finally a variable
// holding an object with a default method (e.g. `&rowset(1)`).
func (inf *Inferencer) VisitFunctionCall(n *ast.FunctionCallNode) {
	inf.BaseVisitor.VisitFunctionCall(n)
	if n.Name == nil {
		ast.SetInferredType(n, types.Unknown{Reason: "malformed call"})
		return
	}
	args := argTypes(n.Args)
	callee := lower(n.Name.Name)

	if n.Name.IsUserVariable() {
		inf.defaultMethodCall(n, args)
		return
	}

	if fn, ok := inf.localFunctions[callee]; ok {
		inf.applyCall(n, fn, nil, args)
		return
	}
	if fn, ok := inf.declaredFunctions[callee]; ok {
		inf.applyCall(n, fn, nil, args)
		return
	}
	if fn, ok := typemeta.BuiltinFunction(callee); ok {
		inf.applyCall(n, fn, nil, args)
		return
	}

	// Unresolved calls stay untyped; flagging them would swamp real
	// findings, since most events call functions from records this pass
	// never sees.
	ast.SetInferredType(n, types.Unknown{Reason: "unresolved function " + n.Name.Name})
}

// defaultMethodCall handles `&var(args)`, which invokes the default method
// of the object held in &var: `&rowset(2)` is `&rowset.GetRow(2)`.
func (inf *Inferencer) defaultMethodCall(n *ast.FunctionCallNode, args []types.TypeInfo) {
	receiver, ok := inf.lookupVar(n.Name.Name)
	if !ok {
		ast.SetInferredType(n, types.Unknown{Reason: "undeclared variable " + n.Name.Name})
		return
	}
	ast.SetInferredType(n.Name, receiver)
	if types.IsOpen(receiver) {
		ast.SetInferredType(n, types.Any{})
		return
	}
	obj, ok := types.Unwrap(receiver).(types.BuiltinObject)
	if !ok {
		ast.SetInferredType(n, types.Unknown{Reason: "callee is not an object"})
		return
	}
	meta, ok := typemeta.BuiltinObjectMeta(obj.Name)
	if !ok || meta.Default == nil {
		ast.SetInferredType(n, types.Unknown{Reason: obj.Name + " has no default method"})
		return
	}
	inf.applyCall(n, meta.Default, receiver, args)
}

func (inf *Inferencer) VisitCreate(n *ast.CreateNode) {
	inf.BaseVisitor.VisitCreate(n)
	if n.Class == nil {
		ast.SetInferredType(n, types.Unknown{Reason: "malformed create"})
		return
	}
	qualified := n.Class.QualifiedName()
	ast.SetInferredType(n, types.AppClass{QualifiedName: qualified})
	if meta, ok := inf.resolveClass(qualified); ok && meta.Constructor != nil {
		ast.SetFunctionInfo(n, meta.Constructor)
	}
}

// applyCall records the resolved signature and computes the call's type.
func (inf *Inferencer) applyCall(n ast.Expression, fn *types.FunctionInfo, receiver types.TypeInfo, args []types.TypeInfo) {
	ast.SetFunctionInfo(n, fn)
	ast.SetInferredType(n, fn.Return.Resolve(receiver, args))
}

func (inf *Inferencer) unknownMember(n ast.Expression, member string, receiver types.TypeInfo) {
	attachError(n, diagnostics.ErrT005, n.Span(),
		"type %s has no member %s", receiver, member)
	ast.SetInferredType(n, types.Unknown{Reason: "unknown member " + member})
}

// classProperty walks the inheritance chain for a property. found reports a
// hit; resolved reports whether the chain's root metadata existed at all.
func (inf *Inferencer) classProperty(qualifiedName, name string) (t types.TypeInfo, found, resolved bool) {
	typemeta.BaseChain(inf.resolver, inf.cache, qualifiedName, func(meta *typemeta.TypeMetadata) bool {
		resolved = true
		if pt, ok := meta.Property(name); ok {
			t, found = pt, true
			return false
		}
		return true
	})
	return t, found, resolved
}

func (inf *Inferencer) classMethod(qualifiedName, name string) (fn *types.FunctionInfo, found, resolved bool) {
	typemeta.BaseChain(inf.resolver, inf.cache, qualifiedName, func(meta *typemeta.TypeMetadata) bool {
		resolved = true
		if m, ok := meta.Method(name); ok {
			fn, found = m, true
			return false
		}
		return true
	})
	return fn, found, resolved
}

// referenceType types a bare `Category.NAME` definition reference.
func referenceType(category, target string) types.TypeInfo {
	if c, ok := typemeta.ReferenceCategory(category); ok {
		return types.Reference{Category: c, Target: target}
	}
	return types.Reference{Category: category, Target: target}
}

func lower(s string) string { return strings.ToLower(s) }

func argTypes(args []ast.Expression) []types.TypeInfo {
	out := make([]types.TypeInfo, len(args))
	for i, a := range args {
		out[i] = typeOf(a)
	}
	return out
}
