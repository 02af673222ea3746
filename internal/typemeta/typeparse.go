package typemeta

import (
	"strings"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/types"
)

// builtinScalars maps declared builtin type names to their primitive kinds.
var builtinScalars = map[string]types.PrimitiveKind{
	"string":   types.KindString,
	"number":   types.KindNumber,
	"integer":  types.KindInteger,
	"float":    types.KindFloat,
	"boolean":  types.KindBoolean,
	"date":     types.KindDate,
	"time":     types.KindTime,
	"datetime": types.KindDateTime,
	"object":   types.KindObject,
}

// TypeFromNode converts a declared type node to a TypeInfo. A nil node means
// the declaration carried no type and yields Any.
func TypeFromNode(n ast.TypeNode) types.TypeInfo {
	switch t := n.(type) {
	case nil:
		return types.Any{}
	case *ast.BuiltInTypeNode:
		return builtinNamed(t.Name)
	case *ast.ArrayTypeNode:
		elem := types.TypeInfo(types.Any{})
		if t.Elem != nil {
			elem = TypeFromNode(t.Elem)
		}
		return types.Array{Dims: t.Dims, Elem: elem}
	case *ast.AppClassTypeNode:
		return types.AppClass{QualifiedName: t.QualifiedName()}
	}
	return types.Unknown{Reason: "unrecognized type node"}
}

func builtinNamed(name string) types.TypeInfo {
	lower := strings.ToLower(name)
	if lower == "any" {
		return types.Any{}
	}
	if k, ok := builtinScalars[lower]; ok {
		return types.Primitive{Kind: k}
	}
	if IsBuiltinObject(lower) {
		return BuiltinObjectType(name)
	}
	// An unqualified class name from an import; keep it nominal.
	return types.AppClass{QualifiedName: name}
}

// ParseTypeString resolves a declared-type string from stored metadata, e.g.
// "array of string", "number" or "PKG:SUB:Class". Unparseable input yields
// Unknown rather than an error: stored metadata quality degrades analysis
// precision, not availability.
func ParseTypeString(s string) types.TypeInfo {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Any{}
	}
	lower := strings.ToLower(s)

	dims := 0
	for strings.HasPrefix(lower, "array") {
		dims++
		rest := strings.TrimSpace(lower[len("array"):])
		if !strings.HasPrefix(rest, "of ") {
			lower = ""
			break
		}
		lower = strings.TrimSpace(rest[len("of "):])
		if !strings.HasPrefix(lower, "array") {
			break
		}
	}
	if dims > 0 {
		elem := types.TypeInfo(types.Any{})
		if lower != "" {
			elem = ParseTypeString(lower)
		}
		return types.Array{Dims: dims, Elem: elem}
	}

	if strings.Contains(s, ":") {
		return types.AppClass{QualifiedName: s}
	}
	return builtinNamed(s)
}
