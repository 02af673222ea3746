package typemeta

import (
	"strings"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/types"
)

// Extract builds the metadata surface of one parsed unit. qualifiedName is
// the unit's package-qualified name (e.g. "MY_PKG:Utils:Cache"); for event
// programs and function libraries it is the program path.
func Extract(program *ast.Program, qualifiedName string) *TypeMetadata {
	switch {
	case program.Class != nil:
		return extractClass(program.Class, qualifiedName)
	case program.Interface != nil:
		return extractInterface(program.Interface, qualifiedName)
	default:
		return extractLibrary(program, qualifiedName)
	}
}

func extractClass(class *ast.AppClassNode, qualifiedName string) *TypeMetadata {
	meta := NewTypeMetadata(qualifiedName, UnitAppClass)

	switch base := class.Extends.(type) {
	case *ast.AppClassTypeNode:
		meta.BaseClass = base.QualifiedName()
	case *ast.BuiltInTypeNode:
		meta.BaseClass = base.Name
		meta.BaseIsBuiltin = true
	}
	if class.Implements != nil {
		meta.Interface = class.Implements.QualifiedName()
	}

	for _, m := range class.Methods {
		info := methodInfo(m.Name, m.Params, m.ReturnType)
		if m.IsConstructor {
			meta.Constructor = info
			continue
		}
		meta.Methods[strings.ToLower(m.Name)] = info
	}
	for _, p := range class.Properties {
		meta.Properties[strings.ToLower(p.Name)] = TypeFromNode(p.Type)
	}
	for _, iv := range class.Instances {
		t := TypeFromNode(iv.Type)
		for _, id := range iv.Names {
			meta.Instance[strings.ToLower(id.Name)] = t
		}
	}
	for _, c := range class.Constants {
		if c.Name == nil {
			continue
		}
		meta.Properties[strings.ToLower(c.Name.Name)] = types.Constant{Inner: LiteralType(c.Value)}
	}
	return meta
}

func extractInterface(iface *ast.InterfaceNode, qualifiedName string) *TypeMetadata {
	meta := NewTypeMetadata(qualifiedName, UnitInterface)
	if iface.Extends != nil {
		meta.BaseClass = iface.Extends.QualifiedName()
	}
	for _, m := range iface.Methods {
		meta.Methods[strings.ToLower(m.Name)] = methodInfo(m.Name, m.Params, m.ReturnType)
	}
	for _, p := range iface.Properties {
		meta.Properties[strings.ToLower(p.Name)] = TypeFromNode(p.Type)
	}
	return meta
}

func extractLibrary(program *ast.Program, qualifiedName string) *TypeMetadata {
	meta := NewTypeMetadata(qualifiedName, UnitFunctionLibrary)
	for _, f := range program.Functions {
		meta.Functions[strings.ToLower(f.Name)] = methodInfo(f.Name, f.Params, f.ReturnType)
	}
	return meta
}

// FunctionInfoOf builds the callable signature of a local function
// implementation.
func FunctionInfoOf(f *ast.FunctionNode) *types.FunctionInfo {
	return methodInfo(f.Name, f.Params, f.ReturnType)
}

// MethodInfoOf builds the callable signature of a declared method.
func MethodInfoOf(m *ast.MethodNode) *types.FunctionInfo {
	return methodInfo(m.Name, m.Params, m.ReturnType)
}

func methodInfo(name string, params []*ast.ParameterNode, returnType ast.TypeNode) *types.FunctionInfo {
	info := &types.FunctionInfo{Name: name, Return: types.NoReturn()}
	if returnType != nil {
		info.Return = types.FixedReturn(TypeFromNode(returnType))
	}
	for _, p := range params {
		pi := types.ParamInfo{Type: types.Any{}, MustBeVariable: p.IsOut}
		if p.Name != nil {
			pi.Name = p.Name.Name
		}
		if p.Type != nil {
			pi.Type = TypeFromNode(p.Type)
		}
		info.Params = append(info.Params, pi)
	}
	return info
}

// LiteralType reports the type of a literal constant expression. Non-literal
// initializers fall back to Any; constant folding is out of scope.
func LiteralType(expr ast.Expression) types.TypeInfo {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return types.Primitive{Kind: types.KindInteger}
	case *ast.DecimalLiteral:
		return types.Primitive{Kind: types.KindNumber}
	case *ast.StringLiteral:
		return types.Primitive{Kind: types.KindString}
	case *ast.BooleanLiteral:
		return types.Primitive{Kind: types.KindBoolean}
	case *ast.NullLiteral:
		return types.Any{}
	case *ast.UnaryNode:
		return LiteralType(e.Operand)
	}
	return types.Any{}
}
