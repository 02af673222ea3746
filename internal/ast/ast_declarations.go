package ast

import (
	"strings"

	"github.com/pclint/pclint/internal/token"
)

// Program is the root node of every tree the parser produces: one
// compilation unit — a class, an interface, or a function library / event
// program. The field order here is the declaration order later passes rely
// on; see BaseVisitor.VisitProgram.
type Program struct {
	baseNode
	File      string
	Imports   []*ImportNode
	Variables []*ProgramVariableNode // Global / Component declarations
	Locals    []*LocalVariableDecl   // program-level Local declarations
	Constants []*ConstantNode
	Declares  []*FunctionDeclareNode // externally-declared functions
	Class     *AppClassNode
	Interface *InterfaceNode
	Functions []*FunctionNode // function implementations
	Main      *BlockNode      // main statement block
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) Children() []Node {
	var out []Node
	for _, n := range p.Imports {
		out = append(out, n)
	}
	for _, n := range p.Variables {
		out = append(out, n)
	}
	for _, n := range p.Locals {
		out = append(out, n)
	}
	for _, n := range p.Constants {
		out = append(out, n)
	}
	for _, n := range p.Declares {
		out = append(out, n)
	}
	if p.Class != nil {
		out = append(out, p.Class)
	}
	if p.Interface != nil {
		out = append(out, p.Interface)
	}
	for _, n := range p.Functions {
		out = append(out, n)
	}
	if p.Main != nil {
		out = append(out, p.Main)
	}
	return out
}

// ImportNode is `import PKG:SUB:ClassName;` or `import PKG:SUB:*;`.
type ImportNode struct {
	baseNode
	PackagePath []string
	ClassName   string
	Wildcard    bool
}

func (n *ImportNode) Accept(v Visitor) { v.VisitImport(n) }
func (n *ImportNode) Children() []Node { return nil }
func (n *ImportNode) statementNode()   {}

// QualifiedName renders the import target, e.g. "PKG:SUB:MyClass".
func (n *ImportNode) QualifiedName() string {
	parts := append([]string{}, n.PackagePath...)
	if n.Wildcard {
		parts = append(parts, "*")
	} else if n.ClassName != "" {
		parts = append(parts, n.ClassName)
	}
	return strings.Join(parts, ":")
}

// MemberAccess is the declared visibility of a class member.
type MemberAccess int

const (
	AccessPublic MemberAccess = iota
	AccessProtected
	AccessPrivate
)

func (a MemberAccess) String() string {
	switch a {
	case AccessProtected:
		return "protected"
	case AccessPrivate:
		return "private"
	}
	return "public"
}

// AppClassNode is a `class ... end-class` declaration.
type AppClassNode struct {
	baseNode
	Name       string
	NameSpan   token.Span
	Extends    TypeNode          // base class or builtin type, optional
	Implements *AppClassTypeNode // optional
	Methods    []*MethodNode
	Properties []*PropertyNode
	Instances  []*InstanceVariableNode
	Constants  []*ConstantNode
}

func (n *AppClassNode) Accept(v Visitor) { v.VisitAppClass(n) }
func (n *AppClassNode) Children() []Node {
	out := children(n.Extends, n.Implements)
	for _, m := range n.Methods {
		out = append(out, m)
	}
	for _, p := range n.Properties {
		out = append(out, p)
	}
	for _, i := range n.Instances {
		out = append(out, i)
	}
	for _, c := range n.Constants {
		out = append(out, c)
	}
	return out
}

// FindMethod returns the declared method with the given name,
// case-insensitively.
func (n *AppClassNode) FindMethod(name string) *MethodNode {
	for _, m := range n.Methods {
		if strings.EqualFold(m.Name, name) {
			return m
		}
	}
	return nil
}

// FindProperty returns the declared property with the given name,
// case-insensitively.
func (n *AppClassNode) FindProperty(name string) *PropertyNode {
	for _, p := range n.Properties {
		if strings.EqualFold(p.Name, name) {
			return p
		}
	}
	return nil
}

// InterfaceNode is an `interface ... end-interface` declaration.
type InterfaceNode struct {
	baseNode
	Name       string
	NameSpan   token.Span
	Extends    *AppClassTypeNode // optional base interface
	Methods    []*MethodNode
	Properties []*PropertyNode
}

func (n *InterfaceNode) Accept(v Visitor) { v.VisitInterface(n) }
func (n *InterfaceNode) Children() []Node {
	out := children(Node(n.Extends))
	for _, m := range n.Methods {
		out = append(out, m)
	}
	for _, p := range n.Properties {
		out = append(out, p)
	}
	return out
}

// MethodNode is a method signature declared in a class or interface block.
// PeopleCode splits signature and body: the Implementation field is nil until
// the parser correlates the separate `method Name ... end-method` section by
// name.
type MethodNode struct {
	baseNode
	Name           string
	NameSpan       token.Span
	Params         []*ParameterNode
	ReturnType     TypeNode // nil for void
	Access         MemberAccess
	IsAbstract     bool
	IsConstructor  bool // name matches the class name
	Implementation *MethodImplNode
}

func (n *MethodNode) Accept(v Visitor) { v.VisitMethod(n) }
func (n *MethodNode) Children() []Node {
	var out []Node
	for _, p := range n.Params {
		out = append(out, p)
	}
	if n.ReturnType != nil {
		out = append(out, n.ReturnType)
	}
	if n.Implementation != nil {
		out = append(out, n.Implementation)
	}
	return out
}

// ImplKind distinguishes the three body sections a class can carry.
type ImplKind int

const (
	ImplMethod ImplKind = iota
	ImplGetter
	ImplSetter
)

// MethodImplNode is a `method`, `get` or `set` body section. Params carries
// the re-stated parameter annotations (PeopleCode repeats the signature on
// the implementation as documentation).
type MethodImplNode struct {
	baseNode
	Kind       ImplKind
	Name       string
	NameSpan   token.Span
	Params     []*ParameterNode
	ReturnType TypeNode
	Body       *BlockNode
}

func (n *MethodImplNode) Accept(v Visitor) { v.VisitMethodImpl(n) }
func (n *MethodImplNode) Children() []Node {
	var out []Node
	for _, p := range n.Params {
		out = append(out, p)
	}
	if n.ReturnType != nil {
		out = append(out, n.ReturnType)
	}
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return out
}

// PropertyNode is a `property TYPE Name get set;` declaration. Getter/Setter
// are correlated from the `get Name`/`set Name` sections by name.
type PropertyNode struct {
	baseNode
	Name       string
	NameSpan   token.Span
	Type       TypeNode
	Access     MemberAccess
	HasGet     bool
	HasSet     bool
	IsAbstract bool
	IsReadonly bool
	Getter     *MethodImplNode
	Setter     *MethodImplNode
}

func (n *PropertyNode) Accept(v Visitor) { v.VisitProperty(n) }
func (n *PropertyNode) Children() []Node {
	out := children(n.Type)
	if n.Getter != nil {
		out = append(out, n.Getter)
	}
	if n.Setter != nil {
		out = append(out, n.Setter)
	}
	return out
}

// InstanceVariableNode is an `instance TYPE &a, &b;` declaration inside the
// private section of a class.
type InstanceVariableNode struct {
	baseNode
	Type  TypeNode
	Names []*IdentifierNode
}

func (n *InstanceVariableNode) Accept(v Visitor) { v.VisitInstanceVariable(n) }
func (n *InstanceVariableNode) Children() []Node {
	out := children(n.Type)
	for _, id := range n.Names {
		out = append(out, id)
	}
	return out
}

// ConstantNode is a `constant &NAME = literal;` declaration.
type ConstantNode struct {
	baseNode
	Name  *IdentifierNode
	Value Expression
}

func (n *ConstantNode) Accept(v Visitor) { v.VisitConstant(n) }
func (n *ConstantNode) Children() []Node { return children(Node(n.Name), n.Value) }
func (n *ConstantNode) statementNode()   {}

// ParameterNode is one formal parameter of a method or function.
type ParameterNode struct {
	baseNode
	Name  *IdentifierNode
	Type  TypeNode // nil when undeclared
	IsOut bool     // `out` / `as ... out`: argument must be a variable
}

func (n *ParameterNode) Accept(v Visitor) { v.VisitParameter(n) }
func (n *ParameterNode) Children() []Node { return children(Node(n.Name), n.Type) }

// FunctionNode is a `Function Name(...) Returns T ... End-Function`
// implementation, as found in function libraries and event programs.
type FunctionNode struct {
	baseNode
	Name       string
	NameSpan   token.Span
	Params     []*ParameterNode
	ReturnType TypeNode
	Body       *BlockNode
}

func (n *FunctionNode) Accept(v Visitor) { v.VisitFunction(n) }
func (n *FunctionNode) Children() []Node {
	var out []Node
	for _, p := range n.Params {
		out = append(out, p)
	}
	if n.ReturnType != nil {
		out = append(out, n.ReturnType)
	}
	if n.Body != nil {
		out = append(out, n.Body)
	}
	return out
}

// FunctionDeclareNode is
// `Declare Function Name PeopleCode RECORD.FIELD FieldFormula;` — a function
// defined in another compilation unit, addressed by its record/field/event
// triple.
type FunctionDeclareNode struct {
	baseNode
	Name       string
	NameSpan   token.Span
	RecordName string
	FieldName  string
	EventName  string
}

func (n *FunctionDeclareNode) Accept(v Visitor) { v.VisitFunctionDeclare(n) }
func (n *FunctionDeclareNode) Children() []Node { return nil }
func (n *FunctionDeclareNode) statementNode()   {}

// ProgramVariableNode is a `Global TYPE &x;` or `Component TYPE &x;`
// declaration.
type ProgramVariableNode struct {
	baseNode
	Scope token.Type // token.GLOBAL or token.COMPONENT
	Type  TypeNode
	Names []*IdentifierNode
}

func (n *ProgramVariableNode) Accept(v Visitor) { v.VisitProgramVariable(n) }
func (n *ProgramVariableNode) Children() []Node {
	out := children(n.Type)
	for _, id := range n.Names {
		out = append(out, id)
	}
	return out
}
func (n *ProgramVariableNode) statementNode() {}
