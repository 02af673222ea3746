// Package inference attaches a type to every expression node.
//
// The pass is bottom-up: children are typed before their parents, so each
// rule reads its operands' annotations and never recurses itself. It fails
// open: anything unresolvable becomes types.Unknown, never an aborted pass.
package inference

import (
	"strings"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/scope"
	"github.com/pclint/pclint/internal/typemeta"
	"github.com/pclint/pclint/internal/types"
)

// frameVars maps lower-cased variable names to their declared (or inferred)
// types within one open scope.
type frameVars map[string]types.TypeInfo

// Inferencer is the typing visitor for one compilation unit.
type Inferencer struct {
	scope.ScopedVisitor[frameVars]

	resolver typemeta.Resolver
	cache    *typemeta.Cache

	program *ast.Program
	// unitName is the unit's package-qualified name; %This resolves its
	// members through it.
	unitName string

	// classType/baseType back %This and %Super while inside a class.
	classType types.TypeInfo
	baseType  types.TypeInfo

	// localFunctions indexes the unit's own function implementations.
	localFunctions map[string]*types.FunctionInfo
	// declaredFunctions indexes Declare Function statements.
	declaredFunctions map[string]*types.FunctionInfo

	cancelled func() bool
}

// New builds an Inferencer over the given unit. unitName is the unit's
// package-qualified name. resolver and cache may be nil; cross-unit lookups
// then resolve to Unknown.
func New(program *ast.Program, unitName string, resolver typemeta.Resolver, cache *typemeta.Cache) *Inferencer {
	inf := &Inferencer{
		resolver:          resolver,
		cache:             cache,
		program:           program,
		unitName:          unitName,
		localFunctions:    make(map[string]*types.FunctionInfo),
		declaredFunctions: make(map[string]*types.FunctionInfo),
	}
	inf.InitScoped(inf, nil)
	return inf
}

// Run types the whole unit. cancelled, when non-nil, is polled at statement
// granularity so an abandoned edit stops burning cycles.
func (inf *Inferencer) Run(cancelled func() bool) {
	inf.cancelled = cancelled
	if inf.program == nil {
		return
	}
	for _, f := range inf.program.Functions {
		inf.localFunctions[strings.ToLower(f.Name)] = typemeta.FunctionInfoOf(f)
	}
	for _, d := range inf.program.Declares {
		inf.declaredFunctions[strings.ToLower(d.Name)] = inf.declaredFunctionInfo(d)
	}
	inf.program.Accept(inf)
}

// declaredFunctionInfo resolves a Declare Function's signature from the
// declaring unit's metadata, addressed by its record/field/event triple.
// An unresolvable unit leaves the signature open.
func (inf *Inferencer) declaredFunctionInfo(d *ast.FunctionDeclareNode) *types.FunctionInfo {
	if d.RecordName != "" && d.FieldName != "" && d.EventName != "" {
		unit := d.RecordName + ":" + d.FieldName + ":" + d.EventName
		var fn *types.FunctionInfo
		typemeta.BaseChain(inf.resolver, inf.cache, unit, func(meta *typemeta.TypeMetadata) bool {
			fn, _ = meta.Function(d.Name)
			return false
		})
		if fn != nil {
			return fn
		}
	}
	return &types.FunctionInfo{
		Name:     d.Name,
		Variadic: true,
		Return:   types.FixedReturn(types.Any{}),
	}
}

func (inf *Inferencer) stop() bool {
	return inf.cancelled != nil && inf.cancelled()
}

// declareVar records a variable's type in the innermost open scope.
func (inf *Inferencer) declareVar(name string, t types.TypeInfo) {
	data := inf.Data()
	if *data == nil {
		*data = make(frameVars)
	}
	(*data)[strings.ToLower(name)] = t
}

// lookupVar resolves a variable lexically through the open scopes.
func (inf *Inferencer) lookupVar(name string) (types.TypeInfo, bool) {
	key := strings.ToLower(name)
	var found types.TypeInfo
	ok := false
	inf.EachFrame(func(_ *scope.ScopeContext, data *frameVars) bool {
		if *data == nil {
			return true
		}
		if t, has := (*data)[key]; has {
			found, ok = t, true
			return false
		}
		return true
	})
	return found, ok
}

// metaSource adapts the resolver+cache pair for assignability walks.
func (inf *Inferencer) metaSource() types.MetadataSource {
	return typemeta.MetadataSource{Resolver: inf.resolver, Cache: inf.cache}
}

// resolveClass fetches cross-unit metadata through the shared cache.
func (inf *Inferencer) resolveClass(qualifiedName string) (*typemeta.TypeMetadata, bool) {
	if inf.cache != nil {
		if m, ok := inf.cache.Get(qualifiedName); ok {
			return m, true
		}
	}
	if inf.resolver == nil {
		return nil, false
	}
	m, ok := inf.resolver.Resolve(qualifiedName)
	if ok && inf.cache != nil {
		inf.cache.Set(qualifiedName, m)
	}
	return m, ok
}

// Declaration handling mirrors the registry collector so both passes agree
// on what a name means where.

func (inf *Inferencer) VisitProgramVariable(n *ast.ProgramVariableNode) {
	t := typemeta.TypeFromNode(n.Type)
	for _, name := range n.Names {
		inf.declareVar(name.Name, t)
	}
}

func (inf *Inferencer) VisitLocalVariableDecl(n *ast.LocalVariableDecl) {
	t := typemeta.TypeFromNode(n.Type)
	for _, name := range n.Names {
		inf.declareVar(name.Name, t)
		ast.SetInferredType(name, t)
	}
	if n.Value != nil {
		n.Value.Accept(inf)
	}
}

func (inf *Inferencer) VisitConstant(n *ast.ConstantNode) {
	if n.Value != nil {
		n.Value.Accept(inf)
	}
	if n.Name == nil {
		return
	}
	t := types.Constant{Inner: typemeta.LiteralType(n.Value)}
	inf.declareVar(n.Name.Name, t)
	ast.SetInferredType(n.Name, t)
}

func (inf *Inferencer) VisitInstanceVariable(n *ast.InstanceVariableNode) {
	t := typemeta.TypeFromNode(n.Type)
	for _, name := range n.Names {
		inf.declareVar(name.Name, t)
		ast.SetInferredType(name, t)
	}
}

func (inf *Inferencer) VisitAppClass(n *ast.AppClassNode) {
	qualified := inf.unitName
	if qualified == "" {
		qualified = n.Name
	}
	inf.classType = types.AppClass{QualifiedName: qualified}
	inf.baseType = nil
	switch base := n.Extends.(type) {
	case *ast.AppClassTypeNode:
		inf.baseType = types.AppClass{QualifiedName: base.QualifiedName()}
	case *ast.BuiltInTypeNode:
		inf.baseType = typemeta.BuiltinObjectType(base.Name)
	}
	// Register every class-level declaration before typing any body
	// section, so instance variables and constants resolve regardless of
	// where the body sits relative to the private block.
	inf.PushScope(scope.ScopeClass, n.Name)
	for _, inst := range n.Instances {
		inf.VisitInstanceVariable(inst)
	}
	for _, k := range n.Constants {
		inf.VisitConstant(k)
	}
	for _, m := range n.Methods {
		if m.Implementation != nil {
			m.Implementation.Accept(inf)
		}
	}
	for _, p := range n.Properties {
		if p.Getter != nil {
			p.Getter.Accept(inf)
		}
		if p.Setter != nil {
			p.Setter.Accept(inf)
		}
	}
	inf.PopScope()

	inf.classType = nil
	inf.baseType = nil
}

// Reached only through the interface traversal: VisitAppClass walks class
// bodies itself.
func (inf *Inferencer) VisitMethod(n *ast.MethodNode) {
	if n.Implementation != nil {
		n.Implementation.Accept(inf)
	}
}

func (inf *Inferencer) VisitProperty(n *ast.PropertyNode) {
	if n.Getter != nil {
		n.Getter.Accept(inf)
	}
	if n.Setter != nil {
		n.Setter.Accept(inf)
	}
}

func (inf *Inferencer) VisitParameter(n *ast.ParameterNode) {}

func (inf *Inferencer) VisitMethodImpl(n *ast.MethodImplNode) {
	if inf.stop() {
		return
	}
	inf.PushScope(scope.ScopeKindFor(n.Kind), n.Name)
	for name, t := range inf.implParameters(n) {
		inf.declareVar(name, t)
	}
	if n.Body != nil {
		n.Body.Accept(inf)
	}
	inf.PopScope()
}

func (inf *Inferencer) implParameters(n *ast.MethodImplNode) map[string]types.TypeInfo {
	out := make(map[string]types.TypeInfo)
	switch parent := n.Parent().(type) {
	case *ast.MethodNode:
		for _, p := range parent.Params {
			if p.Name == nil {
				continue
			}
			out[p.Name.Name] = paramType(p)
		}
	case *ast.PropertyNode:
		if n.Kind == ast.ImplSetter {
			out["&NewValue"] = typemeta.TypeFromNode(parent.Type)
		}
	}
	return out
}

func paramType(p *ast.ParameterNode) types.TypeInfo {
	if p.Type == nil {
		return types.Any{}
	}
	return typemeta.TypeFromNode(p.Type)
}

func (inf *Inferencer) VisitFunction(n *ast.FunctionNode) {
	if inf.stop() {
		return
	}
	inf.PushScope(scope.ScopeFunction, n.Name)
	for _, p := range n.Params {
		if p.Name != nil {
			inf.declareVar(p.Name.Name, paramType(p))
		}
	}
	if n.Body != nil {
		n.Body.Accept(inf)
	}
	inf.PopScope()
}

func (inf *Inferencer) VisitCatch(n *ast.CatchNode) {
	if n.Var != nil {
		t := typemeta.TypeFromNode(n.ExceptionType)
		inf.declareVar(n.Var.Name, t)
		ast.SetInferredType(n.Var, t)
	}
	if n.Body != nil {
		n.Body.Accept(inf)
	}
}

func (inf *Inferencer) VisitBlock(n *ast.BlockNode) {
	if inf.stop() {
		return
	}
	inf.BaseVisitor.VisitBlock(n)
}
