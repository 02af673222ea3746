package scope

import (
	"github.com/pclint/pclint/internal/ast"
)

// ScopedVisitor couples AST traversal with scope tracking. It pushes a scope
// (plus a fresh T of per-scope data) on entry to every scope-introducing
// construct and pops on exit. The Exit hook, when set, runs BEFORE the pop,
// so the hook observes the exiting scope as Current() — passes that finalize
// per-scope state (unused-variable checks, symbol emission) depend on that
// ordering.
//
// Embedders call InitScoped with themselves, then override the node visits
// they care about; overrides that cover a scope-introducing node must call
// the ScopedVisitor's method to keep the stack balanced.
type ScopedVisitor[T any] struct {
	ast.BaseVisitor
	Registry *Registry

	// Exit runs before the scope is popped.
	Exit func(s *ScopeContext, data *T)

	frames []frame[T]
}

type frame[T any] struct {
	scope *ScopeContext
	data  T
}

// InitScoped wires dispatch and installs the registry. A nil registry gets a
// fresh one.
func (v *ScopedVisitor[T]) InitScoped(self ast.Visitor, reg *Registry) {
	v.Init(self)
	if reg == nil {
		reg = NewRegistry()
	}
	v.Registry = reg
}

// Current returns the innermost open scope, or the registry's global scope
// when traversal has not begun.
func (v *ScopedVisitor[T]) Current() *ScopeContext {
	if len(v.frames) == 0 {
		return v.Registry.Global
	}
	return v.frames[len(v.frames)-1].scope
}

// Data returns the per-scope payload of the innermost open scope.
func (v *ScopedVisitor[T]) Data() *T {
	if len(v.frames) == 0 {
		return new(T)
	}
	return &v.frames[len(v.frames)-1].data
}

// EachFrame visits the open frames innermost first, stopping when fn
// returns false.
func (v *ScopedVisitor[T]) EachFrame(fn func(s *ScopeContext, data *T) bool) {
	for i := len(v.frames) - 1; i >= 0; i-- {
		if !fn(v.frames[i].scope, &v.frames[i].data) {
			return
		}
	}
}

// EnclosingExecutable walks outward to the nearest method, function,
// accessor or global scope, skipping class scopes. Catch variables and other
// runtime-scoped names land there.
func (v *ScopedVisitor[T]) EnclosingExecutable() *ScopeContext {
	for s := v.Current(); s != nil; s = s.Parent {
		if s.IsExecutable() {
			return s
		}
	}
	return v.Registry.Global
}

// PushScope opens a scope explicitly. Visitors that need to interleave work
// between scope entry and child traversal (parameter injection, say) use
// this with PopScope instead of delegating to the default visits.
func (v *ScopedVisitor[T]) PushScope(kind Kind, name string) {
	v.push(kind, name)
}

// PopScope closes the innermost scope, running the Exit hook first.
func (v *ScopedVisitor[T]) PopScope() {
	v.pop()
}

// ScopeKindFor maps a body section to its scope kind.
func ScopeKindFor(k ast.ImplKind) Kind {
	switch k {
	case ast.ImplGetter:
		return ScopePropertyGetter
	case ast.ImplSetter:
		return ScopePropertySetter
	}
	return ScopeMethod
}

func (v *ScopedVisitor[T]) push(kind Kind, name string) {
	var parent *ScopeContext
	if len(v.frames) > 0 {
		parent = v.frames[len(v.frames)-1].scope
		s := v.Registry.NewScope(kind, name, parent)
		v.frames = append(v.frames, frame[T]{scope: s})
		return
	}
	// The first push reuses the registry's global scope rather than
	// shadowing it.
	v.frames = append(v.frames, frame[T]{scope: v.Registry.Global})
}

func (v *ScopedVisitor[T]) pop() {
	if len(v.frames) == 0 {
		return
	}
	top := &v.frames[len(v.frames)-1]
	if v.Exit != nil {
		v.Exit(top.scope, &top.data)
	}
	v.frames = v.frames[:len(v.frames)-1]
}

func (v *ScopedVisitor[T]) VisitProgram(n *ast.Program) {
	v.push(ScopeGlobal, n.File)
	v.BaseVisitor.VisitProgram(n)
	v.pop()
}

func (v *ScopedVisitor[T]) VisitAppClass(n *ast.AppClassNode) {
	v.push(ScopeClass, n.Name)
	v.BaseVisitor.VisitAppClass(n)
	v.pop()
}

func (v *ScopedVisitor[T]) VisitInterface(n *ast.InterfaceNode) {
	v.push(ScopeClass, n.Name)
	v.BaseVisitor.VisitInterface(n)
	v.pop()
}

func (v *ScopedVisitor[T]) VisitMethodImpl(n *ast.MethodImplNode) {
	v.push(ScopeKindFor(n.Kind), n.Name)
	v.BaseVisitor.VisitMethodImpl(n)
	v.pop()
}

func (v *ScopedVisitor[T]) VisitFunction(n *ast.FunctionNode) {
	v.push(ScopeFunction, n.Name)
	v.BaseVisitor.VisitFunction(n)
	v.pop()
}
