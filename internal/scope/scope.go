// Package scope tracks every variable a compilation unit declares or touches.
//
// The Registry is historical: scopes accumulate for the lifetime of the
// analysis and are never removed, so refactoring queries can see the whole
// unit after the traversal stack has long since unwound.
package scope

import (
	"strings"

	"github.com/google/uuid"

	"github.com/pclint/pclint/internal/token"
	"github.com/pclint/pclint/internal/types"
)

// Kind classifies a scope.
type Kind int

const (
	ScopeGlobal Kind = iota
	ScopeClass
	ScopeMethod
	ScopeFunction
	ScopePropertyGetter
	ScopePropertySetter
)

func (k Kind) String() string {
	switch k {
	case ScopeClass:
		return "class"
	case ScopeMethod:
		return "method"
	case ScopeFunction:
		return "function"
	case ScopePropertyGetter:
		return "getter"
	case ScopePropertySetter:
		return "setter"
	}
	return "global"
}

// ScopeContext is one lexical scope. Identity is the ID, not the name: two
// methods may share a name across classes but never an ID.
type ScopeContext struct {
	ID       uuid.UUID
	Kind     Kind
	Name     string
	Parent   *ScopeContext
	Children []*ScopeContext
}

// IsExecutable reports whether the scope holds runnable statements (methods,
// functions, accessors and the global main block, but not class bodies).
func (s *ScopeContext) IsExecutable() bool {
	return s.Kind != ScopeClass
}

// VarKind classifies a variable declaration.
type VarKind int

const (
	VarLocal VarKind = iota
	VarParameter
	VarInstance
	VarGlobal
	VarComponent
	VarConstant
	VarException
	VarProperty
)

func (k VarKind) String() string {
	switch k {
	case VarParameter:
		return "parameter"
	case VarInstance:
		return "instance"
	case VarGlobal:
		return "global"
	case VarComponent:
		return "component"
	case VarConstant:
		return "constant"
	case VarException:
		return "exception"
	case VarProperty:
		return "property"
	}
	return "local"
}

// RefKind classifies one occurrence of a variable.
type RefKind int

const (
	RefRead RefKind = iota
	RefWrite
	RefDeclaration
	RefParameterAnnotation
)

// VariableReference is one textual occurrence of a variable.
type VariableReference struct {
	Kind  RefKind
	Span  token.Span
	Scope *ScopeContext
	// Context carries a short description of the surrounding construct,
	// e.g. "assignment" or "method SetTotal".
	Context string
}

// VariableInfo is everything known about one declared variable.
type VariableInfo struct {
	Name         string
	DeclaredType string // as written, e.g. "array of string"; empty if inferred
	Type         types.TypeInfo
	Kind         VarKind
	Scope        *ScopeContext
	DeclSpan     token.Span
	Implicit     bool // first use without a declaration
	References   []VariableReference
}

// SafeToRefactor reports whether renaming the variable is provably local:
// only locals and parameters in a non-global scope qualify, since anything
// else may be referenced from other units the analyzer cannot see.
func (v *VariableInfo) SafeToRefactor() bool {
	if v.Kind != VarLocal && v.Kind != VarParameter {
		return false
	}
	return v.Scope != nil && v.Scope.Kind != ScopeGlobal
}

// ReadCount returns the number of value-reading references.
func (v *VariableInfo) ReadCount() int {
	n := 0
	for _, r := range v.References {
		if r.Kind == RefRead {
			n++
		}
	}
	return n
}

// Registry holds every scope and variable of one compilation unit. Variable
// names are matched case-insensitively, following the language.
type Registry struct {
	Global *ScopeContext

	scopes []*ScopeContext
	vars   map[uuid.UUID]map[string]*VariableInfo
	order  []*VariableInfo
}

func NewRegistry() *Registry {
	r := &Registry{vars: make(map[uuid.UUID]map[string]*VariableInfo)}
	r.Global = r.NewScope(ScopeGlobal, "", nil)
	return r
}

// NewScope opens a scope under parent and records it permanently.
func (r *Registry) NewScope(kind Kind, name string, parent *ScopeContext) *ScopeContext {
	s := &ScopeContext{ID: uuid.New(), Kind: kind, Name: name, Parent: parent}
	if parent != nil {
		parent.Children = append(parent.Children, s)
	}
	r.scopes = append(r.scopes, s)
	r.vars[s.ID] = make(map[string]*VariableInfo)
	return s
}

// Declare registers a variable in the given scope. Redeclaration returns the
// existing record so references keep accumulating on one entry.
func (r *Registry) Declare(s *ScopeContext, info *VariableInfo) *VariableInfo {
	key := strings.ToLower(info.Name)
	if existing, ok := r.vars[s.ID][key]; ok {
		return existing
	}
	info.Scope = s
	r.vars[s.ID][key] = info
	r.order = append(r.order, info)
	return info
}

// Lookup resolves a name by walking from the given scope to the root.
func (r *Registry) Lookup(name string, from *ScopeContext) (*VariableInfo, bool) {
	key := strings.ToLower(name)
	for s := from; s != nil; s = s.Parent {
		if v, ok := r.vars[s.ID][key]; ok {
			return v, true
		}
	}
	return nil, false
}

// DeclaredIn returns the variables declared directly in the scope, in
// declaration order.
func (r *Registry) DeclaredIn(s *ScopeContext) []*VariableInfo {
	var out []*VariableInfo
	for _, v := range r.order {
		if v.Scope == s {
			out = append(out, v)
		}
	}
	return out
}

// Accessible returns every variable visible from the scope, innermost first.
// A name shadowed by an inner declaration appears once.
func (r *Registry) Accessible(from *ScopeContext) []*VariableInfo {
	seen := make(map[string]bool)
	var out []*VariableInfo
	for s := from; s != nil; s = s.Parent {
		for _, v := range r.DeclaredIn(s) {
			key := strings.ToLower(v.Name)
			if !seen[key] {
				seen[key] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// Unused returns declared variables that are never read. Implicit
// declarations are excluded; they are their own finding.
func (r *Registry) Unused() []*VariableInfo {
	var out []*VariableInfo
	for _, v := range r.order {
		if v.Kind == VarProperty {
			// Part of the class surface; other units read it.
			continue
		}
		if !v.Implicit && v.ReadCount() == 0 {
			out = append(out, v)
		}
	}
	return out
}

// All returns every variable in declaration order.
func (r *Registry) All() []*VariableInfo {
	return r.order
}

// Scopes returns every scope ever opened, in creation order.
func (r *Registry) Scopes() []*ScopeContext {
	return r.scopes
}

// AddReference appends a reference to the variable record.
func (r *Registry) AddReference(v *VariableInfo, ref VariableReference) {
	v.References = append(v.References, ref)
}
