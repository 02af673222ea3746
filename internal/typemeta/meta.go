// Package typemeta holds per-unit type metadata: what a class, interface or
// function library exposes, where it comes from (local extraction, builtin
// tables, or an injected cross-unit resolver), and the shared cache in front
// of it all.
package typemeta

import (
	"strings"

	"github.com/pclint/pclint/internal/types"
)

// UnitKind classifies a compilation unit.
type UnitKind int

const (
	UnitAppClass UnitKind = iota
	UnitInterface
	UnitFunctionLibrary
)

func (k UnitKind) String() string {
	switch k {
	case UnitInterface:
		return "interface"
	case UnitFunctionLibrary:
		return "function library"
	}
	return "application class"
}

// TypeMetadata describes one compilation unit's surface.
type TypeMetadata struct {
	QualifiedName string
	Kind          UnitKind
	BaseClass     string // qualified name, empty if none
	BaseIsBuiltin bool   // base is a builtin object type, not an app class
	Interface     string // implemented interface, empty if none

	// Member tables are keyed by lower-cased name; PeopleCode member lookup
	// is case-insensitive.
	Methods    map[string]*types.FunctionInfo
	Properties map[string]types.TypeInfo
	Instance   map[string]types.TypeInfo
	Functions  map[string]*types.FunctionInfo // function libraries only

	Constructor *types.FunctionInfo
}

func NewTypeMetadata(qualifiedName string, kind UnitKind) *TypeMetadata {
	return &TypeMetadata{
		QualifiedName: qualifiedName,
		Kind:          kind,
		Methods:       make(map[string]*types.FunctionInfo),
		Properties:    make(map[string]types.TypeInfo),
		Instance:      make(map[string]types.TypeInfo),
		Functions:     make(map[string]*types.FunctionInfo),
	}
}

// Method returns the named method, case-insensitively.
func (m *TypeMetadata) Method(name string) (*types.FunctionInfo, bool) {
	f, ok := m.Methods[strings.ToLower(name)]
	return f, ok
}

// Property returns the named property or instance variable.
func (m *TypeMetadata) Property(name string) (types.TypeInfo, bool) {
	key := strings.ToLower(name)
	if t, ok := m.Properties[key]; ok {
		return t, true
	}
	t, ok := m.Instance[key]
	return t, ok
}

// Function returns the named library function.
func (m *TypeMetadata) Function(name string) (*types.FunctionInfo, bool) {
	f, ok := m.Functions[strings.ToLower(name)]
	return f, ok
}

// Resolver supplies cross-unit metadata. Implementations must be
// synchronous, side-effect-free and safe to call repeatedly; caching is the
// caller's (or the shared Cache's) responsibility.
type Resolver interface {
	Resolve(qualifiedName string) (*TypeMetadata, bool)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(qualifiedName string) (*TypeMetadata, bool)

func (f ResolverFunc) Resolve(qualifiedName string) (*TypeMetadata, bool) {
	return f(qualifiedName)
}

// ChainResolver consults each resolver in order.
type ChainResolver []Resolver

func (c ChainResolver) Resolve(qualifiedName string) (*TypeMetadata, bool) {
	for _, r := range c {
		if r == nil {
			continue
		}
		if m, ok := r.Resolve(qualifiedName); ok {
			return m, true
		}
	}
	return nil, false
}

// BaseChain walks the inheritance chain starting at qualifiedName, calling
// visit for each metadata record found, until visit returns false or the
// chain is exhausted. A visited set guards against metadata cycles.
func BaseChain(r Resolver, cache *Cache, qualifiedName string, visit func(*TypeMetadata) bool) {
	visited := make(map[string]bool)
	cur := qualifiedName
	for cur != "" {
		key := strings.ToLower(cur)
		if visited[key] {
			return
		}
		visited[key] = true
		meta, ok := lookup(r, cache, cur)
		if !ok {
			return
		}
		if !visit(meta) {
			return
		}
		if meta.BaseIsBuiltin {
			return
		}
		cur = meta.BaseClass
	}
}

func lookup(r Resolver, cache *Cache, qualifiedName string) (*TypeMetadata, bool) {
	if cache != nil {
		if m, ok := cache.Get(qualifiedName); ok {
			return m, true
		}
	}
	if r == nil {
		return nil, false
	}
	m, ok := r.Resolve(qualifiedName)
	if ok && cache != nil {
		cache.Set(qualifiedName, m)
	}
	return m, ok
}

// MetadataSource adapts a resolver (+cache) to the narrow base-class lookup
// the assignability rules need.
type MetadataSource struct {
	Resolver Resolver
	Cache    *Cache
}

func (s MetadataSource) BaseOf(qualifiedName string) (string, bool) {
	meta, ok := lookup(s.Resolver, s.Cache, qualifiedName)
	if !ok || meta.BaseIsBuiltin || meta.BaseClass == "" {
		return "", false
	}
	return meta.BaseClass, true
}
