// Package types models the PeopleCode type universe used by the inference
// and checking passes.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// TypeInfo is the interface for all types in our system. The variant set is
// closed: Primitive, Array, AppClass, Union, Reference, Any, Unknown and
// Invalid.
type TypeInfo interface {
	String() string
	typeInfo()
}

// PrimitiveKind enumerates the language-provided scalar and object-root types.
type PrimitiveKind int

const (
	KindString PrimitiveKind = iota
	KindNumber
	KindInteger
	KindFloat
	KindBoolean
	KindDate
	KindTime
	KindDateTime
	KindObject
	KindVoid
)

var primitiveNames = map[PrimitiveKind]string{
	KindString:   "string",
	KindNumber:   "number",
	KindInteger:  "integer",
	KindFloat:    "float",
	KindBoolean:  "boolean",
	KindDate:     "date",
	KindTime:     "time",
	KindDateTime: "datetime",
	KindObject:   "object",
	KindVoid:     "void",
}

// Primitive is a builtin scalar type (or the object root / void).
type Primitive struct {
	Kind PrimitiveKind
}

func (p Primitive) typeInfo() {}
func (p Primitive) String() string {
	if s, ok := primitiveNames[p.Kind]; ok {
		return s
	}
	return fmt.Sprintf("primitive(%d)", int(p.Kind))
}

// Array is an array type of a given dimensionality. Elem may be Any for the
// untyped `array` declaration.
type Array struct {
	Dims int
	Elem TypeInfo
}

func (a Array) typeInfo() {}
func (a Array) String() string {
	var sb strings.Builder
	for i := 0; i < a.Dims; i++ {
		if i > 0 {
			sb.WriteString(" of ")
		}
		sb.WriteString("array")
	}
	if a.Elem != nil && a.Elem != (Any{}) {
		sb.WriteString(" of ")
		sb.WriteString(a.Elem.String())
	}
	return sb.String()
}

// Reduce returns the type obtained by indexing the array once: the element
// type at dimensionality one, a shallower array otherwise.
func (a Array) Reduce() TypeInfo {
	if a.Dims <= 1 {
		if a.Elem == nil {
			return Any{}
		}
		return a.Elem
	}
	return Array{Dims: a.Dims - 1, Elem: a.Elem}
}

// BuiltinObject is a language-provided object type with a fixed
// method/property table (Record, Rowset, Field, ...), as opposed to a scalar
// primitive or a user-defined class.
type BuiltinObject struct {
	Name string
}

func (b BuiltinObject) typeInfo()      {}
func (b BuiltinObject) String() string { return b.Name }

// AppClass is a user-defined application class identified by its
// colon-delimited qualified package path.
type AppClass struct {
	QualifiedName string
}

func (c AppClass) typeInfo()      {}
func (c AppClass) String() string { return c.QualifiedName }

// Name returns the unqualified class name.
func (c AppClass) Name() string {
	if i := strings.LastIndex(c.QualifiedName, ":"); i >= 0 {
		return c.QualifiedName[i+1:]
	}
	return c.QualifiedName
}

// Union is a set of alternative types, produced by builtin functions with
// union return kinds. Alternatives never contain nested unions.
type Union struct {
	Alts []TypeInfo
}

func (u Union) typeInfo() {}
func (u Union) String() string {
	names := make([]string, len(u.Alts))
	for i, a := range u.Alts {
		names[i] = a.String()
	}
	sort.Strings(names)
	return strings.Join(names, " | ")
}

// MakeUnion flattens nested unions, deduplicates alternatives, and collapses
// single-alternative unions to the alternative itself.
func MakeUnion(alts ...TypeInfo) TypeInfo {
	seen := make(map[string]bool)
	var flat []TypeInfo
	var add func(t TypeInfo)
	add = func(t TypeInfo) {
		if t == nil {
			return
		}
		if u, ok := t.(Union); ok {
			for _, a := range u.Alts {
				add(a)
			}
			return
		}
		if !seen[t.String()] {
			seen[t.String()] = true
			flat = append(flat, t)
		}
	}
	for _, a := range alts {
		add(a)
	}
	switch len(flat) {
	case 0:
		return Unknown{}
	case 1:
		return flat[0]
	}
	return Union{Alts: flat}
}

// Reference names a metadata object rather than a runtime value, e.g. the
// `Record.VENDOR` in `CreateRecord(Record.VENDOR)`. Category is the reference
// keyword (Record, Field, Page, ...).
type Reference struct {
	Category string
	Target   string
}

func (r Reference) typeInfo() {}
func (r Reference) String() string {
	if r.Target == "" {
		return r.Category
	}
	return r.Category + "." + r.Target
}

// Any is the explicit `any` type: assignment-compatible with everything.
type Any struct{}

func (Any) typeInfo()      {}
func (Any) String() string { return "any" }

// Unknown marks an unresolved type. Like Any it is compatible with
// everything; the checker fails open so one missing cross-unit dependency
// never cascades into false positives.
type Unknown struct {
	Reason string
}

func (Unknown) typeInfo() {}
func (u Unknown) String() string {
	return "unknown"
}

// Invalid carries a human-readable reason for a structurally broken type. It
// only ever exists transiently, to synthesize an error message before the
// producing pass downgrades it to Unknown.
type Invalid struct {
	Reason string
}

func (Invalid) typeInfo() {}
func (i Invalid) String() string {
	return "invalid: " + i.Reason
}

// Constant wraps the type of a declared constant.
type Constant struct {
	Inner TypeInfo
}

func (Constant) typeInfo() {}
func (c Constant) String() string {
	if c.Inner == nil {
		return "constant"
	}
	return "constant " + c.Inner.String()
}

// Unwrap strips a Constant wrapper, if present.
func Unwrap(t TypeInfo) TypeInfo {
	if c, ok := t.(Constant); ok && c.Inner != nil {
		return c.Inner
	}
	return t
}

// IsOpen reports whether t is Any or Unknown, the two fail-open types.
func IsOpen(t TypeInfo) bool {
	switch t.(type) {
	case Any, Unknown:
		return true
	}
	return false
}

// IsNumeric reports whether t is one of the mutually-assignable numeric
// primitives.
func IsNumeric(t TypeInfo) bool {
	p, ok := t.(Primitive)
	if !ok {
		return false
	}
	switch p.Kind {
	case KindNumber, KindInteger, KindFloat:
		return true
	}
	return false
}

// CommonNumeric implements the promotion rule: Integer and Number are
// mutually assignable and normalize to Number when combined.
func CommonNumeric(a, b TypeInfo) TypeInfo {
	pa, aok := a.(Primitive)
	pb, bok := b.(Primitive)
	if aok && bok && pa.Kind == pb.Kind {
		return pa
	}
	return Primitive{Kind: KindNumber}
}
