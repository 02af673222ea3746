package types

import "strings"

// MetadataSource answers base-class queries during assignability checks. The
// checker adapts the cross-unit metadata resolver to this interface so this
// package stays free of resolver plumbing.
type MetadataSource interface {
	// BaseOf returns the qualified base-class name of the named class, if it
	// has one.
	BaseOf(qualifiedName string) (string, bool)
}

// AssignableTo reports whether a value of type `value` may be assigned to a
// target of type `target`. The rules fail open: Any and Unknown on either
// side are always compatible.
func AssignableTo(target, value TypeInfo, meta MetadataSource) bool {
	target = Unwrap(target)
	value = Unwrap(value)
	if target == nil || value == nil {
		return true
	}
	if IsOpen(target) || IsOpen(value) {
		return true
	}

	if u, ok := value.(Union); ok {
		// A union value fits if any alternative fits: builtin functions with
		// union returns are usable wherever one branch would be.
		for _, alt := range u.Alts {
			if AssignableTo(target, alt, meta) {
				return true
			}
		}
		return false
	}
	if u, ok := target.(Union); ok {
		for _, alt := range u.Alts {
			if AssignableTo(alt, value, meta) {
				return true
			}
		}
		return false
	}

	switch t := target.(type) {
	case Primitive:
		return primitiveAccepts(t, value)
	case Array:
		v, ok := value.(Array)
		if !ok {
			return false
		}
		if v.Dims != t.Dims {
			return false
		}
		if t.Elem == nil || v.Elem == nil {
			return true
		}
		return AssignableTo(t.Elem, v.Elem, meta)
	case AppClass:
		v, ok := value.(AppClass)
		if !ok {
			return false
		}
		return classExtends(v.QualifiedName, t.QualifiedName, meta)
	case BuiltinObject:
		v, ok := value.(BuiltinObject)
		return ok && strings.EqualFold(v.Name, t.Name)
	case Reference:
		v, ok := value.(Reference)
		return ok && strings.EqualFold(v.Category, t.Category)
	case Constant:
		return AssignableTo(t.Inner, value, meta)
	}
	return target.String() == value.String()
}

func primitiveAccepts(target Primitive, value TypeInfo) bool {
	switch target.Kind {
	case KindObject:
		// Object is the root of every non-scalar value.
		switch value.(type) {
		case AppClass, Array, BuiltinObject:
			return true
		}
		if p, ok := value.(Primitive); ok {
			return p.Kind == KindObject
		}
		return false
	case KindNumber, KindInteger, KindFloat:
		return IsNumeric(value)
	case KindDateTime:
		if p, ok := value.(Primitive); ok {
			// A date fits in a datetime slot; the runtime widens it.
			return p.Kind == KindDateTime || p.Kind == KindDate
		}
		return false
	}
	p, ok := value.(Primitive)
	return ok && p.Kind == target.Kind
}

// classExtends walks the base-class chain of `sub` looking for `base`, with a
// visited set guarding against metadata cycles.
func classExtends(sub, base string, meta MetadataSource) bool {
	if strings.EqualFold(sub, base) {
		return true
	}
	if meta == nil {
		return false
	}
	visited := map[string]bool{}
	cur := sub
	for {
		if visited[cur] {
			return false
		}
		visited[cur] = true
		next, ok := meta.BaseOf(cur)
		if !ok || next == "" {
			return false
		}
		if strings.EqualFold(next, base) {
			return true
		}
		cur = next
	}
}
