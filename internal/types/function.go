package types

import "strings"

// ReturnKind distinguishes the ways a callable's return type is computed.
type ReturnKind int

const (
	// ReturnFixed: the return type is Fixed verbatim.
	ReturnFixed ReturnKind = iota
	// ReturnNone: the callable returns nothing.
	ReturnNone
	// ReturnSameAsReceiver: e.g. Array.Clone().
	ReturnSameAsReceiver
	// ReturnElementOfReceiver: drops one array dimension, e.g. Array.Shift().
	ReturnElementOfReceiver
	// ReturnSameAsFirstArg: e.g. Abs(&n).
	ReturnSameAsFirstArg
	// ReturnArrayOfFirstArg: e.g. CreateArray(&x).
	ReturnArrayOfFirstArg
	// ReturnUnion: one of several fixed types, kept as a Union.
	ReturnUnion
)

// ReturnInfo describes a callable's return type: fixed, polymorphic on the
// receiver or first argument, or a union of fixed alternatives.
type ReturnInfo struct {
	Kind  ReturnKind
	Fixed TypeInfo
	Alts  []TypeInfo
}

func FixedReturn(t TypeInfo) ReturnInfo { return ReturnInfo{Kind: ReturnFixed, Fixed: t} }
func NoReturn() ReturnInfo              { return ReturnInfo{Kind: ReturnNone} }
func UnionReturn(alts ...TypeInfo) ReturnInfo {
	return ReturnInfo{Kind: ReturnUnion, Alts: alts}
}
func PolymorphicReturn(kind ReturnKind) ReturnInfo { return ReturnInfo{Kind: kind} }

// Resolve computes the concrete return type for a call with the given
// receiver and argument types. Missing information degrades to Unknown.
func (r ReturnInfo) Resolve(receiver TypeInfo, args []TypeInfo) TypeInfo {
	switch r.Kind {
	case ReturnFixed:
		if r.Fixed == nil {
			return Unknown{Reason: "missing fixed return type"}
		}
		return r.Fixed
	case ReturnNone:
		return Primitive{Kind: KindVoid}
	case ReturnSameAsReceiver:
		if receiver == nil {
			return Unknown{Reason: "no receiver"}
		}
		return receiver
	case ReturnElementOfReceiver:
		if arr, ok := Unwrap(receiver).(Array); ok {
			return arr.Reduce()
		}
		return Unknown{Reason: "receiver is not an array"}
	case ReturnSameAsFirstArg:
		if len(args) > 0 && args[0] != nil {
			return Unwrap(args[0])
		}
		return Unknown{Reason: "no arguments"}
	case ReturnArrayOfFirstArg:
		if len(args) > 0 && args[0] != nil {
			return Array{Dims: 1, Elem: Unwrap(args[0])}
		}
		return Array{Dims: 1, Elem: Any{}}
	case ReturnUnion:
		return MakeUnion(r.Alts...)
	}
	return Unknown{Reason: "unhandled return kind"}
}

// ParamInfo is one declared parameter of a callable.
type ParamInfo struct {
	Name string
	Type TypeInfo
	// MustBeVariable marks out/by-reference parameters: the argument
	// expression itself has to be assignable.
	MustBeVariable bool
}

// FunctionInfo describes a callable: a builtin function, a builtin object
// method, a user function, or an app-class method.
type FunctionInfo struct {
	Name   string
	Params []ParamInfo
	Return ReturnInfo
	// Variadic marks builtins that accept any number of trailing arguments
	// after the declared ones (e.g. MsgGet substitution values).
	Variadic bool
}

func (f *FunctionInfo) String() string {
	var sb strings.Builder
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Type != nil {
			sb.WriteString(p.Type.String())
			sb.WriteByte(' ')
		}
		sb.WriteString(p.Name)
	}
	if f.Variadic {
		if len(f.Params) > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("...")
	}
	sb.WriteByte(')')
	if f.Return.Kind != ReturnNone {
		sb.WriteString(" Returns ")
		sb.WriteString(f.Return.Resolve(nil, nil).String())
	}
	return sb.String()
}
