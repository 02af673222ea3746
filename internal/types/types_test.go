package types_test

import (
	"testing"

	"github.com/pclint/pclint/internal/types"
)

// baseMap is a MetadataSource backed by a name → base-class map.
type baseMap map[string]string

func (m baseMap) BaseOf(name string) (string, bool) {
	b, ok := m[name]
	return b, ok
}

func prim(k types.PrimitiveKind) types.Primitive { return types.Primitive{Kind: k} }

func assignable(t *testing.T, target, value types.TypeInfo, meta types.MetadataSource, want bool) {
	t.Helper()
	if got := types.AssignableTo(target, value, meta); got != want {
		t.Errorf("AssignableTo(%s, %s) = %v, want %v", target, value, got, want)
	}
}

func TestPrimitiveAssignability(t *testing.T) {
	assignable(t, prim(types.KindString), prim(types.KindString), nil, true)
	assignable(t, prim(types.KindString), prim(types.KindNumber), nil, false)
	assignable(t, prim(types.KindBoolean), prim(types.KindString), nil, false)
}

func TestNumericWidening(t *testing.T) {
	// The numeric kinds accept each other; the runtime converts freely.
	kinds := []types.PrimitiveKind{types.KindNumber, types.KindInteger, types.KindFloat}
	for _, target := range kinds {
		for _, value := range kinds {
			assignable(t, prim(target), prim(value), nil, true)
		}
	}
	assignable(t, prim(types.KindInteger), prim(types.KindString), nil, false)
}

func TestDateIntoDateTime(t *testing.T) {
	assignable(t, prim(types.KindDateTime), prim(types.KindDate), nil, true)
	assignable(t, prim(types.KindDate), prim(types.KindDateTime), nil, false)
}

func TestOpenTypesAlwaysFit(t *testing.T) {
	assignable(t, prim(types.KindString), types.Any{}, nil, true)
	assignable(t, types.Any{}, prim(types.KindString), nil, true)
	assignable(t, prim(types.KindString), types.Unknown{Reason: "x"}, nil, true)
	assignable(t, types.Unknown{}, types.Array{Dims: 1}, nil, true)
}

func TestObjectIsTheRootOfNonScalars(t *testing.T) {
	obj := prim(types.KindObject)
	assignable(t, obj, types.AppClass{QualifiedName: "PKG:A"}, nil, true)
	assignable(t, obj, types.Array{Dims: 1, Elem: prim(types.KindString)}, nil, true)
	assignable(t, obj, types.BuiltinObject{Name: "Rowset"}, nil, true)
	assignable(t, obj, prim(types.KindString), nil, false)
}

func TestArrayAssignability(t *testing.T) {
	strings1 := types.Array{Dims: 1, Elem: prim(types.KindString)}
	strings2 := types.Array{Dims: 2, Elem: prim(types.KindString)}
	numbers1 := types.Array{Dims: 1, Elem: prim(types.KindNumber)}
	untyped := types.Array{Dims: 1}

	assignable(t, strings1, strings1, nil, true)
	assignable(t, strings1, strings2, nil, false)
	assignable(t, strings1, numbers1, nil, false)
	// The untyped `array` matches any element type at the same depth.
	assignable(t, untyped, strings1, nil, true)
	assignable(t, strings1, untyped, nil, true)
	assignable(t, strings1, prim(types.KindString), nil, false)
}

func TestAppClassChain(t *testing.T) {
	meta := baseMap{
		"PKG:Sub":  "PKG:Mid",
		"PKG:Mid":  "PKG:Base",
		"PKG:Base": "",
	}
	base := types.AppClass{QualifiedName: "PKG:Base"}
	mid := types.AppClass{QualifiedName: "PKG:Mid"}
	sub := types.AppClass{QualifiedName: "PKG:Sub"}

	assignable(t, base, sub, meta, true)
	assignable(t, base, mid, meta, true)
	assignable(t, sub, base, meta, false)
	assignable(t, mid, types.AppClass{QualifiedName: "pkg:mid"}, nil, true)
	// Unresolvable chains fail closed.
	assignable(t, base, types.AppClass{QualifiedName: "OTHER:Cls"}, meta, false)
}

func TestClassChainCycleTerminates(t *testing.T) {
	meta := baseMap{"PKG:A": "PKG:B", "PKG:B": "PKG:A"}
	a := types.AppClass{QualifiedName: "PKG:A"}
	assignable(t, types.AppClass{QualifiedName: "PKG:C"}, a, meta, false)
}

func TestBuiltinObjectAssignability(t *testing.T) {
	assignable(t, types.BuiltinObject{Name: "Rowset"}, types.BuiltinObject{Name: "rowset"}, nil, true)
	assignable(t, types.BuiltinObject{Name: "Rowset"}, types.BuiltinObject{Name: "Record"}, nil, false)
}

func TestReferenceAssignability(t *testing.T) {
	rec := types.Reference{Category: "Record", Target: "JOB"}
	assignable(t, rec, types.Reference{Category: "record", Target: "EMPL"}, nil, true)
	assignable(t, rec, types.Reference{Category: "Field", Target: "EMPLID"}, nil, false)
}

func TestUnionAssignability(t *testing.T) {
	strOrNum := types.MakeUnion(prim(types.KindString), prim(types.KindNumber))
	// A union value fits if any alternative fits.
	assignable(t, prim(types.KindString), strOrNum, nil, true)
	assignable(t, prim(types.KindBoolean), strOrNum, nil, false)
	// A union target accepts any alternative.
	assignable(t, strOrNum, prim(types.KindNumber), nil, true)
	assignable(t, strOrNum, prim(types.KindBoolean), nil, false)
}

func TestConstantUnwraps(t *testing.T) {
	c := types.Constant{Inner: prim(types.KindNumber)}
	assignable(t, prim(types.KindInteger), c, nil, true)
	assignable(t, c, prim(types.KindInteger), nil, true)
	assignable(t, prim(types.KindString), c, nil, false)
}

func TestIsOpen(t *testing.T) {
	if !types.IsOpen(types.Any{}) || !types.IsOpen(types.Unknown{}) {
		t.Error("Any and Unknown are open")
	}
	if types.IsOpen(prim(types.KindString)) {
		t.Error("string is not open")
	}
	if !types.IsOpen(types.Unwrap(types.Constant{Inner: types.Any{}})) {
		t.Error("unwrapping a constant of an open type yields an open type")
	}
}

func TestCommonNumeric(t *testing.T) {
	got := types.CommonNumeric(prim(types.KindInteger), prim(types.KindInteger))
	if p, ok := got.(types.Primitive); !ok || p.Kind != types.KindInteger {
		t.Errorf("integer+integer = %s, want integer", got)
	}
	got = types.CommonNumeric(prim(types.KindInteger), prim(types.KindFloat))
	if p, ok := got.(types.Primitive); !ok || p.Kind != types.KindNumber {
		t.Errorf("integer+float = %s, want number", got)
	}
}

func TestArrayReduce(t *testing.T) {
	grid := types.Array{Dims: 2, Elem: prim(types.KindString)}
	row := grid.Reduce()
	if arr, ok := row.(types.Array); !ok || arr.Dims != 1 {
		t.Fatalf("reduce(2-dim) = %s, want a 1-dim array", row)
	}
	elem := row.(types.Array).Reduce()
	if p, ok := elem.(types.Primitive); !ok || p.Kind != types.KindString {
		t.Errorf("reduce(1-dim) = %s, want string", elem)
	}
}

func TestMakeUnionCollapses(t *testing.T) {
	if got := types.MakeUnion(prim(types.KindString)); got.String() != "string" {
		t.Errorf("single-alternative union = %s, want string", got)
	}
	u := types.MakeUnion(prim(types.KindString), prim(types.KindString), prim(types.KindNumber))
	if un, ok := u.(types.Union); !ok || len(un.Alts) != 2 {
		t.Errorf("duplicate alternatives survived: %s", u)
	}
}

func TestReturnResolve(t *testing.T) {
	rs := types.BuiltinObject{Name: "Rowset"}
	arr := types.Array{Dims: 1, Elem: prim(types.KindString)}

	cases := []struct {
		name     string
		ret      types.ReturnInfo
		receiver types.TypeInfo
		args     []types.TypeInfo
		want     string
	}{
		{"fixed", types.FixedReturn(prim(types.KindBoolean)), nil, nil, "boolean"},
		{"none", types.NoReturn(), nil, nil, "void"},
		{"same as receiver", types.PolymorphicReturn(types.ReturnSameAsReceiver), rs, nil, "Rowset"},
		{"element of receiver", types.PolymorphicReturn(types.ReturnElementOfReceiver), arr, nil, "string"},
		{"same as first arg", types.PolymorphicReturn(types.ReturnSameAsFirstArg), nil,
			[]types.TypeInfo{prim(types.KindFloat)}, "float"},
		{"array of first arg", types.PolymorphicReturn(types.ReturnArrayOfFirstArg), nil,
			[]types.TypeInfo{prim(types.KindNumber)}, "array of number"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.ret.Resolve(tc.receiver, tc.args)
			if got.String() != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}
}

func TestReturnResolveDegradesToUnknown(t *testing.T) {
	got := types.PolymorphicReturn(types.ReturnElementOfReceiver).Resolve(prim(types.KindString), nil)
	if _, ok := got.(types.Unknown); !ok {
		t.Errorf("non-array receiver should degrade to Unknown, got %s", got)
	}
	got = types.PolymorphicReturn(types.ReturnSameAsFirstArg).Resolve(nil, nil)
	if _, ok := got.(types.Unknown); !ok {
		t.Errorf("missing argument should degrade to Unknown, got %s", got)
	}
}

func TestFunctionInfoString(t *testing.T) {
	fn := &types.FunctionInfo{
		Name: "Deposit",
		Params: []types.ParamInfo{
			{Name: "&amount", Type: prim(types.KindNumber)},
		},
		Return: types.FixedReturn(prim(types.KindNumber)),
	}
	want := "Deposit(number &amount) Returns number"
	if got := fn.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
