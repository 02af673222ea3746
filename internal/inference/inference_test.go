package inference_test

import (
	"strings"
	"testing"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/inference"
	"github.com/pclint/pclint/internal/lexer"
	"github.com/pclint/pclint/internal/parser"
	"github.com/pclint/pclint/internal/pipeline"
	"github.com/pclint/pclint/internal/typemeta"
	"github.com/pclint/pclint/internal/types"
)

func parseSource(t *testing.T, src string) *ast.Program {
	t.Helper()
	ctx := &pipeline.Context{FilePath: "test.ppl", SourceCode: src}
	stream, _ := lexer.Tokenize(src)
	prog := parser.New(stream, ctx).ParseProgram()
	if len(ctx.Errors) > 0 {
		t.Fatalf("fixture does not parse: %v", ctx.Errors)
	}
	return prog
}

func infer(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog := parseSource(t, src)
	inference.New(prog, "", nil, nil).Run(nil)
	return prog
}

// assignValue returns the right-hand side of the i-th main statement, which
// must be an assignment.
func assignValue(t *testing.T, prog *ast.Program, i int) ast.Expression {
	t.Helper()
	if prog.Main == nil || len(prog.Main.Statements) <= i {
		t.Fatal("missing main statement")
	}
	assign, ok := prog.Main.Statements[i].(*ast.AssignmentNode)
	if !ok {
		t.Fatalf("statement %d is %T, want an assignment", i, prog.Main.Statements[i])
	}
	return assign.Value
}

func typeString(t *testing.T, n ast.Node) string {
	t.Helper()
	tp, ok := ast.GetInferredType(n)
	if !ok {
		t.Fatalf("%T carries no inferred type", n)
	}
	return tp.String()
}

func expectType(t *testing.T, n ast.Node, want string) {
	t.Helper()
	if got := typeString(t, n); got != want {
		t.Errorf("inferred %s, want %s", got, want)
	}
}

func expectAnnotation(t *testing.T, prog *ast.Program, code diagnostics.Code) {
	t.Helper()
	for _, a := range ast.CollectTypeErrors(prog) {
		if a.Code == code {
			return
		}
	}
	t.Errorf("no %s annotation attached", code)
}

func expectNoAnnotations(t *testing.T, prog *ast.Program) {
	t.Helper()
	if errs := ast.CollectTypeErrors(prog); len(errs) > 0 {
		t.Errorf("unexpected annotations: %v", errs)
	}
}

func TestLiteralTypes(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{`&a = 42;`, "integer"},
		{`&a = 3.14;`, "number"},
		{`&a = "hi";`, "string"},
		{`&a = True;`, "boolean"},
		{`&a = Null;`, "any"},
	}
	for _, tc := range cases {
		prog := infer(t, tc.src)
		if got := typeString(t, assignValue(t, prog, 0)); got != tc.want {
			t.Errorf("%s: value typed %s, want %s", tc.src, got, tc.want)
		}
	}
}

func TestDeclaredVariableType(t *testing.T) {
	prog := infer(t, "Local number &n;\n&x = &n;")
	expectType(t, assignValue(t, prog, 0), "number")
}

func TestUndeclaredVariableIsUnknown(t *testing.T) {
	prog := infer(t, `&x = &mystery;`)
	if got := typeString(t, assignValue(t, prog, 0)); !strings.HasPrefix(got, "unknown") {
		t.Errorf("undeclared variable typed %s, want unknown", got)
	}
	expectNoAnnotations(t, prog)
}

func TestSystemVariableTypes(t *testing.T) {
	prog := infer(t, "&u = %UserId;\n&s = %Session;")
	expectType(t, assignValue(t, prog, 0), "string")
	expectType(t, assignValue(t, prog, 1), "Session")
}

func TestConstantType(t *testing.T) {
	prog := infer(t, "Constant &MAX = 10;\n&x = &MAX;")
	expectType(t, assignValue(t, prog, 0), "constant integer")
}

// ---- arithmetic and operators ----

func TestConstantArithmetic(t *testing.T) {
	prog := infer(t, "Constant &MAX = 10;\n&x = &MAX + 1;\n&y = - &MAX;")
	expectType(t, assignValue(t, prog, 0), "number")
	expectType(t, assignValue(t, prog, 1), "integer")
	expectNoAnnotations(t, prog)
}

func TestIntegerArithmeticStaysInteger(t *testing.T) {
	prog := infer(t, "Local integer &i;\n&x = &i + 1;")
	expectType(t, assignValue(t, prog, 0), "integer")
}

func TestMixedArithmeticWidens(t *testing.T) {
	prog := infer(t, "Local integer &i;\n&x = &i + 1.5;")
	expectType(t, assignValue(t, prog, 0), "number")
}

func TestComparisonIsBoolean(t *testing.T) {
	prog := infer(t, "Local number &n;\n&ok = &n > 3;")
	expectType(t, assignValue(t, prog, 0), "boolean")
}

func TestConcatenationIsString(t *testing.T) {
	prog := infer(t, "Local number &n;\n&s = \"n=\" | &n;")
	expectType(t, assignValue(t, prog, 0), "string")
	expectNoAnnotations(t, prog)
}

func TestInterpolatedStringIsString(t *testing.T) {
	prog := infer(t, "Local integer &n;\n&s = $\"got {&n} rows\";")
	expectType(t, assignValue(t, prog, 0), "string")
}

func TestTypeCastTakesTargetType(t *testing.T) {
	prog := infer(t, "Local object &o;\n&e = &o As PKG:MODEL:Entity;")
	expectType(t, assignValue(t, prog, 0), "PKG:MODEL:Entity")
}

// ---- T002 — invalid operand type ----

func TestArithmeticOnStringFlagged(t *testing.T) {
	prog := infer(t, "Local string &s;\n&x = &s * 2;")
	expectAnnotation(t, prog, diagnostics.ErrT002)
}

func TestNotWantsBoolean(t *testing.T) {
	prog := infer(t, "Local integer &i;\n&b = Not &i;")
	expectAnnotation(t, prog, diagnostics.ErrT002)
	expectType(t, assignValue(t, prog, 0), "boolean")
}

func TestConcatenatingObjectFlagged(t *testing.T) {
	prog := infer(t, "Local Record &r;\n&s = \"x\" | &r;")
	expectAnnotation(t, prog, diagnostics.ErrT002)
}

func TestOpenOperandsStayQuiet(t *testing.T) {
	prog := infer(t, "Local any &a;\n&x = &a + 1;\n&b = Not &a;")
	expectNoAnnotations(t, prog)
}

// ---- T003 — array indexing ----

func TestArrayIndexReduces(t *testing.T) {
	prog := infer(t, "Local array of array of string &grid;\n&row = &grid[1];\n&cell = &grid[1, 2];")
	expectType(t, assignValue(t, prog, 0), "array of string")
	expectType(t, assignValue(t, prog, 1), "string")
}

func TestIndexingNonArrayFlagged(t *testing.T) {
	prog := infer(t, "Local number &n;\n&x = &n[1];")
	expectAnnotation(t, prog, diagnostics.ErrT003)
}

func TestOverIndexingFlagged(t *testing.T) {
	prog := infer(t, "Local array of string &names;\n&x = &names[1, 2];")
	expectAnnotation(t, prog, diagnostics.ErrT003)
}

func TestIndexingAnyStaysQuiet(t *testing.T) {
	prog := infer(t, "Local any &a;\n&x = &a[1];")
	expectNoAnnotations(t, prog)
	expectType(t, assignValue(t, prog, 0), "any")
}

// ---- member access ----

func TestBuiltinObjectProperty(t *testing.T) {
	prog := infer(t, "Local Record &r;\n&n = &r.Name;")
	expectType(t, assignValue(t, prog, 0), "string")
}

func TestBuiltinObjectMethodChain(t *testing.T) {
	prog := infer(t, "Local Rowset &rs;\n&f = &rs.GetRow(1).GetRecord(Record.VENDOR).GetField(Field.NAME);")
	expectType(t, assignValue(t, prog, 0), "Field")
}

func TestArrayIntrinsics(t *testing.T) {
	prog := infer(t, "Local array of number &v;\n&n = &v.Len;\n&last = &v.Pop();\n&copy = &v.Clone();")
	expectType(t, assignValue(t, prog, 0), "integer")
	expectType(t, assignValue(t, prog, 1), "number")
	expectType(t, assignValue(t, prog, 2), "array of number")
}

func TestUnknownMemberFlagged(t *testing.T) {
	prog := infer(t, "Local Record &r;\n&x = &r.NoSuchThing;")
	expectAnnotation(t, prog, diagnostics.ErrT005)
}

func TestUnresolvedClassMemberStaysQuiet(t *testing.T) {
	// No resolver: the class is opaque, so the member may well exist.
	prog := infer(t, "Local PKG:MODEL:Entity &e;\n&x = &e.Whatever;")
	expectNoAnnotations(t, prog)
}

func TestReferenceExpression(t *testing.T) {
	prog := infer(t, `&r = Record.VENDOR;`)
	expectType(t, assignValue(t, prog, 0), "Record.VENDOR")
}

// ---- calls ----

func TestBuiltinFunctionCall(t *testing.T) {
	prog := infer(t, `&s = Upper("abc");`)
	expectType(t, assignValue(t, prog, 0), "string")
	if _, ok := ast.GetFunctionInfo(assignValue(t, prog, 0)); !ok {
		t.Error("resolved call carries no signature")
	}
}

func TestPolymorphicBuiltins(t *testing.T) {
	prog := infer(t, "Local integer &i;\n&a = Abs(&i);\n&arr = CreateArray(&i);")
	expectType(t, assignValue(t, prog, 0), "integer")
	expectType(t, assignValue(t, prog, 1), "array of integer")
}

func TestLocalFunctionCall(t *testing.T) {
	src := "Function Tally(&n As number) Returns number\n" +
		"Return &n + 1;\n" +
		"End-Function;\n" +
		"&x = Tally(2);"
	prog := infer(t, src)
	expectType(t, assignValue(t, prog, 0), "number")
}

func TestDeclaredFunctionIsOpen(t *testing.T) {
	src := "Declare Function Helper PeopleCode FUNCLIB_X.HELPER FieldFormula;\n" +
		"&x = Helper(1, 2, 3);"
	prog := infer(t, src)
	expectType(t, assignValue(t, prog, 0), "any")
	expectNoAnnotations(t, prog)
}

func TestDeclaredFunctionResolvedFromUnit(t *testing.T) {
	lib := typemeta.NewTypeMetadata("FUNCLIB_X:HELPER:FieldFormula", typemeta.UnitFunctionLibrary)
	lib.Functions["helper"] = &types.FunctionInfo{
		Name:   "Helper",
		Params: []types.ParamInfo{{Name: "&n", Type: types.Primitive{Kind: types.KindNumber}}},
		Return: types.FixedReturn(types.Primitive{Kind: types.KindString}),
	}
	cache := typemeta.NewCache()
	cache.Set("FUNCLIB_X:HELPER:FieldFormula", lib)

	src := "Declare Function Helper PeopleCode FUNCLIB_X.HELPER FieldFormula;\n" +
		"&x = Helper(1);"
	prog := parseSource(t, src)
	inference.New(prog, "", nil, cache).Run(nil)
	expectType(t, assignValue(t, prog, 0), "string")
	fn, ok := ast.GetFunctionInfo(assignValue(t, prog, 0))
	if !ok || fn.Name != "Helper" {
		t.Errorf("declared call resolved to %v, want the unit's Helper", fn)
	}
}

func TestUnresolvedCallStaysUntyped(t *testing.T) {
	prog := infer(t, `&x = SomeRecordFunction(1);`)
	if got := typeString(t, assignValue(t, prog, 0)); !strings.HasPrefix(got, "unknown") {
		t.Errorf("unresolved call typed %s, want unknown", got)
	}
	if _, ok := ast.GetFunctionInfo(assignValue(t, prog, 0)); ok {
		t.Error("unresolved call should carry no signature")
	}
	expectNoAnnotations(t, prog)
}

func TestDefaultMethodCall(t *testing.T) {
	prog := infer(t, "Local Rowset &rs;\n&row = &rs(1);")
	expectType(t, assignValue(t, prog, 0), "Row")
	fn, ok := ast.GetFunctionInfo(assignValue(t, prog, 0))
	if !ok || fn.Name != "GetRow" {
		t.Errorf("default call resolved to %v, want GetRow", fn)
	}
}

func TestDefaultMethodCallOnScalar(t *testing.T) {
	prog := infer(t, "Local number &n;\n&x = &n(1);")
	if got := typeString(t, assignValue(t, prog, 0)); !strings.HasPrefix(got, "unknown") {
		t.Errorf("calling a scalar typed %s, want unknown", got)
	}
}

// ---- classes ----

const classSource = "class Counter\n" +
	"method Counter(&start As integer);\n" +
	"method Bump(&by As integer) Returns integer;\n" +
	"property integer Total readonly;\n" +
	"private\n" +
	"instance integer &count;\n" +
	"end-class;\n" +
	"\n" +
	"method Counter\n" +
	"&count = &start;\n" +
	"end-method;\n" +
	"\n" +
	"method Bump\n" +
	"&count = &count + &by;\n" +
	"Return %This.Total + %This.Bump(0);\n" +
	"end-method;\n"

func inferClass(t *testing.T) *ast.Program {
	t.Helper()
	prog := parseSource(t, classSource)
	cache := typemeta.NewCache()
	cache.Set("PKG:UTIL:Counter", typemeta.Extract(prog, "PKG:UTIL:Counter"))
	inference.New(prog, "PKG:UTIL:Counter", nil, cache).Run(nil)
	return prog
}

func TestInstanceVariableTypedInBodies(t *testing.T) {
	src := "class C\n" +
		"method M() Returns number;\n" +
		"private\n" +
		"instance number &bal;\n" +
		"end-class;\n" +
		"\n" +
		"method M\n" +
		"Return &bal + 1;\n" +
		"end-method;\n"
	prog := parseSource(t, src)
	inference.New(prog, "", nil, nil).Run(nil)
	var ret *ast.BinaryNode
	ast.Walk(prog, func(n ast.Node) bool {
		if b, ok := n.(*ast.BinaryNode); ok {
			ret = b
		}
		return true
	})
	if ret == nil {
		t.Fatal("return expression not found")
	}
	expectType(t, ret, "number")
	expectNoAnnotations(t, prog)
}

func TestThisResolvesOwnMembers(t *testing.T) {
	prog := inferClass(t)
	// Both %This.Total and %This.Bump(0) resolve through the unit's own
	// published surface, so the return expression is fully typed.
	var ret *ast.BinaryNode
	ast.Walk(prog, func(n ast.Node) bool {
		if b, ok := n.(*ast.BinaryNode); ok {
			ret = b
		}
		return true
	})
	if ret == nil {
		t.Fatal("return expression not found")
	}
	expectNoAnnotations(t, prog)
	expectType(t, ret, "integer")
}

func TestMethodParameterTyped(t *testing.T) {
	prog := inferClass(t)
	count := 0
	ast.Walk(prog, func(n ast.Node) bool {
		if id, ok := n.(*ast.IdentifierNode); ok && strings.EqualFold(id.Name, "&by") {
			if tp, ok := ast.GetInferredType(id); ok && tp.String() == "integer" {
				count++
			}
		}
		return true
	})
	if count == 0 {
		t.Error("no use of &by was typed through the parameter declaration")
	}
}

func TestCreateExpression(t *testing.T) {
	prog := infer(t, `&c = create PKG:UTIL:Counter(1);`)
	expectType(t, assignValue(t, prog, 0), "PKG:UTIL:Counter")
}

func TestCreateResolvesConstructor(t *testing.T) {
	classProg := parseSource(t, classSource)
	cache := typemeta.NewCache()
	cache.Set("PKG:UTIL:Counter", typemeta.Extract(classProg, "PKG:UTIL:Counter"))

	prog := parseSource(t, `&c = create PKG:UTIL:Counter(1);`)
	inference.New(prog, "", nil, cache).Run(nil)
	fn, ok := ast.GetFunctionInfo(assignValue(t, prog, 0))
	if !ok || !strings.EqualFold(fn.Name, "Counter") {
		t.Errorf("constructor resolved to %v", fn)
	}
}

func TestSetterNewValueTyped(t *testing.T) {
	src := "class Box\n" +
		"property number Size get set;\n" +
		"private\n" +
		"instance number &size;\n" +
		"end-class;\n" +
		"\n" +
		"get Size\n" +
		"Return &size;\n" +
		"end-get;\n" +
		"\n" +
		"set Size\n" +
		"&size = &NewValue;\n" +
		"end-set;\n"
	prog := parseSource(t, src)
	cache := typemeta.NewCache()
	cache.Set("PKG:UTIL:Box", typemeta.Extract(prog, "PKG:UTIL:Box"))
	inference.New(prog, "PKG:UTIL:Box", nil, cache).Run(nil)

	found := false
	ast.Walk(prog, func(n ast.Node) bool {
		if id, ok := n.(*ast.IdentifierNode); ok && strings.EqualFold(id.Name, "&NewValue") {
			if tp, ok := ast.GetInferredType(id); ok && tp.String() == "number" {
				found = true
			}
		}
		return true
	})
	if !found {
		t.Error("&NewValue inside the setter is not typed as the property")
	}
}

func TestCatchVariableTyped(t *testing.T) {
	src := "try\n&x = 1;\ncatch Exception &err\n&m = &err;\nend-try;"
	prog := infer(t, src)
	found := false
	ast.Walk(prog, func(n ast.Node) bool {
		if id, ok := n.(*ast.IdentifierNode); ok && strings.EqualFold(id.Name, "&err") {
			if tp, ok := ast.GetInferredType(id); ok && tp.String() == "Exception" {
				found = true
			}
		}
		return true
	})
	if !found {
		t.Error("catch variable not typed as its exception type")
	}
}

// ---- unit naming ----

func TestUnitName(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"MY_PKG/Utils/Cache.pcode", "MY_PKG:Utils:Cache"},
		{"deep/tree/MY_PKG/Utils/Cache.pcode", "MY_PKG:Utils:Cache"},
		{`MY_PKG\Utils\Cache.pcode`, "MY_PKG:Utils:Cache"},
		{"Standalone.pcode", "Standalone"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := inference.UnitName(tc.path); got != tc.want {
			t.Errorf("UnitName(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestCancellationStopsTyping(t *testing.T) {
	prog := parseSource(t, "&a = 1;\n&b = 2;")
	inference.New(prog, "", nil, nil).Run(func() bool { return true })
	if _, ok := ast.GetInferredType(assignValue(t, prog, 0)); ok {
		t.Error("cancelled run still typed the main block")
	}
}
