package parser_test

import (
	"strings"
	"testing"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/diagnostics"
)

func expectError(t *testing.T, errs []*diagnostics.DiagnosticError, code diagnostics.Code) {
	t.Helper()
	for _, e := range errs {
		if e.Code == code {
			return
		}
	}
	t.Errorf("expected error %s, got %v", code, errs)
}

func expectNoError(t *testing.T, errs []*diagnostics.DiagnosticError, code diagnostics.Code) {
	t.Helper()
	for _, e := range errs {
		if e.Code == code {
			t.Errorf("unexpected error %s: %s", code, e.Message)
		}
	}
}

// ---- P001 — unexpected token ----

func TestMissingThen(t *testing.T) {
	prog, errs := parse(t, "If &a = 1\n&b = 2;\nEnd-If;")
	expectError(t, errs, diagnostics.ErrP001)
	if prog.Main == nil {
		t.Fatal("recovery lost the main block")
	}
}

func TestMissingEndIfKeyword(t *testing.T) {
	_, errs := parse(t, "If &a = 1 Then\n&b = 2;")
	expectError(t, errs, diagnostics.ErrP001)
}

// ---- P002 — missing terminator ----

func TestMissingSemicolon(t *testing.T) {
	prog, errs := parse(t, `&a = 1 &b = 2;`)
	expectError(t, errs, diagnostics.ErrP002)
	// Both assignments still land in the tree.
	if prog.Main == nil || len(prog.Main.Statements) != 2 {
		t.Fatalf("main = %v, want 2 statements", prog.Main)
	}
}

func TestMissingSemicolonBeforeBlockEndTolerated(t *testing.T) {
	_, errs := parse(t, "If True Then\n&a = 1\nEnd-If;")
	expectNoError(t, errs, diagnostics.ErrP002)
}

// ---- P003 — malformed declaration ----

func TestLocalWithoutVariable(t *testing.T) {
	_, errs := parse(t, `Local string;`)
	expectError(t, errs, diagnostics.ErrP001)
}

func TestInitializerOnMultipleNames(t *testing.T) {
	prog, errs := parse(t, `Local number &a, &b = 1;`)
	expectError(t, errs, diagnostics.ErrP003)
	if len(prog.Locals) != 1 || len(prog.Locals[0].Names) != 2 {
		t.Fatal("declaration should survive with both names")
	}
}

func TestImplementationWithoutDeclaration(t *testing.T) {
	src := "class Thing\nmethod Known();\nend-class;\n\nmethod Unknown\n&x = 1;\nend-method;"
	prog, errs := parse(t, src)
	expectError(t, errs, diagnostics.ErrP003)
	if prog.Class == nil || prog.Class.Name != "Thing" {
		t.Fatal("class declaration should survive")
	}
}

func TestDuplicateImplementation(t *testing.T) {
	src := "class Thing\nmethod Run();\nend-class;\n\n" +
		"method Run\n&x = 1;\nend-method;\n\n" +
		"method Run\n&x = 2;\nend-method;"
	prog, errs := parse(t, src)
	expectError(t, errs, diagnostics.ErrP003)
	if prog.Class.Methods[0].Implementation == nil {
		t.Fatal("first implementation should stay attached")
	}
}

func TestUnexpectedTokenInClassBody(t *testing.T) {
	src := "class Thing\nReturn 1;\nend-class;"
	prog, errs := parse(t, src)
	expectError(t, errs, diagnostics.ErrP003)
	if prog.Class == nil {
		t.Fatal("class should survive a bad member")
	}
}

// ---- P004 — malformed expression ----

func TestGarbageExpression(t *testing.T) {
	prog, errs := parse(t, `&a = * 2;`)
	expectError(t, errs, diagnostics.ErrP004)
	// The statement degrades to an error node instead of vanishing.
	found := false
	ast.Walk(prog, func(n ast.Node) bool {
		if _, ok := n.(*ast.ErrorNode); ok {
			found = true
		}
		return true
	})
	if !found {
		t.Error("expected an ErrorNode placeholder in the tree")
	}
}

func TestRecoveryResumesNextStatement(t *testing.T) {
	prog, errs := parse(t, "&a = * 2;\n&b = 3;")
	expectError(t, errs, diagnostics.ErrP004)
	if prog.Main == nil || len(prog.Main.Statements) < 2 {
		t.Fatalf("main = %v, want the broken and the good statement", prog.Main)
	}
	last := prog.Main.Statements[len(prog.Main.Statements)-1]
	assign, ok := last.(*ast.AssignmentNode)
	if !ok {
		t.Fatal("last statement should parse cleanly after recovery")
	}
	if id, ok := assign.Target.(*ast.IdentifierNode); !ok || id.Name != "&b" {
		t.Errorf("recovered target = %v, want &b", assign.Target)
	}
}

// ---- P005 — stray top-level construct ----

func TestTwoClassesInOneUnit(t *testing.T) {
	src := "class A\nend-class;\n\nclass B\nend-class;"
	prog, errs := parse(t, src)
	expectError(t, errs, diagnostics.ErrP005)
	if prog.Class == nil || prog.Class.Name != "A" {
		t.Fatal("first class should win")
	}
}

func TestMethodBodyOutsideClass(t *testing.T) {
	_, errs := parse(t, "method Orphan\n&x = 1;\nend-method;")
	expectError(t, errs, diagnostics.ErrP005)
}

// ---- P006 — recursion depth limit ----

func TestDeeplyNestedExpression(t *testing.T) {
	depth := 600
	src := "&a = " + strings.Repeat("(", depth) + "1" + strings.Repeat(")", depth) + ";"
	prog, errs := parse(t, src)
	expectError(t, errs, diagnostics.ErrP006)
	if prog == nil {
		t.Fatal("parser must still produce a program")
	}
}

// ---- totality ----

func TestParserIsTotal(t *testing.T) {
	cases := []string{
		"",
		";",
		"= = =",
		"class",
		"If",
		"End-If End-For End-While",
		"&a.&b.&c",
		"create ;",
		"$\"broken {",
		"Local array of;",
		"((((",
	}
	for _, src := range cases {
		prog, _ := parse(t, src)
		if prog == nil {
			t.Errorf("%q: ParseProgram returned nil", src)
		}
	}
}
