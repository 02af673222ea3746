package directive_test

import (
	"testing"

	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/directive"
	"github.com/pclint/pclint/internal/lexer"
	"github.com/pclint/pclint/internal/token"
)

// evaluate lexes src and resolves its directive blocks against the given
// tools release, returning the surviving code-channel lexemes.
func evaluate(t *testing.T, release, src string) ([]string, []*diagnostics.DiagnosticError) {
	t.Helper()
	stream, lexErrs := lexer.Tokenize(src)
	if len(lexErrs) > 0 {
		t.Fatalf("lexer errors in fixture: %v", lexErrs)
	}
	eval, err := directive.NewEvaluator(release)
	if err != nil {
		t.Fatalf("NewEvaluator(%q): %v", release, err)
	}
	out, errs := eval.Apply(stream.AllTokens())
	var lexemes []string
	for _, tok := range out {
		if tok.Channel != token.ChannelCode || tok.Type == token.EOF {
			continue
		}
		lexemes = append(lexemes, tok.Lexeme)
	}
	return lexemes, errs
}

func expectLexemes(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("lexeme %d = %q, want %q", i, got[i], want[i])
		}
	}
}

const block = "#If #ToolsRel >= 8.54 #Then\n&new = 1;\n#Else\n&old = 1;\n#End-If"

func TestSelectsThenBranch(t *testing.T) {
	got, errs := evaluate(t, "8.55", block)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	expectLexemes(t, got, []string{"&new", "=", "1", ";"})
}

func TestSelectsElseBranch(t *testing.T) {
	got, errs := evaluate(t, "8.50", block)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	expectLexemes(t, got, []string{"&old", "=", "1", ";"})
}

func TestNoReleasePrefersElse(t *testing.T) {
	got, errs := evaluate(t, "", block)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	expectLexemes(t, got, []string{"&old", "=", "1", ";"})
}

func TestNoReleaseNoElseKeepsThen(t *testing.T) {
	src := "#If #ToolsRel >= 8.54 #Then\n&new = 1;\n#End-If"
	got, _ := evaluate(t, "", src)
	expectLexemes(t, got, []string{"&new", "=", "1", ";"})
}

func TestComparisonOperators(t *testing.T) {
	cases := []struct {
		op      string
		release string
		taken   bool
	}{
		{"<", "8.53", true},
		{"<", "8.54", false},
		{"<=", "8.54", true},
		{"=", "8.54", true},
		{"=", "8.55", false},
		{">=", "8.54", true},
		{">", "8.54", false},
		{">", "8.55", true},
		{"<>", "8.55", true},
		{"<>", "8.54", false},
	}
	for _, tc := range cases {
		src := "#If #ToolsRel " + tc.op + " 8.54 #Then\n&yes = 1;\n#Else\n&no = 1;\n#End-If"
		got, errs := evaluate(t, tc.release, src)
		if len(errs) > 0 {
			t.Fatalf("%s %s: unexpected errors: %v", tc.op, tc.release, errs)
		}
		want := "&no"
		if tc.taken {
			want = "&yes"
		}
		if len(got) == 0 || got[0] != want {
			t.Errorf("release %s, op %s: got %v, want branch %s", tc.release, tc.op, got, want)
		}
	}
}

func TestReversedCondition(t *testing.T) {
	// literal op #ToolsRel flips the comparison.
	src := "#If 8.54 <= #ToolsRel #Then\n&yes = 1;\n#Else\n&no = 1;\n#End-If"
	got, _ := evaluate(t, "8.55", src)
	expectLexemes(t, got, []string{"&yes", "=", "1", ";"})
}

func TestQuotedReleaseLiteral(t *testing.T) {
	src := "#If #ToolsRel >= \"8.54\" #Then\n&yes = 1;\n#Else\n&no = 1;\n#End-If"
	got, _ := evaluate(t, "8.55", src)
	expectLexemes(t, got, []string{"&yes", "=", "1", ";"})
}

func TestThreePartRelease(t *testing.T) {
	src := "#If #ToolsRel >= 8.54.27 #Then\n&yes = 1;\n#Else\n&no = 1;\n#End-If"
	got, _ := evaluate(t, "8.54.30", src)
	expectLexemes(t, got, []string{"&yes", "=", "1", ";"})
}

func TestNestedBlocks(t *testing.T) {
	src := "#If #ToolsRel >= 8.50 #Then\n" +
		"#If #ToolsRel >= 8.60 #Then\n&inner = 1;\n#Else\n&mid = 1;\n#End-If\n" +
		"#Else\n&old = 1;\n#End-If"
	got, errs := evaluate(t, "8.55", src)
	if len(errs) > 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	expectLexemes(t, got, []string{"&mid", "=", "1", ";"})
}

func TestDirectiveTokensNeverSurvive(t *testing.T) {
	got, _ := evaluate(t, "8.55", block)
	for _, lex := range got {
		if lex == "#If" || lex == "#Then" || lex == "#Else" || lex == "#End-If" || lex == "#ToolsRel" {
			t.Fatalf("directive token %q leaked into output", lex)
		}
	}
}

// ---- L005 — malformed directives fail open ----

func TestMalformedConditionKeepsBothBranches(t *testing.T) {
	src := "#If #ToolsRel #Then\n&a = 1;\n#Else\n&b = 2;\n#End-If"
	got, errs := evaluate(t, "8.55", src)
	expectError(t, errs, diagnostics.ErrL005)
	expectLexemes(t, got, []string{"&a", "=", "1", ";", "&b", "=", "2", ";"})
}

func TestMissingEndIf(t *testing.T) {
	src := "#If #ToolsRel >= 8.54 #Then\n&a = 1;"
	got, errs := evaluate(t, "8.55", src)
	expectError(t, errs, diagnostics.ErrL005)
	expectLexemes(t, got, []string{"&a", "=", "1", ";"})
}

func TestStrayElse(t *testing.T) {
	src := "&a = 1;\n#Else"
	got, errs := evaluate(t, "8.55", src)
	expectError(t, errs, diagnostics.ErrL005)
	expectLexemes(t, got, []string{"&a", "=", "1", ";"})
}

func TestStrayEndIf(t *testing.T) {
	_, errs := evaluate(t, "8.55", "#End-If")
	expectError(t, errs, diagnostics.ErrL005)
}

func TestInvalidReleaseRejected(t *testing.T) {
	if _, err := directive.NewEvaluator("not-a-release"); err == nil {
		t.Fatal("expected an error for an unparsable tools release")
	}
}

func expectError(t *testing.T, errs []*diagnostics.DiagnosticError, code diagnostics.Code) {
	t.Helper()
	for _, e := range errs {
		if e.Code == code {
			return
		}
	}
	t.Errorf("expected error %s, got %v", code, errs)
}
