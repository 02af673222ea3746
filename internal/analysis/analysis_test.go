package analysis_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/tools/txtar"

	"github.com/pclint/pclint/internal/analysis"
	"github.com/pclint/pclint/internal/config"
	"github.com/pclint/pclint/internal/diagnostics"
)

func analyze(t *testing.T, src string, cfg *config.Config) []*diagnostics.DiagnosticError {
	t.Helper()
	ctx := analysis.Analyze(context.Background(), "test.ppl", src, analysis.Options{Config: cfg})
	return analysis.Diagnostics(ctx)
}

func codes(diags []*diagnostics.DiagnosticError) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = string(d.Code)
	}
	return out
}

// TestCorpus runs every unit in testdata/corpus.txtar through the full
// pipeline and compares the reported codes against the archived expectations.
func TestCorpus(t *testing.T) {
	archive, err := txtar.ParseFile(filepath.Join("testdata", "corpus.txtar"))
	if err != nil {
		t.Fatalf("loading corpus: %v", err)
	}

	sources := make(map[string]string)
	wants := make(map[string][]string)
	for _, f := range archive.Files {
		switch {
		case strings.HasSuffix(f.Name, ".ppl"):
			sources[strings.TrimSuffix(f.Name, ".ppl")] = string(f.Data)
		case strings.HasSuffix(f.Name, ".want"):
			var expected []string
			for _, line := range strings.Split(string(f.Data), "\n") {
				if line = strings.TrimSpace(line); line != "" {
					expected = append(expected, line)
				}
			}
			wants[strings.TrimSuffix(f.Name, ".want")] = expected
		default:
			t.Fatalf("corpus entry %q is neither .ppl nor .want", f.Name)
		}
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			if _, ok := wants[name]; !ok {
				t.Fatalf("no .want entry for %s", name)
			}
			got := codes(analyze(t, src, nil))
			want := wants[name]
			if len(got) != len(want) {
				t.Fatalf("got %v, want %v", got, want)
			}
			for i := range got {
				if got[i] != want[i] {
					t.Errorf("diagnostic %d = %s, want %s", i, got[i], want[i])
				}
			}
		})
	}
}

func TestDiagnosticsAreSortedByPosition(t *testing.T) {
	src := "Local number &n;\n&n = \"a\";\n&n = \"b\";\nUpper(\"c\");"
	diags := analyze(t, src, nil)
	for i := 1; i < len(diags); i++ {
		prev, cur := diags[i-1].Span.Start, diags[i].Span.Start
		if cur.Line < prev.Line || (cur.Line == prev.Line && cur.Column < prev.Column) {
			t.Fatalf("diagnostics out of order: %v before %v", prev, cur)
		}
	}
	if len(diags) != 3 {
		t.Errorf("got %d diagnostics, want 3", len(diags))
	}
}

func TestDiagnosticsStampFile(t *testing.T) {
	diags := analyze(t, "&a = ;", nil)
	if len(diags) == 0 {
		t.Fatal("expected a diagnostic")
	}
	if diags[0].File != "test.ppl" {
		t.Errorf("file = %q, want test.ppl", diags[0].File)
	}
}

func TestDisabledCodesSuppress(t *testing.T) {
	src := "Local number &n;\n&n = \"x\";\nUpper(\"y\");"
	cfg := &config.Config{DisabledCodes: []string{"T006"}}
	got := codes(analyze(t, src, cfg))
	for _, c := range got {
		if c == "T006" {
			t.Fatal("disabled code still reported")
		}
	}
	if len(got) != 1 || got[0] != "T001" {
		t.Errorf("got %v, want [T001]", got)
	}
}

func TestSeverityOverride(t *testing.T) {
	src := "Local number &n;\n&n = \"x\";"
	cfg := &config.Config{Severity: map[string]string{"T001": "warning"}}
	diags := analyze(t, src, cfg)
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Severity != diagnostics.SeverityWarning {
		t.Errorf("severity = %v, want warning", diags[0].Severity)
	}
}

func TestRegistryIsBuilt(t *testing.T) {
	ctx := analysis.Analyze(context.Background(), "test.ppl", "Local string &name;", analysis.Options{})
	if ctx.Registry == nil {
		t.Fatal("pipeline did not build the variable registry")
	}
	if len(ctx.Registry.All()) == 0 {
		t.Error("registry is empty")
	}
}

func TestToolsReleaseSelectsDirectiveBranch(t *testing.T) {
	src := "#If #ToolsRel >= 8.55 #Then\n" +
		"&a = 1;\n" +
		"#Else\n" +
		"&a = ;\n" +
		"#End-If\n"

	// New release: the well-formed #Then branch survives.
	if got := codes(analyze(t, src, &config.Config{ToolsRelease: "8.55.10"})); len(got) != 0 {
		t.Errorf("8.55.10 got %v, want clean", got)
	}

	// Old release: the broken #Else branch is what the parser sees.
	got := codes(analyze(t, src, &config.Config{ToolsRelease: "8.50"}))
	found := false
	for _, c := range got {
		if c == "P004" {
			found = true
		}
	}
	if !found {
		t.Errorf("8.50 got %v, want a P004 from the else branch", got)
	}
}

func TestInvalidToolsReleaseReported(t *testing.T) {
	got := codes(analyze(t, "&a = 1;", &config.Config{ToolsRelease: "not-a-release"}))
	found := false
	for _, c := range got {
		if c == "A002" {
			found = true
		}
	}
	if !found {
		t.Errorf("got %v, want an A002 configuration error", got)
	}
}

func TestNilProgramYieldsNoAnnotations(t *testing.T) {
	if out := analysis.CollectAnnotations(nil, "x.ppl"); out != nil {
		t.Errorf("got %v from a nil program", out)
	}
}
