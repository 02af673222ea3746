package analysis

import (
	"sort"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/config"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/pipeline"
)

// Diagnostics flattens a completed context into one sorted list: pipeline
// errors plus the type annotations attached to tree nodes, with the
// configuration's suppressions and severity overrides applied.
func Diagnostics(ctx *pipeline.Context) []*diagnostics.DiagnosticError {
	var out []*diagnostics.DiagnosticError
	cfg := ctx.Config

	for _, e := range ctx.Errors {
		if d := applyConfig(e, cfg); d != nil {
			out = append(out, d)
		}
	}
	for _, e := range CollectAnnotations(ctx.Program, ctx.FilePath) {
		if d := applyConfig(e, cfg); d != nil {
			out = append(out, d)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Span.Start.Line != out[j].Span.Start.Line {
			return out[i].Span.Start.Line < out[j].Span.Start.Line
		}
		return out[i].Span.Start.Column < out[j].Span.Start.Column
	})
	return out
}

// CollectAnnotations walks the tree and lifts every TypeError and
// TypeWarning annotation into a diagnostic.
func CollectAnnotations(program *ast.Program, file string) []*diagnostics.DiagnosticError {
	if program == nil {
		return nil
	}
	var out []*diagnostics.DiagnosticError
	ast.Walk(program, func(n ast.Node) bool {
		if a, ok := ast.GetTypeError(n); ok {
			d := diagnostics.NewError(a.Code, a.Span, a.Message)
			d.File = file
			out = append(out, d)
		}
		if a, ok := ast.GetTypeWarning(n); ok {
			d := diagnostics.NewWarning(a.Code, a.Span, a.Message)
			d.File = file
			out = append(out, d)
		}
		return true
	})
	return out
}

func applyConfig(d *diagnostics.DiagnosticError, cfg *config.Config) *diagnostics.DiagnosticError {
	if cfg == nil {
		return d
	}
	code := string(d.Code)
	if cfg.Disabled(code) {
		return nil
	}
	switch cfg.Severity[code] {
	case "error":
		d.Severity = diagnostics.SeverityError
	case "warning":
		d.Severity = diagnostics.SeverityWarning
	}
	return d
}
