package main

import (
	"github.com/pclint/pclint/internal/analysis"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/pipeline"
)

func (s *LanguageServer) publishDiagnostics(uri string, pctx *pipeline.Context) error {
	lspDiagnostics := make([]Diagnostic, 0)
	for _, d := range analysis.Diagnostics(pctx) {
		sev := DiagError
		if d.Severity == diagnostics.SeverityWarning {
			sev = DiagWarning
		}
		lspDiagnostics = append(lspDiagnostics, Diagnostic{
			Range:    spanToRange(d.Span),
			Severity: sev,
			Code:     string(d.Code),
			Message:  d.Message,
			Source:   "pclint",
		})
	}

	return s.sendNotification(NotificationMessage{
		Jsonrpc: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{
			URI:         uri,
			Diagnostics: lspDiagnostics,
		},
	})
}
