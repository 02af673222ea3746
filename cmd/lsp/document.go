package main

import (
	"context"

	"github.com/pclint/pclint/internal/analysis"
	"github.com/pclint/pclint/internal/pipeline"
)

// DocumentState holds one open document and its latest analysis.
type DocumentState struct {
	URI     string
	Text    string
	Version int
	Ctx     *pipeline.Context

	cancel context.CancelFunc
}

func (s *LanguageServer) handleDidOpen(params DidOpenTextDocumentParams) error {
	return s.analyzeDocument(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
}

func (s *LanguageServer) handleDidChange(params DidChangeTextDocumentParams) error {
	if len(params.ContentChanges) == 0 {
		return nil
	}
	// Full sync: the last change carries the whole document.
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	return s.analyzeDocument(params.TextDocument.URI, text, params.TextDocument.Version)
}

func (s *LanguageServer) handleDidClose(params DidCloseTextDocumentParams) error {
	s.mu.Lock()
	if doc, ok := s.documents[params.TextDocument.URI]; ok && doc.cancel != nil {
		doc.cancel()
	}
	delete(s.documents, params.TextDocument.URI)
	s.mu.Unlock()

	// Clear stale diagnostics for the closed document.
	return s.sendNotification(NotificationMessage{
		Jsonrpc: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params: PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []Diagnostic{},
		},
	})
}

// analyzeDocument re-runs the pipeline for one document, cancelling any
// analysis still running for its previous version.
func (s *LanguageServer) analyzeDocument(uri, text string, version int) error {
	s.mu.Lock()
	if prev, ok := s.documents[uri]; ok && prev.cancel != nil {
		prev.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	doc := &DocumentState{URI: uri, Text: text, Version: version, cancel: cancel}
	s.documents[uri] = doc
	s.mu.Unlock()

	pctx := analysis.Analyze(ctx, uriToPath(uri), text, s.opts)

	s.mu.Lock()
	// A newer version may have replaced this one while the pipeline ran.
	if cur, ok := s.documents[uri]; ok && cur == doc {
		doc.Ctx = pctx
	}
	s.mu.Unlock()

	if ctx.Err() != nil {
		return nil
	}
	return s.publishDiagnostics(uri, pctx)
}

// document returns the current state for a URI.
func (s *LanguageServer) document(uri string) (*DocumentState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[uri]
	if !ok || doc.Ctx == nil {
		return nil, false
	}
	return doc, true
}
