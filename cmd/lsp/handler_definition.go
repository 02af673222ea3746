package main

import (
	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/scope"
	"github.com/pclint/pclint/internal/token"
)

func (s *LanguageServer) handleDefinition(id interface{}, params DefinitionParams) error {
	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.Ctx.Registry == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	offset := positionToOffset(doc.Text, params.Position)
	node := ast.NodeAt(doc.Ctx.Program, offset)
	ident, ok := node.(*ast.IdentifierNode)
	if !ok || !ident.IsUserVariable() {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	info := s.variableAt(doc, ident)
	if info == nil || info.Implicit {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	return s.sendResponse(ResponseMessage{
		Jsonrpc: "2.0",
		ID:      id,
		Result: Location{
			URI:   params.TextDocument.URI,
			Range: spanToRange(info.DeclSpan),
		},
	})
}

// variableAt finds the registry entry whose declaration or references cover
// the identifier's span.
func (s *LanguageServer) variableAt(doc *DocumentState, ident *ast.IdentifierNode) *scope.VariableInfo {
	span := ident.Span()
	for _, info := range doc.Ctx.Registry.All() {
		if spanCovers(info.DeclSpan, span) {
			return info
		}
		for _, ref := range info.References {
			if spanCovers(ref.Span, span) {
				return info
			}
		}
	}
	return nil
}

func spanCovers(outer, inner token.Span) bool {
	return outer.Start.Offset <= inner.Start.Offset && inner.End.Offset <= outer.End.Offset &&
		outer.End.Offset > outer.Start.Offset
}
