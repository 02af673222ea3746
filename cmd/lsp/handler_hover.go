package main

import (
	"fmt"
	"strings"

	"github.com/pclint/pclint/internal/ast"
)

func (s *LanguageServer) handleHover(id interface{}, params HoverParams) error {
	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.Ctx.Program == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	offset := positionToOffset(doc.Text, params.Position)
	node := ast.NodeAt(doc.Ctx.Program, offset)
	if node == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	value := s.hoverText(doc, node)
	if value == "" {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: nil})
	}

	rng := spanToRange(node.Span())
	return s.sendResponse(ResponseMessage{
		Jsonrpc: "2.0",
		ID:      id,
		Result: Hover{
			Contents: MarkupContent{Kind: "markdown", Value: value},
			Range:    &rng,
		},
	})
}

func (s *LanguageServer) hoverText(doc *DocumentState, node ast.Node) string {
	var sb strings.Builder

	if ident, ok := node.(*ast.IdentifierNode); ok && ident.IsUserVariable() {
		if info := s.variableAt(doc, ident); info != nil {
			fmt.Fprintf(&sb, "**%s** — %s", info.Name, info.Kind)
			if info.DeclaredType != "" {
				fmt.Fprintf(&sb, " `%s`", info.DeclaredType)
			}
			sb.WriteString("\n\n")
		}
	}

	if fn, ok := ast.GetFunctionInfo(node); ok {
		fmt.Fprintf(&sb, "```\n%s\n```\n\n", fn)
	}
	if t, ok := ast.GetInferredType(node); ok {
		fmt.Fprintf(&sb, "type: `%s`", t)
	}

	return strings.TrimRight(sb.String(), "\n")
}
