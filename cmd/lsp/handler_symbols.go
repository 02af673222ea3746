package main

import (
	"github.com/pclint/pclint/internal/ast"
)

func (s *LanguageServer) handleDocumentSymbol(id interface{}, params DocumentSymbolParams) error {
	doc, ok := s.document(params.TextDocument.URI)
	if !ok || doc.Ctx.Program == nil {
		return s.sendResponse(ResponseMessage{Jsonrpc: "2.0", ID: id, Result: []DocumentSymbol{}})
	}

	return s.sendResponse(ResponseMessage{
		Jsonrpc: "2.0",
		ID:      id,
		Result:  programSymbols(doc.Ctx.Program),
	})
}

func programSymbols(program *ast.Program) []DocumentSymbol {
	symbols := make([]DocumentSymbol, 0)

	if program.Class != nil {
		symbols = append(symbols, classSymbol(program.Class))
	}
	if program.Interface != nil {
		symbols = append(symbols, interfaceSymbol(program.Interface))
	}
	for _, f := range program.Functions {
		symbols = append(symbols, DocumentSymbol{
			Name:           f.Name,
			Kind:           SymbolFunction,
			Range:          spanToRange(f.Span()),
			SelectionRange: spanToRange(f.NameSpan),
		})
	}
	for _, v := range program.Variables {
		for _, name := range v.Names {
			symbols = append(symbols, DocumentSymbol{
				Name:           name.Name,
				Detail:         v.Scope.String(),
				Kind:           SymbolVariable,
				Range:          spanToRange(v.Span()),
				SelectionRange: spanToRange(name.Span()),
			})
		}
	}
	for _, c := range program.Constants {
		if c.Name == nil {
			continue
		}
		symbols = append(symbols, DocumentSymbol{
			Name:           c.Name.Name,
			Kind:           SymbolConstant,
			Range:          spanToRange(c.Span()),
			SelectionRange: spanToRange(c.Name.Span()),
		})
	}
	return symbols
}

func classSymbol(class *ast.AppClassNode) DocumentSymbol {
	sym := DocumentSymbol{
		Name:           class.Name,
		Kind:           SymbolClass,
		Range:          spanToRange(class.Span()),
		SelectionRange: spanToRange(class.NameSpan),
	}
	for _, m := range class.Methods {
		kind := SymbolMethod
		if m.IsConstructor {
			kind = SymbolConstructor
		}
		sym.Children = append(sym.Children, DocumentSymbol{
			Name:           m.Name,
			Kind:           kind,
			Range:          spanToRange(m.Span()),
			SelectionRange: spanToRange(m.NameSpan),
		})
	}
	for _, p := range class.Properties {
		sym.Children = append(sym.Children, DocumentSymbol{
			Name:           p.Name,
			Kind:           SymbolProperty,
			Range:          spanToRange(p.Span()),
			SelectionRange: spanToRange(p.NameSpan),
		})
	}
	for _, iv := range class.Instances {
		for _, name := range iv.Names {
			sym.Children = append(sym.Children, DocumentSymbol{
				Name:           name.Name,
				Kind:           SymbolField,
				Range:          spanToRange(iv.Span()),
				SelectionRange: spanToRange(name.Span()),
			})
		}
	}
	return sym
}

func interfaceSymbol(iface *ast.InterfaceNode) DocumentSymbol {
	sym := DocumentSymbol{
		Name:           iface.Name,
		Kind:           SymbolInterface,
		Range:          spanToRange(iface.Span()),
		SelectionRange: spanToRange(iface.NameSpan),
	}
	for _, m := range iface.Methods {
		sym.Children = append(sym.Children, DocumentSymbol{
			Name:           m.Name,
			Kind:           SymbolMethod,
			Range:          spanToRange(m.Span()),
			SelectionRange: spanToRange(m.NameSpan),
		})
	}
	for _, p := range iface.Properties {
		sym.Children = append(sym.Children, DocumentSymbol{
			Name:           p.Name,
			Kind:           SymbolProperty,
			Range:          spanToRange(p.Span()),
			SelectionRange: spanToRange(p.NameSpan),
		})
	}
	return sym
}
