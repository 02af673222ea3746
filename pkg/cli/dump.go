package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pclint/pclint/internal/analysis"
	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/lexer"
)

func dumpTokens(files []string, opts analysis.Options) int {
	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 2
		}
		fmt.Printf("== %s\n", path)
		stream, errs := lexer.Tokenize(string(source))
		for _, tok := range stream.AllTokens() {
			fmt.Printf("%-20s %-12s %q\n", tok.Type, tok.Span, tok.Lexeme)
		}
		for _, e := range errs {
			fmt.Printf("%s\n", e.Error())
		}
	}
	return 0
}

func dumpAST(files []string, opts analysis.Options) int {
	for _, path := range files {
		source, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 2
		}
		fmt.Printf("== %s\n", path)
		ctx := analysis.Analyze(context.Background(), path, string(source), opts)
		if ctx.Program != nil {
			dumpNode(ctx.Program, 0)
		}
		for _, e := range ctx.Errors {
			fmt.Printf("%s\n", e.Error())
		}
	}
	return 0
}

func dumpNode(n ast.Node, depth int) {
	if n == nil {
		return
	}
	label := fmt.Sprintf("%T", n)
	label = label[strings.LastIndexByte(label, '.')+1:]

	line := fmt.Sprintf("%s%s <%s>", strings.Repeat("  ", depth), label, n.Span())
	if t, ok := ast.GetInferredType(n); ok {
		line += " : " + t.String()
	}
	fmt.Println(line)

	for _, child := range n.Children() {
		dumpNode(child, depth+1)
	}
}
