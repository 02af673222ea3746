// Package pipeline threads one compilation unit through the analysis stages:
// lexer, parser, scope registry, type inference, type checking. Each stage is
// a Processor; stages communicate only through the Context.
package pipeline

import (
	"context"

	"github.com/pclint/pclint/internal/ast"
	"github.com/pclint/pclint/internal/config"
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/scope"
	"github.com/pclint/pclint/internal/token"
	"github.com/pclint/pclint/internal/typemeta"
)

// Context carries everything the stages produce for one document.
type Context struct {
	// Ctx bounds the analysis; the parser and the tree passes check it
	// cooperatively so a pathological edit cannot pin a thread.
	Ctx context.Context

	FilePath   string
	SourceCode string

	Config   *config.Config
	Resolver typemeta.Resolver
	Cache    *typemeta.Cache

	Tokens   *token.Stream
	Program  *ast.Program
	Registry *scope.Registry

	Errors []*diagnostics.DiagnosticError
}

// Context returns the cancellation context, defaulting to Background.
func (c *Context) Context() context.Context {
	if c.Ctx != nil {
		return c.Ctx
	}
	return context.Background()
}

// AddError appends a diagnostic, stamping the file path.
func (c *Context) AddError(err *diagnostics.DiagnosticError) {
	if err == nil {
		return
	}
	if err.File == "" {
		err.File = c.FilePath
	}
	c.Errors = append(c.Errors, err)
}

// Processor is one analysis stage.
type Processor interface {
	Process(ctx *Context) *Context
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *Context) *Context {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages
		// (the LSP needs both parse and semantic errors).
	}
	return ctx
}
