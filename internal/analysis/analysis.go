// Package analysis wires the individual stages into the standard pipeline
// and flattens node annotations into reportable diagnostics.
package analysis

import (
	"context"

	"github.com/pclint/pclint/internal/checker"
	"github.com/pclint/pclint/internal/config"
	"github.com/pclint/pclint/internal/directive"
	"github.com/pclint/pclint/internal/inference"
	"github.com/pclint/pclint/internal/lexer"
	"github.com/pclint/pclint/internal/parser"
	"github.com/pclint/pclint/internal/pipeline"
	"github.com/pclint/pclint/internal/typemeta"
)

// Options carries the shared dependencies of an analysis run. All fields are
// optional.
type Options struct {
	Config   *config.Config
	Resolver typemeta.Resolver
	Cache    *typemeta.Cache
}

// Analyze runs the full pipeline over one document and returns the completed
// context: tokens, program, registry, and diagnostics.
func Analyze(ctx context.Context, filePath, source string, opts Options) *pipeline.Context {
	pctx := &pipeline.Context{
		Ctx:        ctx,
		FilePath:   filePath,
		SourceCode: source,
		Config:     opts.Config,
		Resolver:   opts.Resolver,
		Cache:      opts.Cache,
	}
	return pipeline.New(
		&lexer.LexerProcessor{},
		&directive.Processor{},
		&parser.Processor{},
		&RegistryProcessor{},
		inference.NewProcessor(),
		checker.NewProcessor(),
	).Run(pctx)
}
