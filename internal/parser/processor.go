package parser

import (
	"github.com/pclint/pclint/internal/pipeline"
	"github.com/pclint/pclint/internal/token"
)

// Processor runs the parser as a pipeline stage.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Tokens == nil {
		ctx.Tokens = token.NewStream(nil)
	}

	parser := New(ctx.Tokens, ctx)
	ctx.Program = parser.ParseProgram()
	ctx.Program.File = ctx.FilePath

	for _, err := range ctx.Errors {
		if err.File == "" {
			err.File = ctx.FilePath
		}
	}
	return ctx
}
