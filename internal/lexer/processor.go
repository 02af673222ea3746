package lexer

import (
	"github.com/pclint/pclint/internal/pipeline"
)

// LexerProcessor is the pipeline stage wrapping Tokenize.
type LexerProcessor struct{}

func (lp *LexerProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	stream, errs := Tokenize(ctx.SourceCode)
	ctx.Tokens = stream
	for _, err := range errs {
		ctx.AddError(err)
	}
	return ctx
}
