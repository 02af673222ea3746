package directive

import (
	"github.com/pclint/pclint/internal/diagnostics"
	"github.com/pclint/pclint/internal/pipeline"
	"github.com/pclint/pclint/internal/token"
)

// Processor rewrites the token stream, resolving conditional-compilation
// blocks against the configured tools release before the parser runs.
type Processor struct{}

func (dp *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Tokens == nil {
		return ctx
	}
	release := ""
	if ctx.Config != nil {
		release = ctx.Config.ToolsRelease
	}
	eval, err := NewEvaluator(release)
	if err != nil {
		ctx.AddError(diagnostics.NewError(diagnostics.ErrA002, token.Span{},
			"invalid tools release "+release+": "+err.Error()))
		eval, _ = NewEvaluator("")
	}
	filtered, errs := eval.Apply(ctx.Tokens.AllTokens())
	for _, e := range errs {
		ctx.AddError(e)
	}
	ctx.Tokens = token.NewStream(filtered)
	return ctx
}
