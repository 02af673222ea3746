package analysis

import (
	"github.com/pclint/pclint/internal/pipeline"
	"github.com/pclint/pclint/internal/scope"
)

// RegistryProcessor builds the variable registry from the parsed program.
type RegistryProcessor struct{}

func (rp *RegistryProcessor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Program == nil {
		return ctx
	}
	ctx.Registry = scope.Build(ctx.Program)
	return ctx
}
