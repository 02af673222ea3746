package checker

import (
	"github.com/pclint/pclint/internal/pipeline"
	"github.com/pclint/pclint/internal/typemeta"
)

// Processor runs the checker as a pipeline stage.
type Processor struct{}

func NewProcessor() *Processor { return &Processor{} }

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Program == nil {
		return ctx
	}
	meta := typemeta.MetadataSource{Resolver: ctx.Resolver, Cache: ctx.Cache}
	done := ctx.Context().Done()
	New(meta).Run(ctx.Program, func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	})
	return ctx
}
