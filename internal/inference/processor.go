package inference

import (
	"path/filepath"
	"strings"

	"github.com/pclint/pclint/internal/pipeline"
	"github.com/pclint/pclint/internal/typemeta"
)

// Processor runs type inference as a pipeline stage.
type Processor struct{}

func NewProcessor() *Processor { return &Processor{} }

func (p *Processor) Process(ctx *pipeline.Context) *pipeline.Context {
	if ctx.Program == nil {
		return ctx
	}
	unit := UnitName(ctx.FilePath)

	// Publish this unit's own surface before typing it, so %This and
	// self-references resolve through the same path as any other class.
	if ctx.Cache != nil && unit != "" {
		ctx.Cache.Set(unit, typemeta.Extract(ctx.Program, unit))
	}

	inf := New(ctx.Program, unit, ctx.Resolver, ctx.Cache)
	done := ctx.Context().Done()
	inf.Run(func() bool {
		select {
		case <-done:
			return true
		default:
			return false
		}
	})
	return ctx
}

// UnitName derives a package-qualified unit name from a file path:
// "MY_PKG/Utils/Cache.pcode" becomes "MY_PKG:Utils:Cache".
func UnitName(path string) string {
	if path == "" {
		return ""
	}
	path = strings.TrimSuffix(path, filepath.Ext(path))
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	// Keep at most the package, subpackage and unit segments.
	if len(parts) > 3 {
		parts = parts[len(parts)-3:]
	}
	return strings.Join(parts, ":")
}
