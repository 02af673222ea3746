package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/pclint/pclint/internal/diagnostics"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
	colorDim    = "\x1b[2m"
)

type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &printer{w: w, color: color}
}

func (p *printer) print(d *diagnostics.DiagnosticError) {
	sev := d.Severity.String()
	if p.color {
		c := colorRed
		if d.Severity == diagnostics.SeverityWarning {
			c = colorYellow
		}
		fmt.Fprintf(p.w, "%s:%d:%d: %s%s%s [%s]: %s%s%s\n",
			d.File, d.Span.Start.Line, d.Span.Start.Column,
			c, sev, colorReset, d.Code, colorDim, d.Message, colorReset)
		return
	}
	fmt.Fprintf(p.w, "%s:%d:%d: %s [%s]: %s\n",
		d.File, d.Span.Start.Line, d.Span.Start.Column, sev, d.Code, d.Message)
}
