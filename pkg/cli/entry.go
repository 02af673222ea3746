// Package cli implements the pclint command line: lint with optional watch
// mode, plus the dump-tokens and dump-ast debugging commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pclint/pclint/internal/analysis"
	"github.com/pclint/pclint/internal/config"
	"github.com/pclint/pclint/internal/typemeta"
)

// Run is the CLI entry point. It returns the process exit code: 0 clean,
// 1 findings, 2 usage or I/O failure.
func Run(args []string) int {
	cmd := "lint"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "lint", "dump-ast", "dump-tokens", "help":
			cmd = args[0]
			args = args[1:]
		}
	}

	var (
		configPath string
		watch      bool
		files      []string
	)
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-help", "--help", "help":
			usage(os.Stdout)
			return 0
		case "-watch", "--watch":
			watch = true
		case "-config", "--config":
			if i+1 >= len(args) {
				fmt.Fprintln(os.Stderr, "Error: -config needs a path")
				return 2
			}
			i++
			configPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				fmt.Fprintf(os.Stderr, "Error: unknown flag %s\n", arg)
				usage(os.Stderr)
				return 2
			}
			files = append(files, arg)
		}
	}

	if cmd == "help" {
		usage(os.Stdout)
		return 0
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		usage(os.Stderr)
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return 2
	}

	opts := analysis.Options{Config: cfg, Cache: typemeta.NewCache()}
	if cfg.MetadataStore != "" {
		store, err := typemeta.OpenStore(cfg.MetadataStore)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening metadata store: %s\n", err)
			return 2
		}
		defer store.Close()
		opts.Resolver = store
	}

	switch cmd {
	case "dump-tokens":
		return dumpTokens(files, opts)
	case "dump-ast":
		return dumpAST(files, opts)
	}

	if watch {
		return watchAndLint(files, opts)
	}
	return lintOnce(files, opts)
}

func lintOnce(files []string, opts analysis.Options) int {
	printer := newPrinter(os.Stdout)
	exit := 0
	for _, path := range files {
		n, err := lintFile(path, opts, printer)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			return 2
		}
		if n > 0 {
			exit = 1
		}
	}
	return exit
}

// lintFile analyzes one file and prints its diagnostics, returning how many
// were reported.
func lintFile(path string, opts analysis.Options, printer *printer) (int, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	ctx := analysis.Analyze(context.Background(), path, string(source), opts)
	diags := analysis.Diagnostics(ctx)
	for _, d := range diags {
		printer.print(d)
	}
	return len(diags), nil
}

// loadConfig finds pclint.yaml: the explicit path when given, else the
// working directory, else defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if _, err := os.Stat("pclint.yaml"); err == nil {
		return config.Load("pclint.yaml")
	}
	return config.Default(), nil
}

func usage(w *os.File) {
	prog := filepath.Base(os.Args[0])
	fmt.Fprintf(w, `Usage: %[1]s [command] [flags] <file>...

Commands:
  lint         analyze files and report diagnostics (default)
  dump-tokens  print the token stream of each file
  dump-ast     print the syntax tree of each file
  help         show this message

Flags:
  -config <path>  configuration file (default: ./pclint.yaml if present)
  -watch          re-lint when a file changes
`, prog)
}
