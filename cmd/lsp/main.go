package main

import (
	"fmt"
	"log"
	"os"

	"github.com/pclint/pclint/internal/analysis"
	"github.com/pclint/pclint/internal/config"
	"github.com/pclint/pclint/internal/typemeta"
)

func main() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr) // stdout carries the LSP protocol

	cfg := config.Default()
	if len(os.Args) > 2 && os.Args[1] == "-config" {
		loaded, err := config.Load(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			os.Exit(2)
		}
		cfg = loaded
	}

	opts := analysis.Options{Config: cfg, Cache: typemeta.NewCache()}
	if cfg.MetadataStore != "" {
		store, err := typemeta.OpenStore(cfg.MetadataStore)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: opening metadata store: %s\n", err)
			os.Exit(2)
		}
		defer store.Close()
		opts.Resolver = store
	}

	server := NewLanguageServer(os.Stdout, opts)
	server.Start()
}
