package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pclint/pclint/internal/config"
)

func write(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pclint.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := write(t, `
tools_release: "8.54.27"
metadata_store: /var/lib/pclint/meta.db
disabled_codes: [T006, P002]
severity:
  T001: warning
`)
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ToolsRelease != "8.54.27" {
		t.Errorf("tools_release = %q", cfg.ToolsRelease)
	}
	if cfg.MetadataStore != "/var/lib/pclint/meta.db" {
		t.Errorf("metadata_store = %q", cfg.MetadataStore)
	}
	if !cfg.Disabled("T006") || !cfg.Disabled("P002") {
		t.Error("disabled_codes not honored")
	}
	if cfg.Disabled("T001") {
		t.Error("T001 reported disabled")
	}
	if cfg.Severity["T001"] != "warning" {
		t.Errorf("severity[T001] = %q", cfg.Severity["T001"])
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadMalformedYAML(t *testing.T) {
	path := write(t, "tools_release: [not\n  closed")
	if _, err := config.Load(path); err == nil {
		t.Error("expected a parse error")
	}
}

func TestLoadRejectsUnknownSeverity(t *testing.T) {
	path := write(t, "severity:\n  T001: fatal\n")
	if _, err := config.Load(path); err == nil {
		t.Error("severity values other than error/warning must be rejected")
	}
}

func TestDefaultIsPermissive(t *testing.T) {
	cfg := config.Default()
	if cfg.Disabled("T001") {
		t.Error("default config disables codes")
	}
	if cfg.ToolsRelease != "" {
		t.Errorf("default tools_release = %q", cfg.ToolsRelease)
	}
}

func TestNilConfigDisablesNothing(t *testing.T) {
	var cfg *config.Config
	if cfg.Disabled("T001") {
		t.Error("nil config disabled a code")
	}
}
