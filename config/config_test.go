package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/atollk/geoguessr-scripts/config"
)

func TestLoadMissingDefaultYieldsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Site.MetaBaseURL != "https://geometa-web.pages.dev" {
		t.Errorf("meta base url = %q", cfg.Site.MetaBaseURL)
	}
	if cfg.Site.GuideBaseURL != "https://www.plonkit.net" {
		t.Errorf("guide base url = %q", cfg.Site.GuideBaseURL)
	}
	if cfg.Scrape.TableTimeoutSeconds != 10 || cfg.Scrape.ResolveTimeoutSeconds != 5 {
		t.Errorf("timeouts = %d/%d, want 10/5", cfg.Scrape.TableTimeoutSeconds, cfg.Scrape.ResolveTimeoutSeconds)
	}
	if cfg.Output.PackagePath != "learnable_meta.apkg" {
		t.Errorf("package path = %q", cfg.Output.PackagePath)
	}
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scrape]
table_timeout_seconds = 30
map_limit = 2

[output]
package_path = "custom.apkg"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Scrape.TableTimeoutSeconds != 30 {
		t.Errorf("table timeout = %d, want 30", cfg.Scrape.TableTimeoutSeconds)
	}
	if cfg.Scrape.ResolveTimeoutSeconds != 5 {
		t.Errorf("resolve timeout = %d, want default 5", cfg.Scrape.ResolveTimeoutSeconds)
	}
	if cfg.Scrape.MapLimit != 2 {
		t.Errorf("map limit = %d, want 2", cfg.Scrape.MapLimit)
	}
	if cfg.Output.PackagePath != "custom.apkg" {
		t.Errorf("package path = %q, want custom.apkg", cfg.Output.PackagePath)
	}
	// Sections the file does not mention keep their defaults.
	if cfg.Site.MetaBaseURL == "" {
		t.Error("site defaults were lost")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[scrape]
table_timeout_seconds = 0
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for zero timeout")
	}
}
