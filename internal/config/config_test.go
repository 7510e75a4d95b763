/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mikeb26/chessanalytics/internal"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
username: magnus
engine_depth: 12
cache_bucket: ""
main_line_table: /tmp/eco.tsv
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(%v) returned error: %v", path, err)
	}
	if cfg.Username != "magnus" {
		t.Errorf("Username = %q; want magnus", cfg.Username)
	}
	if cfg.EngineDepth != 12 {
		t.Errorf("EngineDepth = %v; want 12", cfg.EngineDepth)
	}
	if cfg.CacheBucket != "" {
		t.Errorf("CacheBucket = %q; want explicit empty", cfg.CacheBucket)
	}
	if cfg.MainLineTable != "/tmp/eco.tsv" {
		t.Errorf("MainLineTable = %q", cfg.MainLineTable)
	}
	// untouched fields keep their defaults
	if cfg.StockfishPath != DefaultStockfishPath {
		t.Errorf("StockfishPath = %q; want default", cfg.StockfishPath)
	}
	if cfg.LibraryDir() != filepath.Join(DefaultGamesRoot, "magnus") {
		t.Errorf("LibraryDir() = %q", cfg.LibraryDir())
	}
}

func TestLoadInvalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":       "username: [",
		"negative limit": "library_limit: -1",
		"zero depth":     "engine_depth: 0",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Errorf("expected an error")
			}
		})
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("expected an error for a missing explicit config file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.CacheBucket != internal.WebCacheBucket {
		t.Errorf("CacheBucket = %q; want %q", cfg.CacheBucket,
			internal.WebCacheBucket)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
	cfg.GamesDir = "/srv/games"
	if cfg.LibraryDir() != "/srv/games" {
		t.Errorf("LibraryDir() = %q", cfg.LibraryDir())
	}
}
