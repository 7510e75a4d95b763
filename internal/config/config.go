/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikeb26/chessanalytics/internal"
	"gopkg.in/yaml.v3"
)

const (
	DefaultStockfishPath = "/usr/games/stockfish"
	DefaultEngineDepth   = 20
	DefaultLibraryLimit  = 2000
	DefaultOutputDir     = "data/output/tactics"
	DefaultGamesRoot     = "data/games"
)

// Config holds settings shared by the chessanalytics commands. Every field
// can also be set with the corresponding command line flag.
type Config struct {
	Username string `yaml:"username"`

	// GamesDir holds one PGN file per game. Defaults to
	// <DefaultGamesRoot>/<username>.
	GamesDir     string `yaml:"games_dir"`
	LibraryLimit int    `yaml:"library_limit"`

	// CacheBucket is the S3 bucket used for the HTTP cache and exports. An
	// empty bucket disables S3 entirely.
	CacheBucket string `yaml:"cache_bucket"`

	StockfishPath string `yaml:"stockfish_path"`
	EngineDepth   int    `yaml:"engine_depth"`
	OutputDir     string `yaml:"output_dir"`

	// Reference tables; empty selects the copy built into the binary.
	NameTable     string `yaml:"name_table"`
	RangeTable    string `yaml:"range_table"`
	MainLineTable string `yaml:"main_line_table"`
}

func Default() *Config {
	return &Config{
		LibraryLimit:  DefaultLibraryLimit,
		CacheBucket:   internal.WebCacheBucket,
		StockfishPath: DefaultStockfishPath,
		EngineDepth:   DefaultEngineDepth,
		OutputDir:     DefaultOutputDir,
	}
}

// DefaultPath returns ~/.config/chessanalytics/config.yaml.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chessanalytics", "config.yaml")
}

// Load reads path on top of Default(). A missing file is not an error when
// path is the default location.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
		if path == "" {
			return cfg, nil
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.load: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config.load: parsing %v: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config.load: %v: %w", path, err)
	}

	return cfg, nil
}

func (cfg *Config) Validate() error {
	if cfg.LibraryLimit < 0 {
		return fmt.Errorf("library_limit must not be negative")
	}
	if cfg.EngineDepth <= 0 {
		return fmt.Errorf("engine_depth must be positive")
	}
	return nil
}

// LibraryDir returns the directory games are read from and saved to.
func (cfg *Config) LibraryDir() string {
	if cfg.GamesDir != "" {
		return cfg.GamesDir
	}
	return filepath.Join(DefaultGamesRoot, cfg.Username)
}
