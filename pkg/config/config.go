// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"
)

// 🎛️ Defaults applied by Validate
const (
	DefaultOutput         = "output"
	DefaultVersion        = "v1"
	DefaultAssetsDir      = "assets"
	DefaultMetasDir       = "metas"
	DefaultExtractDir     = "extracted_svgs"
	DefaultHeaderScanRows = 5
	DefaultIDColumn       = "C"
)

// DefaultRange is the manifest range used when a chart gives none
var DefaultRange = []int{1, 10}

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes
	Parse(ctx context.Context, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📊 SheetArgs tunes how the metadata sheet is read
type SheetArgs struct {
	HeaderScanRows int    `json:"header_scan_rows,omitempty" yaml:"header_scan_rows,omitempty"` // Rows searched for the header
	IDColumn       string `json:"id_column,omitempty" yaml:"id_column,omitempty"`               // Column holding "id" in the header
}

// 📚 Config represents the complete configuration
type Config struct {
	Output         string    `json:"output,omitempty" yaml:"output,omitempty"`                   // Output directory
	Version        string    `json:"version,omitempty" yaml:"version,omitempty"`                 // Bundle version directory and manifest version
	AssetsDir      string    `json:"assets_dir,omitempty" yaml:"assets_dir,omitempty"`           // Bundle root, relative to output
	MetasDir       string    `json:"metas_dir,omitempty" yaml:"metas_dir,omitempty"`             // Description root, relative to output
	ExtractDir     string    `json:"extract_dir,omitempty" yaml:"extract_dir,omitempty"`         // Extraction directory, relative to output
	KeepExtracted  *bool     `json:"keep_extracted,omitempty" yaml:"keep_extracted,omitempty"`   // Keep the extraction directory after the run
	DefaultRange   []int     `json:"default_range,omitempty" yaml:"default_range,omitempty"`     // Range used when a chart gives none
	IgnorePatterns []string  `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"` // Glob patterns for archive paths to skip
	Sheet          SheetArgs `json:"sheet,omitempty" yaml:"sheet,omitempty"`
}

// 🏭 Default returns a validated configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("default config is invalid: %v", err))
	}
	return cfg
}

// 🎯 Load loads the configuration from a file. A missing file yields an error
// wrapping fs.ErrNotExist.
func Load(ctx context.Context, path string) (*Config, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading configuration")

	// Read config file
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Errorf("config file %s: %w", path, fs.ErrNotExist)
		}
		return nil, errors.Errorf("reading config file: %w", err)
	}

	// Get parser
	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	// Parse config
	cfg, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// 🔍 Validate fills defaults and checks the configuration
func (cfg *Config) Validate() error {
	// Set defaults
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.AssetsDir == "" {
		cfg.AssetsDir = DefaultAssetsDir
	}
	if cfg.MetasDir == "" {
		cfg.MetasDir = DefaultMetasDir
	}
	if cfg.ExtractDir == "" {
		cfg.ExtractDir = DefaultExtractDir
	}
	if cfg.KeepExtracted == nil {
		keep := true
		cfg.KeepExtracted = &keep
	}
	if len(cfg.DefaultRange) == 0 {
		cfg.DefaultRange = append([]int(nil), DefaultRange...)
	}
	if cfg.Sheet.HeaderScanRows == 0 {
		cfg.Sheet.HeaderScanRows = DefaultHeaderScanRows
	}
	if cfg.Sheet.IDColumn == "" {
		cfg.Sheet.IDColumn = DefaultIDColumn
	}

	// Check values
	if strings.ContainsAny(cfg.Version, `/\`) || !filepath.IsLocal(cfg.Version) {
		return errors.Errorf("version %q must be a single path element", cfg.Version)
	}
	for name, dir := range map[string]string{
		"assets_dir":  cfg.AssetsDir,
		"metas_dir":   cfg.MetasDir,
		"extract_dir": cfg.ExtractDir,
	} {
		if !filepath.IsLocal(dir) {
			return errors.Errorf("%s %q must stay inside the output directory", name, dir)
		}
	}
	if len(cfg.DefaultRange) != 2 {
		return errors.Errorf("default_range must have exactly two numbers, got %d", len(cfg.DefaultRange))
	}
	if cfg.DefaultRange[0] < 0 || cfg.DefaultRange[0] > cfg.DefaultRange[1] {
		return errors.Errorf("default_range %v must be ascending and non-negative", cfg.DefaultRange)
	}
	for _, pattern := range cfg.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("invalid ignore pattern %q", pattern)
		}
	}
	if cfg.Sheet.HeaderScanRows < 0 {
		return errors.Errorf("sheet.header_scan_rows must be positive, got %d", cfg.Sheet.HeaderScanRows)
	}
	cfg.Sheet.IDColumn = strings.ToUpper(strings.TrimSpace(cfg.Sheet.IDColumn))
	if _, err := excelize.ColumnNameToNumber(cfg.Sheet.IDColumn); err != nil {
		return errors.Errorf("sheet.id_column %q is not a column name: %w", cfg.Sheet.IDColumn, err)
	}

	// Clean up paths
	cfg.Output = filepath.Clean(cfg.Output)

	return nil
}

// ShouldKeepExtracted reports whether the extraction directory survives the run
func (cfg *Config) ShouldKeepExtracted() bool {
	return cfg.KeepExtracted == nil || *cfg.KeepExtracted
}

// 📝 String returns a string representation of the config
func (cfg *Config) String() string {
	return fmt.Sprintf("%s/{%s/<id>/%s,%s}", cfg.Output, cfg.AssetsDir, cfg.Version, cfg.MetasDir)
}
