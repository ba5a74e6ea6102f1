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
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
)

func init() {
	Register(&HCLParser{})
}

// 🔧 HCLParser implements the Parser interface for HCL files.
// Expressions can read environment variables through the env object,
// e.g. output = "${env.HOME}/charts".
type HCLParser struct{}

// 🔍 CanParse checks if this parser can handle the given file
func (p *HCLParser) CanParse(filename string) bool {
	return strings.HasSuffix(strings.ToLower(filename), ".hcl")
}

// 📝 Parse parses the config from HCL
func (p *HCLParser) Parse(ctx context.Context, data []byte) (*Config, error) {
	parser := hclparse.NewParser()
	hclFile, diags := parser.ParseHCL(data, "config.hcl")
	if diags.HasErrors() {
		return nil, errors.Errorf("parsing HCL: %s", diags.Error())
	}

	// Create evaluation context
	evalCtx := &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": envObject(),
		},
	}

	// Define HCL schema
	type hclConfig struct {
		Output         string   `hcl:"output,optional"`
		Version        string   `hcl:"version,optional"`
		AssetsDir      string   `hcl:"assets_dir,optional"`
		MetasDir       string   `hcl:"metas_dir,optional"`
		ExtractDir     string   `hcl:"extract_dir,optional"`
		KeepExtracted  *bool    `hcl:"keep_extracted,optional"`
		DefaultRange   []int    `hcl:"default_range,optional"`
		IgnorePatterns []string `hcl:"ignore_patterns,optional"`
		Sheet          *struct {
			HeaderScanRows int    `hcl:"header_scan_rows,optional"`
			IDColumn       string `hcl:"id_column,optional"`
		} `hcl:"sheet,block"`
	}

	// Decode HCL
	var hclCfg hclConfig
	diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &hclCfg)
	if diags.HasErrors() {
		return nil, errors.Errorf("decoding HCL: %s", diags.Error())
	}

	// Convert to model
	cfg := &Config{
		Output:         hclCfg.Output,
		Version:        hclCfg.Version,
		AssetsDir:      hclCfg.AssetsDir,
		MetasDir:       hclCfg.MetasDir,
		ExtractDir:     hclCfg.ExtractDir,
		KeepExtracted:  hclCfg.KeepExtracted,
		DefaultRange:   hclCfg.DefaultRange,
		IgnorePatterns: hclCfg.IgnorePatterns,
	}
	if hclCfg.Sheet != nil {
		cfg.Sheet = SheetArgs{
			HeaderScanRows: hclCfg.Sheet.HeaderScanRows,
			IDColumn:       hclCfg.Sheet.IDColumn,
		}
	}

	return cfg, nil
}

// envObject exposes the process environment to HCL expressions
func envObject() cty.Value {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			continue
		}
		vars[name] = cty.StringVal(value)
	}
	if len(vars) == 0 {
		return cty.EmptyObjectVal
	}
	return cty.ObjectVal(vars)
}
