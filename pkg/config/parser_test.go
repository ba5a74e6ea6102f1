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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 🧪 TestParserRegistration tests the parser registration system
func TestParserRegistration(t *testing.T) {
	// Save original parsers
	originalParsers := parsers
	defer func() {
		parsers = originalParsers
	}()

	// Reset parsers
	parsers = nil

	// Create mock parser
	mockParser := &struct {
		Parser
		canParse bool
	}{
		canParse: true,
	}

	// Test registration
	Register(mockParser)
	assert.Len(t, parsers, 1, "should have 1 parser registered")
	assert.Equal(t, mockParser, parsers[0], "registered parser should match")
}

// 🧪 TestParserSelection tests parser selection by file extension
func TestParserSelection(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Parser
	}{
		{
			name:     "yaml_file",
			filename: "config.yaml",
			want:     &YAMLParser{},
		},
		{
			name:     "yml_file",
			filename: "config.YML",
			want:     &YAMLParser{},
		},
		{
			name:     "json_file",
			filename: "config.json",
			want:     &JSONParser{},
		},
		{
			name:     "hcl_file",
			filename: "config.hcl",
			want:     &HCLParser{},
		},
		{
			name:     "unknown_extension",
			filename: "config.txt",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetParser(tt.filename)
			if tt.want == nil {
				assert.Nil(t, got, "should return nil for unknown extension")
				return
			}
			require.NotNil(t, got, "should return a parser")
			assert.IsType(t, tt.want, got, "should return correct parser type")
		})
	}
}

// 🧪 TestParsing tests raw parsing of every format, before validation
func TestParsing(t *testing.T) {
	t.Setenv("CHARTPACK_TEST_OUT", "/srv/charts")

	tests := []struct {
		name        string
		parser      Parser
		config      string
		wantErr     bool
		errContains string
		check       func(t *testing.T, cfg *Config)
	}{
		{
			name:   "hcl_env_interpolation",
			parser: &HCLParser{},
			config: `
output         = "${env.CHARTPACK_TEST_OUT}/out"
keep_extracted = true
`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/charts/out", cfg.Output, "env should be interpolated")
				require.NotNil(t, cfg.KeepExtracted, "keep_extracted should be set")
				assert.True(t, *cfg.KeepExtracted, "keep_extracted should be true")
			},
		},
		{
			name:   "hcl_unset_fields_stay_empty",
			parser: &HCLParser{},
			config: `version = "v2"`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "v2", cfg.Version, "version should be read")
				assert.Empty(t, cfg.Output, "output should be left for defaults")
				assert.Nil(t, cfg.KeepExtracted, "keep_extracted should be unset")
			},
		},
		{
			name:        "hcl_unknown_attribute",
			parser:      &HCLParser{},
			config:      `destination = "x"`,
			wantErr:     true,
			errContains: "decoding HCL",
		},
		{
			name:        "hcl_syntax_error",
			parser:      &HCLParser{},
			config:      `output = `,
			wantErr:     true,
			errContains: "parsing HCL",
		},
		{
			name:        "yaml_unknown_field",
			parser:      &YAMLParser{},
			config:      "destination: x\n",
			wantErr:     true,
			errContains: "parsing YAML",
		},
		{
			name:        "json_unknown_field",
			parser:      &JSONParser{},
			config:      `{"destination": "x"}`,
			wantErr:     true,
			errContains: "parsing JSON",
		},
		{
			name:        "json_trailing_content",
			parser:      &JSONParser{},
			config:      "{\"output\": \"dist\"}\n{\"version\": \"v2\"}",
			wantErr:     true,
			errContains: "unexpected content after config object at line 2, column 1",
		},
		{
			name:        "json_trailing_brace",
			parser:      &JSONParser{},
			config:      `{"output": "dist"} }`,
			wantErr:     true,
			errContains: "unexpected content after config object at line 1, column 20",
		},
		{
			name:        "json_syntax_error_position",
			parser:      &JSONParser{},
			config:      "{\n  \"output\": \"dist\",\n  \"version\" \"v2\"\n}",
			wantErr:     true,
			errContains: "parsing JSON at line 3",
		},
		{
			name:   "json_empty_document",
			parser: &JSONParser{},
			config: "  \n",
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, Config{}, *cfg, "empty document should give an empty config")
			},
		},
		{
			name:   "json_nested_sheet",
			parser: &JSONParser{},
			config: `{"sheet": {"header_scan_rows": 2, "id_column": "E"}}`,
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, SheetArgs{HeaderScanRows: 2, IDColumn: "E"}, cfg.Sheet, "sheet should be read")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.parser.Parse(context.Background(), []byte(tt.config))
			if tt.wantErr {
				require.Error(t, err, "parsing should fail")
				assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
				return
			}
			require.NoError(t, err, "parsing should succeed")
			tt.check(t, cfg)
		})
	}
}
