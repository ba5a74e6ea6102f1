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

package operation

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/chartpack/pkg/config"
	"github.com/walteh/chartpack/pkg/log"
	"github.com/walteh/chartpack/pkg/manifest"
	"github.com/walteh/chartpack/pkg/status"
	"github.com/walteh/chartpack/pkg/testutils"
)

var header = []any{
	"中文名", "示意图", "id", "分类英文名", "分类中文名", "设计负责人", "变种", "使用场景",
	"数据项范围", "优先级", "效果图", "建议数量", "状态", "交付日期", "技术验收人", "中文描述", "备注",
}

// 🧪 fixture holds the inputs and output directory of one run
type fixture struct {
	excel  string
	zip    string
	output string
}

func newFixture(t *testing.T, rows [][]any, entries map[string]string) fixture {
	t.Helper()
	return fixture{
		excel:  testutils.WriteWorkbook(t, rows),
		zip:    testutils.WriteZip(t, entries),
		output: filepath.Join(t.TempDir(), "out"),
	}
}

func (f fixture) config(t *testing.T, mutate func(cfg *config.Config)) *config.Config {
	cfg := &config.Config{Output: f.output}
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate(), "config should validate")
	return cfg
}

func testContext(t *testing.T) context.Context {
	ctx := testutils.Context(t)
	return log.NewContext(ctx, log.NewWithZerolog(&bytes.Buffer{}, *zerolog.Ctx(ctx)))
}

func readManifest(t *testing.T, path string) manifest.Manifest {
	data, err := os.ReadFile(path)
	require.NoError(t, err, "reading %s", path)
	var m manifest.Manifest
	require.NoError(t, json.Unmarshal(data, &m), "parsing %s", path)
	return m
}

func svgNames(t *testing.T, dir string) []string {
	entries, err := os.ReadDir(dir)
	require.NoError(t, err, "reading %s", dir)
	var names []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".svg" {
			names = append(names, e.Name())
		}
	}
	return names
}

func TestExecute(t *testing.T) {
	fx := newFixture(t,
		[][]any{
			{"图表资产清单"},
			header,
			{"阶梯图", "", " Stairs ", "Stairs Gears", "阶梯齿轮", "alice", "", "", "[3,9]", "", "", "", "", "", "", "阶梯描述", "无"},
			{"条形图", "", "bar", "Bar"},
			{"饼图", "", "pie", "Pie"},
			{"面积图", "", "area", "Area"},
			{"无编号", "", "", "Nameless"},
		},
		map[string]string{
			"charts/stairs-1.svg":   "<svg>s1</svg>",
			"charts/Stairs-2.SVG":   "<svg>s2</svg>",
			"charts/bar-2.svg":      "<svg>b2</svg>",
			"charts/bar-5.svg":      "<svg>b5</svg>",
			"charts/barchart-7.svg": "<svg>b7</svg>",
			"__MACOSX/._bar-9.svg":  "junk",
			"area.svg":              "<svg>a</svg>",
		},
	)

	stale := filepath.Join(fx.output, "assets", "stairs", "v1", "99.svg")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755), "creating stale dir")
	require.NoError(t, os.WriteFile(stale, []byte("stale"), 0644), "writing stale file")

	color.NoColor = true
	defer func() { color.NoColor = false }()
	console := &bytes.Buffer{}

	p, err := New(Options{
		ExcelPath: fx.excel,
		ZipPath:   fx.zip,
		Config: fx.config(t, func(cfg *config.Config) {
			cfg.IgnorePatterns = []string{"__MACOSX/**"}
		}),
		Console: log.NewWithZerolog(console, zerolog.New(zerolog.NewTestWriter(t))),
	})
	require.NoError(t, err, "creating pipeline")

	report, err := p.Execute(testContext(t))
	require.NoError(t, err, "run should succeed")

	t.Run("report", func(t *testing.T) {
		require.Len(t, report.Results, 4, "rows without id never become records")
		outcomes := map[string]status.Outcome{}
		for _, r := range report.Results {
			outcomes[r.ID] = r.Outcome
		}
		assert.Equal(t, map[string]status.Outcome{
			"stairs": status.OutcomeProcessed,
			"bar":    status.OutcomeProcessed,
			"pie":    status.OutcomeNoMatch,
			"area":   status.OutcomeNoNumber,
		}, outcomes, "outcomes should be as expected")
		assert.Equal(t, 2, report.Processed, "two charts processed")
		assert.Equal(t, 2, report.Skipped, "two charts skipped")
		assert.Equal(t, 0, report.Failed, "nothing failed")
		assert.Contains(t, console.String(), "stairs", "console should list charts")
	})

	t.Run("stairs_bundle", func(t *testing.T) {
		dir := filepath.Join(fx.output, "assets", "stairs", "v1")
		assert.Equal(t, []string{"1.svg", "2.svg"}, svgNames(t, dir), "stale files should be gone")
		m := readManifest(t, filepath.Join(dir, "meta.json"))
		assert.Equal(t, "stairs", m.ID, "id should be canonical")
		assert.Equal(t, manifest.Range{3, 9}, m.Range, "k3 range should win")
		assert.Equal(t, "阶梯齿轮", m.NameZh, "nameZh should be kept")
	})

	t.Run("bar_bundle_includes_substring_matches", func(t *testing.T) {
		dir := filepath.Join(fx.output, "assets", "bar", "v1")
		assert.Equal(t, []string{"2.svg", "5.svg", "7.svg"}, svgNames(t, dir), "barchart should be picked up, __MACOSX ignored")
		m := readManifest(t, filepath.Join(dir, "meta.json"))
		assert.Equal(t, manifest.Range{2, 7}, m.Range, "range should come from the files")
	})

	t.Run("skipped_charts_leave_nothing", func(t *testing.T) {
		assert.NoDirExists(t, filepath.Join(fx.output, "assets", "pie"), "no directory for unmatched chart")
		assert.NoDirExists(t, filepath.Join(fx.output, "assets", "area"), "unnumbered chart should be removed")
		assert.NoFileExists(t, filepath.Join(fx.output, "metas", "pie.md"), "no description for skipped chart")
	})

	t.Run("descriptions", func(t *testing.T) {
		data, err := os.ReadFile(filepath.Join(fx.output, "metas.json"))
		require.NoError(t, err, "reading metas.json")
		var merged map[string]string
		require.NoError(t, json.Unmarshal(data, &merged), "parsing metas.json")
		require.Len(t, merged, 2, "only processed charts should be described")
		assert.Contains(t, merged["stairs"], "# 阶梯齿轮\n", "stairs description should use nameZh")
		assert.Contains(t, merged["bar"], "# Bar\n", "bar description should fall back to name")
		assert.Equal(t, filepath.Join(fx.output, "metas.json"), report.MergedPath, "report should point at metas.json")
	})

	t.Run("extraction_kept", func(t *testing.T) {
		assert.DirExists(t, filepath.Join(fx.output, "extracted_svgs", "charts"), "extraction should be kept by default")
	})
}

func TestExecuteRemovesExtraction(t *testing.T) {
	fx := newFixture(t, [][]any{header, {"饼图", "", "pie"}}, map[string]string{"pie-1.svg": "<svg/>"})

	p, err := New(Options{
		ExcelPath: fx.excel,
		ZipPath:   fx.zip,
		Config: fx.config(t, func(cfg *config.Config) {
			keep := false
			cfg.KeepExtracted = &keep
			cfg.Version = "v2"
		}),
	})
	require.NoError(t, err, "creating pipeline")

	report, err := p.Execute(testContext(t))
	require.NoError(t, err, "run should succeed")
	assert.Equal(t, 1, report.Processed, "pie should be processed")
	assert.FileExists(t, filepath.Join(fx.output, "assets", "pie", "v2", "1.svg"), "configured version should be used")
	assert.NoDirExists(t, filepath.Join(fx.output, "extracted_svgs"), "extraction should be removed")
}

func TestExecuteRejectsUnsafeID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		entries map[string]string
	}{
		{
			name:    "parent_dir",
			id:      "..",
			entries: map[string]string{"..-1.svg": "<svg/>"},
		},
		{
			name:    "current_dir",
			id:      ".",
			entries: map[string]string{"pie-1.svg": "<svg/>"},
		},
		{
			name:    "nested_path",
			id:      "a/b",
			entries: map[string]string{"a/b-1.svg": "<svg/>"},
		},
		{
			name:    "backslash",
			id:      `a\b`,
			entries: map[string]string{"pie-1.svg": "<svg/>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, [][]any{header, {"坏", "", tt.id, "Bad"}}, tt.entries)

			p, err := New(Options{ExcelPath: fx.excel, ZipPath: fx.zip, Config: fx.config(t, nil)})
			require.NoError(t, err, "creating pipeline")

			report, err := p.Execute(testContext(t))
			require.NoError(t, err, "a bad record should not abort the run")
			require.Len(t, report.Results, 1, "one record")
			assert.Equal(t, status.OutcomeFailed, report.Results[0].Outcome, "unsafe id should fail")
			assert.Equal(t, 1, report.Failed, "failure should be counted")

			assert.NoDirExists(t, filepath.Join(fx.output, "assets", "v1"), "bundle must not land in the assets root")
			assert.NoFileExists(t, filepath.Join(fx.output, "metas", tt.id+".md"), "no description for unsafe id")
			assert.NoFileExists(t, filepath.Join(fx.output, "metas", "..md"), "no description for unsafe id")
		})
	}
}

func TestExecuteUnsafeIDKeepsOtherBundles(t *testing.T) {
	fx := newFixture(t,
		[][]any{header, {"阶梯", "", "stairs", "Stairs"}, {"坏", "", ".", "Dot"}},
		map[string]string{"stairs-1.svg": "<svg/>", "stairs-2.svg": "<svg/>"},
	)

	p, err := New(Options{ExcelPath: fx.excel, ZipPath: fx.zip, Config: fx.config(t, nil)})
	require.NoError(t, err, "creating pipeline")

	report, err := p.Execute(testContext(t))
	require.NoError(t, err, "running pipeline")
	require.Len(t, report.Results, 2, "two records")
	assert.Equal(t, status.OutcomeProcessed, report.Results[0].Outcome, "valid chart should be processed")
	assert.Equal(t, status.OutcomeFailed, report.Results[1].Outcome, "dot id should fail")
	assert.FileExists(t, filepath.Join(fx.output, "assets", "stairs", "v1", "meta.json"), "earlier bundle should survive")
	assert.FileExists(t, filepath.Join(fx.output, "assets", "stairs", "v1", "2.svg"), "earlier bundle should survive")
	assert.NoDirExists(t, filepath.Join(fx.output, "assets", "v1"), "dot id must not write into the assets root")
}

func TestExecuteFatalErrors(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(fx *fixture)
		errContains string
	}{
		{
			name:        "missing_spreadsheet",
			mutate:      func(fx *fixture) { fx.excel += ".missing" },
			errContains: "reading spreadsheet",
		},
		{
			name:        "missing_archive",
			mutate:      func(fx *fixture) { fx.zip += ".missing" },
			errContains: "extracting archive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newFixture(t, [][]any{header, {"饼图", "", "pie"}}, map[string]string{"pie-1.svg": "<svg/>"})
			tt.mutate(&fx)

			p, err := New(Options{ExcelPath: fx.excel, ZipPath: fx.zip, Config: fx.config(t, nil)})
			require.NoError(t, err, "creating pipeline")

			_, err = p.Execute(testContext(t))
			require.Error(t, err, "run should fail")
			assert.ErrorIs(t, err, fs.ErrNotExist, "error should be a not found error")
			assert.Contains(t, err.Error(), tt.errContains, "error should name the failing step")
			assert.NoFileExists(t, filepath.Join(fx.output, "metas.json"), "nothing should be merged")
		})
	}
}

func TestExecuteCancelled(t *testing.T) {
	fx := newFixture(t, [][]any{header, {"饼图", "", "pie"}}, map[string]string{"pie-1.svg": "<svg/>"})

	p, err := New(Options{ExcelPath: fx.excel, ZipPath: fx.zip, Config: fx.config(t, nil)})
	require.NoError(t, err, "creating pipeline")

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	_, err = p.Execute(ctx)
	require.Error(t, err, "cancelled run should fail")
	assert.ErrorIs(t, err, context.Canceled, "error should wrap the cancellation")
	assert.NoDirExists(t, filepath.Join(fx.output, "assets", "pie"), "no record should be processed")
}

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		opts        Options
		errContains string
	}{
		{name: "missing_excel", opts: Options{ZipPath: "a.zip"}, errContains: "excel path is required"},
		{name: "missing_zip", opts: Options{ExcelPath: "a.xlsx"}, errContains: "zip path is required"},
		{
			name:        "invalid_config",
			opts:        Options{ExcelPath: "a.xlsx", ZipPath: "a.zip", Config: &config.Config{DefaultRange: []int{5, 1}}},
			errContains: "validating config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts)
			require.Error(t, err, "New should fail")
			assert.Contains(t, err.Error(), tt.errContains, "error should contain expected message")
		})
	}

	p, err := New(Options{ExcelPath: "a.xlsx", ZipPath: "a.zip"})
	require.NoError(t, err, "defaults should be enough")
	assert.Equal(t, "output", p.cfg.Output, "default config should be used")
}
