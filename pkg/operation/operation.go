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
	"context"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/chartpack/pkg/archive"
	"github.com/walteh/chartpack/pkg/config"
	"github.com/walteh/chartpack/pkg/log"
	"github.com/walteh/chartpack/pkg/manifest"
	"github.com/walteh/chartpack/pkg/match"
	"github.com/walteh/chartpack/pkg/sheet"
	"github.com/walteh/chartpack/pkg/status"
	"github.com/walteh/chartpack/pkg/typedef"
)

// MergedFileName is the aggregated description index written under the output directory
const MergedFileName = "metas.json"

// 🔧 Options contains configuration for a pipeline
type Options struct {
	// ExcelPath is the metadata spreadsheet
	ExcelPath string
	// ZipPath is the SVG archive
	ZipPath string
	// Config holds layout and tuning; nil means config.Default()
	Config *config.Config
	// Inferrer produces manifest types; nil means typedef.Static
	Inferrer typedef.Inferrer
	// Console receives one line per chart; nil uses the logger on the context
	Console *log.Logger
}

// 🏭 Pipeline turns one spreadsheet and archive into chart bundles
type Pipeline struct {
	excelPath string
	zipPath   string
	cfg       *config.Config
	console   *log.Logger

	reader    *sheet.Reader
	extractor *archive.Extractor
	matcher   *match.Matcher
	builder   *manifest.Builder
}

// 🏭 New creates a new pipeline with the given options
func New(opts Options) (*Pipeline, error) {
	if opts.ExcelPath == "" {
		return nil, errors.Errorf("excel path is required")
	}
	if opts.ZipPath == "" {
		return nil, errors.Errorf("zip path is required")
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	} else if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}

	return &Pipeline{
		excelPath: opts.ExcelPath,
		zipPath:   opts.ZipPath,
		cfg:       cfg,
		console:   opts.Console,
		reader: sheet.NewReader(
			sheet.WithHeaderScanRows(cfg.Sheet.HeaderScanRows),
			sheet.WithIDColumn(cfg.Sheet.IDColumn),
		),
		extractor: archive.NewExtractor(cfg.ExtractDir),
		matcher:   match.NewMatcher(cfg.IgnorePatterns...),
		builder: manifest.NewBuilder(opts.Inferrer,
			manifest.WithVersion(cfg.Version),
			manifest.WithDefaultRange(manifest.Range{cfg.DefaultRange[0], cfg.DefaultRange[1]}),
		),
	}, nil
}

// 📊 Report summarises a run
type Report struct {
	OutputDir  string               // Output directory
	MergedPath string               // Path of metas.json
	Results    []status.ChartResult // One result per record, in sheet order
	Processed  int                  // Records that produced a bundle
	Skipped    int                  // Records passed over without an error
	Failed     int                  // Records interrupted by an error
}

// 🚀 Execute runs the pipeline. Setup, spreadsheet, archive and merge failures
// abort the run; per-record failures are tracked in the report.
func (p *Pipeline) Execute(ctx context.Context) (*Report, error) {
	logger := zerolog.Ctx(ctx)
	console := p.console
	if console == nil {
		console = log.FromContext(ctx)
	}

	mgr := status.New(p.cfg.Output, logger)
	for _, dir := range []string{"", p.cfg.AssetsDir, p.cfg.MetasDir} {
		if err := mgr.CreateDir(ctx, dir); err != nil {
			return nil, errors.Errorf("preparing output: %w", err)
		}
	}

	records, err := p.reader.Read(ctx, p.excelPath)
	if err != nil {
		return nil, errors.Errorf("reading spreadsheet: %w", err)
	}
	console.Infof("Read %d chart records from %s", len(records), filepath.Base(p.excelPath))

	extractDir, err := p.extractor.Extract(ctx, p.zipPath, mgr.BaseDir())
	if err != nil {
		return nil, errors.Errorf("extracting archive: %w", err)
	}
	if !p.cfg.ShouldKeepExtracted() {
		defer func() {
			if err := mgr.RemoveDir(ctx, p.cfg.ExtractDir); err != nil {
				logger.Warn().Err(err).Str("dir", extractDir).Msg("removing extraction directory")
			}
		}()
	}

	mgr.StartOperation(ctx, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, errors.Errorf("run cancelled after %d of %d records: %w", i, len(records), err)
		}

		res := p.processRecord(ctx, mgr, extractDir, rec)
		mgr.Track(ctx, res)
		console.Chart(ctx, res)
		mgr.UpdateProgress(ctx, i+1)
	}
	mgr.FinishOperation(ctx)

	mergedPath := mgr.Path(MergedFileName)
	merged, err := manifest.Merge(ctx, mgr.Path(p.cfg.MetasDir), mergedPath)
	if err != nil {
		return nil, errors.Errorf("merging descriptions: %w", err)
	}
	logger.Debug().Int("descriptions", len(merged)).Msg("merged descriptions")

	report := &Report{
		OutputDir:  mgr.BaseDir(),
		MergedPath: mergedPath,
		Results:    mgr.Results(),
	}
	for outcome, n := range mgr.Counts() {
		switch {
		case outcome == status.OutcomeProcessed:
			report.Processed += n
		case outcome == status.OutcomeFailed:
			report.Failed += n
		case outcome.Skipped():
			report.Skipped += n
		}
	}
	return report, nil
}

// processRecord builds the bundle, manifest and description of one record
func (p *Pipeline) processRecord(ctx context.Context, mgr *status.Manager, extractDir string, rec sheet.Record) status.ChartResult {
	id := rec.ChartID()
	res := status.ChartResult{ID: id, Name: rec.Name}

	if !rec.HasID() {
		res.Outcome = status.OutcomeNoID
		return res
	}
	if id == "." || id == ".." || filepath.Base(id) != id || strings.ContainsAny(id, `/\`) || !filepath.IsLocal(id) {
		res.Outcome = status.OutcomeFailed
		res.Error = errors.Errorf("chart id %q is not a valid directory name", id)
		return res
	}

	matches := p.matcher.FindAll(ctx, extractDir, id)
	res.Matched = len(matches)
	if len(matches) == 0 {
		res.Outcome = status.OutcomeNoMatch
		return res
	}

	chartDir := filepath.Join(p.cfg.AssetsDir, id)
	versionDir := filepath.Join(chartDir, p.cfg.Version)
	if err := mgr.ResetDir(ctx, versionDir); err != nil {
		return p.fail(ctx, mgr, res, chartDir, errors.Errorf("preparing bundle directory: %w", err))
	}

	numbers := p.matcher.CopyAll(ctx, matches, mgr.Path(versionDir), id)
	if len(numbers) == 0 {
		if err := mgr.RemoveDir(ctx, chartDir); err != nil {
			return p.fail(ctx, mgr, res, chartDir, err)
		}
		res.Outcome = status.OutcomeNoNumber
		return res
	}
	res.Numbers = numbers

	m, err := p.builder.Build(ctx, mgr.Path(versionDir), rec, numbers)
	if err != nil {
		return p.fail(ctx, mgr, res, chartDir, err)
	}
	res.Range = m.Range

	if _, err := p.builder.Describe(ctx, mgr.Path(p.cfg.MetasDir), rec); err != nil {
		return p.fail(ctx, mgr, res, chartDir, err)
	}

	res.Outcome = status.OutcomeProcessed
	return res
}

// fail marks res as failed and removes the partial bundle
func (p *Pipeline) fail(ctx context.Context, mgr *status.Manager, res status.ChartResult, chartDir string, err error) status.ChartResult {
	if rmErr := mgr.RemoveDir(ctx, chartDir); rmErr != nil {
		zerolog.Ctx(ctx).Warn().Err(rmErr).Str("chart", res.ID).Msg("removing partial bundle")
	}
	res.Outcome = status.OutcomeFailed
	res.Error = err
	return res
}
