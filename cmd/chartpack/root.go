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

package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/chartpack/pkg/config"
	"github.com/walteh/chartpack/pkg/log"
	"github.com/walteh/chartpack/pkg/operation"
)

// rootOpts holds the flags of the root command
type rootOpts struct {
	excel      string
	zip        string
	output     string
	configFile string
	debug      bool
}

// newRootCommand builds the chartpack command tree writing to the given streams
func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:   "chartpack",
		Short: "Pack chart SVG variants and metadata into asset bundles",
		Long: `chartpack reads a spreadsheet of chart metadata and a ZIP archive of SVG
variants, and writes one bundle per chart:

  <output>/assets/<id>/v1/<n>.svg
  <output>/assets/<id>/v1/meta.json
  <output>/metas/<id>.md
  <output>/metas.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run(cmd, stdout, stderr)
		},
	}

	addRootFlags(cmd, opts)
	cmd.AddCommand(newVersionCommand(stdout))
	return cmd
}

// addRootFlags adds the input, output and logging flags to the root command
func addRootFlags(cmd *cobra.Command, opts *rootOpts) {
	cmd.Flags().StringVarP(&opts.excel, "excel", "e", "", "path to the chart metadata spreadsheet (.xlsx)")
	cmd.Flags().StringVarP(&opts.zip, "zip", "z", "", "path to the ZIP archive of SVG files")
	cmd.Flags().StringVarP(&opts.output, "output", "o", config.DefaultOutput, "output directory")
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "optional config file (.yaml, .json or .hcl)")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false, "enable debug logging")

	_ = cmd.MarkFlagRequired("excel")
	_ = cmd.MarkFlagRequired("zip")
}

// debugLevel maps the debug flag to a log level
func debugLevel(debug bool) zerolog.Level {
	if debug {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// run loads configuration, applies flag overrides and executes the pipeline
func (o *rootOpts) run(cmd *cobra.Command, stdout, stderr io.Writer) error {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: stderr}).With().Timestamp().Logger().Level(debugLevel(o.debug))
	console := log.NewWithZerolog(stdout, zlog)

	ctx := zlog.WithContext(cmd.Context())
	ctx = log.NewContext(ctx, console)

	cfg := config.Default()
	if o.configFile != "" {
		loaded, err := config.Load(ctx, o.configFile)
		if err != nil {
			return errors.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	// Flags override the config file
	if cmd.Flags().Changed("output") {
		cfg.Output = o.output
	}

	pipeline, err := operation.New(operation.Options{
		ExcelPath: o.excel,
		ZipPath:   o.zip,
		Config:    cfg,
		Console:   console,
	})
	if err != nil {
		return errors.Errorf("creating pipeline: %w", err)
	}

	console.Header("packing chart assets into " + cfg.Output)

	report, err := pipeline.Execute(ctx)
	if err != nil {
		return err
	}

	console.LogNewline()
	if err := console.Summary(ctx, report.Results); err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}
	console.Successf("Wrote %d chart bundles to %s", report.Processed, report.OutputDir)
	return nil
}
