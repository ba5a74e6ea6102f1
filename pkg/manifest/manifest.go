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

// Package manifest writes the per-chart meta.json, the Markdown description and
// the aggregated description index.
package manifest

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/chartpack/pkg/sheet"
	"github.com/walteh/chartpack/pkg/status"
	"github.com/walteh/chartpack/pkg/typedef"
)

const (
	// DefaultVersion is the bundle version directory and manifest version
	DefaultVersion = "v1"
	// FileName is the manifest file written inside every bundle
	FileName = "meta.json"
)

// DefaultRange is used when neither k3 nor the copied files give a range
var DefaultRange = Range{1, 10}

var rangePattern = regexp.MustCompile(`\[(\d+),(\d+)\]`)

// 📏 Range is the inclusive, ascending number of data items a chart supports
type Range [2]int

// 📄 Manifest is the content of meta.json
type Manifest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	NameZh      string `json:"nameZh"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Author      string `json:"author"`
	Range       Range  `json:"range"`
	Remark      string `json:"remark"`
	Types       string `json:"types"`
}

// DeriveRange picks the range from a "[lo,hi]" pattern in k3, else from the
// smallest and largest copied number, else fallback. The result is ascending.
func DeriveRange(k3 string, numbers []int, fallback Range) Range {
	r := fallback
	if m := rangePattern.FindStringSubmatch(k3); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo == nil && errHi == nil {
			r = Range{lo, hi}
		} else if len(numbers) > 0 {
			r = Range{slices.Min(numbers), slices.Max(numbers)}
		}
	} else if len(numbers) > 0 {
		r = Range{slices.Min(numbers), slices.Max(numbers)}
	}

	if r[0] > r[1] {
		r[0], r[1] = r[1], r[0]
	}
	return r
}

// 🏗️ Builder produces manifests and descriptions for chart records
type Builder struct {
	inferrer     typedef.Inferrer
	version      string
	defaultRange Range
}

// Option configures a Builder
type Option func(*Builder)

// WithVersion sets the version written into manifests
func WithVersion(version string) Option {
	return func(b *Builder) {
		if version != "" {
			b.version = version
		}
	}
}

// WithDefaultRange sets the range used when nothing else provides one
func WithDefaultRange(r Range) Option {
	return func(b *Builder) {
		b.defaultRange = r
	}
}

// 🏭 NewBuilder creates a builder; a nil inferrer falls back to typedef.Static
func NewBuilder(inferrer typedef.Inferrer, opts ...Option) *Builder {
	if inferrer == nil {
		inferrer = typedef.NewStatic()
	}
	b := &Builder{
		inferrer:     inferrer,
		version:      DefaultVersion,
		defaultRange: DefaultRange,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// 📝 Build writes <dir>/meta.json for rec. numbers are the variants copied into
// dir. A record without an identifier is logged and yields nil, nil.
func (b *Builder) Build(ctx context.Context, dir string, rec sheet.Record, numbers []int) (*Manifest, error) {
	logger := zerolog.Ctx(ctx)

	if !rec.HasID() {
		logger.Warn().Interface("record", rec).Msg("record has no id, not writing manifest")
		return nil, nil
	}

	id := rec.ChartID()
	rng := DeriveRange(rec.K3, numbers, b.defaultRange)
	logger.Debug().Str("chart", id).Str("k3", rec.K3).Ints("range", rng[:]).Msg("derived range")

	contents := make([]string, 0, len(numbers))
	for _, n := range numbers {
		data, err := os.ReadFile(filepath.Join(dir, strconv.Itoa(n)+".svg"))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, errors.Errorf("reading variant %d: %w", n, err)
		}
		contents = append(contents, string(data))
	}

	m := &Manifest{
		ID:          id,
		Name:        firstNonEmpty(rec.Name, rec.ID),
		NameZh:      firstNonEmpty(rec.NameZh, rec.Name, rec.ID),
		Version:     b.version,
		Description: rec.Description,
		Author:      rec.Author,
		Range:       rng,
		Remark:      rec.Remark,
		Types:       b.inferrer.Infer(contents),
	}

	path := filepath.Join(dir, FileName)
	if err := status.WriteJSON(path, m); err != nil {
		return nil, errors.Errorf("writing manifest for %s: %w", id, err)
	}

	logger.Debug().Str("chart", id).Str("path", path).Msg("wrote manifest")
	return m, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
