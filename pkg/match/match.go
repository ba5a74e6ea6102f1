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

// Package match finds the SVG variants of a chart and copies them into its bundle.
//
// Matching is a case-insensitive substring test on the file name, so an
// identifier such as "bar" also picks up "barchart-1.svg". Variant numbers come
// from the trailing "-<n>.svg" of each name.
package match

import (
	"context"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/walteh/chartpack/pkg/status"
)

var numberPattern = regexp.MustCompile(`(?i)-(\d+)\.svg$`)

// ExtractNumber returns the variant number encoded as "-<n>.svg" at the end of name
func ExtractNumber(name string) (int, bool) {
	m := numberPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// 🔍 Matcher locates and copies chart SVG files
type Matcher struct {
	ignore []string
}

// 🏭 NewMatcher creates a matcher that skips paths matching any of the
// doublestar ignore patterns (relative to the scanned root, slash separated)
func NewMatcher(ignore ...string) *Matcher {
	return &Matcher{ignore: ignore}
}

func (m *Matcher) ignored(rel string) bool {
	for _, pattern := range m.ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// 🔎 FindAll walks root in lexical order and returns every .svg file whose base
// name contains identifier, ignoring case. Unreadable subdirectories are logged
// and skipped.
func (m *Matcher) FindAll(ctx context.Context, root, identifier string) []string {
	logger := zerolog.Ctx(ctx)
	needle := strings.ToLower(identifier)

	var matches []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable path")
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr == nil && rel != "." && m.ignored(filepath.ToSlash(rel)) {
			logger.Trace().Str("path", rel).Msg("ignored path")
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		name := strings.ToLower(d.Name())
		if strings.HasSuffix(name, ".svg") && strings.Contains(name, needle) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		logger.Warn().Err(err).Str("root", root).Msg("scan stopped early")
	}

	logger.Debug().Str("chart", identifier).Int("matches", len(matches)).Msg("scanned for svg files")
	return matches
}

// 📋 CopyAll copies each numbered match to targetDir/<n>.svg and returns the
// numbers in input order. Files without a number, and files that fail to copy,
// are logged and left out. A repeated number overwrites the earlier copy.
func (m *Matcher) CopyAll(ctx context.Context, matches []string, targetDir, identifier string) []int {
	logger := zerolog.Ctx(ctx)

	numbers := make([]int, 0, len(matches))
	for _, src := range matches {
		n, ok := ExtractNumber(filepath.Base(src))
		if !ok {
			logger.Warn().Str("chart", identifier).Str("file", src).Msg("svg file has no variant number")
			continue
		}

		dst := filepath.Join(targetDir, strconv.Itoa(n)+".svg")
		if err := status.CopyFile(src, dst); err != nil {
			logger.Error().Err(err).Str("chart", identifier).Str("file", src).Msg("copying svg file")
			continue
		}

		logger.Trace().Str("from", src).Str("to", dst).Msg("copied svg file")
		numbers = append(numbers, n)
	}
	return numbers
}
