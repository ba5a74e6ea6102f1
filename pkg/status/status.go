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

package status

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is what happened to one metadata record
type Outcome int

const (
	OutcomeUnknown   Outcome = iota
	OutcomeProcessed         // bundle, manifest and description written
	OutcomeNoID              // record had no identifier
	OutcomeNoMatch           // no SVG contained the identifier
	OutcomeNoNumber          // SVGs matched but none carried a numeric suffix
	OutcomeFailed            // an I/O error interrupted the record
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeProcessed:
		return "processed"
	case OutcomeNoID:
		return "no-id"
	case OutcomeNoMatch:
		return "no-match"
	case OutcomeNoNumber:
		return "no-number"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Skipped reports whether the record was passed over without an error
func (o Outcome) Skipped() bool {
	return o == OutcomeNoID || o == OutcomeNoMatch || o == OutcomeNoNumber
}

// 📄 ChartResult records the outcome of one metadata record
type ChartResult struct {
	ID      string  // Canonical chart identifier
	Name    string  // Display name
	Outcome Outcome // What happened
	Matched int     // SVG files that contained the identifier
	Numbers []int   // Variant numbers copied into the bundle
	Range   [2]int  // Manifest range, zero unless processed
	Error   error   // Failure that interrupted the record
}

// 🔧 Manager owns the output tree and tracks per-chart results
type Manager struct {
	baseDir   string          // Output directory all relative paths resolve against
	logger    *zerolog.Logger // Logger for status updates
	formatter Formatter       // Formatter for status messages

	mu      sync.RWMutex
	results []ChartResult

	total     int
	processed int
}

// 🏭 New creates a new status manager rooted at baseDir
func New(baseDir string, logger *zerolog.Logger) *Manager {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Manager{
		baseDir:   filepath.Clean(baseDir),
		logger:    logger,
		formatter: NewDefaultFormatter(),
	}
}

// BaseDir returns the output directory
func (m *Manager) BaseDir() string {
	return m.baseDir
}

// Path resolves a path relative to the output directory
func (m *Manager) Path(elem ...string) string {
	return filepath.Join(append([]string{m.baseDir}, elem...)...)
}

// 📁 CreateDir creates a directory under the output directory, keeping existing content
func (m *Manager) CreateDir(ctx context.Context, path string) error {
	if err := os.MkdirAll(m.Path(path), 0755); err != nil {
		return errors.Errorf("creating directory: %w", err)
	}
	return nil
}

// ResetDir creates a directory under the output directory, removing existing content
func (m *Manager) ResetDir(ctx context.Context, path string) error {
	return ResetDir(m.Path(path))
}

// RemoveDir removes a directory under the output directory
func (m *Manager) RemoveDir(ctx context.Context, path string) error {
	if err := os.RemoveAll(m.Path(path)); err != nil {
		return errors.Errorf("removing directory: %w", err)
	}
	return nil
}

// 📝 Track records the outcome of a chart and logs it
func (m *Manager) Track(ctx context.Context, res ChartResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, res)

	var ev *zerolog.Event
	switch {
	case res.Error != nil:
		ev = m.logger.Error().Err(res.Error)
	case res.Outcome.Skipped():
		ev = m.logger.Debug()
	default:
		ev = m.logger.Info()
	}
	ev.Str("chart", res.ID).
		Str("outcome", res.Outcome.String()).
		Int("matched", res.Matched).
		Ints("numbers", res.Numbers).
		Msg(m.formatter.FormatChart(res))
}

// Results returns the tracked results in the order they were recorded
func (m *Manager) Results() []ChartResult {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ChartResult, len(m.results))
	copy(out, m.results)
	return out
}

// Counts tallies the tracked results by outcome
func (m *Manager) Counts() map[Outcome]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[Outcome]int)
	for _, r := range m.results {
		counts[r.Outcome]++
	}
	return counts
}

// StartOperation resets progress for a run over total records
func (m *Manager) StartOperation(ctx context.Context, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.total = total
	m.processed = 0
	m.logger.Info().Int("total", total).Msg(m.formatter.FormatProgress(0, total))
}

// UpdateProgress records how many records have been handled
func (m *Manager) UpdateProgress(ctx context.Context, processed int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.processed = processed
	m.logger.Debug().
		Int("processed", processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(processed, m.total))
}

// FinishOperation logs the final progress line
func (m *Manager) FinishOperation(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.logger.Info().
		Int("processed", m.processed).
		Int("total", m.total).
		Msg(m.formatter.FormatProgress(m.processed, m.total))
}
