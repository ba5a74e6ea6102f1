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

// Package log prints chartpack progress for humans while mirroring every line
// to a zerolog logger.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"

	"github.com/walteh/chartpack/pkg/status"
)

// 🎨 Display configuration
const (
	chartIndent  = 4  // spaces to indent chart entries
	idWidth      = 30 // Width for the chart id
	outcomeWidth = 12 // Width for the outcome text
)

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
}

// 🏭 New creates a new logger printing to console, with structured logs on stderr
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(level)
	return NewWithZerolog(console, zlog)
}

// 🏭 NewWithZerolog creates a logger mirroring to an existing zerolog logger
func NewWithZerolog(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:    zlog,
		console: console,
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context, or a logger that discards everything
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		return NewWithZerolog(io.Discard, zerolog.Nop())
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatChart formats a chart result for display
func (l *Logger) formatChart(res status.ChartResult) string {
	var symbol rune
	var symbolColor color.Attribute
	switch res.Outcome {
	case status.OutcomeProcessed:
		symbol = '✓'
		symbolColor = color.FgGreen
	case status.OutcomeNoID, status.OutcomeNoMatch:
		symbol = '-'
		symbolColor = color.FgYellow
	case status.OutcomeNoNumber:
		symbol = '✗'
		symbolColor = color.FgRed
	case status.OutcomeFailed:
		symbol = '!'
		symbolColor = color.FgRed
	default:
		symbol = '•'
		symbolColor = color.FgCyan
	}

	id := res.ID
	if id == "" {
		id = "(no id)"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", chartIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", idWidth, id),
		color.New(color.FgCyan).Sprint(fmt.Sprintf("%-*s", outcomeWidth, res.Outcome.String())),
		detail(res))
}

func detail(res status.ChartResult) string {
	switch res.Outcome {
	case status.OutcomeProcessed:
		return fmt.Sprintf("%d variants [%d-%d]", len(res.Numbers), res.Range[0], res.Range[1])
	case status.OutcomeNoMatch:
		return "no svg files"
	case status.OutcomeNoNumber:
		return fmt.Sprintf("%d unnumbered", res.Matched)
	case status.OutcomeFailed:
		if res.Error != nil {
			return res.Error.Error()
		}
	}
	return ""
}

// 📝 Chart prints the outcome of one chart to the console
func (l *Logger) Chart(ctx context.Context, res status.ChartResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatChart(res))
}

// 📊 Summary prints one table row per chart followed by the outcome totals
func (l *Logger) Summary(ctx context.Context, results []status.ChartResult) error {
	data := pterm.TableData{{"Chart", "Outcome", "Variants", "Range"}}
	counts := make(map[status.Outcome]int)
	for _, res := range results {
		counts[res.Outcome]++

		id := res.ID
		if id == "" {
			id = "(no id)"
		}
		variants, rng := "-", "-"
		if res.Outcome == status.OutcomeProcessed {
			variants = strconv.Itoa(len(res.Numbers))
			rng = fmt.Sprintf("%d-%d", res.Range[0], res.Range[1])
		}
		data = append(data, []string{id, res.Outcome.String(), variants, rng})
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}

	skipped := counts[status.OutcomeNoID] + counts[status.OutcomeNoMatch] + counts[status.OutcomeNoNumber]

	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, table)
	fmt.Fprintf(l.console, "%d processed, %d skipped, %d failed\n",
		counts[status.OutcomeProcessed], skipped, counts[status.OutcomeFailed])

	l.zlog.Info().
		Int("processed", counts[status.OutcomeProcessed]).
		Int("skipped", skipped).
		Int("failed", counts[status.OutcomeFailed]).
		Msg("run summary")
	return nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("chartpack")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
