package status

import (
	"fmt"
	"strings"
)

// Formatter defines how chart results and progress are worded
type Formatter interface {
	// FormatChart formats the outcome of one chart
	FormatChart(res ChartResult) string

	// FormatProgress formats a progress message
	FormatProgress(current, total int) string

	// FormatError formats an error message
	FormatError(err error) string
}

// DefaultFormatter provides a default implementation of Formatter
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// FormatChart formats a chart outcome with emojis
func (f *DefaultFormatter) FormatChart(res ChartResult) string {
	switch res.Outcome {
	case OutcomeProcessed:
		return fmt.Sprintf("✨ Packed %s (%d variants, range %d-%d)", res.ID, len(res.Numbers), res.Range[0], res.Range[1])
	case OutcomeNoID:
		return "⏭️  Skipped row without id"
	case OutcomeNoMatch:
		return fmt.Sprintf("⏭️  Skipped %s: no svg files", res.ID)
	case OutcomeNoNumber:
		return fmt.Sprintf("🗑️  Removed %s: %d svg files without a number", res.ID, res.Matched)
	case OutcomeFailed:
		return fmt.Sprintf("❌ Failed %s: %s", res.ID, f.FormatError(res.Error))
	default:
		return fmt.Sprintf("❓ %s", res.ID)
	}
}

// FormatProgress formats a progress message with percentage
func (f *DefaultFormatter) FormatProgress(current, total int) string {
	var percentage float64
	if total == 0 {
		percentage = 0
		if current > 0 {
			percentage = 100
		}
	} else {
		percentage = float64(current) / float64(total) * 100
	}

	if current >= total {
		return fmt.Sprintf("✅ Progress: %d/%d (%.0f%%)", current, total, percentage)
	}
	return fmt.Sprintf("⏳ Progress: %d/%d (%.0f%%)", current, total, percentage)
}

// FormatError formats an error message on a single line
func (f *DefaultFormatter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	return strings.ReplaceAll(err.Error(), "\n", " ")
}
