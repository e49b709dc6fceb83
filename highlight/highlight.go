// Package highlight renders the matched ranges of a search result.
package highlight

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hupe1980/usersearch/model"
)

// DefaultStyle is used by the CLI for matched spans.
var DefaultStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))

// ForField returns the ranges that belong to field.
func ForField(ranges []model.Range, field string) []model.Range {
	var out []model.Range
	for _, r := range ranges {
		if r.Field == field {
			out = append(out, r)
		}
	}
	return out
}

// Ranges clamps ranges to value, sorts them and merges overlapping or
// adjacent ones. Empty ranges are dropped.
func Ranges(value string, ranges []model.Range) []model.Range {
	n := len(value)

	out := make([]model.Range, 0, len(ranges))
	for _, r := range ranges {
		r.Start = max(r.Start, 0)
		r.End = min(r.End, n)
		if r.Start < r.End {
			out = append(out, r)
		}
	}

	slices.SortFunc(out, func(a, b model.Range) int {
		return a.Start - b.Start
	})

	merged := out[:0]
	for _, r := range out {
		if k := len(merged) - 1; k >= 0 && r.Start <= merged[k].End {
			merged[k].End = max(merged[k].End, r.End)
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Mark wraps each matched span of value in prefix and suffix.
func Mark(value string, ranges []model.Range, prefix, suffix string) string {
	return render(value, ranges, func(s string) string {
		return prefix + s + suffix
	})
}

// Style renders each matched span of value with style.
func Style(value string, ranges []model.Range, style lipgloss.Style) string {
	return render(value, ranges, func(s string) string {
		return style.Render(s)
	})
}

func render(value string, ranges []model.Range, wrap func(string) string) string {
	spans := Ranges(value, ranges)
	if len(spans) == 0 {
		return value
	}

	var b strings.Builder
	prev := 0
	for _, r := range spans {
		b.WriteString(value[prev:r.Start])
		b.WriteString(wrap(value[r.Start:r.End]))
		prev = r.End
	}
	b.WriteString(value[prev:])
	return b.String()
}
