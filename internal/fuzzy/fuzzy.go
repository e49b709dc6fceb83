package fuzzy

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/sahilm/fuzzy"
)

// Hit is the result of matching the pattern against a single row.
type Hit struct {
	// Row is the corpus row the hit belongs to.
	Row uint32
	// Score is the raw sahilm/fuzzy score. It may be negative.
	Score int
	// Indexes are the byte offsets of the matched runes within the value.
	Indexes []int
	// Exact is true if every rune of the value was matched.
	Exact bool
}

// Column is one field column prepared for matching.
//
// Values are matched in their case-folded form: sahilm/fuzzy's camel-case
// bonus reads the value's own casing, and a value's capitalisation must never
// change its score.
// Matched indexes are mapped back to byte offsets in the original values.
type Column struct {
	values  []string
	folded  []string
	offsets [][]int // offsets[row][folded byte] = original byte; nil if aligned
}

// NewColumn prepares values for matching.
func NewColumn(values []string) *Column {
	c := &Column{
		values:  values,
		folded:  make([]string, len(values)),
		offsets: make([][]int, len(values)),
	}
	for i, v := range values {
		c.folded[i], c.offsets[i] = foldString(v)
	}
	return c
}

// Len returns the number of rows.
func (c *Column) Len() int { return len(c.values) }

// Value returns the original value of row.
func (c *Column) Value(row uint32) string { return c.values[row] }

// SizeInBytes estimates the memory held by the column.
func (c *Column) SizeInBytes() int64 {
	var size int64
	for i, v := range c.values {
		size += int64(len(v)) + 16
		if c.folded[i] != v {
			size += int64(len(c.folded[i])) + 16
		}
		size += int64(len(c.offsets[i])) * 8
	}
	return size
}

// subset adapts a subset of the folded column to fuzzy.Source.
type subset struct {
	col  *Column
	rows []uint32
}

func (s subset) String(i int) string { return s.col.folded[s.rows[i]] }

func (s subset) Len() int { return len(s.rows) }

// Match scores pattern against the rows of col.
// Rows that do not contain the pattern as a subsequence are omitted.
// Hits are returned in the order of rows.
func Match(pattern string, col *Column, rows []uint32) []Hit {
	if pattern == "" || col == nil || len(rows) == 0 {
		return nil
	}

	pattern, _ = foldString(pattern)
	matches := fuzzy.FindFrom(pattern, subset{col: col, rows: rows})
	if len(matches) == 0 {
		return nil
	}

	// FindFrom orders by score; restore row order.
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })

	patternLen := utf8.RuneCountInString(pattern)
	hits := make([]Hit, len(matches))
	for i, m := range matches {
		row := rows[m.Index]
		indexes := m.MatchedIndexes
		if off := col.offsets[row]; off != nil {
			mapped := make([]int, len(indexes))
			for j, idx := range indexes {
				mapped[j] = off[idx]
			}
			indexes = mapped
		}
		hits[i] = Hit{
			Row:     row,
			Score:   m.Score,
			Indexes: indexes,
			Exact:   patternLen == utf8.RuneCountInString(m.Str),
		}
	}
	return hits
}

// foldString replaces every rune of s by its Fold. If a folded rune encodes
// to a different number of bytes than the original (invalid UTF-8 included),
// it also returns the original byte offset of every folded byte offset.
func foldString(s string) (string, []int) {
	aligned := true
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if utf8.RuneLen(Fold(r)) != size {
			aligned = false
			break
		}
		i += size
	}

	var sb strings.Builder
	sb.Grow(len(s))
	if aligned {
		for _, r := range s {
			sb.WriteRune(Fold(r))
		}
		return sb.String(), nil
	}

	offsets := make([]int, 0, len(s)+utf8.UTFMax)
	for i, r := range s {
		n, _ := sb.WriteRune(Fold(r))
		for k := 0; k < n; k++ {
			offsets = append(offsets, i)
		}
	}
	return sb.String(), offsets
}

// Spans coalesces matched rune offsets into half-open byte spans.
func Spans(value string, indexes []int) [][2]int {
	if len(indexes) == 0 {
		return nil
	}

	spans := make([][2]int, 0, len(indexes))
	for _, idx := range indexes {
		if idx < 0 || idx >= len(value) {
			continue
		}
		_, size := utf8.DecodeRuneInString(value[idx:])
		end := idx + size
		if n := len(spans); n > 0 && spans[n-1][1] == idx {
			spans[n-1][1] = end
			continue
		}
		spans = append(spans, [2]int{idx, end})
	}
	return spans
}

// Fold returns the canonical case-folded form of r: the smallest rune in its
// unicode.SimpleFold orbit. Two runes compare equal under sahilm/fuzzy exactly
// when their folds are equal.
func Fold(r rune) rune {
	min := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < min {
			min = f
		}
	}
	return min
}
