// Package runeindex maps case-folded runes to the rows whose field values
// contain them.
//
// A query can only match a row as a subsequence if every query rune occurs in
// the row, so intersecting the postings of the query runes yields a candidate
// set that never loses a match.
package runeindex

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/usersearch/internal/fuzzy"
)

// Builder accumulates rune postings. It is not safe for concurrent use.
type Builder struct {
	postings map[rune]*roaring.Bitmap
	rows     uint32
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{postings: make(map[rune]*roaring.Bitmap)}
}

// Add records every rune of value under row.
func (b *Builder) Add(row uint32, value string) {
	for _, r := range value {
		f := fuzzy.Fold(r)
		bm, ok := b.postings[f]
		if !ok {
			bm = roaring.New()
			b.postings[f] = bm
		}
		bm.Add(row)
	}
	if row >= b.rows {
		b.rows = row + 1
	}
}

// Build freezes the postings into an Index. The Builder must not be reused.
func (b *Builder) Build() *Index {
	for _, bm := range b.postings {
		bm.RunOptimize()
	}
	ix := &Index{postings: b.postings, rows: b.rows}
	b.postings = nil
	return ix
}

// Index is an immutable rune posting index. It is safe for concurrent use.
type Index struct {
	postings map[rune]*roaring.Bitmap
	rows     uint32
}

// Rows returns the number of rows covered by the index.
func (ix *Index) Rows() int { return int(ix.rows) }

// Runes returns the number of distinct folded runes.
func (ix *Index) Runes() int { return len(ix.postings) }

// Candidates returns the ascending rows that contain every rune of query.
// An empty query yields no candidates.
func (ix *Index) Candidates(query string) []uint32 {
	seen := make(map[rune]struct{}, len(query))
	bitmaps := make([]*roaring.Bitmap, 0, len(query))
	for _, r := range query {
		f := fuzzy.Fold(r)
		if _, dup := seen[f]; dup {
			continue
		}
		seen[f] = struct{}{}

		bm, ok := ix.postings[f]
		if !ok {
			return nil
		}
		bitmaps = append(bitmaps, bm)
	}

	switch len(bitmaps) {
	case 0:
		return nil
	case 1:
		return bitmaps[0].ToArray()
	default:
		return roaring.FastAnd(bitmaps...).ToArray()
	}
}

// SizeInBytes estimates the memory held by the postings.
func (ix *Index) SizeInBytes() uint64 {
	size := uint64(len(ix.postings)) * 16
	for _, bm := range ix.postings {
		size += bm.GetSizeInBytes()
	}
	return size
}
