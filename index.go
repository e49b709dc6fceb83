package usersearch

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hupe1980/usersearch/internal/fuzzy"
	"github.com/hupe1980/usersearch/internal/hash"
	"github.com/hupe1980/usersearch/internal/runeindex"
	"github.com/hupe1980/usersearch/model"
)

// Index is an immutable fuzzy match index over a fixed corpus of records.
// It is safe for concurrent use.
type Index[R model.Record] struct {
	records []R
	fields  []string
	columns []*fuzzy.Column // columns[field]
	runes   *runeindex.Index
	corpus  uint64
	opts    options
}

// Match is a scored reference to a corpus record.
type Match[R model.Record] struct {
	// Record is the matched record.
	Record R
	// Position is the record's position in the corpus passed to Build.
	Position int
	// Score is the relevance score; higher is better.
	Score int
	// Field is the field that produced Score.
	Field string
	// Ranges are the matched spans in every field that matched, in field order.
	Ranges []model.Range
}

// ID returns the matched record's ID.
func (m Match[R]) ID() string { return m.Record.RecordID() }

// Build creates an index over records, searching the given fields in priority
// order (earlier fields rank higher).
//
// Build fails with ErrInvalidArgument if fields is empty, names a field twice,
// or names a field that one of the records does not expose. An empty records
// slice yields an index that never matches.
func Build[R model.Record](records []R, fields []string, optFns ...Option) (*Index[R], error) {
	o := applyOptions(optFns)

	start := time.Now()
	ix, err := build(records, fields, o)
	o.metricsCollector.RecordBuild(len(records), time.Since(start), err)
	o.logger.LogBuild(context.Background(), len(records), len(fields), err)

	return ix, err
}

func build[R model.Record](records []R, fields []string, o options) (*Index[R], error) {
	if err := validateFields(fields); err != nil {
		return nil, err
	}

	ix := &Index[R]{
		records: append([]R(nil), records...),
		fields:  append([]string(nil), fields...),
		columns: make([]*fuzzy.Column, len(fields)),
		opts:    o,
	}

	values := make([][]string, len(fields))
	for f := range values {
		values[f] = make([]string, len(records))
	}

	rb := runeindex.NewBuilder()
	for row, rec := range ix.records {
		for f, name := range ix.fields {
			v, ok := rec.Field(name)
			if !ok {
				return nil, &FieldError{Field: name, Record: row, Reason: "is not exposed"}
			}
			values[f][row] = v
			rb.Add(uint32(row), v)
		}
	}
	for f := range ix.columns {
		ix.columns[f] = fuzzy.NewColumn(values[f])
	}
	ix.runes = rb.Build()
	ix.corpus = hash.Corpus(ix.records, ix.fields)

	return ix, nil
}

// Len returns the number of records in the corpus.
func (ix *Index[R]) Len() int { return len(ix.records) }

// Fields returns the searched fields in priority order.
func (ix *Index[R]) Fields() []string { return append([]string(nil), ix.fields...) }

// Corpus returns the content hash of the corpus and fields the index was
// built from.
func (ix *Index[R]) Corpus() uint64 { return ix.corpus }

// SizeInBytes estimates the memory held by the index.
func (ix *Index[R]) SizeInBytes() int64 {
	size := int64(ix.runes.SizeInBytes())
	for _, col := range ix.columns {
		size += col.SizeInBytes()
	}
	return size
}

// Search returns the records matching query, best first. Equal scores keep
// the order of the corpus. An empty or whitespace-only query returns no
// results. Search never mutates the index.
func (ix *Index[R]) Search(query string) []Match[R] {
	start := time.Now()
	matches := ix.search(query)
	ix.opts.metricsCollector.RecordSearch(len(matches), time.Since(start))
	ix.opts.logger.LogSearch(context.Background(), len(query), len(matches))
	return matches
}

// scored accumulates the best field score of a row across columns.
type scored struct {
	score  int
	field  int
	ranges []model.Range
}

func (ix *Index[R]) search(query string) []Match[R] {
	query = strings.TrimSpace(query)
	if query == "" || len(ix.records) == 0 {
		return nil
	}

	rows := ix.runes.Candidates(query)
	if len(rows) == 0 {
		return nil
	}

	n := len(ix.fields)
	best := make(map[uint32]*scored, len(rows))
	for f, col := range ix.columns {
		priority := (n - 1 - f) * ix.opts.fieldWeight
		for _, h := range fuzzy.Match(query, col, rows) {
			s := h.Score + priority
			if h.Exact {
				s += ix.opts.exactMatchBonus
			}

			acc, ok := best[h.Row]
			if !ok {
				acc = &scored{score: s, field: f}
				best[h.Row] = acc
			} else if s > acc.score {
				acc.score = s
				acc.field = f
			}

			for _, sp := range fuzzy.Spans(col.Value(h.Row), h.Indexes) {
				acc.ranges = append(acc.ranges, model.Range{Field: ix.fields[f], Start: sp[0], End: sp[1]})
			}
		}
	}

	matches := make([]Match[R], 0, len(best))
	for _, row := range rows {
		acc, ok := best[row]
		if !ok {
			continue
		}
		if ix.opts.hasMinScore && acc.score < ix.opts.minScore {
			continue
		}
		matches = append(matches, Match[R]{
			Record:   ix.records[row],
			Position: int(row),
			Score:    acc.score,
			Field:    ix.fields[acc.field],
			Ranges:   acc.ranges,
		})
	}

	// rows are ascending, so a stable sort keeps corpus order among ties.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if ix.opts.limit > 0 && len(matches) > ix.opts.limit {
		matches = matches[:ix.opts.limit]
	}
	return matches
}

// withRecords returns a copy of ix serving records in place of its own.
// records must be content-equal to the corpus on IDs and indexed fields.
func (ix *Index[R]) withRecords(records []R, o options) *Index[R] {
	cp := *ix
	cp.records = append([]R(nil), records...)
	cp.opts = o
	return &cp
}
