// Package fuzzy scores a query against one column of field values.
//
// Matching is delegated to github.com/sahilm/fuzzy, which implements
// subsequence matching with bonuses for the first character, adjacent matches
// and separators, and penalties for unmatched leading and trailing characters.
// Both the pattern and the column are case-folded before matching, so a value
// scores the same however it is capitalised. This package restricts matching
// to a candidate subset of rows and reports results in row order so callers
// can merge several columns deterministically.
package fuzzy
