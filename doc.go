// Package usersearch provides an in-memory fuzzy match index over user records.
//
// The index is built once over a snapshot of records and answers ranked,
// case-insensitive, approximate queries. It is meant for the interactive
// "search people" box of a client: the corpus is user-scale (hundreds to low
// thousands of records), every keystroke runs a fresh query, and an empty
// query shows nothing.
//
// # Quick Start
//
//	users := []model.User{
//	    {ID: "1", Username: "alice", DisplayName: "Alice A"},
//	    {ID: "2", Username: "bob", DisplayName: "Bob B"},
//	}
//
//	idx, err := usersearch.Build(users, []string{"username", "displayName"})
//	if err != nil {
//	    // a requested field is not exposed by the records
//	}
//
//	for _, m := range idx.Search("ali") {
//	    fmt.Println(m.Record.ID, m.Score, m.Ranges)
//	}
//
// # Scoring
//
// A record matches when the query is a subsequence of at least one of its
// fields (ignoring case). Per field, contiguous runs, matches at the start of
// the value and matches after separators score higher; unmatched characters
// cost a little. A value scores the same however it is capitalised. A field
// matched in full gets an extra bonus, and earlier fields in the field list
// get a priority bonus. The record's score is the best of its fields. Results
// are ordered by score, and equal scores keep the order of the input records.
//
// # Keeping the corpus fresh
//
// An Index never changes after Build. Use IndexCache to reuse indexes across
// identical corpora, or Live to reload the corpus from a directory source and
// swap in a new index whenever its content changes.
package usersearch
