// Package testutil provides testing utilities for usersearch.
//
// This package is intended for use in tests and benchmarks only.
// It provides fixtures, a deterministic user generator and a reference
// subsequence check used to verify search results.
//
// # Random Users
//
//	rng := testutil.NewRNG(seed)
//	users := rng.Users(500)
//
// # Fixtures
//
//	users := testutil.AliceBob() // the two-user corpus from the docs
package testutil
