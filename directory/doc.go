// Package directory loads user corpora from the places they live.
//
// A Source returns a fresh, deterministically ordered []model.User on every
// Load. Sources plug directly into usersearch.NewLive:
//
//	live, err := usersearch.NewLive[model.User](directory.NewSnapshot(store, "users.snap"), fields)
//
// Backends:
//
//   - Static: a fixed slice
//   - Snapshot: a snapshot blob in a blobstore.Store
//   - Merge: several sources loaded concurrently, deduplicated by ID
//   - sqlite.Source: a `users` table in an SQLite database
//   - dynamodb.Source: a DynamoDB table scan
package directory
