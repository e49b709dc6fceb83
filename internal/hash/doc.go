// Package hash provides the hashing used for corpus identity and blob
// integrity.
//
// # Corpus identity
//
// Corpus returns an xxhash64 digest over the ordered records and the requested
// field names. Two corpora hash equal only if they expose the same IDs and field
// values in the same order, which is what the index cache needs to decide
// whether an index built earlier is still valid.
//
// # CRC32-Castagnoli (CRC32C)
//
// Snapshot payloads are checksummed with CRC32C, which is hardware accelerated
// on x86 (SSE4.2) and ARM (CRC extension).
package hash
