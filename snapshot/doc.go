// Package snapshot encodes a user corpus into a self-describing, checksummed blob.
//
// A snapshot is the unit the directory layer stores and loads. Each blob starts
// with a fixed header naming the payload codec and compression so that readers
// never need out-of-band configuration:
//
//	magic "USNP" | version | compression | codec name | records | raw size | CRC32C | size | body
//
// All integers are little-endian. The checksum covers the stored body (after
// compression). Decode verifies the magic, version, codec, compression and
// checksum before touching the payload.
//
// Codec selection is a compatibility boundary: snapshots record the codec name
// so that blobs written with an older default still decode.
package snapshot
