package hash

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"

	"github.com/hupe1980/usersearch/model"
)

// missing marks an absent field so that "" and "missing" hash differently.
const missing = 0xff

// Corpus hashes the records' IDs and requested field values, in order,
// together with the field names.
func Corpus[R model.Record](records []R, fields []string) uint64 {
	d := xxhash.New()
	var buf [binary.MaxVarintLen64]byte

	writeLen := func(n int) {
		k := binary.PutUvarint(buf[:], uint64(n))
		_, _ = d.Write(buf[:k])
	}
	writeString := func(s string) {
		writeLen(len(s))
		_, _ = d.WriteString(s)
	}

	writeLen(len(fields))
	for _, f := range fields {
		writeString(f)
	}

	writeLen(len(records))
	for _, rec := range records {
		writeString(rec.RecordID())
		for _, f := range fields {
			v, ok := rec.Field(f)
			if !ok {
				_, _ = d.Write([]byte{missing})
				continue
			}
			writeString(v)
		}
	}

	return d.Sum64()
}

// String hashes a single string with xxhash64.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}
