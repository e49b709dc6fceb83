package benchmark_test

import (
	"strconv"
	"testing"

	"github.com/hupe1980/usersearch"
	"github.com/hupe1980/usersearch/model"
	"github.com/hupe1980/usersearch/snapshot"
	"github.com/hupe1980/usersearch/testutil"
)

var (
	sizes  = []int{1_000, 10_000, 100_000}
	fields = []string{model.FieldUsername, model.FieldDisplayName}
)

// makeQueries draws typed-as-you-go prefixes of random subsequences.
func makeQueries(rng *testutil.RNG, users []model.User, n int) []string {
	queries := make([]string, n)
	for i := range queries {
		u := users[rng.Intn(len(users))]
		queries[i] = rng.Query(u.Username, 1+rng.Intn(5))
	}
	return queries
}

// BenchmarkBuild measures index construction across corpus sizes.
func BenchmarkBuild(b *testing.B) {
	for _, n := range sizes {
		b.Run("n="+strconv.Itoa(n), func(b *testing.B) {
			users := testutil.NewRNG(4711).Users(n)

			b.ReportAllocs()
			b.ResetTimer()

			for b.Loop() {
				if _, err := usersearch.Build(users, fields); err != nil {
					b.Fatal(err)
				}
			}
			b.ReportMetric(float64(n)*float64(b.N)/b.Elapsed().Seconds(), "records/s")
		})
	}
}

// BenchmarkSearch measures per-keystroke query latency.
func BenchmarkSearch(b *testing.B) {
	for _, n := range sizes {
		b.Run("n="+strconv.Itoa(n), func(b *testing.B) {
			rng := testutil.NewRNG(4711)
			users := rng.Users(n)
			ix, err := usersearch.Build(users, fields, usersearch.WithLimit(20))
			if err != nil {
				b.Fatal(err)
			}
			queries := makeQueries(rng, users, 256)

			b.ReportAllocs()
			b.ResetTimer()

			i := 0
			for b.Loop() {
				_ = ix.Search(queries[i%len(queries)])
				i++
			}
			b.ReportMetric(float64(b.N)/b.Elapsed().Seconds(), "qps")
		})
	}
}

// BenchmarkBuildCached measures the cache hit path for an unchanged corpus.
func BenchmarkBuildCached(b *testing.B) {
	users := testutil.NewRNG(4711).Users(10_000)
	c := usersearch.NewIndexCache(usersearch.DefaultCacheCapacity, nil)
	if _, err := usersearch.BuildCached(c, users, fields); err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		if _, err := usersearch.BuildCached(c, users, fields); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkSnapshot measures encode/decode per compression.
func BenchmarkSnapshot(b *testing.B) {
	users := testutil.NewRNG(4711).Users(10_000)

	for _, comp := range []snapshot.Compression{snapshot.CompressionNone, snapshot.CompressionLZ4, snapshot.CompressionZSTD} {
		b.Run("encode/"+comp.String(), func(b *testing.B) {
			b.ReportAllocs()
			var size int
			for b.Loop() {
				data, _, err := snapshot.Encode(users, snapshot.WithCompression(comp))
				if err != nil {
					b.Fatal(err)
				}
				size = len(data)
			}
			b.ReportMetric(float64(size), "bytes")
		})

		data, _, err := snapshot.Encode(users, snapshot.WithCompression(comp))
		if err != nil {
			b.Fatal(err)
		}
		b.Run("decode/"+comp.String(), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				if _, _, err := snapshot.Decode(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
