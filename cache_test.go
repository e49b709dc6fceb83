package usersearch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/usersearch/model"
	"github.com/hupe1980/usersearch/resource"
	"github.com/hupe1980/usersearch/testutil"
)

func TestIndexCache_Hit(t *testing.T) {
	c := NewIndexCache(0, nil)
	metrics := &BasicMetricsCollector{}

	a, err := BuildCached(c, testutil.AliceBob(), defaultFields, WithMetricsCollector(metrics))
	require.NoError(t, err)
	b, err := BuildCached(c, testutil.AliceBob(), defaultFields, WithMetricsCollector(metrics))
	require.NoError(t, err)

	assert.Equal(t, 1, c.Len())
	assert.Equal(t, a.Corpus(), b.Corpus())
	assert.Equal(t, ids(a.Search("ali")), ids(b.Search("ali")))

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(1), stats.CacheHits)
	assert.Equal(t, int64(1), stats.CacheMisses)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestIndexCache_ContentChangeMisses(t *testing.T) {
	c := NewIndexCache(0, nil)

	users := testutil.AliceBob()
	a, err := BuildCached(c, users, defaultFields)
	require.NoError(t, err)

	changed := testutil.AliceBob()
	changed[1].Username = "carol"
	changed[1].DisplayName = "Carol C"
	b, err := BuildCached(c, changed, defaultFields)
	require.NoError(t, err)

	assert.NotEqual(t, a.Corpus(), b.Corpus())
	assert.Equal(t, 2, c.Len())
	assert.Empty(t, b.Search("bob"))
	assert.Equal(t, []string{"2"}, ids(b.Search("carol")))
}

func TestIndexCache_ReturnsCallerRecords(t *testing.T) {
	c := NewIndexCache(0, nil)

	_, err := BuildCached(c, testutil.AliceBob(), defaultFields)
	require.NoError(t, err)

	// Same indexed content, different non-indexed attribute.
	users := testutil.AliceBob()
	users[0].ProfileImage = "new.png"
	ix, err := BuildCached(c, users, defaultFields)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	matches := ix.Search("ali")
	require.Len(t, matches, 1)
	assert.Equal(t, "new.png", matches[0].Record.ProfileImage)
}

func TestIndexCache_ScoringIsPartOfKey(t *testing.T) {
	c := NewIndexCache(0, nil)

	_, err := BuildCached(c, testutil.AliceBob(), defaultFields)
	require.NoError(t, err)
	limited, err := BuildCached(c, testutil.AliceBob(), defaultFields, WithLimit(1))
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Len(t, limited.Search("b"), 1)
}

func TestIndexCache_Invalidate(t *testing.T) {
	c := NewIndexCache(0, nil)
	metrics := &BasicMetricsCollector{}

	ix, err := BuildCached(c, testutil.AliceBob(), defaultFields, WithMetricsCollector(metrics))
	require.NoError(t, err)
	_, err = BuildCached(c, testutil.AliceBob(), []string{model.FieldUsername})
	require.NoError(t, err)

	assert.Equal(t, 1, c.InvalidateCorpus(ix.Corpus()))
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.InvalidateCorpus(ix.Corpus()))

	_, err = BuildCached(c, testutil.AliceBob(), defaultFields, WithMetricsCollector(metrics))
	require.NoError(t, err)
	assert.Equal(t, int64(2), metrics.GetStats().BuildCount)

	c.Purge()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.Size())
}

func TestIndexCache_InvalidArgument(t *testing.T) {
	c := NewIndexCache(0, nil)

	_, err := BuildCached(c, testutil.AliceBob(), []string{"missingField"})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = BuildCached(c, testutil.AliceBob(), nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, 0, c.Len())
}

func TestIndexCache_RecordTypeIsPartOfKey(t *testing.T) {
	c := NewIndexCache(0, nil)

	users := []model.User{{ID: "t1", Username: "sunset"}}
	tags := []userTag{{id: "t1", label: "sunset"}}

	// Both corpora hash equal; only the record type tells them apart.
	_, err := BuildCached(c, users, []string{model.FieldUsername})
	require.NoError(t, err)

	ix, err := BuildCached(c, tags, []string{model.FieldUsername})
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	require.Len(t, ix.Search("sun"), 1)
}

// userTag exposes a tag's label under the username field name.
type userTag tag

func (u userTag) RecordID() string { return u.id }

func (u userTag) Field(name string) (string, bool) {
	if name == model.FieldUsername {
		return u.label, true
	}
	return "", false
}

func TestIndexCache_ResourceBudget(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 1})
	c := NewIndexCache(0, rc)

	ix, err := BuildCached(c, testutil.AliceBob(), defaultFields)
	require.NoError(t, err)

	// Too large for the global budget: served but not cached.
	assert.Equal(t, []string{"1"}, ids(ix.Search("ali")))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestIndexCache_ConcurrentBuildsDeduplicated(t *testing.T) {
	c := NewIndexCache(0, resource.NewController(resource.Config{MaxConcurrentBuilds: 4}))
	metrics := &BasicMetricsCollector{}
	users := testutil.NewRNG(8).Users(500)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ix, err := BuildCached(c, users, defaultFields, WithMetricsCollector(metrics))
			assert.NoError(t, err)
			assert.Equal(t, 500, ix.Len())
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), metrics.GetStats().BuildCount)
	assert.Equal(t, 1, c.Len())
}
