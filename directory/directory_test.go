package directory

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/usersearch/blobstore"
	"github.com/hupe1980/usersearch/model"
	"github.com/hupe1980/usersearch/snapshot"
	"github.com/hupe1980/usersearch/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	users := testutil.AliceBob()
	src := NewStatic(users)

	users[0].Username = "mallory"

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", got[0].Username)

	got[1].Username = "eve"
	again, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "bob", again[1].Username)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	src := NewSnapshot(store, "users/latest.snap")

	_, err := src.Load(ctx)
	require.ErrorIs(t, err, blobstore.ErrNotFound)

	users := testutil.NewRNG(11).Users(40)
	h, err := src.Save(ctx, users, snapshot.WithCompression(snapshot.CompressionLZ4))
	require.NoError(t, err)
	assert.Equal(t, uint32(40), h.Records)

	got, err := src.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, users, got)

	hh, err := src.Header(ctx)
	require.NoError(t, err)
	assert.Equal(t, h, hh)

	require.NoError(t, store.Put(ctx, "users/latest.snap", []byte("garbage")))
	_, err = src.Load(ctx)
	assert.ErrorIs(t, err, snapshot.ErrCorrupt)
}

type failingSource struct{ err error }

func (f failingSource) Load(context.Context) ([]model.User, error) { return nil, f.err }

func TestMerge(t *testing.T) {
	a := NewStatic([]model.User{
		{ID: "2", Username: "bob"},
		{ID: "1", Username: "alice"},
	})
	b := NewStatic([]model.User{
		{ID: "1", Username: "alice-dup"},
		{ID: "3", Username: "carol"},
	})

	got, err := Merge(a, b).Load(context.Background())
	require.NoError(t, err)

	var names []string
	for _, u := range got {
		names = append(names, u.Username)
	}
	assert.Equal(t, []string{"bob", "alice", "carol"}, names)

	boom := errors.New("boom")
	_, err = Merge(a, failingSource{err: boom}).Load(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSortByID(t *testing.T) {
	users := []model.User{{ID: "b"}, {ID: "a"}, {ID: "c"}}
	SortByID(users)
	assert.Equal(t, []model.User{{ID: "a"}, {ID: "b"}, {ID: "c"}}, users)
}
