package directory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/usersearch/blobstore"
	"github.com/hupe1980/usersearch/model"
	"github.com/hupe1980/usersearch/snapshot"
)

// Source loads the current user corpus.
type Source interface {
	Load(ctx context.Context) ([]model.User, error)
}

// Static serves a fixed corpus.
type Static struct {
	users []model.User
}

// NewStatic copies users into a Static source.
func NewStatic(users []model.User) *Static {
	return &Static{users: slices.Clone(users)}
}

// Load returns a copy of the corpus.
func (s *Static) Load(ctx context.Context) ([]model.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slices.Clone(s.users), nil
}

// Snapshot reads a snapshot blob from a store.
type Snapshot struct {
	store blobstore.Store
	name  string
}

// NewSnapshot creates a Source for the blob name in store.
func NewSnapshot(store blobstore.Store, name string) *Snapshot {
	return &Snapshot{store: store, name: name}
}

// Load fetches and decodes the snapshot. Records keep their snapshot order.
func (s *Snapshot) Load(ctx context.Context) ([]model.User, error) {
	data, err := s.store.Get(ctx, s.name)
	if err != nil {
		return nil, fmt.Errorf("directory: load snapshot %s: %w", s.name, err)
	}
	users, _, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("directory: decode snapshot %s: %w", s.name, err)
	}
	return users, nil
}

// Header returns the header of the stored snapshot without decoding it.
func (s *Snapshot) Header(ctx context.Context) (snapshot.Header, error) {
	data, err := s.store.Get(ctx, s.name)
	if err != nil {
		return snapshot.Header{}, fmt.Errorf("directory: load snapshot %s: %w", s.name, err)
	}
	return snapshot.ReadHeader(data)
}

// Save encodes users and writes them to the blob.
func (s *Snapshot) Save(ctx context.Context, users []model.User, optFns ...func(o *snapshot.Options)) (snapshot.Header, error) {
	data, h, err := snapshot.Encode(users, optFns...)
	if err != nil {
		return snapshot.Header{}, err
	}
	if err := s.store.Put(ctx, s.name, data); err != nil {
		return snapshot.Header{}, fmt.Errorf("directory: store snapshot %s: %w", s.name, err)
	}
	return h, nil
}

// Merged loads several sources concurrently.
type Merged struct {
	sources []Source
}

// Merge combines sources. The first occurrence of an ID wins and records keep
// the order of their source, sources in argument order.
func Merge(sources ...Source) *Merged {
	return &Merged{sources: slices.Clone(sources)}
}

// Load fails if any source fails.
func (m *Merged) Load(ctx context.Context) ([]model.User, error) {
	results := make([][]model.User, len(m.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range m.sources {
		g.Go(func() error {
			users, err := src.Load(gctx)
			if err != nil {
				return err
			}
			results[i] = users
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []model.User
	for _, users := range results {
		for _, u := range users {
			if _, dup := seen[u.ID]; dup {
				continue
			}
			seen[u.ID] = struct{}{}
			out = append(out, u)
		}
	}
	return out, nil
}

// SortByID orders users by ID in place.
func SortByID(users []model.User) {
	slices.SortStableFunc(users, func(a, b model.User) int {
		return cmp.Compare(a.ID, b.ID)
	})
}
