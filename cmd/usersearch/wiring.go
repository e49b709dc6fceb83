package main

import (
	"context"
	"fmt"
	"os"

	gojson "github.com/goccy/go-json"

	"github.com/hupe1980/usersearch/blobstore"
	minioblob "github.com/hupe1980/usersearch/blobstore/minio"
	s3blob "github.com/hupe1980/usersearch/blobstore/s3"
	"github.com/hupe1980/usersearch/directory"
	"github.com/hupe1980/usersearch/directory/dynamodb"
	"github.com/hupe1980/usersearch/directory/sqlite"
	"github.com/hupe1980/usersearch/internal/config"
	"github.com/hupe1980/usersearch/model"
)

// openStore builds the configured blob store.
func openStore(ctx context.Context, cfg config.StoreConfig) (blobstore.Store, error) {
	var (
		store blobstore.Store
		err   error
	)

	switch cfg.Kind {
	case "local":
		store = blobstore.NewLocalStore(cfg.Root)
	case "s3":
		optFns := []func(o *s3blob.Options){s3blob.WithPrefix(cfg.Prefix)}
		if cfg.Region != "" {
			optFns = append(optFns, s3blob.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			optFns = append(optFns, s3blob.WithEndpoint(cfg.Endpoint))
		}
		store, err = s3blob.New(ctx, cfg.Bucket, optFns...)
	case "minio":
		store, err = minioblob.Dial(cfg.Endpoint, cfg.AccessKey, cfg.SecretKey, cfg.Secure, cfg.Bucket, cfg.Prefix)
	default:
		err = fmt.Errorf("unknown store kind %q", cfg.Kind)
	}
	if err != nil {
		return nil, err
	}

	if cfg.CacheBytes > 0 {
		store = blobstore.NewCachingStore(store, cfg.CacheBytes, nil)
	}
	return store, nil
}

// openSource builds the configured user directory. The returned closer
// releases database handles.
func openSource(ctx context.Context, cfg *config.Config) (directory.Source, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Source.Kind {
	case "snapshot":
		store, err := openStore(ctx, cfg.Store)
		if err != nil {
			return nil, nil, err
		}
		return directory.NewSnapshot(store, cfg.Source.Name), noop, nil
	case "sqlite":
		db, err := sqlite.Open(cfg.Source.Path)
		if err != nil {
			return nil, nil, err
		}
		src, err := sqlite.NewWithTable(db, cfg.Source.Table)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return src, db.Close, nil
	case "dynamodb":
		src, err := dynamodb.New(ctx, cfg.Source.Table, cfg.Source.Region)
		if err != nil {
			return nil, nil, err
		}
		return src, noop, nil
	case "json":
		users, err := readUsers(cfg.Source.Path)
		if err != nil {
			return nil, nil, err
		}
		return directory.NewStatic(users), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// readUsers decodes a JSON array of users.
func readUsers(path string) ([]model.User, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := gojson.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return users, nil
}
