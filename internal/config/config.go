// Package config holds the YAML configuration of the usersearch CLI.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/usersearch/model"
	"github.com/hupe1980/usersearch/snapshot"
)

// Config is the root configuration.
type Config struct {
	Search   SearchConfig   `yaml:"search"`
	Source   SourceConfig   `yaml:"source"`
	Store    StoreConfig    `yaml:"store"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Log      LogConfig      `yaml:"log"`
}

// SearchConfig configures index building and ranking.
type SearchConfig struct {
	Fields          []string `yaml:"fields"`
	FieldWeight     int      `yaml:"field_weight"`
	ExactMatchBonus int      `yaml:"exact_match_bonus"`
	Limit           int      `yaml:"limit"`
	MinScore        *int     `yaml:"min_score,omitempty"`
}

// SourceConfig selects where the corpus is loaded from.
type SourceConfig struct {
	Kind     string `yaml:"kind"`      // snapshot, sqlite, dynamodb, json
	Path     string `yaml:"path"`      // sqlite database or JSON user list
	Name     string `yaml:"name"`      // snapshot blob name
	Table    string `yaml:"table"`     // sqlite or dynamodb table
	Region   string `yaml:"region"`    // dynamodb
	PageSize int32  `yaml:"page_size"` // dynamodb scan page size
}

// StoreConfig selects the blob store holding snapshots.
type StoreConfig struct {
	Kind      string `yaml:"kind"` // local, s3, minio
	Root      string `yaml:"root"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
	// CacheBytes enables a read-through cache in front of the store.
	CacheBytes int64 `yaml:"cache_bytes"`
}

// SnapshotConfig selects the encoding of new snapshots.
type SnapshotConfig struct {
	Codec       string `yaml:"codec"`       // json, go-json
	Compression string `yaml:"compression"` // none, lz4, zstd
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Search: SearchConfig{
			Fields:          []string{model.FieldUsername, model.FieldName},
			FieldWeight:     5,
			ExactMatchBonus: 25,
			Limit:           20,
		},
		Source: SourceConfig{
			Kind:  "snapshot",
			Name:  "users/latest.snap",
			Table: "users",
		},
		Store: StoreConfig{
			Kind: "local",
			Root: "data",
		},
		Snapshot: SnapshotConfig{
			Codec:       "go-json",
			Compression: "zstd",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// Load loads configuration from a YAML file, applies environment overrides
// and validates the result. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides keeps credentials out of config files.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("USERSEARCH_STORE_ACCESS_KEY"); v != "" {
		c.Store.AccessKey = v
	}
	if v := os.Getenv("USERSEARCH_STORE_SECRET_KEY"); v != "" {
		c.Store.SecretKey = v
	}
	if v := os.Getenv("USERSEARCH_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate reports every problem found, joined.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Search.Fields) == 0 {
		errs = append(errs, errors.New("search.fields: at least one field is required"))
	}
	if c.Search.FieldWeight < 0 {
		errs = append(errs, fmt.Errorf("search.field_weight: must be >= 0, got %d", c.Search.FieldWeight))
	}
	if c.Search.ExactMatchBonus < 0 {
		errs = append(errs, fmt.Errorf("search.exact_match_bonus: must be >= 0, got %d", c.Search.ExactMatchBonus))
	}
	if c.Search.Limit < 0 {
		errs = append(errs, fmt.Errorf("search.limit: must be >= 0, got %d", c.Search.Limit))
	}

	switch c.Source.Kind {
	case "snapshot":
		if c.Source.Name == "" {
			errs = append(errs, errors.New("source.name: required for snapshot sources"))
		}
	case "sqlite", "json":
		if c.Source.Path == "" {
			errs = append(errs, fmt.Errorf("source.path: required for %s sources", c.Source.Kind))
		}
	case "dynamodb":
		if c.Source.Table == "" {
			errs = append(errs, errors.New("source.table: required for dynamodb sources"))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind: unknown kind %q", c.Source.Kind))
	}

	switch c.Store.Kind {
	case "local":
		if c.Store.Root == "" {
			errs = append(errs, errors.New("store.root: required for local stores"))
		}
	case "s3":
		if c.Store.Bucket == "" {
			errs = append(errs, errors.New("store.bucket: required for s3 stores"))
		}
	case "minio":
		if c.Store.Bucket == "" || c.Store.Endpoint == "" {
			errs = append(errs, errors.New("store.bucket, store.endpoint: required for minio stores"))
		}
	default:
		errs = append(errs, fmt.Errorf("store.kind: unknown kind %q", c.Store.Kind))
	}

	if _, ok := snapshot.CodecByName(c.Snapshot.Codec); !ok {
		errs = append(errs, fmt.Errorf("snapshot.codec: unknown codec %q", c.Snapshot.Codec))
	}
	if _, err := snapshot.ParseCompression(c.Snapshot.Compression); err != nil {
		errs = append(errs, fmt.Errorf("snapshot.compression: unknown compression %q", c.Snapshot.Compression))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format: unknown format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// SlogLevel parses the configured level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(l.Level))); err != nil {
		return 0, fmt.Errorf("log.level: unknown level %q", l.Level)
	}
	return level, nil
}

// SnapshotOptions converts the snapshot section into encoder options.
func (c *Config) SnapshotOptions() (func(o *snapshot.Options), error) {
	codec, ok := snapshot.CodecByName(c.Snapshot.Codec)
	if !ok {
		return nil, fmt.Errorf("%w: codec %q", snapshot.ErrUnsupported, c.Snapshot.Codec)
	}
	comp, err := snapshot.ParseCompression(c.Snapshot.Compression)
	if err != nil {
		return nil, err
	}
	return func(o *snapshot.Options) {
		o.Codec = codec
		o.Compression = comp
	}, nil
}
