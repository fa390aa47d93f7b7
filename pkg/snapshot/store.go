package snapshot

import (
	"context"
	stderrors "errors"
	"path/filepath"
	"strings"

	"github.com/vango-dev/renditional/internal/errors"
)

// ErrNotFound is wrapped by Get errors when no snapshot exists under the key.
var ErrNotFound = stderrors.New("snapshot not found")

func notFound(key string) error {
	return errors.New(errors.CodeSnapshot).WithDetailf("no snapshot under %q", key).Wrap(ErrNotFound)
}

// Store persists snapshot blobs by key.
type Store interface {
	// Put writes data under key, replacing any previous snapshot.
	Put(ctx context.Context, key string, data []byte) error

	// Get reads the snapshot stored under key.
	Get(ctx context.Context, key string) ([]byte, error)
}

// Config selects and configures a Store.
type Config struct {
	// Dir is the FileStore root. Default: ".".
	Dir string

	// S3 configures the S3 store. A non-empty bucket selects it.
	S3 S3Config
}

// S3Config configures an S3Store.
type S3Config struct {
	Bucket string
	Prefix string
	Region string

	// Endpoint overrides the S3 endpoint (e.g. a MinIO URL). Setting it
	// switches to path-style addressing.
	Endpoint string
}

// Target is a parsed output location.
type Target struct {
	// Bucket is set for s3:// targets and empty for filesystem paths.
	Bucket string

	// Key is the object key, or the file path for filesystem targets.
	Key string
}

// IsS3 reports whether the target names an S3 object.
func (t Target) IsS3() bool {
	return t.Bucket != ""
}

const s3Scheme = "s3://"

// ParseTarget parses "s3://bucket/key" or a filesystem path.
func ParseTarget(raw string) (Target, error) {
	if raw == "" {
		return Target{}, errors.New(errors.CodeSnapshot).WithDetail("empty snapshot target")
	}
	if !strings.HasPrefix(raw, s3Scheme) {
		return Target{Key: raw}, nil
	}
	rest := strings.TrimPrefix(raw, s3Scheme)
	bucket, key, _ := strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if bucket == "" || key == "" {
		return Target{}, errors.New(errors.CodeSnapshot).
			WithDetailf("invalid S3 target %q", raw).
			WithSuggestion("Use the form s3://bucket/path/to/key.")
	}
	return Target{Bucket: bucket, Key: key}, nil
}

// Open returns the store selected by cfg.
func Open(cfg Config) (Store, error) {
	if cfg.S3.Bucket != "" {
		return NewS3Store(cfg.S3)
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	return NewFileStore(dir)
}

// OpenTarget resolves raw into a store and the key to use with it.
// S3 targets reuse cfg.S3 for region, endpoint and prefix. Filesystem
// targets are rooted at the target's directory.
func OpenTarget(cfg Config, raw string) (Store, string, error) {
	t, err := ParseTarget(raw)
	if err != nil {
		return nil, "", err
	}
	if t.IsS3() {
		s3cfg := cfg.S3
		s3cfg.Bucket = t.Bucket
		store, err := NewS3Store(s3cfg)
		if err != nil {
			return nil, "", err
		}
		return store, t.Key, nil
	}
	path := t.Key
	if !filepath.IsAbs(path) && cfg.Dir != "" {
		path = filepath.Join(cfg.Dir, path)
	}
	store, err := NewFileStore(filepath.Dir(path))
	if err != nil {
		return nil, "", err
	}
	return store, filepath.Base(path), nil
}
