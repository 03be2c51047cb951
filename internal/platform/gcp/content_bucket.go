package gcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/dsaquest-backend/internal/platform/logger"
)

// ContentBucket reads curriculum files from one GCS bucket.
type ContentBucket struct {
	log     *logger.Logger
	client  *storage.Client
	bucket  string
	timeout time.Duration
}

func NewContentBucket(ctx context.Context, log *logger.Logger, bucket string) (*ContentBucket, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, fmt.Errorf("content bucket name required")
	}
	cfg, err := StorageConfigFromEnv()
	if err != nil {
		return nil, fmt.Errorf("resolve object storage config: %w", err)
	}
	client, err := newStorageClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	serviceLog := log.With("service", "ContentBucket")
	serviceLog.Info("Object storage initialized",
		"mode", cfg.Mode,
		"inferred", cfg.Inferred,
		"emulator_host", cfg.EmulatorHost,
		"bucket", bucket,
	)
	return &ContentBucket{log: serviceLog, client: client, bucket: bucket, timeout: time.Minute}, nil
}

func newStorageClient(ctx context.Context, cfg StorageConfig) (*storage.Client, error) {
	if cfg.Emulated() {
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(cfg.EmulatorHost, "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	}
	opts := append(ClientOptionsFromEnv(), option.WithScopes(storage.ScopeReadOnly))
	return storage.NewClient(ctx, opts...)
}

func (b *ContentBucket) Bucket() string { return b.bucket }

// ReadObject maps a missing object to fs.ErrNotExist.
func (b *ContentBucket) ReadObject(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	r, err := b.client.Bucket(b.bucket).Object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("object %s: %w", key, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("open object %s: %w", key, err)
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (b *ContentBucket) HasPrefix(ctx context.Context, prefix string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	it := b.client.Bucket(b.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	_, err := it.Next()
	if errors.Is(err, iterator.Done) {
		return false, nil
	}
	if errors.Is(err, storage.ErrBucketNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *ContentBucket) Close() error {
	if b == nil || b.client == nil {
		return nil
	}
	return b.client.Close()
}
