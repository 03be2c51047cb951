package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ContentFS is where the content files live.
type ContentFS interface {
	// Root reports whether the content root exists at all.
	Root(ctx context.Context) (bool, error)
	// ReadFile returns an error wrapping fs.ErrNotExist for missing files.
	ReadFile(ctx context.Context, name string) ([]byte, error)
	String() string
}

// DirFS reads content from a local directory.
type DirFS string

func (d DirFS) Root(context.Context) (bool, error) {
	info, err := os.Stat(string(d))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

func (d DirFS) ReadFile(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(string(d), name))
}

func (d DirFS) String() string { return string(d) }

// ObjectReader is the slice of an object store BucketFS needs.
type ObjectReader interface {
	ReadObject(ctx context.Context, key string) ([]byte, error)
	HasPrefix(ctx context.Context, prefix string) (bool, error)
	Bucket() string
}

// BucketFS reads content objects stored under a key prefix.
type BucketFS struct {
	objects ObjectReader
	prefix  string
}

func NewBucketFS(objects ObjectReader, prefix string) *BucketFS {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	return &BucketFS{objects: objects, prefix: prefix}
}

func (b *BucketFS) key(name string) string {
	if b.prefix == "" {
		return name
	}
	return path.Join(b.prefix, name)
}

func (b *BucketFS) Root(ctx context.Context) (bool, error) {
	p := b.prefix
	if p != "" {
		p += "/"
	}
	return b.objects.HasPrefix(ctx, p)
}

func (b *BucketFS) ReadFile(ctx context.Context, name string) ([]byte, error) {
	data, err := b.objects.ReadObject(ctx, b.key(name))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", b.key(name), err)
	}
	return data, nil
}

func (b *BucketFS) String() string {
	return fmt.Sprintf("gs://%s/%s", b.objects.Bucket(), b.prefix)
}
