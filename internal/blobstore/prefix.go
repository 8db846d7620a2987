package blobstore

import (
	"context"
	"strings"
)

// Prefixed namespaces another Store under a fixed key prefix. It lets the
// save tree and the ROM tree share one S3 bucket.
type Prefixed struct {
	inner  Store
	prefix string
}

func NewPrefixed(inner Store, prefix string) *Prefixed {
	return &Prefixed{inner: inner, prefix: strings.TrimSuffix(prefix, "/")}
}

func (s *Prefixed) key(name string) string {
	return s.prefix + "/" + name
}

func (s *Prefixed) Write(ctx context.Context, name string, data []byte) error {
	return s.inner.Write(ctx, s.key(name), data)
}

func (s *Prefixed) Read(ctx context.Context, name string) ([]byte, error) {
	return s.inner.Read(ctx, s.key(name))
}

func (s *Prefixed) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, s.key(name))
}

func (s *Prefixed) List(ctx context.Context, dir string) ([]FileInfo, error) {
	return s.inner.List(ctx, s.key(dir))
}
