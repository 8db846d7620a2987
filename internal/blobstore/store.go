// Package blobstore abstracts the flat file trees RetroDesk keeps binary
// artifacts in: save states, screenshots and ROM images. Implementations
// exist for a local directory and for an S3-compatible backend.
package blobstore

import "context"

// FileInfo describes one stored file, as returned by List.
type FileInfo struct {
	Name string
	Size int64
}

// Store is the narrow blob collaborator interface the services consume.
// Names are slash-separated paths relative to the store root. Read and
// Delete report a missing object as common.ErrorNotFound.
type Store interface {
	Write(ctx context.Context, name string, data []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error

	// List enumerates the files directly under dir with their sizes.
	// A non-existent dir is reported as common.ErrorNotFound.
	List(ctx context.Context, dir string) ([]FileInfo, error)
}
