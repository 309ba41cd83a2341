// Package imagestore holds product images. The catalog only ever asks it
// to release an image when a product is deleted; releases are best effort
// and a URL the storage doesn't own is silently skipped.
package imagestore

import (
	"context"
	"io"
)

type PutInput struct {
	Filename    string
	ContentType string
	Size        int64
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)

	// Release frees the resource behind url if this storage owns it.
	// Foreign URLs (hotlinked images, other CDNs) are a no-op.
	Release(ctx context.Context, url string) error
}

// Noop is used when products only reference external image URLs
type Noop struct{}

func (Noop) Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error) {
	return PutResult{}, nil
}

func (Noop) Release(ctx context.Context, url string) error { return nil }
