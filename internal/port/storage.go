package port

import (
	"context"
	"io"
)

// StoredObject identifies an uploaded attachment.
type StoredObject struct {
	Key string
	URL string
}

// ObjectStorage keeps supporting documents attached to filings. The bucket is
// fixed by the implementation.
type ObjectStorage interface {
	Upload(ctx context.Context, key, contentType string, body io.Reader) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}
