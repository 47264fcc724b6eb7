package storage

import (
	"context"
	"time"
)

// MediaStore abstracts the blob storage used for post attachments.
type MediaStore interface {
	// PresignUpload returns a URL the client can PUT the object to.
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)

	// Delete removes the object; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
