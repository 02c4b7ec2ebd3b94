// Package objectstore issues presigned upload URLs for task attachments.
// Clients upload directly to the bucket; the API never proxies file bytes.
package objectstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// UploadURLLifetime is how long a presigned upload URL stays valid.
const UploadURLLifetime = 5 * time.Minute

// ErrNoBucket indicates attachment storage is not configured.
var ErrNoBucket = errors.New("attachment bucket is not configured")

// UploadTarget describes where and how a client should upload one
// attachment.
type UploadTarget struct {
	// URL is the presigned PUT URL. It expires after UploadURLLifetime.
	URL string `json:"uploadUrl"`

	// Key is the object key the upload will be stored under.
	Key string `json:"key"`

	// ExpiresAt is when the URL stops being accepted.
	ExpiresAt time.Time `json:"expiresAt"`
}

// UploadURLSigner mints presigned upload URLs for task attachments.
type UploadURLSigner interface {
	// SignUploadURL returns an upload target for a new attachment on the
	// given task.
	SignUploadURL(ctx context.Context, taskID uuid.UUID) (UploadTarget, error)
}

// attachmentKey builds the object key for a new attachment. The timestamp
// component keeps repeated uploads to the same task from colliding.
func attachmentKey(taskID uuid.UUID, now time.Time) string {
	return fmt.Sprintf("attachments/%s/%d.jpg", taskID, now.UnixMilli())
}
