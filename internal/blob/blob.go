// Package blob abstracts the external binary store used for message
// attachments. The relational store only ever holds opaque keys.
package blob

import (
	"context"
	"time"
)

// UploadTarget is a one-time write destination. The key becomes
// meaningful once attached to a created message.
type UploadTarget struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Store interface {
	// GenerateUploadTarget returns a pre-signed one-time write URL for a
	// fresh key.
	GenerateUploadTarget(ctx context.Context) (*UploadTarget, error)
	// ResolveReadURL returns a short-lived renderable URL for key, or
	// "" if the blob no longer exists.
	ResolveReadURL(ctx context.Context, key string) (string, error)
	// Release deletes the blob. Best effort; callers log rather than
	// escalate a failure here.
	Release(ctx context.Context, key string) error
}
