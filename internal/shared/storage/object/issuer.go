package object

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured is returned by issuers that have no backing bucket.
var ErrNotConfigured = errors.New("object storage not configured")

// Grant is a presigned, method-bound URL for a single object.
type Grant struct {
	URL       string
	Method    string
	Key       string
	ExpiresAt time.Time
}

// Issuer hands out time-limited upload and download URLs and removes objects.
// Object bytes never pass through the API.
type Issuer interface {
	PresignUpload(ctx context.Context, key, contentType string) (Grant, error)
	PresignDownload(ctx context.Context, key string) (Grant, error)
	Delete(ctx context.Context, key string) error
}

// Disabled is an Issuer used when no bucket is configured.
type Disabled struct{}

func (Disabled) PresignUpload(context.Context, string, string) (Grant, error) {
	return Grant{}, ErrNotConfigured
}

func (Disabled) PresignDownload(context.Context, string) (Grant, error) {
	return Grant{}, ErrNotConfigured
}

func (Disabled) Delete(context.Context, string) error {
	return ErrNotConfigured
}

var _ Issuer = Disabled{}
