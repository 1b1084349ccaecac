package images

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"userprefs-backend/internal/shared/metrics"
	"userprefs-backend/internal/shared/storage/object"
)

type Service struct {
	Issuer  object.Issuer
	Metrics *metrics.Metrics
	// NewToken returns the random component of new keys.
	NewToken func() string
}

func NewService(issuer object.Issuer, m *metrics.Metrics) *Service {
	return &Service{Issuer: issuer, Metrics: m, NewToken: uuid.NewString}
}

// IssueUpload allocates a fresh key in the caller's namespace and returns a
// PUT grant for it.
func (s *Service) IssueUpload(ctx context.Context, subject, fileName, contentType string) (object.Grant, error) {
	key := NewKey(subject, fileName, s.NewToken())
	grant, err := s.Issuer.PresignUpload(ctx, key, contentType)
	if err != nil {
		return object.Grant{}, fmt.Errorf("presign upload: %w", err)
	}
	s.Metrics.GrantIssued(http.MethodPut)
	return grant, nil
}

// IssueDownload returns a GET grant for a key the caller owns.
func (s *Service) IssueDownload(ctx context.Context, subject, key string) (object.Grant, error) {
	if !Owns(key, subject) {
		return object.Grant{}, ErrForbidden
	}
	grant, err := s.Issuer.PresignDownload(ctx, key)
	if err != nil {
		return object.Grant{}, fmt.Errorf("presign download: %w", err)
	}
	s.Metrics.GrantIssued(http.MethodGet)
	return grant, nil
}

// Delete removes an object the caller owns.
func (s *Service) Delete(ctx context.Context, subject, key string) error {
	if !Owns(key, subject) {
		return ErrForbidden
	}
	if err := s.Issuer.Delete(ctx, key); err != nil {
		return fmt.Errorf("%w: %w", ErrDeleteFailed, err)
	}
	return nil
}
