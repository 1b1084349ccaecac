package preferences

import (
	"context"
	"errors"
	"fmt"

	"userprefs-backend/internal/shared/metrics"
)

type Service struct {
	Repo    Repo
	Metrics *metrics.Metrics
}

func NewService(repo Repo, m *metrics.Metrics) *Service {
	return &Service{Repo: repo, Metrics: m}
}

// Get returns the caller's record. A user without one gets an empty record
// and found=false.
func (s *Service) Get(ctx context.Context, userID string) (Preferences, bool, error) {
	if s == nil || s.Repo == nil {
		return Preferences{}, false, errors.New("preferences service not configured")
	}
	prefs, err := s.Repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Preferences{UserID: userID}, false, nil
		}
		return Preferences{}, false, err
	}
	return prefs, true, nil
}

// Upsert merges upd into the stored record, creating it on first write, and
// returns the result. Concurrent writers for one user race; the last one wins.
func (s *Service) Upsert(ctx context.Context, userID string, upd Update) (Preferences, error) {
	if err := upd.Validate(); err != nil {
		return Preferences{}, err
	}
	current, _, err := s.Get(ctx, userID)
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}

	upd.ApplyTo(&current)
	current.UserID = userID

	if err := s.Repo.Put(ctx, current); err != nil {
		return Preferences{}, fmt.Errorf("save preferences: %w", err)
	}
	s.Metrics.PreferencesWritten()
	return current, nil
}
