package preferences

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("preferences not found")

// Repo persists whole preference records keyed by user id.
type Repo interface {
	Get(ctx context.Context, userID string) (Preferences, error)
	Put(ctx context.Context, prefs Preferences) error
}
