package preferences

import (
	"context"
	"sync"
)

type MemoryRepo struct {
	mu    sync.RWMutex
	items map[string]Preferences
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{items: make(map[string]Preferences)}
}

func (r *MemoryRepo) Get(ctx context.Context, userID string) (Preferences, error) {
	if err := ctx.Err(); err != nil {
		return Preferences{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	prefs, ok := r.items[userID]
	if !ok {
		return Preferences{}, ErrNotFound
	}
	return clonePrefs(prefs), nil
}

func (r *MemoryRepo) Put(ctx context.Context, prefs Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[prefs.UserID] = clonePrefs(prefs)
	return nil
}

func clonePrefs(p Preferences) Preferences {
	return Preferences{
		UserID:         p.UserID,
		Theme:          cloneString(p.Theme),
		DisplayName:    cloneString(p.DisplayName),
		DisplayPicture: cloneString(p.DisplayPicture),
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
