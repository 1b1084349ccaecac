package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, userID string) (Preferences, error) {
	const query = `
SELECT theme, display_name, display_picture
FROM user_preferences
WHERE user_id = $1
LIMIT 1`
	var theme, displayName, displayPicture sql.NullString
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&theme, &displayName, &displayPicture)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preferences{}, ErrNotFound
		}
		return Preferences{}, fmt.Errorf("select preferences: %w", err)
	}
	return Preferences{
		UserID:         userID,
		Theme:          fromNull(theme),
		DisplayName:    fromNull(displayName),
		DisplayPicture: fromNull(displayPicture),
	}, nil
}

func (r *PGRepo) Put(ctx context.Context, prefs Preferences) error {
	const query = `
INSERT INTO user_preferences (user_id, theme, display_name, display_picture, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (user_id) DO UPDATE SET
  theme = EXCLUDED.theme,
  display_name = EXCLUDED.display_name,
  display_picture = EXCLUDED.display_picture,
  updated_at = now()`
	if _, err := r.DB.ExecContext(ctx, query,
		prefs.UserID,
		toNull(prefs.Theme),
		toNull(prefs.DisplayName),
		toNull(prefs.DisplayPicture),
	); err != nil {
		return fmt.Errorf("upsert preferences: %w", err)
	}
	return nil
}

func fromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func toNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

var _ Repo = (*PGRepo)(nil)
