package preferences

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidInput marks client mistakes in an update body.
var ErrInvalidInput = errors.New("invalid input")

// InputError is an ErrInvalidInput with a client-facing reason.
type InputError struct {
	Reason string
}

func (e *InputError) Error() string { return "invalid input: " + e.Reason }

func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

const maxDisplayNameLen = 100

var validate = validator.New()

// Update is a partial preferences change.
type Update struct {
	Theme          Field[string]
	DisplayName    Field[string]
	DisplayPicture Field[string]
}

// UnmarshalJSON matches keys exactly and ignores unknown ones.
func (u *Update) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	fields := map[string]*Field[string]{
		"theme":          &u.Theme,
		"displayName":    &u.DisplayName,
		"displayPicture": &u.DisplayPicture,
	}
	for key, dst := range fields {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		if err := dst.UnmarshalJSON(msg); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

// DecodeUpdate parses a request body. An empty body or a bare null is an
// empty update.
func DecodeUpdate(body []byte) (Update, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Update{}, nil
	}
	var u Update
	if err := json.Unmarshal(trimmed, &u); err != nil {
		return Update{}, &InputError{Reason: "invalid request body: " + err.Error()}
	}
	return u, nil
}

// Validate checks attribute constraints on assigned values.
func (u Update) Validate() error {
	if name, ok := u.DisplayName.Value(); ok {
		if err := validate.Var(name, fmt.Sprintf("max=%d", maxDisplayNameLen)); err != nil {
			return &InputError{Reason: fmt.Sprintf("displayName must be at most %d characters", maxDisplayNameLen)}
		}
	}
	return nil
}

// ApplyTo merges the update into p.
func (u Update) ApplyTo(p *Preferences) {
	u.Theme.applyTo(&p.Theme)
	u.DisplayName.applyTo(&p.DisplayName)
	u.DisplayPicture.applyTo(&p.DisplayPicture)
}
