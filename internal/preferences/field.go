package preferences

import (
	"bytes"
	"encoding/json"
)

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldNull
	fieldValue
)

// Field is one attribute of a partial update. It distinguishes a key that was
// absent (leave alone), an explicit null (clear) and a value (assign).
type Field[T any] struct {
	state fieldState
	value T
}

// SetTo builds a field that assigns v.
func SetTo[T any](v T) Field[T] {
	return Field[T]{state: fieldValue, value: v}
}

// Null builds a field that clears the attribute.
func Null[T any]() Field[T] {
	return Field[T]{state: fieldNull}
}

// IsUnset reports whether the key was absent.
func (f Field[T]) IsUnset() bool { return f.state == fieldUnset }

// IsNull reports whether the key was an explicit null.
func (f Field[T]) IsNull() bool { return f.state == fieldNull }

// Value returns the assigned value, if any.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == fieldValue
}

// UnmarshalJSON is only reached when the key is present, so null means clear.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.state, f.value = fieldNull, zero
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.state, f.value = fieldValue, v
	return nil
}

func (f Field[T]) applyTo(dst **T) {
	switch f.state {
	case fieldNull:
		*dst = nil
	case fieldValue:
		v := f.value
		*dst = &v
	}
}
