package images

import "errors"

var (
	// ErrForbidden means the key is outside the caller's namespace.
	ErrForbidden = errors.New("image not owned by caller")
	// ErrDeleteFailed wraps object store failures on delete.
	ErrDeleteFailed = errors.New("delete image failed")
)
