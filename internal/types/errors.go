package types

import "errors"

var (
	// ErrUnusableInfo indicates that the top-level info record is
	// structurally unusable (no formats, no entries, no direct URL).
	ErrUnusableInfo = errors.New("unusable media info")
)
