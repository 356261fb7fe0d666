package domain

import "errors"

var (
	// ErrNotFound is returned by repositories when no row matches.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned by repositories on unique violations.
	ErrDuplicate = errors.New("duplicate")
	// ErrSuperseded is returned by conditional updates when the row was
	// replaced since it was read.
	ErrSuperseded = errors.New("superseded")
)
