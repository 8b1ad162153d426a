package domain

import "errors"

// ErrRecordNotFound is returned by repositories when a lookup matches nothing.
// Services translate it into a user-facing error.
var ErrRecordNotFound = errors.New("record not found")
