package repository

import "errors"

// ErrNotFound is returned when a row is missing or owned by another user.
var ErrNotFound = errors.New("record not found")
