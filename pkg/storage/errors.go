package storage

import "errors"

// ErrNotFound is returned when a session does not exist.
var ErrNotFound = errors.New("session not found")
