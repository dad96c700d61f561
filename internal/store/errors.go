package store

import "errors"

// ErrNotFound is returned when a run ID is not in the store.
var ErrNotFound = errors.New("run not found")
