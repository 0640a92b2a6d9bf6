package store

import "errors"

// ErrNotFound is returned by lookup-by-natural-key operations when no
// matching row exists. Callers in internal/pipeline wrap this into a
// MissingReference error where §4.1 requires it.
var ErrNotFound = errors.New("store: not found")
