package repos

import "errors"

// ErrNotFound is returned when a point lookup matches no document.
// Aggregation methods never return it; absence of rows degrades to zero
// values instead.
var ErrNotFound = errors.New("not found")
