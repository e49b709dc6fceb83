package resource

import "errors"

// ErrOverLimit is returned when a single request exceeds the configured limit
// and could never be satisfied.
var ErrOverLimit = errors.New("resource: request exceeds limit")
