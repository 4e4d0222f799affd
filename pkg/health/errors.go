package health

import "errors"

// ErrCheckTimeout is joined into a check error when the shared deadline expired.
var ErrCheckTimeout = errors.New("health: check timeout")
