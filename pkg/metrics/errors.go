package metrics

import "errors"

// ErrRegister indicates a collector could not be registered, usually because
// an observer was already registered with the same registry.
var ErrRegister = errors.New("metrics.register_failed")
