package coordinator

import "errors"

// ErrInvariantViolation marks a detected impossibility in the state
// machine (e.g. releasing while not HELD). The caller should treat this
// as fatal: it indicates a bug, not a recoverable condition.
var ErrInvariantViolation = errors.New("coordinator: invariant violation")
