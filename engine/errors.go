package engine

import "errors"

// ErrPoolClosed is returned when work is submitted to a closed worker pool.
var ErrPoolClosed = errors.New("worker pool closed")

// ErrInvalidIterations is returned when a run is requested with a negative
// iteration count.
var ErrInvalidIterations = errors.New("iteration count must not be negative")
