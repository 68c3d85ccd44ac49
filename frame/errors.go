package frame

import "errors"

// Errors returned by frame constructors and reductions.
var (
	ErrEmptyStack    = errors.New("frame: empty stack")
	ErrShapeMismatch = errors.New("frame: shape mismatch")
	ErrUnknownMethod = errors.New("frame: unknown aggregation method")
)
