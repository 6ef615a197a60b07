package repl

import "errors"

// Sentinel errors.
var (
	ErrOutOfBounds = errors.New("index out of range")
	ErrNotTerminal = errors.New("repl requires an interactive terminal")
)
