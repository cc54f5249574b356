package ir

import "errors"

// Structural (build/compile-time) errors. These are fatal to the caller and
// never retried; see spec.md §7.
var (
	// ErrInvalidReference is returned when a node references an input
	// identifier that does not exist in the graph.
	ErrInvalidReference = errors.New("ir: invalid node reference")

	// ErrInvalidArity is returned when a kind-specific input-count
	// constraint is violated.
	ErrInvalidArity = errors.New("ir: invalid arity for node kind")

	// ErrMissingOutput is returned when compile is attempted on a graph
	// with no declared outputs.
	ErrMissingOutput = errors.New("ir: graph has no outputs")

	// ErrCycle is returned when TopologicalOrder detects a cycle. The
	// builder constructors prevent cycles by construction (inputs must
	// already exist), so this only fires against a hand-corrupted graph.
	ErrCycle = errors.New("ir: graph contains a cycle")
)
