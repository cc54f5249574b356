package solver

import "errors"

// ErrUnsupportedKind is returned by Compile when no registered strategy can
// handle some node's kind.
var ErrUnsupportedKind = errors.New("solver: no strategy can handle node kind")

// ErrMissingInput is returned by Plan.Invoke when an Input node's declared
// name is not present in the invocation's inputs map.
var ErrMissingInput = errors.New("solver: missing required input")
