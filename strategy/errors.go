package strategy

import (
	"errors"
	"fmt"

	"github.com/Iweisc/ioc/ir"
)

// ErrEmptyReduce is returned when Reduce runs over an empty input with no
// initial value supplied.
var ErrEmptyReduce = errors.New("strategy: reduce over empty input with no initial value")

// AssertionError is returned when an Assert node's predicate evaluates to
// false. It carries the user-supplied message.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	if e.Message == "" {
		return "strategy: assertion failed"
	}
	return "strategy: assertion failed: " + e.Message
}

// UserFunctionError wraps a panic or error raised from inside a user
// predicate/transform/operation, tagged with the originating node.
type UserFunctionError struct {
	Node  ir.NodeID
	Cause error
}

func (e *UserFunctionError) Error() string {
	return fmt.Sprintf("strategy: user function failed at node %s: %v", e.Node, e.Cause)
}

func (e *UserFunctionError) Unwrap() error { return e.Cause }

func wrapUserFunc(node *ir.Node, err error) error {
	if err == nil {
		return nil
	}
	return &UserFunctionError{Node: node.ID, Cause: err}
}
