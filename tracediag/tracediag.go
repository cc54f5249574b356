// Package tracediag is the debugger/tracer collaborator: it re-executes
// subgraphs for bisection and records a per-node trace of a full
// invocation, without the core depending on it in any way.
package tracediag

import (
	"context"
	"errors"
	"time"

	"github.com/Iweisc/ioc/ir"
	"github.com/Iweisc/ioc/solver"
)

// ErrOutOfRange is returned by Bisect when upto does not index order.
var ErrOutOfRange = errors.New("tracediag: bisection index out of range")

// Trace is one node's recorded execution: its output value, how long the
// step took, and any error it produced.
type Trace struct {
	Node     ir.NodeID
	Kind     ir.Kind
	Output   any
	Duration time.Duration
	Err      error
}

// Debugger wraps a graph for step-tracing and prefix bisection.
type Debugger struct {
	Graph *ir.Graph
}

// New returns a Debugger over g.
func New(g *ir.Graph) *Debugger {
	return &Debugger{Graph: g}
}

// Bisect projects the node map onto order[upto] and its transitive inputs
// (all of which lie in the prefix order[:upto+1] when order is a
// TopologicalOrder), and returns a compilable subgraph whose sole output is
// order[upto]. Prefix nodes that order[upto] does not depend on are not
// included.
func (d *Debugger) Bisect(order []ir.NodeID, upto int) (*ir.Graph, error) {
	if upto < 0 || upto >= len(order) {
		return nil, ErrOutOfRange
	}
	last := order[upto]
	reach, err := d.Graph.TransitiveInputs(last)
	if err != nil {
		return nil, err
	}
	return d.Graph.Subgraph(reach, last)
}

// TraceInvoke runs plan against inputs, recording a Trace per step.
func (d *Debugger) TraceInvoke(ctx context.Context, plan *solver.Plan, inputs map[string]any) ([]Trace, any, error) {
	steps, out, err := plan.InvokeTraced(ctx, inputs)
	traces := make([]Trace, len(steps))
	for i, s := range steps {
		traces[i] = Trace{Node: s.Node, Kind: s.Kind, Output: s.Output, Duration: s.Duration, Err: s.Err}
	}
	return traces, out, err
}
