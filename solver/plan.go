package solver

import (
	"context"
	"time"

	"github.com/Iweisc/ioc/ir"
	"github.com/Iweisc/ioc/profiler"
	"github.com/Iweisc/ioc/strategy"
)

// Step is one lowered action in topological order. Input and Constant
// steps carry no Strategy/Action; their values are produced directly by
// Plan.Invoke from the invocation's inputs map or the node's literal.
type Step struct {
	Node     ir.NodeID
	Kind     ir.Kind
	Strategy string
	Action   strategy.Action
}

// Plan is a compiled, ready-to-invoke action sequence plus a reference back
// to the graph it was lowered from and the side table of captured user
// functions, kept for debugging per spec.md §6.
type Plan struct {
	Steps   []Step
	Outputs []ir.NodeID
	Graph   *ir.Graph
	Funcs   *strategy.FuncTable

	profiler *profiler.Store
}

// StepTrace is one recorded execution step, consumed by package tracediag.
type StepTrace struct {
	Node     ir.NodeID
	Kind     ir.Kind
	Output   any
	Duration time.Duration
	Err      error
}

// Invoke binds inputs (keyed by Input-node name) and runs every step in
// order, returning the graph's output value — a single value if there is
// one output, a []any tuple otherwise. When profile is true, each step's
// wall time is measured and folded back into the kernel's profiler via the
// EMA update path; profiling is opt-in because timing adds overhead.
func (p *Plan) Invoke(ctx context.Context, inputs map[string]any, profile bool) (any, error) {
	results := make(strategy.Results, len(p.Steps))

	for _, step := range p.Steps {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		v, err := p.runStep(step, inputs, results, profile)
		if err != nil {
			return nil, err
		}
		results[step.Node] = v
	}

	return p.collectOutputs(results), nil
}

// InvokeTraced runs the same sequence as Invoke but returns a per-step trace
// (node, kind, output, duration, error) alongside the final value, for the
// debugger's TraceInvoke collaborator contract. It stops at the first
// failing step, but returns every trace gathered up to and including it.
func (p *Plan) InvokeTraced(ctx context.Context, inputs map[string]any) ([]StepTrace, any, error) {
	results := make(strategy.Results, len(p.Steps))
	traces := make([]StepTrace, 0, len(p.Steps))

	for _, step := range p.Steps {
		select {
		case <-ctx.Done():
			return traces, nil, ctx.Err()
		default:
		}

		start := time.Now()
		v, err := p.runStep(step, inputs, results, false)
		elapsed := time.Since(start)
		traces = append(traces, StepTrace{Node: step.Node, Kind: step.Kind, Output: v, Duration: elapsed, Err: err})
		if err != nil {
			return traces, nil, err
		}
		results[step.Node] = v
	}

	return traces, p.collectOutputs(results), nil
}

// runStep produces the value for one step: Input steps read from the
// invocation's inputs map by declared name, Constant steps read their
// literal, and every other kind invokes its lowered Action against the
// results accumulated so far, optionally measuring and recording its cost.
func (p *Plan) runStep(step Step, inputs map[string]any, results strategy.Results, profile bool) (any, error) {
	switch step.Kind {
	case ir.KindInput:
		node, ok := p.Graph.Node(step.Node)
		if !ok {
			return nil, ErrMissingInput
		}
		name, _ := node.Params["name"].(string)
		v, ok := inputs[name]
		if !ok {
			return nil, ErrMissingInput
		}
		return v, nil

	case ir.KindConstant:
		node, ok := p.Graph.Node(step.Node)
		if !ok {
			return nil, nil
		}
		return node.Params["value"], nil

	default:
		if !profile || p.profiler == nil {
			return step.Action(results)
		}
		start := time.Now()
		out, err := step.Action(results)
		elapsed := time.Since(start)
		p.profiler.Update(step.Kind, step.Strategy, resultSize(out), float64(elapsed)/float64(time.Millisecond))
		return out, err
	}
}

// collectOutputs returns results[Outputs[0]] when there is exactly one
// output, else a []any tuple in declaration order.
func (p *Plan) collectOutputs(results strategy.Results) any {
	if len(p.Outputs) == 1 {
		return results[p.Outputs[0]]
	}
	out := make([]any, len(p.Outputs))
	for i, id := range p.Outputs {
		out[i] = results[id]
	}
	return out
}

// resultSize estimates an element count for a step's output, used as the
// "n" fed back into the profiler's EMA update. Non-slice results (a Reduce
// scalar, an Assert pass-through) count as a single unit.
func resultSize(v any) int {
	switch val := v.(type) {
	case []any:
		return len(val)
	case map[any][]any:
		return len(val)
	default:
		return 1
	}
}
