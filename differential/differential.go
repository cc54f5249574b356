// Package differential implements the correctness harness the optimizer's
// soundness proofs lean on: it clones a graph, compiles one copy with
// optimization disabled and the other through optimizer.DefaultPipeline,
// invokes both plans on the same inputs, and reports any observed mismatch.
//
// The core guarantees this harness something to rely on: cloning a graph
// and invoking the two plans on the same input produces observably
// identical values whenever the optimizer is sound (spec.md §6). A mismatch
// here means either an unsound rewrite slipped past the filter-before-map
// independence probe, or a genuine regression.
package differential

import (
	"context"
	"reflect"
	"time"

	"github.com/Iweisc/ioc/ir"
	"github.com/Iweisc/ioc/profiler"
	"github.com/Iweisc/ioc/solver"
)

// Mismatch records one output position where the unoptimized and optimized
// plans disagreed.
type Mismatch struct {
	Output      ir.NodeID
	Unoptimized any
	Optimized   any
}

// Result is the outcome of one differential run.
type Result struct {
	Mismatches []Mismatch
	AllMatch   bool
	Timings    map[string]time.Duration
}

// Tester runs both plan variants over one source graph. The graph is never
// mutated: both variants run against independent clones.
type Tester struct {
	Graph *ir.Graph
	Mode  solver.Mode
}

// New returns a Tester over g, defaulting to solver.ModeBalanced so plan
// construction never depends on profiler state that the comparison itself
// might later perturb.
func New(g *ir.Graph) *Tester {
	return &Tester{Graph: g, Mode: solver.ModeBalanced}
}

// Run compiles and invokes both variants on inputs, returning their timing
// and any mismatched outputs. A compile or invocation error from either
// side is returned directly: the harness does not degrade a structural or
// runtime failure into a "mismatch".
func (d *Tester) Run(ctx context.Context, inputs map[string]any) (*Result, error) {
	baseline := d.Graph.Clone()
	optimized := d.Graph.Clone()

	basePlan, err := solver.NewKernel(baseline, profiler.New()).Compile(d.Mode, false, false)
	if err != nil {
		return nil, err
	}
	optPlan, err := solver.NewKernel(optimized, profiler.New()).Compile(d.Mode, true, false)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	baseOut, err := basePlan.Invoke(ctx, inputs, false)
	if err != nil {
		return nil, err
	}
	baseElapsed := time.Since(start)

	start = time.Now()
	optOut, err := optPlan.Invoke(ctx, inputs, false)
	if err != nil {
		return nil, err
	}
	optElapsed := time.Since(start)

	result := &Result{
		Timings: map[string]time.Duration{
			"unoptimized": baseElapsed,
			"optimized":   optElapsed,
		},
	}
	result.Mismatches = compareOutputs(basePlan.Outputs, baseOut, optOut)
	result.AllMatch = len(result.Mismatches) == 0
	return result, nil
}

// compareOutputs diffs two Invoke results position by position. Invoke
// collapses a single output to its bare value and multiple outputs to a
// []any tuple; both shapes are handled uniformly here.
func compareOutputs(outputIDs []ir.NodeID, base, opt any) []Mismatch {
	baseVals := asTuple(base, len(outputIDs))
	optVals := asTuple(opt, len(outputIDs))

	var mismatches []Mismatch
	for i, id := range outputIDs {
		if !reflect.DeepEqual(baseVals[i], optVals[i]) {
			mismatches = append(mismatches, Mismatch{Output: id, Unoptimized: baseVals[i], Optimized: optVals[i]})
		}
	}
	return mismatches
}

func asTuple(v any, n int) []any {
	if n == 1 {
		return []any{v}
	}
	if tuple, ok := v.([]any); ok {
		return tuple
	}
	return make([]any, n)
}
