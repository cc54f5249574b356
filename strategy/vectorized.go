package strategy

import "github.com/Iweisc/ioc/ir"

// Vectorized is a declared-but-non-capable strategy: an extension point for
// a future SIMD/columnar execution backend. CanHandle always reports false
// so the solver never selects it, but its presence keeps the three-strategy
// shape spec'd for the solver's per-kind candidate set intact.
type Vectorized struct{}

func (Vectorized) Name() string { return "Vectorized" }

func (Vectorized) CanHandle(ir.Kind) bool { return false }

func (Vectorized) Emit(*ir.Node, *ExecutionContext) (Action, error) {
	return nil, ErrNotImplemented
}

func (Vectorized) StaticCost(*ir.Node, []int) float64 {
	return 0
}
