// Package solver implements the kernel at the center of the compiler: it
// propagates estimated sizes through a (possibly optimized) graph, chooses a
// concrete Strategy per node guided by the profiler's cost model, and lowers
// the result into a Plan ready for repeated invocation.
//
// A Kernel owns one strategy cache; it is never shared across Kernel
// instances, mirroring spec.md §5's "strategy cache... not shared across
// kernels."
package solver

import (
	"github.com/Iweisc/ioc/ir"
	"github.com/Iweisc/ioc/optimizer"
	"github.com/Iweisc/ioc/profiler"
	"github.com/Iweisc/ioc/strategy"
)

// Mode selects the strategy-selection policy used during Compile.
type Mode string

const (
	// ModeSpeed queries the profiler for every capable strategy and picks
	// the cheapest estimated cost.
	ModeSpeed Mode = "speed"
	// ModeMemory prefers Naive, which allocates less intermediate
	// structure, falling back to the first capable strategy.
	ModeMemory Mode = "memory"
	// ModeBalanced picks the first capable strategy in a fixed preference
	// order: Optimized, then Naive.
	ModeBalanced Mode = "balanced"
)

// cacheKey identifies one memoized strategy-selection decision.
type cacheKey struct {
	Node   ir.NodeID
	Bucket int
	Mode   Mode
}

// Kernel chooses strategies for a graph's nodes and lowers the result to an
// executable Plan. Its decision cache is instance-owned.
type Kernel struct {
	Graph      *ir.Graph
	Profiler   *profiler.Store
	Strategies []strategy.Strategy

	cache map[cacheKey]strategy.Strategy
}

// NewKernel returns a Kernel over g. A nil profiler gets a fresh, empty
// Store. With no strategies given, the mandatory Optimized and Naive
// strategies are registered along with the non-capable Vectorized stub, so
// every capability query still includes it as spec.md §4.3 requires.
func NewKernel(g *ir.Graph, prof *profiler.Store, strategies ...strategy.Strategy) *Kernel {
	if prof == nil {
		prof = profiler.New()
	}
	if len(strategies) == 0 {
		strategies = []strategy.Strategy{strategy.Optimized{}, strategy.Naive{}, strategy.Vectorized{}}
	}
	return &Kernel{
		Graph:      g,
		Profiler:   prof,
		Strategies: strategies,
		cache:      make(map[cacheKey]strategy.Strategy),
	}
}

// CompileOption customizes one Compile call, following the teacher's
// functional-options config pattern (builder.BuilderOption).
type CompileOption func(*compileConfig)

type compileConfig struct {
	hints map[ir.NodeID]int
}

// WithSizeHint overrides the estimated input size for a specific node,
// typically an Input node, ahead of size propagation.
func WithSizeHint(id ir.NodeID, n int) CompileOption {
	return func(c *compileConfig) {
		if c.hints == nil {
			c.hints = make(map[ir.NodeID]int)
		}
		c.hints[id] = n
	}
}

// Compile optimizes (unless autoOptimize is false), propagates sizes,
// selects a strategy per node, and lowers the graph in topological order
// into a Plan. When saveProfile is true the kernel's profiler is persisted
// to its default path immediately after lowering; compiling does not save
// by default, since that would make every compile an IO operation.
func (k *Kernel) Compile(mode Mode, autoOptimize bool, saveProfile bool, opts ...CompileOption) (*Plan, error) {
	cfg := &compileConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if autoOptimize {
		if err := optimizer.DefaultPipeline().Run(k.Graph); err != nil {
			return nil, err
		}
	}

	outputs := k.Graph.Outputs()
	if len(outputs) == 0 {
		return nil, ir.ErrMissingOutput
	}

	order, err := k.Graph.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	sizes := k.estimateSizes(order, cfg.hints)

	ctx := &strategy.ExecutionContext{Funcs: strategy.NewFuncTable()}
	steps := make([]Step, 0, len(order))
	for _, id := range order {
		node, ok := k.Graph.Node(id)
		if !ok {
			continue
		}
		if node.Kind == ir.KindInput || node.Kind == ir.KindConstant {
			steps = append(steps, Step{Node: id, Kind: node.Kind})
			continue
		}

		strat, err := k.selectStrategy(node, mode, sizes[id])
		if err != nil {
			return nil, err
		}
		action, err := strat.Emit(node, ctx)
		if err != nil {
			return nil, err
		}
		steps = append(steps, Step{Node: id, Kind: node.Kind, Strategy: strat.Name(), Action: action})
	}

	if saveProfile {
		_ = k.Profiler.Save(profiler.DefaultPath)
	}

	return &Plan{
		Steps:    steps,
		Outputs:  outputs,
		Graph:    k.Graph,
		Funcs:    ctx.Funcs,
		profiler: k.Profiler,
	}, nil
}

// selectStrategy picks and caches a Strategy for node under mode/size,
// per spec.md §4.5's three selection policies.
func (k *Kernel) selectStrategy(node *ir.Node, mode Mode, size int) (strategy.Strategy, error) {
	bucket := profiler.BucketSize(size)
	key := cacheKey{Node: node.ID, Bucket: bucket, Mode: mode}
	if s, ok := k.cache[key]; ok {
		return s, nil
	}

	capable := make([]strategy.Strategy, 0, len(k.Strategies))
	for _, s := range k.Strategies {
		if s.CanHandle(node.Kind) {
			capable = append(capable, s)
		}
	}
	if len(capable) == 0 {
		return nil, ErrUnsupportedKind
	}

	var chosen strategy.Strategy
	switch mode {
	case ModeSpeed:
		best := -1.0
		for _, s := range capable {
			cost := k.Profiler.Lookup(node.Kind, s.Name(), size)
			if best < 0 || cost < best {
				best = cost
				chosen = s
			}
		}
	case ModeMemory:
		chosen = firstByName(capable, "Naive")
	default: // ModeBalanced and any unrecognized mode fall back to it
		chosen = firstByName(capable, "Optimized", "Naive")
	}

	k.cache[key] = chosen
	return chosen, nil
}

// firstByName returns the first capable strategy whose Name matches one of
// preference, in preference order, falling back to capable[0] if none
// match — the "first capable strategy" default spec.md names for memory
// and balanced modes.
func firstByName(capable []strategy.Strategy, preference ...string) strategy.Strategy {
	for _, name := range preference {
		for _, s := range capable {
			if s.Name() == name {
				return s
			}
		}
	}
	return capable[0]
}
