package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iweisc/ioc/ir"
)

func countKind(t *testing.T, g *ir.Graph, kind ir.Kind) int {
	t.Helper()
	n := 0
	for _, node := range g.Nodes() {
		if node.Kind == kind {
			n++
		}
	}
	return n
}

func TestNewRejectsUnknownPass(t *testing.T) {
	_, err := New("dce", "not-a-real-pass")
	assert.ErrorIs(t, err, ErrUnknownPass)
}

func TestDefaultPipelineOrder(t *testing.T) {
	p := DefaultPipeline()
	assert.Equal(t, []string{"dce", "cse", "filter-fusion", "map-fusion", "filter-before-map"}, p.Names())
}

func TestDCERemovesUnreachableNodes(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	live, err := g.Filter(data, func(x any) bool { return true })
	require.NoError(t, err)
	_, err = g.Filter(data, func(x any) bool { return false })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(live))

	require.NoError(t, DCE(g))
	assert.Len(t, g.Nodes(), 2) // data, live
}

func TestDCEIsIdempotent(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	f, err := g.Filter(data, func(x any) bool { return true })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(f))

	require.NoError(t, DCE(g))
	before := len(g.Nodes())
	require.NoError(t, DCE(g))
	assert.Equal(t, before, len(g.Nodes()))
}

func TestCSEMergesIdenticalConstants(t *testing.T) {
	g := ir.New()
	a := g.Constant(5)
	b := g.Constant(5)
	f1, err := g.Filter(a, func(x any) bool { return true })
	require.NoError(t, err)
	f2, err := g.Filter(b, func(x any) bool { return true })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(f1))
	require.NoError(t, g.MarkOutput(f2))

	require.NoError(t, CSE(g))
	assert.Equal(t, 1, countKind(t, g, ir.KindConstant))
}

func TestCSEKeepsDistinctCallablesSeparate(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	// Two closures, behaviorally identical but each capturing its own
	// distinct free variable, so they are guaranteed to be separate
	// function values rather than a single shared non-capturing literal.
	tagA, tagB := "a", "b"
	f1, err := g.Filter(data, func(x any) bool { _ = tagA; return true })
	require.NoError(t, err)
	f2, err := g.Filter(data, func(x any) bool { _ = tagB; return true })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(f1))
	require.NoError(t, g.MarkOutput(f2))

	require.NoError(t, CSE(g))
	assert.Equal(t, 2, countKind(t, g, ir.KindFilter))
}

func TestCSEKeepsSharedCallableReferenceSeparate(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	// Even the exact same function value passed to two nodes is never
	// merged: Go gives CSE no way to prove a callable parameter equals
	// itself across two map entries without relying on an unsound pointer
	// compare, so every callable-bearing node is conservatively distinct.
	pred := func(x any) bool { return true }
	f1, err := g.Filter(data, pred)
	require.NoError(t, err)
	f2, err := g.Filter(data, pred)
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(f1))
	require.NoError(t, g.MarkOutput(f2))

	require.NoError(t, CSE(g))
	assert.Equal(t, 2, countKind(t, g, ir.KindFilter))
}

func TestFilterFusionComposesInnerFirst(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	var calls []string
	inner, err := g.Filter(data, func(x any) bool { calls = append(calls, "inner"); return x.(int) > 0 })
	require.NoError(t, err)
	outer, err := g.Filter(inner, func(x any) bool { calls = append(calls, "outer"); return x.(int) < 10 })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(outer))

	require.NoError(t, FilterFusion(g))
	assert.Equal(t, 1, countKind(t, g, ir.KindFilter))

	outs := g.Outputs()
	fused, ok := g.Node(outs[0])
	require.True(t, ok)
	pred := fused.Params["predicate"].(func(any) bool)

	calls = nil
	assert.True(t, pred(5))
	assert.Equal(t, []string{"inner", "outer"}, calls)

	calls = nil
	assert.False(t, pred(-1))
	assert.Equal(t, []string{"inner"}, calls, "outer must not run once inner already rejects")
}

func TestMapFusionComposesInnerFirst(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	inner, err := g.Map(data, func(x any) any { return x.(int) + 1 })
	require.NoError(t, err)
	outer, err := g.Map(inner, func(x any) any { return x.(int) * 2 })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(outer))

	require.NoError(t, MapFusion(g))
	assert.Equal(t, 1, countKind(t, g, ir.KindMap))

	outs := g.Outputs()
	fused, ok := g.Node(outs[0])
	require.True(t, ok)
	fn := fused.Params["transform"].(func(any) any)
	assert.Equal(t, 8, fn(3)) // (3+1)*2
}

func TestFilterBeforeMapReordersIndependentPredicate(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	m, err := g.Map(data, func(x any) any { return x.(int) * 2 })
	require.NoError(t, err)
	f, err := g.Filter(m, func(x any) bool { return x.(int) > 0 })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(f))

	require.NoError(t, FilterBeforeMap(g))

	outs := g.Outputs()
	require.Len(t, outs, 1)
	result, ok := g.Node(outs[0])
	require.True(t, ok)
	assert.Equal(t, ir.KindMap, result.Kind, "map should now be the terminal node")

	filterNode, ok := g.Node(result.Inputs[0])
	require.True(t, ok)
	assert.Equal(t, ir.KindFilter, filterNode.Kind)
	assert.Equal(t, []ir.NodeID{data}, filterNode.Inputs, "filter now reads straight from source")
}

func TestFilterBeforeMapBlockedByMultipleConsumers(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	m, err := g.Map(data, func(x any) any { return x.(int) * 2 })
	require.NoError(t, err)
	f, err := g.Filter(m, func(x any) bool { return x.(int) > 0 })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(f))
	require.NoError(t, g.MarkOutput(m)) // second consumer of m

	require.NoError(t, FilterBeforeMap(g))

	outs := g.Outputs()
	first, ok := g.Node(outs[0])
	require.True(t, ok)
	assert.Equal(t, ir.KindFilter, first.Kind, "rewrite must not fire when map has another consumer")
}

func TestIndependenceHoldsForTypeAgnosticPredicate(t *testing.T) {
	transform := func(x any) any { return x.(int) * 2 }
	predicate := func(x any) bool { return x.(int) > 0 }
	assert.True(t, independenceHolds(transform, predicate))
}

func TestIndependenceRejectsDependentPredicate(t *testing.T) {
	transform := func(x any) any { return x.(int) + 100 }
	// Predicate's truth value depends on whether it runs before or after +100.
	predicate := func(x any) bool { return x.(int) < 10 }
	assert.False(t, independenceHolds(transform, predicate))
}

func TestOptimizePipelineIsIdempotent(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	m, err := g.Map(data, func(x any) any { return x.(int) * 2 })
	require.NoError(t, err)
	f, err := g.Filter(m, func(x any) bool { return x.(int) > 0 })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(f))

	p := DefaultPipeline()
	require.NoError(t, p.Run(g))
	firstPass := g.Explain(false)
	require.NoError(t, p.Run(g))
	assert.Equal(t, firstPass, g.Explain(false))
}
