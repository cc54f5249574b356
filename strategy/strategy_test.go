package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iweisc/ioc/ir"
)

func filterNode(inputs ...ir.NodeID) *ir.Node {
	return &ir.Node{
		ID:     "n",
		Kind:   ir.KindFilter,
		Inputs: inputs,
		Params: map[string]any{"predicate": func(x any) bool {
			return x.(int) > 1
		}},
	}
}

func runAction(t *testing.T, a Action, results Results) any {
	t.Helper()
	out, err := a(results)
	require.NoError(t, err)
	return out
}

func TestNaiveFilterKeepsMatchesInOrder(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := filterNode(data)

	action, err := Naive{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)

	out := runAction(t, action, Results{data: []any{1, 2, 3}})
	assert.Equal(t, []any{2, 3}, out)
}

func TestOptimizedFilterMatchesNaive(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := filterNode(data)

	naiveAction, err := Naive{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)
	optAction, err := Optimized{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)

	results := Results{data: []any{1, 2, 3}}
	assert.Equal(t, runAction(t, naiveAction, results), runAction(t, optAction, results))
}

func TestReduceEmptyWithoutInitialFails(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindReduce,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{"operation": func(a, b any) any { return a.(int) + b.(int) }},
	}

	for _, s := range []Strategy{Naive{}, Optimized{}} {
		action, err := s.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
		require.NoError(t, err)
		_, err = action(Results{data: []any{}})
		assert.ErrorIs(t, err, ErrEmptyReduce, s.Name())
	}
}

func TestReduceWithInitialHandlesEmptyInput(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindReduce,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{
			"operation": func(a, b any) any { return a.(int) + b.(int) },
			"initial":   10,
		},
	}
	action, err := Naive{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)
	out := runAction(t, action, Results{data: []any{}})
	assert.Equal(t, 10, out)
}

func TestAssertAlwaysTrueIsIdentity(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindAssert,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{
			"predicate": func(any) bool { return true },
			"message":   "unreachable",
		},
	}
	for _, s := range []Strategy{Naive{}, Optimized{}} {
		action, err := s.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
		require.NoError(t, err)
		out := runAction(t, action, Results{data: 42})
		assert.Equal(t, 42, out, s.Name())
	}
}

func TestAssertFalseReturnsAssertionError(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindAssert,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{
			"predicate": func(any) bool { return false },
			"message":   "must be positive",
		},
	}
	action, err := Naive{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)
	_, err = action(Results{data: -1})
	var assertErr *AssertionError
	require.ErrorAs(t, err, &assertErr)
	assert.Contains(t, assertErr.Error(), "must be positive")
}

func TestSortReverseMatchesNaiveAndOptimized(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindSort,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{"reverse": true},
	}
	results := Results{data: []any{3, 1, 2}}

	naiveAction, err := Naive{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)
	naiveOut := runAction(t, naiveAction, results)
	assert.Equal(t, []any{3, 2, 1}, naiveOut)

	optAction, err := Optimized{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)
	optOut := runAction(t, optAction, results)
	assert.Equal(t, naiveOut, optOut)
}

func TestSortWithKeyIsStable(t *testing.T) {
	type item struct {
		group int
		seq   int
	}
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindSort,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{"key": func(x any) any { return x.(item).group }},
	}
	action, err := Naive{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)
	in := []any{item{1, 0}, item{0, 1}, item{1, 2}, item{0, 3}}
	out, err := action(Results{data: in})
	require.NoError(t, err)
	sorted := out.([]any)
	require.Len(t, sorted, 4)
	assert.Equal(t, item{0, 1}, sorted[0])
	assert.Equal(t, item{0, 3}, sorted[1])
	assert.Equal(t, item{1, 0}, sorted[2])
	assert.Equal(t, item{1, 2}, sorted[3])
}

func TestGroupByPreservesFirstSeenOrder(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindGroupBy,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{"key": func(x any) any { return x.(int) % 2 }},
	}
	results := Results{data: []any{3, 2, 5, 4, 7}}

	for _, s := range []Strategy{Naive{}, Optimized{}} {
		action, err := s.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
		require.NoError(t, err)
		out, err := action(results)
		require.NoError(t, err)
		groups := out.(map[any][]any)
		assert.Equal(t, []any{3, 5, 7}, groups[1], s.Name())
		assert.Equal(t, []any{2, 4}, groups[0], s.Name())
	}
}

func TestJoinProducesCartesianMatches(t *testing.T) {
	g := ir.New()
	left := g.Input("left", nil)
	right := g.Input("right", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindJoin,
		Inputs: []ir.NodeID{left, right},
		Params: map[string]any{"on": func(l, r any) bool { return l.(int) == r.(int) }},
	}
	results := Results{left: []any{1, 2}, right: []any{2, 2, 3}}

	for _, s := range []Strategy{Naive{}, Optimized{}} {
		action, err := s.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
		require.NoError(t, err)
		out, err := action(results)
		require.NoError(t, err)
		pairs := out.([]any)
		assert.Equal(t, []any{[2]any{2, 2}, [2]any{2, 2}}, pairs, s.Name())
	}
}

func TestFlattenOneLevel(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{ID: "n", Kind: ir.KindFlatten, Inputs: []ir.NodeID{data}}
	results := Results{data: []any{[]any{1, 2}, 3, []any{4}}}

	for _, s := range []Strategy{Naive{}, Optimized{}} {
		action, err := s.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
		require.NoError(t, err)
		out := runAction(t, action, results)
		assert.Equal(t, []any{1, 2, 3, 4}, out, s.Name())
	}
}

func TestDistinctKeepsFirstOccurrence(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{ID: "n", Kind: ir.KindDistinct, Inputs: []ir.NodeID{data}}
	results := Results{data: []any{1, 2, 1, 3, 2}}

	for _, s := range []Strategy{Naive{}, Optimized{}} {
		action, err := s.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
		require.NoError(t, err)
		out := runAction(t, action, results)
		assert.Equal(t, []any{1, 2, 3}, out, s.Name())
	}
}

func TestUserFunctionPanicIsWrapped(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindMap,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{"transform": func(x any) any {
			panic("boom")
		}},
	}
	action, err := Naive{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)
	_, err = action(Results{data: []any{1}})
	var userErr *UserFunctionError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, node.ID, userErr.Node)
}

func TestMapPassesNilElementsThrough(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindMap,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{"transform": func(x any) any {
			if x == nil {
				return "was-nil"
			}
			return x
		}},
	}
	for _, s := range []Strategy{Naive{}, Optimized{}} {
		action, err := s.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
		require.NoError(t, err)
		out := runAction(t, action, Results{data: []any{1, nil, 3}})
		assert.Equal(t, []any{1, "was-nil", 3}, out, s.Name())
	}
}

func TestFilterPredicateReceivesNilElement(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	node := &ir.Node{
		ID:     "n",
		Kind:   ir.KindFilter,
		Inputs: []ir.NodeID{data},
		Params: map[string]any{"predicate": func(x any) bool { return x == nil }},
	}
	action, err := Naive{}.Emit(node, &ExecutionContext{Funcs: NewFuncTable()})
	require.NoError(t, err)
	out := runAction(t, action, Results{data: []any{1, nil, 3}})
	assert.Equal(t, []any{nil}, out)
}

func TestVectorizedNeverCapable(t *testing.T) {
	v := Vectorized{}
	for _, k := range []ir.Kind{ir.KindFilter, ir.KindMap, ir.KindReduce, ir.KindSort,
		ir.KindGroupBy, ir.KindJoin, ir.KindFlatten, ir.KindDistinct, ir.KindAssert} {
		assert.False(t, v.CanHandle(k))
	}
	_, err := v.Emit(&ir.Node{Kind: ir.KindFilter}, &ExecutionContext{Funcs: NewFuncTable()})
	assert.ErrorIs(t, err, ErrNotImplemented)
}

func TestFuncTableCaptureAndRetrieve(t *testing.T) {
	tbl := NewFuncTable()
	fn := func(x any) bool { return true }
	h := tbl.Capture(fn)
	assert.Equal(t, 1, tbl.Len())
	assert.NotNil(t, tbl.At(h))
}
