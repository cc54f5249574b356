package differential

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Iweisc/ioc/ir"
)

func TestRunReportsNoMismatchForSoundGraph(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	f, err := g.Filter(data, func(x int) bool { return x > 5 })
	require.NoError(t, err)
	m, err := g.Map(f, func(x int) any { return x * 2 })
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(m))

	tester := New(g)
	result, err := tester.Run(context.Background(), map[string]any{"data": toAny([]int{1, 3, 5, 7, 9})})
	require.NoError(t, err)
	assert.True(t, result.AllMatch)
	assert.Empty(t, result.Mismatches)
}

func TestRunDoesNotMutateSourceGraph(t *testing.T) {
	g := ir.New()
	data := g.Input("data", nil)
	f, err := g.Filter(data, func(x int) bool { return true })
	require.NoError(t, err)
	_, err = g.Filter(data, func(x int) bool { return false }) // dead branch
	require.NoError(t, err)
	require.NoError(t, g.MarkOutput(f))

	before := len(g.Nodes())
	_, err = New(g).Run(context.Background(), map[string]any{"data": toAny([]int{1, 2, 3})})
	require.NoError(t, err)
	assert.Equal(t, before, len(g.Nodes()))
}

func toAny(xs []int) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
