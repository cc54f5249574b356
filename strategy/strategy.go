// Package strategy provides the concrete code emitters that turn one IR
// node into an executable Action: for each node kind, one or more Strategy
// implementations compete to be selected by the solver kernel, guided by
// the profiler's cost model.
//
// The original system generated Python source text per node and exec'd it;
// Go has no equivalent runtime compile step, so each Strategy's Emit
// returns a bound closure (an Action) instead of a source string. This
// keeps the same separation — a Strategy only ever decides *how* a node's
// output is computed, never *whether* it runs — while staying idiomatic Go.
package strategy

import (
	"errors"
	"reflect"

	"github.com/Iweisc/ioc/ir"
)

// ErrNotImplemented is returned by a non-capable strategy (Vectorized) if
// Emit is called on it despite CanHandle returning false.
var ErrNotImplemented = errors.New("strategy: not implemented")

// ErrMissingParam is returned when a node is missing a parameter a strategy
// needs to emit its action (e.g. a Filter node with no "predicate").
var ErrMissingParam = errors.New("strategy: missing required parameter")

// Results holds the already-computed output of every node executed so far
// in topological order, keyed by NodeID. Actions read their inputs from it
// and write their own output into it.
type Results map[ir.NodeID]any

// Action computes one node's output given the accumulated Results of its
// predecessors. It returns ErrMissingParam for malformed nodes or inputs,
// and a *UserFunctionError when a user function panics (callFunc recovers
// the panic and converts it to an error).
type Action func(results Results) (any, error)

// FuncHandle is a stable, monotonically assigned index of a captured user
// function in a FuncTable.
type FuncHandle int

// FuncTable is a side table of captured user functions, indexed by
// FuncHandle. Strategy.Emit registers each function value it closes over
// so callers holding a Plan can enumerate captured callables without
// inspecting node Params directly. Actions do not read the table: each one
// calls the function value it closed over.
type FuncTable struct {
	fns []any
}

// NewFuncTable returns an empty FuncTable.
func NewFuncTable() *FuncTable { return &FuncTable{} }

// Capture registers fn and returns its handle.
func (t *FuncTable) Capture(fn any) FuncHandle {
	t.fns = append(t.fns, fn)
	return FuncHandle(len(t.fns) - 1)
}

// At retrieves the function previously registered under h.
func (t *FuncTable) At(h FuncHandle) any { return t.fns[h] }

// Len reports how many functions have been captured.
func (t *FuncTable) Len() int { return len(t.fns) }

// ExecutionContext is passed to every Strategy.Emit call. It carries the
// shared FuncTable so strategies across different nodes capture into the
// same side table.
type ExecutionContext struct {
	Funcs *FuncTable
}

// Strategy is a stateless execution strategy: a concrete emitter for some
// subset of node kinds.
type Strategy interface {
	// Name identifies the strategy for profiler keys and cache lookups.
	Name() string
	// CanHandle reports whether this strategy can emit an Action for kind.
	CanHandle(kind ir.Kind) bool
	// Emit produces the Action that computes node's output from the
	// Results of its predecessors, capturing any user functions into
	// ctx.Funcs.
	Emit(node *ir.Node, ctx *ExecutionContext) (Action, error)
	// StaticCost is a closed-form heuristic cost, used only as a profiler
	// fallback when no measured data exists for (kind, strategy, size).
	StaticCost(node *ir.Node, inputSizes []int) float64
}

func param(node *ir.Node, key string) (any, bool) {
	v, ok := node.Params[key]
	return v, ok && v != nil
}

func requireParam(node *ir.Node, key string) (any, error) {
	v, ok := param(node, key)
	if !ok {
		return nil, ErrMissingParam
	}
	return v, nil
}

func inputList(results Results, node *ir.Node, idx int) ([]any, error) {
	v, ok := results[node.Inputs[idx]]
	if !ok {
		return nil, ErrMissingParam
	}
	list, ok := v.([]any)
	if !ok {
		return nil, ErrMissingParam
	}
	return list, nil
}

func callPredicate(fn any, x any) (bool, error) {
	out, err := callFunc(fn, x)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, ErrMissingParam
	}
	return b, nil
}

// callFunc invokes an arbitrary single- or double-argument user function via
// reflection, recovering from panics raised inside it and returning them as
// an error, which the emitting action wraps in a UserFunctionError.
func callFunc(fn any, args ...any) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicToError(r)
		}
	}()
	fv := reflect.ValueOf(fn)
	ft := fv.Type()
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			// reflect.ValueOf(nil) is the invalid zero Value and Call
			// panics on it; a nil element is valid input (the source
			// system happily passes None to predicates/transforms), so
			// build the parameter's zero value for that argument position
			// instead of letting the invalid Value reach Call.
			in[i] = reflect.Zero(ft.In(i))
			continue
		}
		in[i] = reflect.ValueOf(a)
	}
	out := fv.Call(in)
	if len(out) == 0 {
		return nil, nil
	}
	return out[0].Interface(), nil
}

func callBinaryPredicate(fn any, l, r any) (bool, error) {
	out, err := callFunc(fn, l, r)
	if err != nil {
		return false, err
	}
	b, ok := out.(bool)
	if !ok {
		return false, ErrMissingParam
	}
	return b, nil
}

// compareLess orders two comparable values, supporting the numeric and
// string kinds a Constant/Input node can carry. Mixed or unsupported types
// report false with no error, matching the lattice's conservative Any
// fallback rather than panicking mid-sort.
func compareLess(a, b any) (bool, error) {
	switch av := a.(type) {
	case int:
		if bv, ok := b.(int); ok {
			return av < bv, nil
		}
	case int64:
		if bv, ok := b.(int64); ok {
			return av < bv, nil
		}
	case float64:
		if bv, ok := b.(float64); ok {
			return av < bv, nil
		}
	case string:
		if bv, ok := b.(string); ok {
			return av < bv, nil
		}
	}
	return false, nil
}

func panicToError(r any) error {
	if e, ok := r.(error); ok {
		return e
	}
	return errors.New("strategy: user function panicked")
}
