package strategy

import (
	"sort"

	"github.com/Iweisc/ioc/ir"
)

// Naive emits one-pass explicit iteration for every operator kind: a plain
// loop over the input, no host-library shortcuts. It is always capable for
// every kind the strategy set supports, so it is the fallback of last
// resort when no other strategy is cheaper.
type Naive struct{}

func (Naive) Name() string { return "Naive" }

func (Naive) CanHandle(kind ir.Kind) bool {
	switch kind {
	case ir.KindFilter, ir.KindMap, ir.KindReduce, ir.KindSort, ir.KindGroupBy,
		ir.KindJoin, ir.KindFlatten, ir.KindDistinct, ir.KindAssert:
		return true
	default:
		return false
	}
}

func (s Naive) Emit(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	switch node.Kind {
	case ir.KindFilter:
		return s.emitFilter(node, ctx)
	case ir.KindMap:
		return s.emitMap(node, ctx)
	case ir.KindReduce:
		return s.emitReduce(node, ctx)
	case ir.KindSort:
		return s.emitSort(node, ctx)
	case ir.KindGroupBy:
		return s.emitGroupBy(node, ctx)
	case ir.KindJoin:
		return s.emitJoin(node, ctx)
	case ir.KindFlatten:
		return s.emitFlatten(node, ctx)
	case ir.KindDistinct:
		return s.emitDistinct(node, ctx)
	case ir.KindAssert:
		return s.emitAssert(node, ctx)
	default:
		return nil, ErrNotImplemented
	}
}

func (Naive) emitFilter(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	pred, err := requireParam(node, "predicate")
	if err != nil {
		return nil, err
	}
	ctx.Funcs.Capture(pred)
	return func(results Results) (any, error) {
		in, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(in))
		for _, item := range in {
			ok, err := callPredicate(pred, item)
			if err != nil {
				return nil, wrapUserFunc(node, err)
			}
			if ok {
				out = append(out, item)
			}
		}
		return out, nil
	}, nil
}

func (Naive) emitMap(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	fn, err := requireParam(node, "transform")
	if err != nil {
		return nil, err
	}
	ctx.Funcs.Capture(fn)
	return func(results Results) (any, error) {
		in, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(in))
		for _, item := range in {
			v, err := callFunc(fn, item)
			if err != nil {
				return nil, wrapUserFunc(node, err)
			}
			out = append(out, v)
		}
		return out, nil
	}, nil
}

func (Naive) emitReduce(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	op, err := requireParam(node, "operation")
	if err != nil {
		return nil, err
	}
	ctx.Funcs.Capture(op)
	initial, hasInitial := param(node, "initial")
	return func(results Results) (any, error) {
		in, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		var acc any
		start := 0
		if hasInitial {
			acc = initial
		} else {
			if len(in) == 0 {
				return nil, ErrEmptyReduce
			}
			acc = in[0]
			start = 1
		}
		for _, item := range in[start:] {
			acc, err = callFunc(op, acc, item)
			if err != nil {
				return nil, wrapUserFunc(node, err)
			}
		}
		return acc, nil
	}, nil
}

func (Naive) emitSort(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	key, _ := param(node, "key")
	reverse, _ := node.Params["reverse"].(bool)
	if key != nil {
		ctx.Funcs.Capture(key)
	}
	return func(results Results) (any, error) {
		in, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		out := append([]any(nil), in...)
		var sortErr error
		less := func(i, j int) bool {
			a, b := out[i], out[j]
			if key != nil {
				a, sortErr = callFunc(key, a)
				if sortErr != nil {
					return false
				}
				b, sortErr = callFunc(key, b)
				if sortErr != nil {
					return false
				}
			}
			if reverse {
				a, b = b, a
			}
			lt, cmpErr := compareLess(a, b)
			if cmpErr != nil {
				sortErr = cmpErr
				return false
			}
			return lt
		}
		sort.SliceStable(out, less)
		if sortErr != nil {
			return nil, wrapUserFunc(node, sortErr)
		}
		return out, nil
	}, nil
}

func (Naive) emitGroupBy(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	keyFn, err := requireParam(node, "key")
	if err != nil {
		return nil, err
	}
	ctx.Funcs.Capture(keyFn)
	return func(results Results) (any, error) {
		in, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		groups := map[any][]any{}
		var order []any
		for _, item := range in {
			k, err := callFunc(keyFn, item)
			if err != nil {
				return nil, wrapUserFunc(node, err)
			}
			if _, seen := groups[k]; !seen {
				order = append(order, k)
			}
			groups[k] = append(groups[k], item)
		}
		out := make(map[any][]any, len(groups))
		for _, k := range order {
			out[k] = groups[k]
		}
		return out, nil
	}, nil
}

func (Naive) emitJoin(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	on, err := requireParam(node, "on")
	if err != nil {
		return nil, err
	}
	ctx.Funcs.Capture(on)
	return func(results Results) (any, error) {
		left, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		right, err := inputList(results, node, 1)
		if err != nil {
			return nil, err
		}
		var out []any
		for _, l := range left {
			for _, r := range right {
				match, err := callBinaryPredicate(on, l, r)
				if err != nil {
					return nil, wrapUserFunc(node, err)
				}
				if match {
					out = append(out, [2]any{l, r})
				}
			}
		}
		return out, nil
	}, nil
}

func (Naive) emitFlatten(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	return func(results Results) (any, error) {
		in, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		out := make([]any, 0, len(in))
		for _, item := range in {
			if nested, ok := item.([]any); ok {
				out = append(out, nested...)
			} else {
				out = append(out, item)
			}
		}
		return out, nil
	}, nil
}

func (Naive) emitDistinct(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	return func(results Results) (any, error) {
		in, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		seen := map[any]struct{}{}
		out := make([]any, 0, len(in))
		for _, item := range in {
			if _, ok := seen[item]; ok {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
		}
		return out, nil
	}, nil
}

func (Naive) emitAssert(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	pred, err := requireParam(node, "predicate")
	if err != nil {
		return nil, err
	}
	ctx.Funcs.Capture(pred)
	message, _ := node.Params["message"].(string)
	return func(results Results) (any, error) {
		v, ok := results[node.Inputs[0]]
		if !ok {
			return nil, ErrMissingParam
		}
		ok2, err := callPredicate(pred, v)
		if err != nil {
			return nil, wrapUserFunc(node, err)
		}
		if !ok2 {
			return nil, &AssertionError{Message: message}
		}
		return v, nil
	}, nil
}

func (Naive) StaticCost(node *ir.Node, inputSizes []int) float64 {
	return defaultCost(node.Kind, inputSizes)
}

func defaultCost(kind ir.Kind, inputSizes []int) float64 {
	n := 1.0
	if len(inputSizes) > 0 {
		n = float64(inputSizes[0])
	}
	switch kind {
	case ir.KindReduce:
		return n * 1.5
	case ir.KindSort, ir.KindGroupBy:
		return n * 2.0
	case ir.KindJoin:
		if len(inputSizes) > 1 {
			return float64(inputSizes[0]) * float64(inputSizes[1]) * 3.0
		}
		return n * 3.0
	case ir.KindFlatten:
		return n * 0.5
	case ir.KindDistinct:
		return n * 1.5
	default:
		return n * 1.0
	}
}
