package strategy

import (
	"sort"

	"github.com/Iweisc/ioc/ir"
)

// Optimized emits actions that lean on Go's built-in slice/sort facilities
// instead of hand-written loops wherever that is faster: a pre-sized append
// loop for Filter/Map (Go's nearest analogue to a host list comprehension),
// a manual left-fold for Reduce (Go has no functools.reduce, so this is
// identical in shape to Naive's but kept as a distinct strategy so the
// profiler can still tell the two apart and so GroupBy's sort-by-key
// requirement has a natural home here), sort.SliceStable for Sort, a single
// sort-then-group pass for GroupBy (the itertools.groupby analogue), one
// pre-sized append loop for Flatten, and a seen-set for Distinct.
type Optimized struct{}

func (Optimized) Name() string { return "Optimized" }

func (Optimized) CanHandle(kind ir.Kind) bool {
	switch kind {
	case ir.KindFilter, ir.KindMap, ir.KindReduce, ir.KindSort, ir.KindGroupBy,
		ir.KindJoin, ir.KindFlatten, ir.KindDistinct, ir.KindAssert:
		return true
	default:
		return false
	}
}

func (s Optimized) Emit(node *ir.Node, ctx *ExecutionContext) (Action, error) {
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

func (Optimized) emitFilter(node *ir.Node, ctx *ExecutionContext) (Action, error) {
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

func (Optimized) emitMap(node *ir.Node, ctx *ExecutionContext) (Action, error) {
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
		out := make([]any, len(in))
		for i, item := range in {
			v, err := callFunc(fn, item)
			if err != nil {
				return nil, wrapUserFunc(node, err)
			}
			out[i] = v
		}
		return out, nil
	}, nil
}

func (Optimized) emitReduce(node *ir.Node, ctx *ExecutionContext) (Action, error) {
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

func (Optimized) emitSort(node *ir.Node, ctx *ExecutionContext) (Action, error) {
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
		keys := out
		if key != nil {
			keys = make([]any, len(out))
			for i, v := range out {
				kv, err := callFunc(key, v)
				if err != nil {
					return nil, wrapUserFunc(node, err)
				}
				keys[i] = kv
			}
		}
		idx := make([]int, len(out))
		for i := range idx {
			idx[i] = i
		}
		var sortErr error
		sort.SliceStable(idx, func(i, j int) bool {
			a, b := keys[idx[i]], keys[idx[j]]
			if reverse {
				a, b = b, a
			}
			lt, err := compareLess(a, b)
			if err != nil {
				sortErr = err
			}
			return lt
		})
		if sortErr != nil {
			return nil, wrapUserFunc(node, sortErr)
		}
		sorted := make([]any, len(out))
		for i, j := range idx {
			sorted[i] = out[j]
		}
		return sorted, nil
	}, nil
}

// emitGroupBy sorts a (key, element) projection by key, then scans the
// sorted run to build each group — the itertools.groupby idiom, which
// requires its input pre-sorted by key to merge equal runs in one pass.
func (Optimized) emitGroupBy(node *ir.Node, ctx *ExecutionContext) (Action, error) {
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
		type pair struct {
			key  any
			item any
			seq  int
		}
		pairs := make([]pair, len(in))
		for i, item := range in {
			k, err := callFunc(keyFn, item)
			if err != nil {
				return nil, wrapUserFunc(node, err)
			}
			pairs[i] = pair{key: k, item: item, seq: i}
		}
		sort.SliceStable(pairs, func(i, j int) bool {
			lt, _ := compareLess(pairs[i].key, pairs[j].key)
			return lt
		})

		groups := map[any][]any{}
		var order []any
		for _, p := range pairs {
			if _, seen := groups[p.key]; !seen {
				order = append(order, p.key)
			}
			groups[p.key] = append(groups[p.key], p.item)
		}
		// Re-key the output by original input order of first appearance,
		// matching GroupBy's spec'd "mapping ... in input order" contract
		// (the sort above is an internal implementation detail only).
		firstSeen := map[any]int{}
		for i, item := range in {
			k, _ := callFunc(keyFn, item)
			if _, ok := firstSeen[k]; !ok {
				firstSeen[k] = i
			}
		}
		sort.SliceStable(order, func(i, j int) bool {
			return firstSeen[order[i]] < firstSeen[order[j]]
		})
		out := make(map[any][]any, len(groups))
		for _, k := range order {
			out[k] = groups[k]
		}
		return out, nil
	}, nil
}

func (Optimized) emitJoin(node *ir.Node, ctx *ExecutionContext) (Action, error) {
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
		out := make([]any, 0, len(left))
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

func (Optimized) emitFlatten(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	return func(results Results) (any, error) {
		in, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		total := 0
		for _, item := range in {
			if nested, ok := item.([]any); ok {
				total += len(nested)
			} else {
				total++
			}
		}
		out := make([]any, 0, total)
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

func (Optimized) emitDistinct(node *ir.Node, ctx *ExecutionContext) (Action, error) {
	return func(results Results) (any, error) {
		in, err := inputList(results, node, 0)
		if err != nil {
			return nil, err
		}
		seen := make(map[any]struct{}, len(in))
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

func (Optimized) emitAssert(node *ir.Node, ctx *ExecutionContext) (Action, error) {
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

func (Optimized) StaticCost(node *ir.Node, inputSizes []int) float64 {
	return defaultCost(node.Kind, inputSizes) * 0.5
}
