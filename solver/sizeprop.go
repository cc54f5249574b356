package solver

import "github.com/Iweisc/ioc/ir"

// defaultInputSize is used for an Input node with no caller-supplied hint.
const defaultInputSize = 1000

// estimateSizes propagates an estimated element count through order using
// the kind-specific ratios fixed by spec.md §4.5: Filter halves, Map/Reduce/
// Sort/Assert pass through unchanged, Flatten doubles, Distinct halves,
// GroupBy shrinks to min(n/10, 100), and Join multiplies its two operands.
// hints overrides the estimate for any node, Input or otherwise.
func (k *Kernel) estimateSizes(order []ir.NodeID, hints map[ir.NodeID]int) map[ir.NodeID]int {
	sizes := make(map[ir.NodeID]int, len(order))
	for _, id := range order {
		node, ok := k.Graph.Node(id)
		if !ok {
			continue
		}

		if hint, ok := hints[id]; ok {
			sizes[id] = hint
			continue
		}

		switch node.Kind {
		case ir.KindInput:
			sizes[id] = defaultInputSize
		case ir.KindConstant:
			sizes[id] = 1
		case ir.KindFilter, ir.KindDistinct:
			sizes[id] = sizes[node.Inputs[0]] / 2
		case ir.KindMap, ir.KindReduce, ir.KindSort, ir.KindAssert:
			sizes[id] = sizes[node.Inputs[0]]
		case ir.KindFlatten:
			sizes[id] = sizes[node.Inputs[0]] * 2
		case ir.KindGroupBy:
			n := sizes[node.Inputs[0]] / 10
			if n > 100 {
				n = 100
			}
			sizes[id] = n
		case ir.KindJoin:
			sizes[id] = sizes[node.Inputs[0]] * sizes[node.Inputs[1]]
		default:
			sizes[id] = defaultInputSize
		}
	}
	return sizes
}
