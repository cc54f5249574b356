package optimizer

import (
	"reflect"

	"github.com/Iweisc/ioc/ir"
)

// group is one common-subexpression equivalence class discovered during a
// single CSE pass.
type group struct {
	members []ir.NodeID
}

// CSE merges nodes that are equivalent candidates: same kind, same ordered
// inputs (after already-canonicalized rewriting), and equal parameters.
// Parameters compare equal when both are non-callable and deeply equal; a
// callable parameter is never equal to anything, even another callable,
// since Go provides no way to prove two function values are the same
// object. Constant nodes are the sole exception, comparing by literal value
// alone regardless of any callable identity. Within each class the
// lexicographically-first node identifier becomes canonical; every
// reference elsewhere in the graph is rewritten to point at it, then DCE
// removes the now-orphaned duplicates.
func CSE(g *ir.Graph) error {
	order, err := g.TopologicalOrder()
	if err != nil {
		return err
	}

	groupsByKind := make(map[ir.Kind][]*group)
	memberGroup := make(map[ir.NodeID]*group, len(order))
	// provisional maps a node to the first member of its group seen so far,
	// so later nodes in topological order compare against already-merged
	// inputs instead of their pre-merge identifiers.
	provisional := make(map[ir.NodeID]ir.NodeID, len(order))

	for _, id := range order {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		inputs := canonicalizeInputs(n.Inputs, provisional)

		var matched *group
		for _, candidate := range groupsByKind[n.Kind] {
			repNode, ok := g.Node(candidate.members[0])
			if !ok {
				continue
			}
			repInputs := canonicalizeInputs(repNode.Inputs, provisional)
			if inputsEqual(inputs, repInputs) && paramsEqual(n.Kind, n.Params, repNode.Params) {
				matched = candidate
				break
			}
		}
		if matched == nil {
			matched = &group{members: []ir.NodeID{id}}
			groupsByKind[n.Kind] = append(groupsByKind[n.Kind], matched)
		} else {
			matched.members = append(matched.members, id)
		}
		memberGroup[id] = matched
		provisional[id] = matched.members[0]
	}

	canonical := make(map[ir.NodeID]ir.NodeID, len(order))
	resolved := make(map[*group]bool, len(groupsByKind))
	for _, id := range order {
		grp := memberGroup[id]
		if resolved[grp] {
			continue
		}
		resolved[grp] = true
		min := grp.members[0]
		for _, m := range grp.members[1:] {
			if m < min {
				min = m
			}
		}
		for _, m := range grp.members {
			canonical[m] = min
		}
		if len(grp.members) > 1 {
			track(g, min, "cse", grp.members, "merged equivalent-candidate nodes into canonical representative")
		}
	}

	for id, n := range g.Nodes() {
		if len(n.Inputs) == 0 {
			continue
		}
		newInputs := make([]ir.NodeID, len(n.Inputs))
		for i, in := range n.Inputs {
			newInputs[i] = resolve(canonical, in)
		}
		g.SetInputs(id, newInputs)
	}

	outs := g.Outputs()
	newOuts := make([]ir.NodeID, len(outs))
	for i, o := range outs {
		newOuts[i] = resolve(canonical, o)
	}
	g.SetOutputs(newOuts)

	return DCE(g)
}

func canonicalizeInputs(inputs []ir.NodeID, provisional map[ir.NodeID]ir.NodeID) []ir.NodeID {
	out := make([]ir.NodeID, len(inputs))
	for i, in := range inputs {
		if c, ok := provisional[in]; ok {
			out[i] = c
		} else {
			out[i] = in
		}
	}
	return out
}

func resolve(canonical map[ir.NodeID]ir.NodeID, id ir.NodeID) ir.NodeID {
	if c, ok := canonical[id]; ok {
		return c
	}
	return id
}

func inputsEqual(a, b []ir.NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func paramsEqual(kind ir.Kind, a, b map[string]any) bool {
	if kind == ir.KindConstant {
		return reflect.DeepEqual(a["value"], b["value"])
	}
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok {
			return false
		}
		if !valueEqual(av, bv) {
			return false
		}
	}
	return true
}

// valueEqual compares one parameter pair under the conservative rule: a
// callable is never equal to anything, including another callable, since Go
// cannot prove two function values are the same object (see ir.IsCallable);
// non-callables compare by deep equality.
func valueEqual(a, b any) bool {
	if ir.IsCallable(a) || ir.IsCallable(b) {
		return false
	}
	return reflect.DeepEqual(a, b)
}
