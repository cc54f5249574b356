package optimizer

import "github.com/Iweisc/ioc/ir"

// FilterBeforeMap rewrites src -> Map(f) -> Filter(p), with the Map having
// exactly one consumer (the Filter), into src -> Filter(p) -> Map(f), so
// the expensive transform f runs only on elements that survive p. The
// rewrite is sound only when p is independent of f — p(f(x)) ≡ p(x) for
// every relevant x — which is checked at rewrite time by runtime sampling
// rather than static analysis (independenceHolds).
func FilterBeforeMap(g *ir.Graph) error {
	for {
		order, err := g.TopologicalOrder()
		if err != nil {
			return err
		}
		reordered := false
		for _, id := range order {
			filterNode, ok := g.Node(id)
			if !ok || filterNode.Kind != ir.KindFilter || len(filterNode.Inputs) != 1 {
				continue
			}
			mapID := filterNode.Inputs[0]
			mapNode, ok := g.Node(mapID)
			if !ok || mapNode.Kind != ir.KindMap || len(mapNode.Inputs) != 1 {
				continue
			}

			pred, predOK := filterNode.Params["predicate"]
			transform, transformOK := mapNode.Params["transform"]
			if !predOK || !transformOK || pred == nil || transform == nil {
				continue
			}
			if !ir.IsCallable(pred) || !ir.IsCallable(transform) {
				continue
			}
			if !mapHasSingleConsumer(g, mapID, id) {
				continue
			}
			if !independenceHolds(transform, pred) {
				continue
			}

			swapFilterAndMap(g, id, mapID)
			reordered = true
			break
		}
		if !reordered {
			break
		}
	}
	return DCE(g)
}

// mapHasSingleConsumer reports whether mapID's only consumer, across every
// node's Inputs and the graph's outputs, is filterID.
func mapHasSingleConsumer(g *ir.Graph, mapID, filterID ir.NodeID) bool {
	count := 0
	for nid, n := range g.Nodes() {
		for _, in := range n.Inputs {
			if in == mapID {
				count++
				if nid != filterID {
					return false
				}
			}
		}
	}
	for _, o := range g.Outputs() {
		if o == mapID {
			count++
		}
	}
	return count == 1
}

// swapFilterAndMap performs the in-place reorder: the Filter node (filterID)
// takes the Map's former input and predicate role first; the Map node
// (mapID) now reads from the Filter. Every other reference to filterID
// (other consumers, graph outputs) is redirected to mapID, since mapID now
// occupies the position filterID used to hold in the DAG.
func swapFilterAndMap(g *ir.Graph, filterID, mapID ir.NodeID) {
	mapNode, _ := g.Node(mapID)
	grandparent := mapNode.Inputs[0]

	externalConsumers := make([]ir.NodeID, 0)
	for nid, n := range g.Nodes() {
		if nid == mapID {
			continue
		}
		for _, in := range n.Inputs {
			if in == filterID {
				externalConsumers = append(externalConsumers, nid)
				break
			}
		}
	}
	wasOutput := false
	for _, o := range g.Outputs() {
		if o == filterID {
			wasOutput = true
			break
		}
	}

	g.SetInputs(filterID, []ir.NodeID{grandparent})
	g.SetInputs(mapID, []ir.NodeID{filterID})

	for _, nid := range externalConsumers {
		n, ok := g.Node(nid)
		if !ok {
			continue
		}
		newInputs := make([]ir.NodeID, len(n.Inputs))
		for i, in := range n.Inputs {
			if in == filterID {
				newInputs[i] = mapID
			} else {
				newInputs[i] = in
			}
		}
		g.SetInputs(nid, newInputs)
	}
	if wasOutput {
		outs := g.Outputs()
		newOuts := make([]ir.NodeID, len(outs))
		for i, o := range outs {
			if o == filterID {
				newOuts[i] = mapID
			} else {
				newOuts[i] = o
			}
		}
		g.SetOutputs(newOuts)
	}

	track(g, mapID, "filter-before-map", []ir.NodeID{filterID, mapID}, "reordered filter ahead of map after runtime independence check")
}
