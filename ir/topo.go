package ir

// TopologicalOrder returns node identifiers in an order where every node's
// inputs precede it. It is computed by DFS from the graph's outputs;
// unreachable nodes are excluded from the order but remain in the node map
// until a DCE pass removes them.
func (g *Graph) TopologicalOrder() ([]NodeID, error) {
	g.mu.RLock()
	nodes := make(map[NodeID]*Node, len(g.nodes))
	for id, n := range g.nodes {
		nodes[id] = n
	}
	outputs := append([]NodeID(nil), g.outputs...)
	g.mu.RUnlock()

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[NodeID]int, len(nodes))
	order := make([]NodeID, 0, len(nodes))

	var visit func(id NodeID) error
	visit = func(id NodeID) error {
		switch color[id] {
		case black:
			return nil
		case gray:
			return ErrCycle
		}
		n, ok := nodes[id]
		if !ok {
			return ErrInvalidReference
		}
		color[id] = gray
		for _, in := range n.Inputs {
			if err := visit(in); err != nil {
				return err
			}
		}
		color[id] = black
		order = append(order, id)
		return nil
	}

	for _, out := range outputs {
		if err := visit(out); err != nil {
			return nil, err
		}
	}
	return order, nil
}

// TransitiveInputs returns every node reachable from id by following Inputs,
// including id itself. Used by the debugger to bisect a valid subgraph.
func (g *Graph) TransitiveInputs(id NodeID) (map[NodeID]struct{}, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	reach := make(map[NodeID]struct{})
	var visit func(NodeID) error
	visit = func(cur NodeID) error {
		if _, ok := reach[cur]; ok {
			return nil
		}
		n, ok := g.nodes[cur]
		if !ok {
			return ErrInvalidReference
		}
		reach[cur] = struct{}{}
		for _, in := range n.Inputs {
			if err := visit(in); err != nil {
				return err
			}
		}
		return nil
	}
	if err := visit(id); err != nil {
		return nil, err
	}
	return reach, nil
}
