package ir

// Subgraph projects the node map onto the given id set and returns a new
// Graph containing exactly those nodes (structurally copied, NodeIDs
// preserved) with its Outputs set to output. Used by the debugger
// collaborator to bisect a graph by a prefix of TopologicalOrder: per
// spec.md §6, any prefix including all transitive inputs of its last node
// must be compilable, so keep must already be closed under Inputs before
// calling Subgraph (see TransitiveInputs).
func (g *Graph) Subgraph(keep map[NodeID]struct{}, output NodeID) (*Graph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[output]; !ok {
		return nil, ErrInvalidReference
	}
	if _, ok := keep[output]; !ok {
		return nil, ErrInvalidReference
	}

	sub := &Graph{
		nodes:   make(map[NodeID]*Node, len(keep)),
		outputs: []NodeID{output},
		counter: g.counter,
	}
	for id := range keep {
		n, ok := g.nodes[id]
		if !ok {
			return nil, ErrInvalidReference
		}
		sub.nodes[id] = cloneNode(n)
	}
	return sub, nil
}
