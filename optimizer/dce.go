package optimizer

import "github.com/Iweisc/ioc/ir"

// DCE deletes every node unreachable from the graph's outputs. Afterward,
// every remaining node lies on some path from an Input to an Output.
func DCE(g *ir.Graph) error {
	order, err := g.TopologicalOrder()
	if err != nil {
		return err
	}
	reachable := make(map[ir.NodeID]struct{}, len(order))
	for _, id := range order {
		reachable[id] = struct{}{}
	}
	for id := range g.Nodes() {
		if _, ok := reachable[id]; !ok {
			g.DeleteNode(id)
		}
	}
	return nil
}
