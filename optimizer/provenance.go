package optimizer

import "github.com/Iweisc/ioc/ir"

// track notifies g's optional Tracker of a structural rewrite. The core
// passes never depend on a Tracker being present, but call it on every
// rewrite when one is attached, per the provenance collaborator contract.
func track(g *ir.Graph, result ir.NodeID, pass string, originals []ir.NodeID, description string) {
	if g.Tracker != nil {
		g.Tracker.TrackTransformation(result, pass, originals, description)
	}
}
