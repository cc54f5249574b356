package optimizer

import "github.com/Iweisc/ioc/ir"

// FilterFusion merges every Filter node whose sole input is another Filter
// node into one Filter testing the logical AND of both predicates. The
// inner predicate runs first, matching the lexical order data flowed
// through before fusion: (p2 ∘ p1)(x) ≡ p1(x) ∧ p2(x).
func FilterFusion(g *ir.Graph) error {
	for {
		order, err := g.TopologicalOrder()
		if err != nil {
			return err
		}
		fused := false
		for _, id := range order {
			outer, ok := g.Node(id)
			if !ok || outer.Kind != ir.KindFilter || len(outer.Inputs) != 1 {
				continue
			}
			inner, ok := g.Node(outer.Inputs[0])
			if !ok || inner.Kind != ir.KindFilter {
				continue
			}

			innerPred := inner.Params["predicate"]
			outerPred := outer.Params["predicate"]
			composed := func(x any) bool {
				if !callBoolMust(innerPred, x) {
					return false
				}
				return callBoolMust(outerPred, x)
			}
			originalInner := outer.Inputs[0]
			g.SetParam(id, "predicate", composed)
			g.SetInputs(id, inner.Inputs)
			track(g, id, "filter-fusion", []ir.NodeID{id, originalInner}, "fused filter pair into conjunctive predicate")
			fused = true
			break
		}
		if !fused {
			break
		}
	}
	return DCE(g)
}

// MapFusion merges every Map node whose sole input is another Map node into
// one Map computing λx. outer(inner(x)), inner first — exactly what two
// chained single-element transforms compute per element.
func MapFusion(g *ir.Graph) error {
	for {
		order, err := g.TopologicalOrder()
		if err != nil {
			return err
		}
		fused := false
		for _, id := range order {
			outer, ok := g.Node(id)
			if !ok || outer.Kind != ir.KindMap || len(outer.Inputs) != 1 {
				continue
			}
			inner, ok := g.Node(outer.Inputs[0])
			if !ok || inner.Kind != ir.KindMap {
				continue
			}

			innerFn := inner.Params["transform"]
			outerFn := outer.Params["transform"]
			composed := func(x any) any {
				return callMust(outerFn, callMust(innerFn, x))
			}
			originalInner := outer.Inputs[0]
			g.SetParam(id, "transform", composed)
			g.SetInputs(id, inner.Inputs)
			track(g, id, "map-fusion", []ir.NodeID{id, originalInner}, "fused map pair into composed transform")
			fused = true
			break
		}
		if !fused {
			break
		}
	}
	return DCE(g)
}
