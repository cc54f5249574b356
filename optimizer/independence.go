package optimizer

import "reflect"

// independenceHolds runs the filter-before-map soundness check: for a fixed
// set of probe sequences, it computes map-then-filter and filter-then-map
// over each probe and requires them to agree everywhere both orderings
// succeed. Probes on which both orderings raise are skipped as
// inconclusive; a probe where the two orderings disagree on success (one
// raises, the other doesn't) or on value is treated as evidence against
// independence.
func independenceHolds(transform, predicate any) bool {
	sawEvidence := false
	for _, probe := range probeSequences() {
		mapFirst, mapFirstOK := simulate(transform, predicate, probe, false)
		filterFirst, filterFirstOK := simulate(transform, predicate, probe, true)

		switch {
		case !mapFirstOK && !filterFirstOK:
			continue
		case mapFirstOK != filterFirstOK:
			return false
		default:
			sawEvidence = true
			if !reflect.DeepEqual(mapFirst, filterFirst) {
				return false
			}
		}
	}
	return sawEvidence
}

// simulate runs one ordering of transform/predicate over seq, recovering
// from any panic raised by either user function and reporting ok=false in
// that case rather than propagating — this function only ever probes
// synthetic data, never the caller's real input.
func simulate(transform, predicate any, seq []any, filterFirst bool) (out []any, ok bool) {
	defer func() {
		if recover() != nil {
			out, ok = nil, false
		}
	}()

	if filterFirst {
		var kept []any
		for _, x := range seq {
			if callBoolMust(predicate, x) {
				kept = append(kept, x)
			}
		}
		out = make([]any, len(kept))
		for i, x := range kept {
			out[i] = callMust(transform, x)
		}
		return out, true
	}

	mapped := make([]any, len(seq))
	for i, x := range seq {
		mapped[i] = callMust(transform, x)
	}
	out = make([]any, 0, len(mapped))
	for _, v := range mapped {
		if callBoolMust(predicate, v) {
			out = append(out, v)
		}
	}
	return out, true
}

// probeSequences returns the fixed probe families spec'd for the
// independence check: signed integers including zero, short strings
// including the empty string, and small positive integers.
func probeSequences() [][]any {
	return [][]any{
		asAny([]int{-3, -2, -1, 0, 1, 2, 3}),
		asAnyStrings([]string{"", "a", "ab", "xyz"}),
		asAny([]int{1, 2, 3, 4, 5, 10, 100}),
	}
}

func asAny(vals []int) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}

func asAnyStrings(vals []string) []any {
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v
	}
	return out
}
