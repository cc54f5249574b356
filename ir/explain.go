package ir

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Explain returns human-readable text describing the graph in topological
// order: one block per node naming its kind, inputs, parameters (callables
// shown as "<fn>") and declared output type. Used only by external
// collaborators (CLI, debugger); the core never parses its own output.
func (g *Graph) Explain(verbose bool) string {
	order, err := g.TopologicalOrder()
	if err != nil {
		return fmt.Sprintf("ir: cannot explain graph: %v", err)
	}

	var b strings.Builder
	b.WriteString("Intent Graph:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")

	for _, id := range order {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "[%s] %s\n", n.ID, n.Kind)
		if len(n.Inputs) > 0 {
			fmt.Fprintf(&b, "  inputs: %v\n", n.Inputs)
		}
		if verbose && len(n.Params) > 0 {
			fmt.Fprintf(&b, "  params: %s\n", paramString(n.Params))
		}
		fmt.Fprintf(&b, "  type: %s\n", n.OutputType)
		b.WriteString("\n")
	}

	outs := g.Outputs()
	if len(outs) > 0 {
		fmt.Fprintf(&b, "Outputs: %v\n", outs)
	}
	return b.String()
}

// Visualize is an alias for Explain(false): the graph without parameter
// detail.
func (g *Graph) Visualize() string {
	return g.Explain(false)
}

func paramString(params map[string]any) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		v := params[k]
		if isCallable(v) {
			parts = append(parts, fmt.Sprintf("%s=<fn>", k))
		} else {
			parts = append(parts, fmt.Sprintf("%s=%v", k, v))
		}
	}
	return strings.Join(parts, ", ")
}

func isCallable(v any) bool {
	if v == nil {
		return false
	}
	return reflect.ValueOf(v).Kind() == reflect.Func
}
