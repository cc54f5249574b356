// Package optimizer rewrites an intent graph in place through a fixed
// pipeline of passes, each individually sound and idempotent: dead-code
// elimination, common-subexpression elimination, filter fusion, map
// fusion, and the runtime-validated filter-before-map reorder.
package optimizer

import "github.com/Iweisc/ioc/ir"

// Pass is one optimizer rewrite, applied in place to g.
type Pass func(g *ir.Graph) error

var registry = map[string]Pass{
	"dce":                DCE,
	"cse":                CSE,
	"filter-fusion":      FilterFusion,
	"map-fusion":         MapFusion,
	"filter-before-map":  FilterBeforeMap,
}

// Pipeline is an ordered sequence of named passes.
type Pipeline struct {
	names  []string
	passes []Pass
}

// New assembles a pipeline from the given pass names, in order. An unknown
// name fails with ErrUnknownPass and no pipeline is returned.
func New(names ...string) (*Pipeline, error) {
	p := &Pipeline{names: append([]string(nil), names...)}
	for _, name := range names {
		pass, ok := registry[name]
		if !ok {
			return nil, ErrUnknownPass
		}
		p.passes = append(p.passes, pass)
	}
	return p, nil
}

// DefaultPipeline returns the spec'd default order: DCE, CSE, filter
// fusion, map fusion, then the filter-before-map reorder.
func DefaultPipeline() *Pipeline {
	p, err := New("dce", "cse", "filter-fusion", "map-fusion", "filter-before-map")
	if err != nil {
		// The default names are registry-constant; this cannot fail.
		panic(err)
	}
	return p
}

// Run applies every pass in order, mutating g in place. Each pass is total
// on well-formed graphs; a dangling reference in g fails with
// ir.ErrInvalidReference or ir.ErrCycle from whichever pass first calls
// TopologicalOrder.
func (p *Pipeline) Run(g *ir.Graph) error {
	for _, pass := range p.passes {
		if err := pass(g); err != nil {
			return err
		}
	}
	return nil
}

// Names reports the pass names this pipeline runs, in order.
func (p *Pipeline) Names() []string {
	return append([]string(nil), p.names...)
}
