package main

import (
	"flag"
	"fmt"

	"github.com/Iweisc/ioc/ir"
	"github.com/Iweisc/ioc/solver"
)

// runExplain implements `ioc explain [--debug] [--no-optimize]`: it builds
// a fixed demonstration filter+map pipeline, optionally runs it
// through the optimizer, and prints its Explain text.
func runExplain(args []string) int {
	fs := flag.NewFlagSet("explain", flag.ContinueOnError)
	debug := fs.Bool("debug", false, "include parameter detail")
	noOptimize := fs.Bool("no-optimize", false, "skip the optimizer pipeline")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	g := ir.New()
	data := g.Input("data", nil)
	f, err := g.Filter(data, func(x int) bool { return x > 0 })
	if err != nil {
		return mustExit(1, "ioc explain: %v", err)
	}
	m, err := g.Map(f, func(x int) any { return x * 2 })
	if err != nil {
		return mustExit(1, "ioc explain: %v", err)
	}
	if err := g.MarkOutput(m); err != nil {
		return mustExit(1, "ioc explain: %v", err)
	}

	if !*noOptimize {
		cfg := DefaultConfig()
		_ = cfg.LoadEnv()
		kernel := solver.NewKernel(g, openProfiler(cfg))
		if _, err := kernel.Compile(solver.ModeBalanced, true, false); err != nil {
			return mustExit(1, "ioc explain: compile failed: %v", err)
		}
	}

	fmt.Println(g.Explain(*debug))
	return 0
}
