package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/Iweisc/ioc/ir"
	"github.com/Iweisc/ioc/solver"
)

// runBenchmark implements `ioc benchmark [--size n]`: it compiles a small
// fixed filter+map+reduce pipeline in speed mode, invokes it repeatedly
// with profiling enabled so the solver's cost model accumulates real
// samples, then saves the profile explicitly — the benchmark driver's
// collaborator contract (spec.md §6) is the one caller expected to save,
// since saving on every compile would be IO-heavy.
func runBenchmark(args []string) int {
	fs := flag.NewFlagSet("benchmark", flag.ContinueOnError)
	size := fs.Int("size", 10000, "number of synthetic input elements")
	iterations := fs.Int("iterations", 20, "number of repeated invocations")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	g := ir.New()
	data := g.Input("data", nil)
	f, err := g.Filter(data, func(x int) bool { return x%2 == 0 })
	if err != nil {
		return mustExit(1, "ioc benchmark: %v", err)
	}
	m, err := g.Map(f, func(x int) any { return x * x })
	if err != nil {
		return mustExit(1, "ioc benchmark: %v", err)
	}
	r, err := g.Reduce(m, func(a, b int) any { return a + b }, 0)
	if err != nil {
		return mustExit(1, "ioc benchmark: %v", err)
	}
	if err := g.MarkOutput(r); err != nil {
		return mustExit(1, "ioc benchmark: %v", err)
	}

	cfg := DefaultConfig()
	_ = cfg.LoadEnv()
	store := openProfiler(cfg)

	kernel := solver.NewKernel(g, store)
	plan, err := kernel.Compile(solver.ModeSpeed, true, false, solver.WithSizeHint(data, *size))
	if err != nil {
		return mustExit(1, "ioc benchmark: compile failed: %v", err)
	}

	input := make([]any, *size)
	for i := range input {
		input[i] = i
	}

	start := time.Now()
	for i := 0; i < *iterations; i++ {
		if _, err := plan.Invoke(context.Background(), map[string]any{"data": input}, true); err != nil {
			return mustExit(1, "ioc benchmark: invocation %d failed: %v", i, err)
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("iterations=%d size=%d total=%s avg=%s\n", *iterations, *size, elapsed, elapsed/time.Duration(*iterations))

	if err := store.Save(cfg.ProfilePath); err != nil {
		return mustExit(1, "ioc benchmark: profile save failed: %v", err)
	}
	return 0
}
