package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/Iweisc/ioc/ir"
	"github.com/Iweisc/ioc/solver"
)

// runAnalyze implements `ioc analyze <path> [flags]`: it reads a JSON array
// of numbers from path, builds a filter/map/group-by/sort pipeline from the
// given flags, compiles and runs it, then writes the result.
//
// --group-by and --sort take no key argument: both act on the element
// values themselves. There is no --test flag.
func runAnalyze(args []string) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	filterExpr := fs.String("filter", "", "predicate expression, e.g. \"x>5\"")
	mapExpr := fs.String("map", "", "transform expression, e.g. \"x*2\"")
	groupBy := fs.Bool("group-by", false, "group identical values together")
	sortFlag := fs.Bool("sort", false, "sort ascending")
	limit := fs.Int("limit", 0, "truncate output to the first n elements (0 = no limit)")
	output := fs.String("output", "", "write result to this path instead of stdout")
	explain := fs.Bool("explain", false, "print the compiled graph instead of running it")
	noOptimize := fs.Bool("no-optimize", false, "skip the optimizer pipeline")
	debug := fs.Bool("debug", false, "print the solver's strategy choice per node")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		return mustExit(1, "ioc analyze: a path argument is required")
	}
	path := fs.Arg(0)
	// flag stops at the first non-flag argument, so parse the flags that
	// follow the path as well.
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return 1
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mustExit(1, "ioc analyze: %v", err)
	}
	var values []any
	if err := json.Unmarshal(data, &values); err != nil {
		return mustExit(1, "ioc analyze: %v", err)
	}

	g := ir.New()
	cur := g.Input("data", nil)

	if *filterExpr != "" {
		pred, err := parsePredicate(*filterExpr)
		if err != nil {
			return mustExit(1, "ioc analyze: %v", err)
		}
		cur, err = g.Filter(cur, func(x any) bool { return pred(x) })
		if err != nil {
			return mustExit(1, "ioc analyze: %v", err)
		}
	}
	if *mapExpr != "" {
		transform, err := parseTransform(*mapExpr)
		if err != nil {
			return mustExit(1, "ioc analyze: %v", err)
		}
		cur, err = g.Map(cur, func(x any) any { return transform(x) })
		if err != nil {
			return mustExit(1, "ioc analyze: %v", err)
		}
	}
	if *sortFlag {
		var err error
		cur, err = g.Sort(cur, nil, false)
		if err != nil {
			return mustExit(1, "ioc analyze: %v", err)
		}
	}
	if *groupBy {
		var err error
		cur, err = g.GroupBy(cur, func(x any) any { return x })
		if err != nil {
			return mustExit(1, "ioc analyze: %v", err)
		}
	}
	if err := g.MarkOutput(cur); err != nil {
		return mustExit(1, "ioc analyze: %v", err)
	}

	cfg := DefaultConfig()
	_ = cfg.LoadEnv()
	store := openProfiler(cfg)

	kernel := solver.NewKernel(g, store)
	plan, err := kernel.Compile(modeFromString(cfg.Mode), !*noOptimize, false)
	if err != nil {
		return mustExit(1, "ioc analyze: compile failed: %v", err)
	}

	if *explain {
		fmt.Println(g.Explain(*debug))
		return 0
	}
	if *debug {
		for _, step := range plan.Steps {
			fmt.Fprintf(os.Stderr, "[debug] node=%s kind=%s strategy=%s\n", step.Node, step.Kind, step.Strategy)
		}
	}

	out, err := plan.Invoke(context.Background(), map[string]any{"data": values}, cfg.Debug)
	if err != nil {
		return mustExit(1, "ioc analyze: %v", err)
	}

	if *limit > 0 {
		if list, ok := out.([]any); ok && len(list) > *limit {
			out = list[:*limit]
		}
	}

	rendered, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return mustExit(1, "ioc analyze: %v", err)
	}
	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			return mustExit(1, "ioc analyze: %v", err)
		}
		return 0
	}
	fmt.Println(string(rendered))
	return 0
}

func mustExit(code int, format string, args ...any) int {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	return code
}
