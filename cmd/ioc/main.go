// Command ioc is the CLI front end for the embedded dataflow compiler: it
// builds a small filter/map/group-by/sort pipeline over a JSON array input
// from flags, compiles it through the solver, and either runs it, explains
// it, or benchmarks it.
//
// Flag parsing and the command-alias map follow sentra's cmd/sentra/main.go
// convention: no third-party CLI framework, flag.NewFlagSet per subcommand.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Iweisc/ioc/profiler"
	"github.com/Iweisc/ioc/solver"
)

var commandAliases = map[string]string{
	"a": "analyze",
	"b": "benchmark",
	"e": "explain",
	"i": "interactive",
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		usage()
		return 1
	}

	cmd := args[0]
	if alias, ok := commandAliases[cmd]; ok {
		cmd = alias
	}

	switch cmd {
	case "analyze":
		return runAnalyze(args[1:])
	case "benchmark":
		return runBenchmark(args[1:])
	case "explain":
		return runExplain(args[1:])
	case "interactive":
		return runInteractive(args[1:])
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "ioc: unknown command %q\n", cmd)
		usage()
		return 1
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `ioc — embedded dataflow compiler CLI

Usage:
  ioc analyze <path> [--filter expr] [--map expr] [--group-by] [--sort] [--limit n] [--output p] [--explain] [--debug] [--no-optimize]
  ioc benchmark [--size n]
  ioc explain [--debug] [--no-optimize]
  ioc interactive`)
}

func openProfiler(cfg *Config) *profiler.Store {
	store := profiler.New()
	if err := store.Load(cfg.ProfilePath); err != nil {
		slog.Debug("ioc: profiler load failed, starting empty", "error", err)
	}
	return store
}

func modeFromString(s string) solver.Mode {
	switch s {
	case "speed", "memory", "balanced":
		return solver.Mode(s)
	default:
		return solver.ModeBalanced
	}
}
