package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/Iweisc/ioc/ir"
	"github.com/Iweisc/ioc/solver"
)

// runInteractive implements `ioc interactive`: a line-oriented REPL that
// builds a graph incrementally from typed commands and prints Explain
// output. It intentionally does not depend on a TUI framework — none of
// the pack's terminal UI stacks (bubbletea/huh) fit a scripted, pipeable
// CLI tester, so this is bufio.Scanner over stdin/stdout, same as the
// teacher pack's other line-oriented tools.
func runInteractive(args []string) int {
	fs := flag.NewFlagSet("interactive", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	g := ir.New()
	var cursor ir.NodeID
	haveCursor := false

	cfg := DefaultConfig()
	_ = cfg.LoadEnv()

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("ioc interactive — type 'help' for commands, 'quit' to exit")
	for {
		fmt.Print("ioc> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.SplitN(line, " ", 2)
		cmd := fields[0]
		var rest string
		if len(fields) > 1 {
			rest = strings.TrimSpace(fields[1])
		}

		switch cmd {
		case "quit", "exit":
			return 0
		case "help":
			printInteractiveHelp()
		case "input":
			if rest == "" {
				fmt.Println("usage: input <name>")
				continue
			}
			cursor = g.Input(rest, nil)
			haveCursor = true
			fmt.Printf("created %s\n", cursor)
		case "filter":
			if !haveCursor {
				fmt.Println("no current node; start with 'input <name>'")
				continue
			}
			pred, err := parsePredicate(rest)
			if err != nil {
				fmt.Println(err)
				continue
			}
			id, err := g.Filter(cursor, func(x any) bool { return pred(x) })
			if err != nil {
				fmt.Println(err)
				continue
			}
			cursor = id
			fmt.Printf("created %s\n", cursor)
		case "map":
			if !haveCursor {
				fmt.Println("no current node; start with 'input <name>'")
				continue
			}
			transform, err := parseTransform(rest)
			if err != nil {
				fmt.Println(err)
				continue
			}
			id, err := g.Map(cursor, func(x any) any { return transform(x) })
			if err != nil {
				fmt.Println(err)
				continue
			}
			cursor = id
			fmt.Printf("created %s\n", cursor)
		case "distinct":
			if !haveCursor {
				fmt.Println("no current node; start with 'input <name>'")
				continue
			}
			id, err := g.Distinct(cursor)
			if err != nil {
				fmt.Println(err)
				continue
			}
			cursor = id
			fmt.Printf("created %s\n", cursor)
		case "output":
			if !haveCursor {
				fmt.Println("no current node; start with 'input <name>'")
				continue
			}
			if err := g.MarkOutput(cursor); err != nil {
				fmt.Println(err)
				continue
			}
			fmt.Println("marked output")
		case "explain":
			fmt.Println(g.Explain(true))
		case "run":
			runInteractiveInvoke(g, cfg, rest)
		default:
			fmt.Printf("unknown command %q; type 'help'\n", cmd)
		}
	}
	return 0
}

func runInteractiveInvoke(g *ir.Graph, cfg *Config, jsonArgs string) {
	var inputSets map[string][]any
	if err := json.Unmarshal([]byte(jsonArgs), &inputSets); err != nil {
		fmt.Println("usage: run {\"name\": [1,2,3]}")
		return
	}
	inputs := make(map[string]any, len(inputSets))
	for k, v := range inputSets {
		inputs[k] = v
	}

	store := openProfiler(cfg)
	plan, err := solver.NewKernel(g.Clone(), store).Compile(modeFromString(cfg.Mode), true, false)
	if err != nil {
		fmt.Println(err)
		return
	}
	out, err := plan.Invoke(context.Background(), inputs, false)
	if err != nil {
		fmt.Println(err)
		return
	}
	rendered, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(rendered))
}

func printInteractiveHelp() {
	fmt.Println(`commands:
  input <name>        start a new pipeline from a named input
  filter <expr>        e.g. filter x>5
  map <expr>            e.g. map x*2
  distinct              dedupe, first occurrence wins
  output                mark the current node as a graph output
  explain                print the graph built so far
  run {"name": [...]}   compile and invoke with the given inputs
  quit                   exit`)
}
