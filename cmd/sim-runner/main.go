// Package main - sim-runner
// Executable to run the scripted bakery playthroughs.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/biscoitoclicker/bakery/internal/platform/format"
	"github.com/biscoitoclicker/bakery/internal/scenario"
)

func main() {
	seed := flag.Uint64("seed", 1, "Seed for the random marathon")
	only := flag.String("only", "", "Run only the scenario with this name")
	asJSON := flag.Bool("json", false, "Print results as JSON")
	flag.Parse()

	fmt.Println("BISCOITO CLICKER - SIMULATION SUITE")
	fmt.Println(strings.Repeat("=", 60))

	ctx := context.Background()
	passed, failed := 0, 0
	var all []scenario.Result
	for _, sc := range scenario.Builtin(*seed) {
		if *only != "" && sc.Name != *only {
			continue
		}
		fmt.Printf("\nRunning: %s...\n", sc.Name)
		results := scenario.Run(ctx, []scenario.Scenario{sc}, scenario.BuiltinHarness(sc.Name))
		for _, r := range results {
			printResult(r)
			if r.Passed {
				passed++
			} else {
				failed++
			}
		}
		all = append(all, results...)
	}

	if *asJSON {
		data, _ := json.MarshalIndent(all, "", "  ")
		fmt.Println(string(data))
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("   Passed: %d\n", passed)
	fmt.Printf("   Failed: %d\n", failed)

	if failed > 0 || passed == 0 {
		fmt.Println("\nThe bakery needs rebalancing")
		os.Exit(1)
	}
	fmt.Println("\nThe bakery is ready to ship")
}

func printResult(r scenario.Result) {
	verdict := "PASSED"
	if !r.Passed {
		verdict = "FAILED"
	}
	fmt.Printf("   Input:     %s\n", r.Input)
	fmt.Printf("   Expected:  %s\n", r.Expected)
	fmt.Printf("   Actual:    %s\n", r.Actual)
	fmt.Printf("   Simulated: %s\n", format.Duration(r.Simulated))
	fmt.Printf("   %s", verdict)
	if r.Reason != "" {
		fmt.Printf(": %s", r.Reason)
	}
	fmt.Println()
}
