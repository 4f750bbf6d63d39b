// ABOUTME: Command-line runner for pipeline fidelity benchmarks
// ABOUTME: Executes scripted scenarios offline and writes JSON results

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/harper/transcript-tidy/benchmarks/fidelity"
)

func main() {
	scenarioID := flag.String("scenario", "", "Run a single scenario by ID. If empty, runs all scenarios.")
	outputPath := flag.String("output", "benchmark_results.json", "Output path for JSON results")
	verbose := flag.Bool("verbose", false, "Enable verbose output")
	flag.Parse()

	fmt.Println("========================================")
	fmt.Println("transcript-tidy Fidelity Benchmarks")
	fmt.Println("========================================")
	fmt.Println()
	fmt.Println("Scenarios run the real chunk-clean-merge pipeline with scripted")
	fmt.Println("correctors. No API key is required and nothing leaves this machine.")
	fmt.Println()

	runner := fidelity.NewBenchmarkRunner(*verbose)

	var results []fidelity.Result
	var err error

	if *scenarioID == "" {
		fmt.Println("Running all fidelity scenarios...")
		fmt.Println()

		results, err = runner.RunAllScenarios()
		if err != nil {
			log.Fatalf("Benchmark failed: %v", err)
		}
	} else {
		scenario, ok := findScenario(*scenarioID)
		if !ok {
			log.Fatalf("Unknown scenario ID: %s (valid options: %s)", *scenarioID, scenarioIDs())
		}

		fmt.Printf("Running scenario: %s\n\n", scenario.Name)

		result, err := runner.RunScenario(scenario)
		if err != nil {
			log.Fatalf("Scenario failed: %v", err)
		}
		results = []fidelity.Result{result}
	}

	fmt.Println("\n========================================")
	fmt.Println("BENCHMARK SUMMARY")
	fmt.Println("========================================")

	passed := 0
	failed := 0

	for _, result := range results {
		fmt.Printf("\n%s: %s\n", result.ScenarioID, result.ScenarioName)
		fmt.Printf("  Boundaries: %.2f\n", result.BoundaryScore)
		fmt.Printf("  Seam Match Rate: %.2f\n", result.SeamMatchRate)
		fmt.Printf("  Word Coverage: %.2f\n", result.WordCoverage)
		fmt.Printf("  Determinism: %.2f\n", result.Determinism)
		fmt.Printf("  Reconstruction: %.2f\n", result.Reconstruction)
		fmt.Printf("  Status: %s\n", result.Status)

		if result.Status == "PASS" {
			passed++
		} else {
			failed++
		}
	}

	fmt.Println("\n========================================")
	fmt.Printf("Total Scenarios: %d\n", len(results))
	fmt.Printf("Passed: %d\n", passed)
	fmt.Printf("Failed: %d\n", failed)
	fmt.Println("========================================")

	if err := runner.ExportResults(results, *outputPath); err != nil {
		log.Fatalf("Failed to export results: %v", err)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

// findScenario looks a scenario up by ID
func findScenario(id string) (fidelity.Scenario, bool) {
	for _, scenario := range fidelity.GetAllScenarios() {
		if scenario.ID == id {
			return scenario, true
		}
	}
	return fidelity.Scenario{}, false
}

// scenarioIDs lists every scenario ID for the usage message
func scenarioIDs() string {
	ids := ""
	for i, scenario := range fidelity.GetAllScenarios() {
		if i > 0 {
			ids += ", "
		}
		ids += scenario.ID
	}
	return ids
}
