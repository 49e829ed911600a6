package main

import (
	"fmt"

	"github.com/ChicagoDave/minidash/pkg/config"
	"github.com/ChicagoDave/minidash/pkg/level"
	"github.com/ChicagoDave/minidash/pkg/sim"
	"github.com/ChicagoDave/minidash/pkg/validation"
)

func printLevels(catalog *level.Catalog, cfg config.Config) {
	phys := cfg.Physics()
	fmt.Printf("%-4s %-40s %10s %8s\n", "#", "Name", "Obstacles", "Finish")
	fmt.Printf("%-4s %-40s %10s %8s\n", "----", "----------------------------------------", "----------", "--------")
	for i, lvl := range catalog.Levels {
		finish := "none"
		if x, ok := lvl.FinishX(); ok {
			finish = fmt.Sprintf("%.0fm", x)
		}
		fmt.Printf("%-4d %-40s %10d %8s\n", i+1, lvl.Name, len(lvl.Obstacles), finish)
	}
	fmt.Println()
	fmt.Printf("Speed %.1f m/s, jump %.2f s airtime, %.2f units high\n",
		cfg.Gameplay.Speed, phys.AirTime(), phys.PeakHeight())
}

func printResults(title string, results []validation.Result, details bool) {
	if len(results) == 0 {
		return
	}
	fmt.Printf("%s (%d):\n", title, len(results))
	for _, r := range results {
		fmt.Printf("  [%s] %s\n", r.Level, r.Message)
		if !details {
			continue
		}
		if r.Path != "" {
			fmt.Printf("    -> %s = %v\n", r.Path, r.ActualValue)
		}
		if r.Expected != "" {
			fmt.Printf("    expected: %s\n", r.Expected)
		}
		if r.ConflictWith != "" {
			fmt.Printf("    conflicts with: %s\n", r.ConflictWith)
		}
		for _, s := range r.Suggestions {
			fmt.Printf("    * %s\n", s)
		}
	}
	fmt.Println()
}

func printValidationReport(r *validation.Report) {
	printResults("ERRORS", r.Errors, true)
	printResults("WARNINGS", r.Warnings, true)
	printResults("INFO", r.Info, false)

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printRunResult(r sim.RunResult) {
	fmt.Printf("Level:    %s\n", r.Level)
	fmt.Printf("Outcome:  %s\n", r.Outcome)
	fmt.Printf("Distance: %dm in %.2fs (%d ticks)\n", r.Distance, r.Seconds, r.Ticks)
	fmt.Printf("Jumps:    %d\n", r.Jumps)
	fmt.Printf("Cleared:  %d obstacles\n", r.Cleared)
	if r.Blamed >= 0 {
		fmt.Printf("Killed by obstacle #%d\n", r.Blamed)
	}
	if r.Flashes > 0 {
		fmt.Printf("Debug hits: %d\n", r.Flashes)
	}
	if r.TimedOut {
		fmt.Println("Stopped at the time limit.")
	}
}
