package main

import (
	"fmt"
	"maps"
	"slices"

	"github.com/fwojciec/postsearch"
)

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}

// Run executes the stats command.
func (c *StatsCmd) Run(deps *Dependencies) error {
	counts, err := deps.Stats.CountByPlatform(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", postsearch.ErrorMessage(err))
		return err
	}

	if len(counts) == 0 {
		fmt.Fprintln(deps.Stdout, "No documents stored. Use 'postsearch index' to populate the store.")
		return nil
	}

	total := 0
	for _, platform := range slices.Sorted(maps.Keys(counts)) {
		fmt.Fprintf(deps.Stdout, "%-10s %d\n", platform, counts[platform])
		total += counts[platform]
	}
	fmt.Fprintf(deps.Stdout, "%-10s %d\n", "total", total)

	return nil
}
