package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/importer"
)

// Run executes the worker command.
func (c *WorkerCmd) Run(deps *Dependencies) error {
	w := &importer.Worker{
		Queue: deps.Queue,
		Consumer: &importer.Consumer{
			Users:    deps.Users,
			Entries:  deps.Entries,
			NewBatch: deps.NewBatch,
			Resolver: deps.Resolver,
			Events:   deps.Events,
			Logger:   deps.Logger,
		},
		Concurrency: c.Concurrency,
		Logger:      deps.Logger,
	}

	result, err := w.Run(deps.Ctx)
	if result != nil {
		printSummary(deps, result.Summary)
		if result.Failed > 0 {
			fmt.Fprintf(deps.Stderr, "  %d records failed\n", result.Failed)
		}
	}
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}
	return nil
}
