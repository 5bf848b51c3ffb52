package main

import (
	"context"
	"fmt"

	"marketai/utils"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run every time-driven job once and exit",
	Long: `Closes expired auctions, auto-confirms delivered escrow past its window,
flags overdue shipments and payments, and deactivates expired penalties.
Intended for cron style scheduling when the in-process sweeper is disabled.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()

	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	dispatchDone := make(chan error, 1)
	go func() { dispatchDone <- a.dispatcher.Run(dispatchCtx) }()

	results := a.sweeper.RunOnce(ctx)

	stopDispatch()
	<-dispatchDone

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		utils.Info("sweep summary", map[string]any{
			"job":       r.Job,
			"processed": r.Result.Processed,
			"succeeded": r.Result.Succeeded,
			"failed":    r.Result.Failed,
		})
	}
	if failed > 0 {
		return fmt.Errorf("sweep: %d of %d jobs failed", failed, len(results))
	}
	return nil
}
