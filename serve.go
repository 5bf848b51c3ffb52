package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"marketai/utils"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, event dispatcher and background sweeper",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			utils.Error("shutdown: failed to release resources", map[string]any{"error": err.Error()})
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// The dispatcher outlives the HTTP server so events from in-flight requests are flushed.
	dispatchCtx, stopDispatch := context.WithCancel(context.WithoutCancel(ctx))
	defer stopDispatch()

	g, gctx := errgroup.WithContext(ctx)
	dispatchDone := make(chan error, 1)
	go func() { dispatchDone <- a.dispatcher.Run(dispatchCtx) }()

	g.Go(func() error {
		utils.Info("starting auction server", map[string]any{"addr": srv.Addr, "event_sink": cfg.EventSink})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.ShutdownTimeout)
		defer cancel()
		utils.Info("shutting down server", map[string]any{"timeout": cfg.ShutdownTimeout.String()})
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.SweepInterval > 0 {
		g.Go(func() error {
			return a.sweeper.Run(gctx, cfg.SweepInterval)
		})
	} else {
		utils.Warn("SWEEP_INTERVAL is 0, background sweeper disabled", nil)
	}

	err = g.Wait()

	stopDispatch()
	if dErr := <-dispatchDone; dErr != nil {
		utils.Error("event dispatcher stopped with error", map[string]any{"error": dErr.Error()})
	}
	utils.Info("server stopped", nil)
	return err
}
