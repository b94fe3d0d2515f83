package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"news-reporter/internal/config"
	"news-reporter/internal/schedule"
	"news-reporter/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the scheduler with configured and stored jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signalContext()
		defer cancel()
		return runScheduler(ctx, GetConfig(), nil)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case s := <-sigc:
			slog.Info("received signal, shutting down", "signal", s.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigc)
	}()
	return ctx, cancel
}

// runScheduler seeds configured jobs, adds extra, and blocks until ctx is done.
func runScheduler(ctx context.Context, cfg config.Config, extra *schedule.Job) error {
	p, err := buildPipeline(cfg, "")
	if err != nil {
		return err
	}
	store, ledger, closeStore, err := buildJobStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	seed, err := configuredJobs(cfg)
	if err != nil {
		return err
	}
	if extra != nil {
		seed = append(seed, *extra)
	}
	if err := seedJobs(ctx, store, seed); err != nil {
		return err
	}

	s := schedule.New(store, ledger, p)
	s.Interval = config.Duration(cfg.Scheduler.Interval, s.Interval)
	jobs, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, j := range jobs {
		slog.Info("scheduler: job loaded", "id", j.ID, "topic", j.Topic(), "time", j.TimeOfDay, "notify", j.Request.Notify)
	}
	if len(jobs) == 0 {
		slog.Warn("scheduler: no jobs configured; add one with `schedule` or scheduler.jobs")
	}
	return worker.NewManager(s).Start(ctx)
}
