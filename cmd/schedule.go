package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"news-reporter/internal/report"
	"news-reporter/internal/schedule"
)

var schedRun bool

// scheduleCmd registers a daily report and, by default, keeps running it.
var scheduleCmd = &cobra.Command{
	Use:   "schedule <topic> <HH:MM>",
	Short: "Schedule a daily report at a local time of day",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		tod, err := schedule.ParseTimeOfDay(args[1])
		if err != nil {
			return err
		}
		req := report.Request{
			Topic:          args[0],
			MaxResults:     genMax,
			Language:       genLang,
			IncludeImages:  !genNoImages,
			IncludeSummary: genSummary || cfg.Report.IncludeSummary,
			Notify:         genNotify,
		}
		ctx, cancel := signalContext()
		defer cancel()

		if !schedRun {
			if cfg.Scheduler.Store == "memory" {
				return fmt.Errorf("--run=false needs a persistent scheduler.store (redis or sqlite)")
			}
			store, _, closeStore, err := buildJobStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer closeStore()
			s := schedule.New(store, nil, nil)
			j, err := s.Schedule(ctx, tod, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s: '%s' daily at %s\n", j.ID, req.Topic, j.TimeOfDay)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Report on '%s' scheduled daily at %s. Press Ctrl+C to stop.\n", req.Topic, tod)
		j := schedule.Job{ID: fmt.Sprintf("cli-%d", time.Now().UnixNano()), TimeOfDay: tod, Request: req, CreatedAt: time.Now()}
		return runScheduler(ctx, cfg, &j)
	},
}

func init() {
	scheduleCmd.Flags().IntVar(&genMax, "max", 0, "maximum articles, clamped to 5..100")
	scheduleCmd.Flags().StringVar(&genLang, "lang", "", "article language")
	scheduleCmd.Flags().BoolVar(&genNoImages, "no-images", false, "do not include article images")
	scheduleCmd.Flags().BoolVar(&genSummary, "summary", false, "add AI summaries")
	scheduleCmd.Flags().StringSliceVar(&genNotify, "notify", []string{"console"}, "notification channels: console, email, chat")
	scheduleCmd.Flags().BoolVar(&schedRun, "run", true, "keep running the scheduler after adding the job")
	rootCmd.AddCommand(scheduleCmd)
}
