package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"news-reporter/internal/report"
)

var (
	genMax       int
	genLang      string
	genNoImages  bool
	genSummary   bool
	genNotify    []string
	genPublisher string
)

// generateCmd runs one report immediately.
var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate and publish a news report now",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		p, err := buildPipeline(cfg, genPublisher)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		req := report.Request{
			Topic:          args[0],
			MaxResults:     genMax,
			Language:       genLang,
			IncludeImages:  !genNoImages,
			IncludeSummary: genSummary || cfg.Report.IncludeSummary,
			Notify:         genNotify,
		}
		res := p.Generate(ctx, req)
		out := cmd.OutOrStdout()
		if !res.Success {
			fmt.Fprintf(out, "❌ Error: %s\n", res.Message)
			return fmt.Errorf("report %s", res.Status)
		}
		fmt.Fprintf(out, "✅ %s\n", res.Message)
		fmt.Fprintf(out, "📰 View report at: %s\n", res.DocumentURL)
		return nil
	},
}

func init() {
	generateCmd.Flags().IntVar(&genMax, "max", 0, "maximum articles, clamped to 5..100 (default: report.max_results)")
	generateCmd.Flags().StringVar(&genLang, "lang", "", "article language (default: report.language)")
	generateCmd.Flags().BoolVar(&genNoImages, "no-images", false, "do not include article images")
	generateCmd.Flags().BoolVar(&genSummary, "summary", false, "add AI summaries (requires openai.api_key)")
	generateCmd.Flags().StringSliceVar(&genNotify, "notify", []string{"console"}, "notification channels: console, email, chat")
	generateCmd.Flags().StringVar(&genPublisher, "publisher", "", "publish provider: notion or markdown (default: publish.provider)")
	rootCmd.AddCommand(generateCmd)
}
