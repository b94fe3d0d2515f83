package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// checkCmd probes the search and publish APIs with the configured credentials.
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Test connectivity to NewsAPI and Notion",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		out := cmd.OutOrStdout()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		resp, err := newsAPIClient(cfg).Ping(ctx, "test", cfg.Report.Language)
		if err != nil {
			fmt.Fprintf(out, "❌ NewsAPI: %v\n", err)
			return err
		}
		fmt.Fprintf(out, "NewsAPI connection: ✅ status=%s total_results=%d\n", resp.Status, resp.TotalResults)

		me, err := notionClient(cfg).Me(ctx)
		if err != nil {
			fmt.Fprintf(out, "❌ Notion: %v\n", err)
			return err
		}
		fmt.Fprintf(out, "Notion connection: ✅ user=%s\n", me.Name)
		fmt.Fprintln(out, "\n✅ All APIs reachable.")
		return nil
	},
}

// verifyDBCmd confirms the integration can see the target database.
var verifyDBCmd = &cobra.Command{
	Use:   "verify-db",
	Short: "Check that the Notion database is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg.Notion.DatabaseID == "" {
			return fmt.Errorf("notion.database_id (NOTION_DATABASE_ID) is not set")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		db, err := notionClient(cfg).RetrieveDatabase(ctx, cfg.Notion.DatabaseID)
		if err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "❌ Cannot access database %s: %v\n", cfg.Notion.DatabaseID, err)
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Database found: %s (%s)\n", db.Name(), db.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd, verifyDBCmd)
}
