package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Inspect stored scheduled jobs",
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List scheduled jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, _, closeStore, err := buildJobStore(ctx, GetConfig())
		if err != nil {
			return err
		}
		defer closeStore()
		jobs, err := store.List(ctx)
		if err != nil {
			return err
		}
		seeded, err := configuredJobs(GetConfig())
		if err != nil {
			return err
		}
		jobs = append(seeded, jobs...)
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTIME\tTOPIC\tMAX\tNOTIFY")
		seen := map[string]bool{}
		for _, j := range jobs {
			if seen[j.ID] {
				continue
			}
			seen[j.ID] = true
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", j.ID, j.TimeOfDay, j.Topic(), j.Request.MaxResults, strings.Join(j.Request.Notify, ","))
		}
		return tw.Flush()
	},
}

var jobsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a stored job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		store, _, closeStore, err := buildJobStore(ctx, GetConfig())
		if err != nil {
			return err
		}
		defer closeStore()
		if err := store.Remove(ctx, args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
		return nil
	},
}

func init() {
	jobsCmd.AddCommand(jobsListCmd, jobsRemoveCmd)
	rootCmd.AddCommand(jobsCmd)
}
