package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"news-reporter/internal/markdown"
)

// showCmd summarises a report written by the markdown publisher.
var showCmd = &cobra.Command{
	Use:   "show <markdown_path>",
	Short: "Print the frontmatter and outline of a markdown report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rep, err := markdown.ParseFile(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		keys := make([]string, 0, len(rep.Frontmatter))
		for k := range rep.Frontmatter {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "%s: %v\n", k, rep.Frontmatter[k])
		}
		articles := 0
		for _, line := range strings.Split(rep.Body, "\n") {
			if strings.HasPrefix(line, "### ") {
				articles++
				fmt.Fprintln(out, "  "+strings.TrimPrefix(line, "### "))
			}
		}
		fmt.Fprintf(out, "articles: %d, body bytes: %d\n", articles, len(rep.Body))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
