package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/brogergvhs/nelodl/internal/config"
	"github.com/brogergvhs/nelodl/internal/pipeline"
)

var chaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "List the chapters of a manga in download order",
	RunE: func(cmd *cobra.Command, _ []string) error {
		s, err := newSession(config.Options{})
		if err != nil {
			return err
		}

		planned, err := pipeline.New(s.scraper, nil, s.log, pipeline.Options{
			Range: s.cfg.DefaultRange,
			List:  s.cfg.DefaultList,
		}).Plan(cmd.Context(), s.url)
		if err != nil {
			return err
		}

		printPlan(cmd, planned)
		return nil
	},
}

func printPlan(cmd *cobra.Command, planned []pipeline.Chapter) {
	rows := make([]table.Row, 0, len(planned))
	for i, ch := range planned {
		rows = append(rows, table.Row{i + 1, ch.Name, ch.URL})
	}

	renderTable(cmd.OutOrStdout(), table.Row{"#", "Chapter", "URL"}, rows)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d chapters\n", len(planned))
}

func init() {
	addSiteFlags(chaptersCmd)
	rootCmd.AddCommand(chaptersCmd)
}
