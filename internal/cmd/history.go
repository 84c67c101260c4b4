package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/multitimer/internal/export"
	"github.com/sadopc/multitimer/internal/store"
	"github.com/sadopc/multitimer/internal/timer"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		category string
		limit    int
		summary  bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show completed timer runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStorage()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if summary {
				totals, err := s.CategoryTotals()
				if err != nil {
					return err
				}
				if len(totals) == 0 {
					fmt.Fprintln(out, "No completed timers yet.")
					return nil
				}
				var rows [][]string
				for _, t := range totals {
					rows = append(rows, []string{t.Category, fmt.Sprint(t.Count), export.FormatDuration(int(t.TotalSeconds))})
				}
				fmt.Fprintln(out, renderTable([]string{"Category", "Runs", "Total"}, rows))
				return nil
			}

			entries, err := s.ListHistory(store.HistoryFilter{Category: category, Limit: limit})
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No completed timers yet.")
				return nil
			}
			var rows [][]string
			for _, e := range entries {
				rows = append(rows, []string{
					e.CompletedAt.Local().Format("2006-01-02 15:04"),
					e.Name, e.Category, clock(e.Duration),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Completed", "Name", "Category", "Duration"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "g", timer.CategoryAll, "only show one category")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show at most n entries (0 = all)")
	cmd.Flags().BoolVar(&summary, "summary", false, "show per-category totals instead of entries")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format   string
		outPath  string
		category string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export history as CSV, JSON or YAML",
		Example: `  multitimer export --format csv --out history.csv
  multitimer export --format yaml --category Study`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStorage()
			if err != nil {
				return err
			}
			entries, err := s.ListHistory(store.HistoryFilter{Category: category})
			if err != nil {
				return err
			}

			if outPath == "" || outPath == "-" {
				return export.Write(cmd.OutOrStdout(), format, entries)
			}
			if err := export.ToFile(format, entries, outPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d entries to %s\n", len(entries), outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", export.FormatCSV, "csv, json or yaml")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&category, "category", "g", timer.CategoryAll, "only export one category")
	return cmd
}

