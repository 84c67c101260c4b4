package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sadopc/multitimer/internal/timer"
)

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List categories with timer counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.openEngine(false)
			if err != nil {
				return err
			}
			defer eng.Close()

			snap := eng.State()
			counts := make(map[string]timer.Group)
			for _, g := range timer.GroupByCategory(snap.Timers, snap.Categories) {
				counts[g.Name] = g
			}

			var rows [][]string
			for _, name := range snap.Categories {
				g := counts[name]
				rows = append(rows, []string{name, fmt.Sprint(len(g.Timers)), fmt.Sprint(g.Running), fmt.Sprint(g.Completed)})
			}
			// Other collects unknown categories even when it is not configured.
			if g, ok := counts[timer.CategoryOther]; ok && !timer.IsKnownCategory(timer.CategoryOther, snap.Categories) {
				rows = append(rows, []string{g.Name, fmt.Sprint(len(g.Timers)), fmt.Sprint(g.Running), fmt.Sprint(g.Completed)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Category", "Timers", "Running", "Completed"}, rows))
			return nil
		},
	}
}
