package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sadopc/multitimer/internal/engine"
	"github.com/sadopc/multitimer/internal/state"
	"github.com/sadopc/multitimer/internal/timer"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		category    string
		halfway     bool
		allowCustom bool
		start       bool
	)
	cmd := &cobra.Command{
		Use:   "add <name> <duration>",
		Short: "Add a timer",
		Long: `Add a paused countdown timer.

Duration is a number of seconds or a duration such as 45s, 25m or 1h30m.`,
		Example: `  multitimer add "Plank" 90 --category Workout
  multitimer add "Reading" 25m --category Study --halfway-alert --start`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			secs, err := timer.ParseDuration(args[1])
			if err != nil {
				return err
			}
			eng, err := a.openEngine(false)
			if err != nil {
				return err
			}
			defer eng.Close()

			var t timer.Timer
			if allowCustom {
				t, err = timer.New(args[0], secs, category, halfway)
				if err == nil {
					eng.Dispatch(state.AddTimer{Timer: t})
				}
			} else {
				t, err = eng.AddTimer(args[0], secs, category, halfway)
			}
			if err != nil {
				return err
			}
			if start {
				eng.Dispatch(state.StartTimer{ID: t.ID})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Added timer %s\n", t.ID)
			fmt.Fprintf(out, "Name: %s  Category: %s  Duration: %s\n", t.Name, t.Category, clock(t.Duration))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "g", timer.CategoryOther, "timer category")
	cmd.Flags().BoolVar(&halfway, "halfway-alert", false, "notify when the timer is halfway done")
	cmd.Flags().BoolVar(&allowCustom, "allow-custom-category", false, "accept a category that is not configured")
	cmd.Flags().BoolVar(&start, "start", false, "start the timer immediately")
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List timers grouped by category",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := a.openEngine(false)
			if err != nil {
				return err
			}
			defer eng.Close()

			snap := eng.State()
			out := cmd.OutOrStdout()
			if len(snap.Timers) == 0 {
				fmt.Fprintln(out, "No timers. Add one with: multitimer add <name> <duration>")
				return nil
			}

			var rows [][]string
			for _, g := range timer.GroupByCategory(snap.Timers, snap.Categories) {
				if category != "" && category != timer.CategoryAll && g.Name != category {
					continue
				}
				for _, t := range g.Timers {
					rows = append(rows, []string{
						shortID(t.ID), t.Name, g.Name, string(t.Status),
						clock(t.RemainingTime) + " / " + clock(t.Duration),
						fmt.Sprintf("%3.0f%%", (1-t.Progress)*100),
					})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintf(out, "No timers in %s\n", category)
				return nil
			}
			fmt.Fprintln(out, renderTable([]string{"ID", "Name", "Category", "Status", "Remaining", "Done"}, rows))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "g", "", "only show one category")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <timer>",
		Aliases: []string{"rm"},
		Short:   "Delete a timer by id, id prefix or name",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine(false)
			if err != nil {
				return err
			}
			defer eng.Close()

			t, err := eng.Resolve(args[0])
			if err != nil {
				return err
			}
			eng.Dispatch(state.DeleteTimer{ID: t.ID})
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted timer %s (%s)\n", t.Name, shortID(t.ID))
			return nil
		},
	}
}

// newControlCmd builds start, pause and reset. Each takes timer references
// or a --category for the bulk form.
func newControlCmd(a *app, verb, short string) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   verb + " [timer...]",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			if category == "" && len(args) == 0 {
				return fmt.Errorf("%s needs a timer or --category", verb)
			}
			eng, err := a.openEngine(false)
			if err != nil {
				return err
			}
			defer eng.Close()

			cmds, names, err := controlCommands(eng, verb, category, args)
			if err != nil {
				return err
			}
			for _, c := range cmds {
				eng.Dispatch(c)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verb, strings.Join(names, ", "))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "g", "", "apply to every timer in a category")
	return cmd
}

var errEmptyCategory = errors.New("no timers in category")

func controlCommands(eng *engine.Engine, verb, category string, refs []string) ([]state.Command, []string, error) {
	var cmds []state.Command
	var names []string
	if category != "" {
		if !hasCategory(eng.State(), category) {
			return nil, nil, fmt.Errorf("%w %q", errEmptyCategory, category)
		}
		switch verb {
		case "start":
			cmds = append(cmds, state.StartCategory{Category: category})
		case "pause":
			cmds = append(cmds, state.PauseCategory{Category: category})
		case "reset":
			cmds = append(cmds, state.ResetCategory{Category: category})
		}
		names = append(names, "category "+category)
	}
	for _, ref := range refs {
		t, err := eng.Resolve(ref)
		if err != nil {
			return nil, nil, err
		}
		switch verb {
		case "start":
			cmds = append(cmds, state.StartTimer{ID: t.ID})
		case "pause":
			cmds = append(cmds, state.PauseTimer{ID: t.ID})
		case "reset":
			cmds = append(cmds, state.ResetTimer{ID: t.ID})
		}
		names = append(names, t.Name)
	}
	return cmds, names, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// hasCategory reports whether any timer is filed under exactly category.
func hasCategory(snap timer.Snapshot, category string) bool {
	for _, t := range snap.Timers {
		if t.Category == category {
			return true
		}
	}
	return false
}
