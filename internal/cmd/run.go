package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sadopc/multitimer/internal/scheduler"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		category  string
		untilDone bool
	)
	cmd := &cobra.Command{
		Use:   "run [timer...]",
		Short: "Run timers headlessly and print notifications",
		Long: `Start the given timers (or every timer in --category) and keep ticking
until interrupted. Timers that were already running resume too.

With --until-done the command exits once no timer is running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.openEngine(true)
			if err != nil {
				return err
			}
			defer eng.Close()

			events := eng.Subscribe(64)
			if category != "" || len(args) > 0 {
				cmds, _, err := controlCommands(eng, "start", category, args)
				if err != nil {
					return err
				}
				for _, c := range cmds {
					eng.Dispatch(c)
				}
			}

			out := cmd.OutOrStdout()
			running := len(eng.State().RunningIDs())
			fmt.Fprintf(out, "Running %d timer(s). Press Ctrl+C to stop.\n", running)
			if untilDone && running == 0 {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, events, out, func() bool {
				return untilDone && len(eng.State().RunningIDs()) == 0
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "g", "", "start every timer in a category")
	cmd.Flags().BoolVar(&untilDone, "until-done", false, "exit when no timer is running")
	return cmd
}

// watch prints events until ctx ends, the channel closes, or done reports
// true after an event.
func watch(ctx context.Context, events <-chan scheduler.Event, out io.Writer, done func() bool) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			fmt.Fprintf(out, "%s  %s\n", ev.At.Local().Format("15:04:05"), ev.Message())
			if ev.Type == scheduler.EventCompleted && done() {
				return nil
			}
		}
	}
}

