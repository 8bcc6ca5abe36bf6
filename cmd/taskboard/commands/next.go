package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/taskboard/internal/tasks"
)

var nextCmd = &cobra.Command{
	Use:   "next",
	Short: "Show the next scheduled task",
	Long: `Show the task at the front of the scheduling queue. Tasks join the
queue in the order they were added; only tasks marked scheduled in the seed
data are queued at start-up.

Use --pop to take the task off the queue, --all to list the whole queue.`,
	RunE: runNext,
}

func init() {
	nextCmd.Flags().Bool("pop", false, "Remove the task from the queue")
	nextCmd.Flags().Bool("all", false, "List the whole queue, front first")
	nextCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(nextCmd)
}

func runNext(cmd *cobra.Command, args []string) error {
	pop, _ := cmd.Flags().GetBool("pop")
	all, _ := cmd.Flags().GetBool("all")
	asJSON, _ := cmd.Flags().GetBool("json")

	b, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	out := cmd.OutOrStdout()
	if all {
		queued := b.svc.ScheduledTasks()
		if asJSON {
			return printTasksJSON(out, queued, b.loc)
		}
		if len(queued) == 0 {
			_, _ = fmt.Fprintln(out, "Nothing scheduled.")
			return nil
		}
		printTaskTable(out, queued, b.loc)
		return nil
	}

	var t *tasks.Task
	if pop {
		t, err = b.svc.PopScheduled()
	} else {
		t, err = b.svc.NextScheduled()
	}
	if errors.Is(err, tasks.ErrEmptyQueue) {
		_, _ = fmt.Fprintln(out, "Nothing scheduled.")
		return nil
	}
	if err != nil {
		return err
	}

	if asJSON {
		return writeJSON(out, newTaskEntry(t, b.loc))
	}
	if pop {
		_, _ = fmt.Fprintln(out, "Dequeued:")
	} else {
		_, _ = fmt.Fprintln(out, "Next up:")
	}
	printTaskDetail(out, t, b.loc)
	if pop {
		_, _ = fmt.Fprintf(out, "\n%d task(s) left in the queue\n", len(b.svc.ScheduledTasks()))
	}
	return nil
}
