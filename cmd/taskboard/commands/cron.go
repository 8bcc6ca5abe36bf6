package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/taskboard/internal/scheduler"
)

var cronCmd = &cobra.Command{
	Use:   "cron <expr>",
	Short: "Preview the deadlines a cron expression produces",
	Long: `Print the next occurrences of a cron expression, the same way a
seed task's due_cron is resolved. Uses standard five-field syntax or
descriptors such as @daily and @every 2h.`,
	Args: cobra.ExactArgs(1),
	RunE: runCron,
}

func init() {
	cronCmd.Flags().IntP("count", "n", 5, "Number of occurrences to show")
	cronCmd.Flags().String("from", "now", "Start time")
	rootCmd.AddCommand(cronCmd)
}

func runCron(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	from, _ := cmd.Flags().GetString("from")

	loc := cfg.Location()
	start, err := parseTimeInput(from, loc)
	if err != nil {
		return fmt.Errorf("--from: %w", err)
	}

	times, err := scheduler.Upcoming(args[0], start, count)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, t := range times {
		_, _ = fmt.Fprintln(out, t.Format("Mon "+deadlineLayout))
	}
	return nil
}
