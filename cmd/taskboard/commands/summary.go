package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marcus/taskboard/internal/tasks"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show task counts",
	Long: `Show how many tasks the board holds, how many are still open, and
how they split across categories and importance levels.`,
	RunE: runSummary,
}

func init() {
	summaryCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(summaryCmd)
}

type summaryOutput struct {
	Total         int             `json:"total"`
	Incomplete    int             `json:"incomplete"`
	Scheduled     int             `json:"scheduled"`
	Categories    []categoryEntry `json:"categories"`
	Importance    map[string]int  `json:"importance"`
	Uncategorised int             `json:"uncategorised"`
}

func runSummary(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	overview, err := b.svc.Overview(ctx)
	if err != nil {
		return err
	}

	result := summaryOutput{
		Total:         overview.Total,
		Incomplete:    overview.Incomplete,
		Scheduled:     len(b.svc.ScheduledTasks()),
		Importance:    make(map[string]int, tasks.ImportanceCount),
		Uncategorised: overview.Uncategorised,
	}
	for _, cc := range overview.ByCategory {
		result.Categories = append(result.Categories, categoryEntry{ID: cc.Category.ID(), Title: cc.Category.Title, Tasks: cc.Tasks})
	}
	for _, imp := range tasks.AllImportances() {
		result.Importance[imp.Slug()] = overview.ByImportance[imp.Rank()]
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, result)
	}
	printSummary(out, result)
	return nil
}

func printSummary(w io.Writer, s summaryOutput) {
	_, _ = fmt.Fprintln(w, "Tasks")
	_, _ = fmt.Fprintf(w, "  Total:       %d\n", s.Total)
	_, _ = fmt.Fprintf(w, "  Incomplete:  %d\n", s.Incomplete)
	_, _ = fmt.Fprintf(w, "  Scheduled:   %d\n", s.Scheduled)

	_, _ = fmt.Fprintln(w, "\nBy importance")
	for _, imp := range tasks.AllImportances() {
		_, _ = fmt.Fprintf(w, "  %s %-28s %d\n", imp.Symbol(), imp.String(), s.Importance[imp.Slug()])
	}

	_, _ = fmt.Fprintln(w, "\nBy category")
	for _, c := range s.Categories {
		_, _ = fmt.Fprintf(w, "  %-16s %d\n", orDash(c.Title), c.Tasks)
	}
	if s.Uncategorised > 0 {
		_, _ = fmt.Fprintf(w, "  %-16s %d\n", "(none)", s.Uncategorised)
	}
}
