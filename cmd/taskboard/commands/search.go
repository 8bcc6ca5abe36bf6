package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/taskboard/internal/tasks"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find tasks matching every given filter",
	Long: `Search tasks by keyword, category, importance, completion state and
deadline window. Filters combine with AND; a filter left unset does not
restrict the result. The keyword match ignores case. The deadline window
is exclusive at both ends and only applies when --from and --to are both set.

Times accept YYYY-MM-DD [HH:MM], RFC3339, today/tomorrow [HH:MM] and
cron:<expr>. Use --explain to see which filters each task passed.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringP("keyword", "k", "", "Keyword to look for in descriptions")
	searchCmd.Flags().Int("category", 0, "Category id")
	searchCmd.Flags().StringP("importance", "i", "", "Importance: iu, in, nu, nn or the full name")
	searchCmd.Flags().Bool("completed", false, "Only completed tasks")
	searchCmd.Flags().Bool("pending", false, "Only incomplete tasks")
	searchCmd.Flags().String("from", "", "Deadline must be after this time")
	searchCmd.Flags().String("to", "", "Deadline must be before this time")
	searchCmd.Flags().String("sort", "", "Sort results: "+sortKeyNames())
	searchCmd.Flags().Bool("explain", false, "Show the outcome of every filter for every task")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
	searchCmd.MarkFlagsMutuallyExclusive("completed", "pending")
	searchCmd.MarkFlagsRequiredTogether("from", "to")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword, _ := cmd.Flags().GetString("keyword")
	categoryID, _ := cmd.Flags().GetInt("category")
	importance, _ := cmd.Flags().GetString("importance")
	completed, _ := cmd.Flags().GetBool("completed")
	pending, _ := cmd.Flags().GetBool("pending")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	sortFlag, _ := cmd.Flags().GetString("sort")
	explain, _ := cmd.Flags().GetBool("explain")
	asJSON, _ := cmd.Flags().GetBool("json")

	loc := cfg.Location()
	builder := tasks.NewCriteriaBuilder().WithKeyword(keyword)
	if categoryID != 0 {
		builder.WithCategoryID(categoryID)
	}
	if importance != "" {
		imp, err := tasks.ParseImportance(importance)
		if err != nil {
			return err
		}
		builder.WithImportance(imp)
	}
	switch {
	case completed:
		builder.WithCompletion(true)
	case pending:
		builder.WithCompletion(false)
	}
	if from != "" && to != "" {
		start, err := parseTimeInput(from, loc)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		end, err := parseTimeInput(to, loc)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}
		builder.WithDateRange(start, end)
	}
	criteria := builder.Build()

	b, err := openBoard(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	found, err := b.svc.AdvancedSearch(criteria)
	if err != nil {
		return err
	}
	if sortFlag != "" {
		key, err := tasks.ParseSortKey(sortFlag)
		if err != nil {
			return err
		}
		view := tasks.NewCollectionFrom(found)
		view.Sort(key)
		found = view.Snapshot()
	}

	out := cmd.OutOrStdout()
	if explain {
		printExplain(out, b.svc.AllTasks(), criteria, b.loc)
		return nil
	}
	if asJSON {
		return printTasksJSON(out, found, b.loc)
	}
	if len(found) == 0 {
		_, _ = fmt.Fprintln(out, "No tasks match the given filters.")
		return nil
	}
	printTaskTable(out, found, b.loc)
	return nil
}

// printExplain writes one row per task with the outcome of each active
// filter.
func printExplain(w io.Writer, list []*tasks.Task, criteria *tasks.Criteria, loc *time.Location) {
	if criteria.IsEmpty() {
		_, _ = fmt.Fprintln(w, "No filters given; every task matches.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := false
	for _, t := range list {
		results := tasks.Explain(t, criteria)
		if !header {
			_, _ = fmt.Fprint(tw, "ID\tDESCRIPTION\tDEADLINE")
			for _, r := range results {
				_, _ = fmt.Fprintf(tw, "\t%s", r.Name)
			}
			_, _ = fmt.Fprintln(tw, "\tMATCH")
			header = true
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s", t.ID(), t.Description, t.Deadline.In(loc).Format(deadlineLayout))
		for _, r := range results {
			_, _ = fmt.Fprintf(tw, "\t%s", yesNo(r.Matched))
		}
		_, _ = fmt.Fprintf(tw, "\t%s\n", yesNo(tasks.Matches(t, criteria)))
	}
	_ = tw.Flush()
}
