package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks in a chosen order",
	Long: `List every task, or the tasks of one category, sorted by name,
deadline or importance. Sorting works on a copy; the board's own order is
never changed.

Use --json to output as JSON for scripting.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("sort", "", "Sort key: "+sortKeyNames()+" (default from config)")
	listCmd.Flags().Int("category", 0, "Only list tasks in this category id")
	listCmd.Flags().Bool("json", false, "Output as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	sortFlag, _ := cmd.Flags().GetString("sort")
	categoryID, _ := cmd.Flags().GetInt("category")
	asJSON, _ := cmd.Flags().GetBool("json")

	key, err := parseSortFlag(sortFlag, cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	list := b.svc.SortedTasks(key)
	if categoryID != 0 {
		cat, err := b.svc.CategoryByID(ctx, categoryID)
		if err != nil {
			return err
		}
		list, err = b.svc.TasksByCategorySorted(cat, key)
		if err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return printTasksJSON(out, list, b.loc)
	}
	if len(list) == 0 {
		_, _ = fmt.Fprintln(out, "No tasks.")
		return nil
	}
	_, _ = fmt.Fprintf(out, "Sorted by %s\n\n", key)
	printTaskTable(out, list, b.loc)
	return nil
}
