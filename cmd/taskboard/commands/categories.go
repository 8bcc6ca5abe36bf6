package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/marcus/taskboard/internal/config"
	"github.com/marcus/taskboard/internal/db"
	"github.com/marcus/taskboard/internal/tasks"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"category", "cat"},
	Short:   "Manage task categories",
	Long: `List, add, rename and delete categories.

With the memory backend changes last for this invocation only; set
categories.backend to sqlite and categories.db_path to a file to keep them.`,
}

var categoriesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories with their task counts",
	RunE:  runCategoriesList,
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE:  runCategoriesAdd,
}

var categoriesRenameCmd = &cobra.Command{
	Use:   "rename <id> <title>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE:  runCategoriesRename,
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Long: `Delete a category. Tasks filed under it keep their reference and are
still counted under the old id.`,
	Args: cobra.ExactArgs(1),
	RunE: runCategoriesDelete,
}

func init() {
	categoriesListCmd.Flags().Bool("json", false, "Output as JSON")
	categoriesAddCmd.Flags().Int("id", 0, "Category id (default: next free id)")

	categoriesCmd.AddCommand(categoriesListCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRenameCmd)
	categoriesCmd.AddCommand(categoriesDeleteCmd)
	rootCmd.AddCommand(categoriesCmd)
}

type categoryEntry struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Tasks int    `json:"tasks"`
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
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

	entries := make([]categoryEntry, 0, len(overview.ByCategory))
	for _, cc := range overview.ByCategory {
		entries = append(entries, categoryEntry{ID: cc.Category.ID(), Title: cc.Category.Title, Tasks: cc.Tasks})
	}

	out := cmd.OutOrStdout()
	if asJSON {
		return writeJSON(out, entries)
	}
	printCategoryTable(out, entries)
	return nil
}

func printCategoryTable(w io.Writer, entries []categoryEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTITLE\tTASKS")
	for _, e := range entries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%d\n", e.ID, orDash(e.Title), e.Tasks)
	}
	_ = tw.Flush()
}

func runCategoriesAdd(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetInt("id")

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	if id == 0 {
		id, err = b.provider.NextID(ctx)
		if err != nil {
			return err
		}
	}
	if err := b.provider.Add(ctx, tasks.NewCategory(id, args[0])); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Added category %d: %s\n", id, args[0])
	printBackendNote(out)
	return nil
}

func runCategoriesRename(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	old, err := b.svc.CategoryByID(ctx, id)
	if err != nil {
		return err
	}
	oldTitle := old.Title
	if err := b.provider.Update(ctx, tasks.NewCategory(id, args[1])); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Renamed category %d: %s -> %s\n", id, oldTitle, args[1])
	printBackendNote(out)
	return nil
}

func runCategoriesDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	if err := b.provider.Delete(ctx, id); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Deleted category %d\n", id)
	printBackendNote(out)
	return nil
}

func printBackendNote(w io.Writer) {
	if cfg == nil {
		return
	}
	if cfg.Categories.Backend == config.BackendSQLite && !db.IsMemory(cfg.Categories.DBPath) {
		return
	}
	_, _ = fmt.Fprintln(w, "(in-memory categories: this change lasts for this run only)")
}
