package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/marcus/taskboard/internal/config"
	"github.com/marcus/taskboard/internal/tasks"
)

const deadlineLayout = "2006-01-02 15:04"

// --- JSON output ---

type taskEntry struct {
	ID              int    `json:"id"`
	Description     string `json:"description"`
	CategoryID      int    `json:"category_id,omitempty"`
	Category        string `json:"category,omitempty"`
	Deadline        string `json:"deadline"`
	Importance      string `json:"importance"`
	ImportanceLabel string `json:"importance_label"`
	Completed       bool   `json:"completed"`
}

func newTaskEntry(t *tasks.Task, loc *time.Location) taskEntry {
	return taskEntry{
		ID:              t.ID(),
		Description:     t.Description,
		CategoryID:      t.CategoryID(),
		Category:        t.CategoryTitle(),
		Deadline:        t.Deadline.In(loc).Format(time.RFC3339),
		Importance:      t.Importance.Slug(),
		ImportanceLabel: t.Importance.String(),
		Completed:       t.Completed,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTasksJSON(w io.Writer, list []*tasks.Task, loc *time.Location) error {
	entries := make([]taskEntry, len(list))
	for i, t := range list {
		entries[i] = newTaskEntry(t, loc)
	}
	return writeJSON(w, entries)
}

// printTaskTable writes list as an aligned table followed by a count line.
func printTaskTable(w io.Writer, list []*tasks.Task, loc *time.Location) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tDONE\tIMPORTANCE\tDESCRIPTION\tCATEGORY\tDEADLINE")
	for _, t := range list {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s %s\t%s\t%s\t%s\n",
			t.ID(),
			doneMark(t.Completed),
			t.Importance.Symbol(),
			t.Importance.String(),
			t.Description,
			orDash(t.CategoryTitle()),
			t.Deadline.In(loc).Format(deadlineLayout),
		)
	}
	_ = tw.Flush()
	_, _ = fmt.Fprintf(w, "\n%d task(s)\n", len(list))
}

// printTaskDetail writes one task as labelled lines.
func printTaskDetail(w io.Writer, t *tasks.Task, loc *time.Location) {
	_, _ = fmt.Fprintf(w, "  ID:          %d\n", t.ID())
	_, _ = fmt.Fprintf(w, "  Description: %s\n", t.Description)
	_, _ = fmt.Fprintf(w, "  Category:    %s\n", orDash(t.CategoryTitle()))
	_, _ = fmt.Fprintf(w, "  Deadline:    %s\n", t.Deadline.In(loc).Format(deadlineLayout))
	_, _ = fmt.Fprintf(w, "  Importance:  %s %s\n", t.Importance.Symbol(), t.Importance.String())
	_, _ = fmt.Fprintf(w, "  Completed:   %s\n", yesNo(t.Completed))
}

func doneMark(done bool) string {
	if done {
		return "x"
	}
	return "-"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// parseSortFlag resolves --sort, falling back to the configured default.
func parseSortFlag(value string, c *config.Config) (tasks.SortKey, error) {
	if value == "" {
		if c == nil {
			return tasks.DeadlineAsc, nil
		}
		return c.DefaultSortKey(), nil
	}
	return tasks.ParseSortKey(value)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

func sortKeyNames() string {
	var names string
	for i, k := range tasks.AllSortKeys() {
		if i > 0 {
			names += ", "
		}
		names += k.Slug()
	}
	return names
}
