package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/marcus/taskboard/internal/seed"
)

// resetFlags restores every flag to its default so one test's flags do not
// leak into the next execution of the shared command tree.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// run executes the CLI with a fresh HOME and a UTC-only config.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runWithConfig(t, "display:\n  timezone: UTC\n", args...)
}

func runWithConfig(t *testing.T, configYAML string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	fixNow(t, time.Date(2024, time.December, 18, 9, 0, 0, 0, time.UTC))

	configDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(configDir, "taskboard.yaml"), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config-dir", configDir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListDefaultOrder(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatalf("list: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Sorted by Deadline") {
		t.Errorf("missing sort header:\n%s", out)
	}
	first := strings.Index(out, "Complete DSA Project")
	last := strings.Index(out, "Buy Groceries")
	if first < 0 || last < 0 || first > last {
		t.Errorf("expected deadline order:\n%s", out)
	}
	if !strings.Contains(out, "4 task(s)") {
		t.Errorf("missing count:\n%s", out)
	}
}

func TestListJSONByImportance(t *testing.T) {
	out, err := run(t, "list", "--sort", "importance-asc", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var entries []taskEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	var ids []int
	for _, e := range entries {
		ids = append(ids, e.ID)
	}
	want := []int{1, 3, 2, 4}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("ids = %v, want %v", ids, want)
		}
	}
	if entries[0].Deadline != "2024-12-18T14:00:00Z" {
		t.Errorf("deadline = %q", entries[0].Deadline)
	}
	if entries[0].Importance != "important-urgent" {
		t.Errorf("importance = %q", entries[0].Importance)
	}
}

func TestListByCategory(t *testing.T) {
	out, err := run(t, "list", "--category", "1", "--json")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var entries []taskEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if len(entries) != 1 || entries[0].Description != "Team Meeting" {
		t.Errorf("entries = %+v", entries)
	}

	if _, err := run(t, "list", "--category", "42"); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestListRejectsBadSort(t *testing.T) {
	if _, err := run(t, "list", "--sort", "priority"); err == nil {
		t.Error("expected error for unknown sort key")
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
		not  []string
	}{
		{"keyword", []string{"--keyword", "MEET"}, []string{"Team Meeting"}, []string{"Gym Workout"}},
		{"importance", []string{"-i", "nu"}, []string{"Gym Workout"}, []string{"Team Meeting"}},
		{"category", []string{"--category", "3"}, []string{"Complete DSA Project"}, []string{"Buy Groceries"}},
		{"window", []string{"--from", "2024-12-18 15:00", "--to", "2024-12-19 12:00"}, []string{"Gym Workout", "Team Meeting"}, []string{"Complete DSA Project", "Buy Groceries"}},
		{"no match", []string{"--keyword", "zzz"}, []string{"No tasks match"}, nil},
		{"completed", []string{"--completed"}, []string{"No tasks match"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"search"}, tt.args...)...)
			if err != nil {
				t.Fatalf("search: %v\n%s", err, out)
			}
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
			for _, n := range tt.not {
				if strings.Contains(out, n) {
					t.Errorf("output should not contain %q:\n%s", n, out)
				}
			}
		})
	}
}

func TestSearchFlagRules(t *testing.T) {
	if _, err := run(t, "search", "--completed", "--pending"); err == nil {
		t.Error("--completed and --pending together should fail")
	}
	if _, err := run(t, "search", "--from", "today"); err == nil {
		t.Error("--from without --to should fail")
	}
	if _, err := run(t, "search", "-i", "critical"); err == nil {
		t.Error("unknown importance should fail")
	}
}

func TestSearchExplain(t *testing.T) {
	out, err := run(t, "search", "--keyword", "gym", "--pending", "--explain")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, w := range []string{"keyword", "completion", "MATCH", "Gym Workout"} {
		if !strings.Contains(out, w) {
			t.Errorf("explain output missing %q:\n%s", w, out)
		}
	}
}

func TestNext(t *testing.T) {
	out, err := run(t, "next")
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if !strings.Contains(out, "Next up:") || !strings.Contains(out, "Complete DSA Project") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = run(t, "next", "--pop")
	if err != nil {
		t.Fatalf("next --pop: %v", err)
	}
	if !strings.Contains(out, "Dequeued:") || !strings.Contains(out, "0 task(s) left") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestNextAllFromSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.yaml")
	data := seed.Data{
		Tasks: []seed.TaskSeed{
			{ID: 1, Description: "First", Deadline: "2024-12-20 10:00", Importance: "iu", Scheduled: true},
			{ID: 2, Description: "Skipped", Deadline: "2024-12-20 11:00", Importance: "nn"},
			{ID: 3, Description: "Second", DueCron: "0 12 * * *", Importance: "in", Scheduled: true},
		},
	}
	raw, err := seed.Marshal(data)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--seed", path, "next", "--all", "--json")
	if err != nil {
		t.Fatalf("next --all: %v\n%s", err, out)
	}
	var entries []taskEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if len(entries) != 2 || entries[0].ID != 1 || entries[1].ID != 3 {
		t.Fatalf("queue = %+v", entries)
	}
	if entries[1].Deadline != "2024-12-18T12:00:00Z" {
		t.Errorf("cron deadline = %q, want next noon", entries[1].Deadline)
	}
}

func TestCategories(t *testing.T) {
	out, err := run(t, "categories", "list")
	if err != nil {
		t.Fatalf("categories list: %v", err)
	}
	for _, w := range []string{"Work", "Personal", "Study", "Health", "Shopping"} {
		if !strings.Contains(out, w) {
			t.Errorf("missing %q:\n%s", w, out)
		}
	}

	out, err = run(t, "categories", "add", "Garden")
	if err != nil {
		t.Fatalf("categories add: %v", err)
	}
	if !strings.Contains(out, "Added category 6: Garden") {
		t.Errorf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "this run only") {
		t.Errorf("expected in-memory note:\n%s", out)
	}

	if _, err := run(t, "categories", "add", "--id", "1", "Dup"); err == nil {
		t.Error("expected duplicate id error")
	}
	if _, err := run(t, "categories", "rename", "9", "X"); err == nil {
		t.Error("expected not found error")
	}
	if _, err := run(t, "categories", "delete", "abc"); err == nil {
		t.Error("expected invalid id error")
	}

	out, err = run(t, "categories", "rename", "3", "Learning")
	if err != nil {
		t.Fatalf("categories rename: %v", err)
	}
	if !strings.Contains(out, "Study -> Learning") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSummaryJSON(t *testing.T) {
	out, err := run(t, "summary", "--json")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	var s summaryOutput
	if err := json.Unmarshal([]byte(out), &s); err != nil {
		t.Fatalf("decoding output: %v\n%s", err, out)
	}
	if s.Total != 4 || s.Incomplete != 4 || s.Scheduled != 1 {
		t.Errorf("summary = %+v", s)
	}
	if len(s.Categories) != 5 {
		t.Errorf("categories = %+v", s.Categories)
	}
	if s.Importance["important-urgent"] != 1 {
		t.Errorf("importance counts = %v", s.Importance)
	}
}

func TestSeedCommands(t *testing.T) {
	out, err := run(t, "seed", "show")
	if err != nil {
		t.Fatalf("seed show: %v", err)
	}
	if !strings.Contains(out, "built-in sample data") || !strings.Contains(out, "Gym Workout") {
		t.Errorf("unexpected output:\n%s", out)
	}

	exportPath := filepath.Join(t.TempDir(), "export.yaml")
	if _, err := run(t, "seed", "export", "-o", exportPath); err != nil {
		t.Fatalf("seed export: %v", err)
	}
	out, err = run(t, "seed", "validate", exportPath)
	if err != nil {
		t.Fatalf("seed validate: %v", err)
	}
	if !strings.Contains(out, "ok (5 categories, 4 tasks)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("tasks:\n  - id: 1\n    description: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "seed", "validate", bad); err == nil {
		t.Error("expected validation error")
	}
}

func TestSeedValidateUsesCategoryStore(t *testing.T) {
	dir := t.TempDir()
	configYAML := fmt.Sprintf("display:\n  timezone: UTC\ncategories:\n  backend: sqlite\n  db_path: %s\n",
		filepath.Join(dir, "categories.db"))

	path := filepath.Join(dir, "garden.yaml")
	raw := "tasks:\n  - id: 1\n    description: Weed beds\n    category: 6\n    deadline: \"2024-12-20 10:00\"\n    importance: nn\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := runWithConfig(t, configYAML, "seed", "validate", path); err == nil {
		t.Fatal("expected unknown category error before the category exists")
	}

	if _, err := runWithConfig(t, configYAML, "categories", "add", "Garden"); err != nil {
		t.Fatalf("categories add: %v", err)
	}
	out, err := runWithConfig(t, configYAML, "seed", "validate", path)
	if err != nil {
		t.Fatalf("seed validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, "ok (0 categories, 1 tasks)") {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := run(t, "seed", "validate", path); err == nil {
		t.Error("memory backend should not know category 6")
	}
}

func TestCron(t *testing.T) {
	out, err := run(t, "cron", "0 9 * * MON", "-n", "2")
	if err != nil {
		t.Fatalf("cron: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || lines[0] != "Mon 2024-12-23 09:00" || lines[1] != "Mon 2024-12-30 09:00" {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := run(t, "cron", "nonsense"); err == nil {
		t.Error("expected error for invalid expression")
	}
}

func TestParseID(t *testing.T) {
	for _, ok := range []string{"1", "42"} {
		if _, err := parseID(ok); err != nil {
			t.Errorf("parseID(%q) error: %v", ok, err)
		}
	}
	for _, bad := range []string{"0", "-1", "x", ""} {
		if _, err := parseID(bad); err == nil {
			t.Errorf("parseID(%q) expected error", bad)
		}
	}
}
