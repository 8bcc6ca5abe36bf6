package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marcus/taskboard/internal/categories"
	"github.com/marcus/taskboard/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Inspect and check seed files",
	Long: `Seed files hold the categories and tasks taskboard starts with.

A task gives either a fixed deadline ("2024-12-18 14:00" or RFC3339) or a
due_cron expression that resolves to its next occurrence at start-up.
Tasks marked scheduled join the queue in file order.`,
}

var seedShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the seed data in use",
	RunE:  runSeedShow,
}

var seedValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check a seed file without loading it",
	Long: `Check field rules, duplicate ids and category references. A task may
refer to a category declared in the file or one already in the configured
category store.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runSeedValidate,
}

var seedExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the current board as a seed file",
	Long: `Write the board as it stands after loading, with cron deadlines
resolved to fixed times. Writes to stdout unless --output is given.`,
	RunE: runSeedExport,
}

func init() {
	seedExportCmd.Flags().StringP("output", "o", "", "File to write instead of stdout")

	seedCmd.AddCommand(seedShowCmd)
	seedCmd.AddCommand(seedValidateCmd)
	seedCmd.AddCommand(seedExportCmd)
	rootCmd.AddCommand(seedCmd)
}

func runSeedShow(cmd *cobra.Command, args []string) error {
	data, err := loadSeed(cfg)
	if err != nil {
		return err
	}
	raw, err := seed.Marshal(data)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	source := cfg.SeedPath()
	if source == "" {
		source = "built-in sample data"
	}
	_, _ = fmt.Fprintf(out, "# source: %s\n", source)
	_, _ = out.Write(raw)
	return nil
}

func runSeedValidate(cmd *cobra.Command, args []string) error {
	data, err := seed.Load(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	provider, closer, err := categories.Open(ctx, cfg.Categories)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()
	if err := seed.CheckCategories(ctx, provider, data); err != nil {
		return fmt.Errorf("seed %s: %w", args[0], err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: ok (%d categories, %d tasks)\n",
		args[0], len(data.Categories), len(data.Tasks))
	return nil
}

func runSeedExport(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")

	ctx := cmd.Context()
	b, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	cats, err := b.provider.List(ctx)
	if err != nil {
		return err
	}
	// Deadlines are written in the display timezone.
	all := b.svc.AllTasks()
	for _, t := range all {
		t.Deadline = t.Deadline.In(b.loc)
	}
	raw, err := seed.Marshal(seed.FromTasks(cats, all, b.svc.ScheduledTasks()))
	if err != nil {
		return err
	}

	if output == "" {
		_, err = cmd.OutOrStdout().Write(raw)
		return err
	}
	if err := os.WriteFile(output, raw, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", output, err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d task(s) to %s\n", len(all), output)
	return nil
}
