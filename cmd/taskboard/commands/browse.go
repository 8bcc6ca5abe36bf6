package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/marcus/taskboard/internal/logging"
	"github.com/marcus/taskboard/internal/seed"
	"github.com/marcus/taskboard/internal/ui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Open the interactive task browser",
	Long: `Open the terminal UI. Move with j/k, cycle the sort order with s,
search with /, mark tasks done with x, delete with d and take the next
scheduled task with n.

With seed.watch enabled (or --watch) the board reloads whenever the seed
file changes.`,
	RunE: runBrowse,
}

func init() {
	browseCmd.Flags().Bool("watch", false, "Reload when the seed file changes")
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")
	watch = watch || cfg.Seed.Watch

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	b, err := openBoard(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = b.Close() }()

	model := ui.New(ctx, b.svc,
		ui.WithSortKey(cfg.DefaultSortKey()),
		ui.WithLocation(b.loc),
	)
	program := model.Program()

	path := cfg.SeedPath()
	if watch && path != "" {
		log := logging.Component("browse")
		go func() {
			err := seed.Watch(ctx, path, func(data seed.Data, err error) {
				if err != nil {
					program.Send(ui.ReloadMsg{Err: err})
					return
				}
				svc, err := buildService(ctx, b.provider, data, b.loc)
				if err != nil {
					log.ErrorCtx("rebuilding board after reload", map[string]any{"path": path, "error": err.Error()})
				}
				program.Send(ui.ReloadMsg{Service: svc, Err: err})
			})
			if err != nil {
				log.Err(err).Msg("seed watcher stopped")
			}
		}()
	}

	_, err = program.Run()
	return err
}
