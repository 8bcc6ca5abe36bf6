package seed

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/marcus/taskboard/internal/logging"
)

// DebounceInterval is how long Watch waits after the last change before
// reloading. Editors often write a file in several steps.
var DebounceInterval = 150 * time.Millisecond

// Watch reloads the seed file at path whenever it is written or recreated and
// passes the result to fn. It blocks until ctx is done. The parent directory
// is watched so that editors replacing the file are noticed.
func Watch(ctx context.Context, path string, fn func(Data, error)) error {
	log := logging.Component("seed")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching seed dir: %w", err)
	}
	name := filepath.Base(path)

	log.InfoCtx("watching seed file", map[string]any{"path": path})

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			fire = time.After(DebounceInterval)

		case <-fire:
			fire = nil
			data, err := Load(path)
			if err != nil {
				log.WarnCtx("seed reload failed", map[string]any{"path": path, "error": err.Error()})
			} else {
				log.InfoCtx("seed reloaded", map[string]any{
					"path":       path,
					"categories": len(data.Categories),
					"tasks":      len(data.Tasks),
				})
			}
			fn(data, err)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WarnCtx("seed watcher error", map[string]any{"error": err.Error()})
		}
	}
}
