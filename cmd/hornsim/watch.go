package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// settle absorbs the burst of events editors emit for one save.
const settle = 150 * time.Millisecond

// watch calls eval once, then again after every change to path, until ctx
// is done. Evaluation errors are reported and watching continues.
func watch(ctx context.Context, path string, log printer, eval func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Watch the directory: editors often replace the file on save, which
	// drops a watch on the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	rerun := func() {
		if err := eval(); err != nil {
			log.fail(err)
		}

		log.info("Watching", "%s (Ctrl+C to stop)", path)
	}

	rerun()

	timer := time.NewTimer(settle)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if isChange(event, abs) {
				timer.Reset(settle)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.warn("watcher: %v", err)
		case <-timer.C:
			rerun()
		}
	}
}

func isChange(event fsnotify.Event, path string) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != path {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
