// Package watch re-imports the weight log CSV when it changes on disk,
// so edits made with a spreadsheet or editor show up without a restart.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"

	"weightlog/internal/app"
)

// Editors emit several events per save, debounce them into one reload.
const debounce = 200 * time.Millisecond

// ReloadCallback is called after each successful reload with the number
// of entries now in the log.
type ReloadCallback func(count int)

// Watch re-imports path into the tracker whenever the file changes,
// until ctx is cancelled. It calls cb (if non-nil) after each reload.
func Watch(ctx context.Context, tracker *app.Tracker, path string, cb ReloadCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Watch the directory, not the file. Atomic saves replace the inode
	// and a watch pinned to the old one goes quiet.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	log.WithField("path", abs).Info("csv watcher started")

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(debounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			log.Info("csv watcher stopped")
			return nil

		case <-reloadCh:
			count, importErr := tracker.ImportCSV(ctx, abs)
			if importErr != nil {
				// A failed import leaves the log as it was. Half-written
				// files resolve themselves on the next event.
				log.WithError(importErr).Warn("csv reload failed")
				continue
			}
			log.WithField("entries", count).Info("csv reloaded")
			if cb != nil {
				cb(count)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if evAbs, absErr := filepath.Abs(ev.Name); absErr != nil || evAbs != abs {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			scheduleReload()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.WithError(watchErr).Error("csv watcher error")
		}
	}
}
