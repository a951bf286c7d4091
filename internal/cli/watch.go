package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce coalesces the burst of events an editor save produces.
const watchDebounce = 200 * time.Millisecond

// watchCompile compiles once, then again after every change to a .cue file
// below dir, until the context is cancelled or the process is interrupted.
// Compile failures are reported and watching continues.
func watchCompile(ctx context.Context, opts *CompileOptions, dir string, cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return WrapExitError(ExitCommandError, "starting watcher", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, dir); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("watching %s", dir), err)
	}

	log := opts.logger()
	compile := func() {
		if err := runCompile(ctx, opts, dir, cmd); err != nil {
			log.Warn("compile failed", "dir", dir, "error", err)
		}
	}
	compile()
	log.Info("watching for changes", "dir", dir)

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isModelChange(ev) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				_ = addWatchDirs(watcher, ev.Name)
			}
			log.Debug("model changed", "file", ev.Name, "op", ev.Op.String())
			timer = time.After(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "error", err)
		case <-timer:
			timer = nil
			compile()
		}
	}
}

// isModelChange reports whether ev touches a .cue file or creates a
// directory that may hold one.
func isModelChange(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
		return false
	}
	return filepath.Ext(ev.Name) == ".cue" || ev.Has(fsnotify.Create)
}

// addWatchDirs watches root and every directory below it. A root that is
// not a directory is ignored.
func addWatchDirs(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}
