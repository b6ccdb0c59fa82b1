package lesson

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/fsnotify/fsnotify"
	"github.com/jsphweid/chordcoach/constants"
	"github.com/jsphweid/chordcoach/log"
)

// Watch reloads the lesson at path whenever it changes and hands the result
// to fn. Bursts of writes closer together than quiet cause one reload. The
// directory is watched rather than the file so editors that replace the
// file on save keep working. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, spread, quiet time.Duration, fn func(*Lesson, error)) error {
	if quiet <= 0 {
		quiet = constants.DefaultReloadQuiet
	}
	path = filepath.Clean(path)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	debounced := debounce.New(quiet)
	// drop a reload still waiting out the quiet period
	defer debounced(func() {})
	reload := func() {
		if ctx.Err() != nil {
			return
		}
		l, err := Load(path, spread)
		if err != nil {
			log.LESSON.Printf("reload failed: %v", err)
		}
		fn(l, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				log.LESSON.Debugf("%s changed (%s)", path, ev.Op)
				debounced(reload)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.LESSON.Printf("watch error: %v", err)
		}
	}
}
