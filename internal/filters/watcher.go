package filters

import (
	"context"
	"log"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDelay is how long to wait for more changes before reloading.
const debounceDelay = 500 * time.Millisecond

// Watch reloads dir whenever a YAML file in it changes and hands each
// new set to onReload. It blocks until ctx is done. Reload failures are
// logged and the watcher keeps running.
func Watch(ctx context.Context, dir string, onReload func(*Set)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(dir); err != nil {
		return err
	}

	reload := func() {
		set, skipped, err := LoadDir(dir)
		if err != nil {
			log.Printf("filters: reload %s: %v", dir, err)
			return
		}
		onReload(set)
		log.Printf("filters: reloaded from %s: loaded=%d skipped=%d", dir, set.Len(), skipped)
	}

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isYAML(ev.Name) {
				continue
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceDelay, reload)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("filters: watch error: %v", err)
		}
	}
}
