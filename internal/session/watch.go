package session

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dyike/NamaaGo/internal/models"
)

const defaultDebounce = 200 * time.Millisecond

// Watch reports identity changes made by other processes sharing the data
// directory, such as a logout from a second terminal. onChange runs on the
// watcher goroutine after a short debounce. Watching stops when ctx ends.
func (c *Context) Watch(ctx context.Context, onChange func(id models.Identity, present bool)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create session watcher: %w", err)
	}
	dir := filepath.Dir(c.store.Path())
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch session dir: %w", err)
	}

	go c.watchLoop(ctx, watcher, onChange)
	return nil
}

func (c *Context) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, onChange func(models.Identity, bool)) {
	defer watcher.Close()

	target := filepath.Clean(c.store.Path())

	var timerMu sync.Mutex
	var timer *time.Timer
	trigger := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(defaultDebounce, func() {
			if ctx.Err() != nil {
				return
			}
			id, ok := c.Current()
			onChange(id, ok)
		})
	}

	for {
		select {
		case evt, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			trigger()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				c.log.WithError(err).Warn("session watcher error")
			}
		case <-ctx.Done():
			timerMu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timerMu.Unlock()
			return
		}
	}
}
