package config

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the directory holding path so that editors which replace the
// file (write to temp, then rename) are picked up as well as in-place writes.
//
// Reference: https://pkg.go.dev/github.com/fsnotify/fsnotify#Watcher
func (c *config) Watch(path string) error {
	if _, err := formatFor(path); err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve settings path: %w", err)
	}

	c.watchMu.Lock()
	defer c.watchMu.Unlock()
	if c.watcher != nil {
		return fmt.Errorf("settings watcher already running")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create settings watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch settings directory: %w", err)
	}

	c.watcher = w
	c.watchDone = make(chan struct{})
	go c.watchLoop(w, abs, c.watchDone)
	return nil
}

func (c *config) watchLoop(w *fsnotify.Watcher, path string, done chan struct{}) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			values, err := c.readFile(path)
			if err != nil {
				log.Printf("[Config] reload of %s failed, keeping previous values: %v", path, err)
				continue
			}
			log.Printf("[Config] reloaded %s (%d values)", path, len(values))
			c.setMany(values)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("[Config] watcher error: %v", err)
		}
	}
}
