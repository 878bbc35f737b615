package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 100 * time.Millisecond

// Watcher reports changes to a small set of files. It watches their parent
// directories so editors that save via rename are still seen.
type Watcher struct {
	w *fsnotify.Watcher

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]int
}

func NewWatcher() (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	return &Watcher{w: w, files: map[string]bool{}, dirs: map[string]int{}}, nil
}

func (w *Watcher) Close() error {
	return w.w.Close()
}

// Set replaces the watched file set. Empty paths are ignored.
func (w *Watcher) Set(paths ...string) error {
	want := map[string]bool{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			p = abs
		}
		want[filepath.Clean(p)] = true
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	for p := range w.files {
		if want[p] {
			continue
		}
		delete(w.files, p)
		dir := filepath.Dir(p)
		w.dirs[dir]--
		if w.dirs[dir] <= 0 {
			delete(w.dirs, dir)
			_ = w.w.Remove(dir)
		}
	}
	var firstErr error
	for p := range want {
		if w.files[p] {
			continue
		}
		dir := filepath.Dir(p)
		if w.dirs[dir] == 0 {
			if err := w.w.Add(dir); err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("watch %s: %w", dir, err)
				}
				continue
			}
		}
		w.dirs[dir]++
		w.files[p] = true
	}
	return firstErr
}

func (w *Watcher) watched(name string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[filepath.Clean(name)]
}

// Next blocks until a watched file is written, created or renamed into place
// and returns its path. Bursts within the debounce window collapse into one
// report.
func (w *Watcher) Next(ctx context.Context) (string, error) {
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-w.w.Events:
			if !ok {
				return "", context.Canceled
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !w.watched(ev.Name) {
				continue
			}
			w.drain(ctx)
			return filepath.Clean(ev.Name), nil
		case err, ok := <-w.w.Errors:
			if !ok {
				return "", context.Canceled
			}
			return "", err
		}
	}
}

func (w *Watcher) drain(ctx context.Context) {
	t := time.NewTimer(watchDebounce)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			return
		case _, ok := <-w.w.Events:
			if !ok {
				return
			}
		}
	}
}
