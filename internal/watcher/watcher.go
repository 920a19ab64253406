// Package watcher reports debounced batches of changed source files.
package watcher

import (
	"context"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a batch is reported.
const DefaultDebounce = 300 * time.Millisecond

// Watcher monitors a directory tree and reports changed files in batches.
type Watcher interface {
	// Start begins watching, calling callback with each debounced batch of
	// changed paths in sorted order. Callbacks run on the watch goroutine.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and cleans up resources.
	Stop() error
}

// Options configures a Watcher.
type Options struct {
	// Debounce is the quiet period before firing; zero uses DefaultDebounce.
	Debounce time.Duration
	// Match selects which file paths are reported. Nil reports every file.
	Match func(path string) bool
	// SkipDir prunes directories from the watch set. The root is never skipped.
	SkipDir func(path string) bool
}

type sourceWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	opts     Options
	callback func(files []string)
	cancel   context.CancelFunc

	pendingMu sync.Mutex
	pending   map[string]struct{} // changed paths since the last batch

	timerMu sync.Mutex
	timer   *time.Timer

	stopOnce sync.Once
	doneCh   chan struct{} // closed when the watch goroutine exits
}

// New creates a watcher for root and every directory below it that
// opts.SkipDir does not prune.
func New(root string, opts Options) (Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &sourceWatcher{
		watcher: fsw,
		root:    root,
		opts:    opts,
		pending: make(map[string]struct{}),
		doneCh:  make(chan struct{}),
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// Start begins watching for file changes.
func (w *sourceWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	w.callback = callback
	ctx, w.cancel = context.WithCancel(ctx)

	go w.watch(ctx)
	return nil
}

// Stop stops the watcher. It is safe to call more than once.
func (w *sourceWatcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		if w.cancel != nil {
			w.cancel()
			<-w.doneCh
		} else {
			close(w.doneCh)
		}
		err = w.watcher.Close()
	})
	return err
}

func (w *sourceWatcher) watch(ctx context.Context) {
	defer close(w.doneCh)

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !w.skip(event.Name) {
						if err := w.addTree(event.Name); err != nil {
							log.Printf("Warning: failed to watch new directory %s: %v", event.Name, err)
						}
					}
					continue
				}
			}

			if !w.relevant(event) {
				continue
			}

			w.pendingMu.Lock()
			w.pending[event.Name] = struct{}{}
			w.pendingMu.Unlock()

			w.resetTimer(fire)

		case <-fire:
			if files := w.drain(); len(files) > 0 {
				w.callback(files)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)
		}
	}
}

// drain returns and clears the pending paths, sorted.
func (w *sourceWatcher) drain() []string {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	files := make([]string, 0, len(w.pending))
	for file := range w.pending {
		files = append(files, file)
	}
	w.pending = make(map[string]struct{})
	slices.Sort(files)
	return files
}

func (w *sourceWatcher) resetTimer(fire chan struct{}) {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.opts.Debounce, func() {
		select {
		case fire <- struct{}{}:
		default:
		}
	})
}

func (w *sourceWatcher) stopTimer() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// relevant keeps content changes to matching files.
func (w *sourceWatcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return w.opts.Match == nil || w.opts.Match(event.Name)
}

func (w *sourceWatcher) skip(dir string) bool {
	return dir != w.root && w.opts.SkipDir != nil && w.opts.SkipDir(dir)
}

// addTree watches dir and its subdirectories, honoring SkipDir.
func (w *sourceWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return err
			}
			log.Printf("Warning: error accessing %s: %v", path, err)
			return nil
		}
		if !entry.IsDir() {
			return nil
		}
		if w.skip(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			log.Printf("Warning: failed to watch directory %s: %v", path, err)
		}
		return nil
	})
}
