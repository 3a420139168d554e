// Package watch rebuilds the site when its inputs change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// ErrNoTargets indicates nothing was given to watch.
var ErrNoTargets = errors.New("nothing to watch")

// Target is a watched input. Directories are watched recursively; a file is
// watched through its parent directory so editors that replace files by
// renaming still trigger a rebuild.
type Target struct {
	Path string
	Dir  bool
}

// Watcher runs a rebuild function after input changes settle.
type Watcher struct {
	targets  []Target
	ignore   map[string]bool
	debounce time.Duration
	onError  func(error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithIgnore excludes paths from triggering rebuilds, typically the
// generated outputs when they live next to the inputs.
func WithIgnore(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			w.ignore[absPath(p)] = true
		}
	}
}

// WithErrorHandler receives watcher errors. They are dropped by default.
func WithErrorHandler(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// New creates a Watcher for targets.
func New(targets []Target, opts ...Option) *Watcher {
	w := &Watcher{
		debounce: DefaultDebounce,
		ignore:   make(map[string]bool),
		onError:  func(error) {},
	}
	for _, t := range targets {
		if t.Path == "" {
			continue
		}
		w.targets = append(w.targets, Target{Path: absPath(t.Path), Dir: t.Dir})
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches until ctx is canceled, calling rebuild once per settled burst
// of changes. Rebuilds never overlap; changes arriving during a rebuild
// schedule exactly one more.
func (w *Watcher) Run(ctx context.Context, rebuild func(context.Context)) error {
	if len(w.targets) == 0 {
		return ErrNoTargets
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = fsw.Close() }()

	for _, t := range w.targets {
		if t.Dir {
			if err := addDirsRecursive(fsw, t.Path, w.onError); err != nil {
				return err
			}
			continue
		}
		if err := fsw.Add(filepath.Dir(t.Path)); err != nil {
			return fmt.Errorf("watching %s: %w", t.Path, err)
		}
	}

	rebuildReq, trigger, stop := newDebouncer(w.debounce)
	defer stop()

	var wg sync.WaitGroup
	defer wg.Wait()
	workerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-rebuildReq:
				rebuild(workerCtx)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create && w.underDirTarget(ev.Name) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					_ = addDirsRecursive(fsw, ev.Name, w.onError)
				}
			}
			trigger()
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

// relevant reports whether an event on path concerns a target.
func (w *Watcher) relevant(path string) bool {
	path = absPath(path)
	if w.ignore[path] || shouldIgnoreEvent(path) {
		return false
	}
	for _, t := range w.targets {
		if t.Dir && isUnder(path, t.Path) {
			return true
		}
		if !t.Dir && path == t.Path {
			return true
		}
	}
	return false
}

func (w *Watcher) underDirTarget(path string) bool {
	path = absPath(path)
	for _, t := range w.targets {
		if t.Dir && isUnder(path, t.Path) {
			return true
		}
	}
	return false
}

// newDebouncer returns a request channel, a trigger resetting the quiet
// period, and a stop function. Requests coalesce in a one-slot buffer.
func newDebouncer(d time.Duration) (<-chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	rebuildReq := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(d, func() {
			select {
			case rebuildReq <- struct{}{}:
			default:
			}
		})
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return rebuildReq, trigger, stop
}

func addDirsRecursive(w *fsnotify.Watcher, root string, onError func(error)) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watching %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watching %s: not a directory", root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if err := w.Add(path); err != nil {
				onError(fmt.Errorf("watch add %s: %w", path, err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for filesystem events that should not trigger rebuilds.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)

	// Hidden files, including .#lock files
	if strings.HasPrefix(base, ".") {
		return true
	}

	// Editor temp/swap files
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasSuffix(base, ".tmp") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}

	return base == "Thumbs.db" || base == "4913" // vim write probe
}

func isUnder(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
