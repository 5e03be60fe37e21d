package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/logger"
)

// DefaultDebounce is the quiet period before pending changes are applied.
const DefaultDebounce = 500 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Root is the watched directory.
	Root string

	// Pattern selects files relative to Root (default: DefaultPattern).
	Pattern string

	// Debounce is the quiet period before changes are applied.
	Debounce time.Duration

	// Defaults fills in fields the files do not set.
	Defaults driving.IngestOptions
}

// Watcher re-ingests instruction files when they change.
type Watcher struct {
	ingest driving.IngestService
	config Config
	fsw    *fsnotify.Watcher

	mu      sync.Mutex
	pending map[string]struct{}
}

// New creates a watcher over config.Root.
func New(ingest driving.IngestService, config Config) (*Watcher, error) {
	if config.Pattern == "" {
		config.Pattern = DefaultPattern
	}
	if !doublestar.ValidatePattern(config.Pattern) {
		return nil, fmt.Errorf("%w: bad pattern %q", domain.ErrInvalidInput, config.Pattern)
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}

	root, err := filepath.Abs(config.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: not a directory: %s", domain.ErrInvalidInput, root)
	}
	config.Root = root

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := addRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		ingest:  ingest,
		config:  config,
		fsw:     fsw,
		pending: make(map[string]struct{}),
	}, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string {
	return w.config.Root
}

// Scan imports every matching file once.
func (w *Watcher) Scan(ctx context.Context) (ImportReport, error) {
	return Import(ctx, w.ingest, w.config.Root, w.config.Pattern, w.config.Defaults)
}

// Matches reports whether an absolute path is selected by the pattern.
func (w *Watcher) Matches(path string) bool {
	rel, err := filepath.Rel(w.config.Root, path)
	if err != nil {
		return false
	}
	ok, err := doublestar.Match(w.config.Pattern, filepath.ToSlash(rel))
	return err == nil && ok
}

// Run processes events until ctx is cancelled. Pending changes are
// applied before it returns.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	logger.Info("Watching %s (%s)", w.config.Root, w.config.Pattern)

	var timer *time.Timer
	timerC := func() <-chan time.Time {
		if timer == nil {
			return nil
		}
		return timer.C
	}

	for {
		select {
		case <-ctx.Done():
			w.apply(context.WithoutCancel(ctx))
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.track(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.config.Debounce)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timerC():
			timer = nil
			w.apply(ctx)
		}
	}
}

// track records a relevant event and reports whether it was relevant.
func (w *Watcher) track(ev fsnotify.Event) bool {
	if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}

	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addRecursive(w.fsw, ev.Name); err != nil {
				logger.Warn("Failed to watch %s: %v", ev.Name, err)
			}
			return false
		}
	}

	if !w.Matches(ev.Name) {
		return false
	}

	w.mu.Lock()
	w.pending[ev.Name] = struct{}{}
	w.mu.Unlock()
	return true
}

// apply ingests changed files and removes deleted ones.
func (w *Watcher) apply(ctx context.Context) {
	w.mu.Lock()
	paths := w.pending
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	if len(paths) == 0 {
		return
	}

	for path := range paths {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			w.remove(ctx, path)
			continue
		}
		inst, err := IngestFile(ctx, w.ingest, path, w.config.Defaults)
		if err != nil {
			logger.Warn("Failed to index %s: %v", path, err)
			continue
		}
		logger.Info("Indexed %s (%s)", path, inst.ID)
	}
}

func (w *Watcher) remove(ctx context.Context, path string) {
	err := w.ingest.Remove(ctx, path, w.config.Defaults.OrgID)
	switch {
	case err == nil:
		logger.Info("Removed %s", path)
	case errors.Is(err, domain.ErrNotFound):
	default:
		logger.Warn("Failed to remove %s: %v", path, err)
	}
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := fsw.Add(path); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
		}
		return nil
	})
}
