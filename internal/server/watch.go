package server

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	derrors "git.home.luguber.info/inful/swaggerdoc/internal/foundation/errors"
	"git.home.luguber.info/inful/swaggerdoc/internal/logfields"
)

// DefaultDebounce is the quiet period after the last change before a rebuild
// starts.
const DefaultDebounce = 300 * time.Millisecond

// RebuildFunc rebuilds the site.
type RebuildFunc func(ctx context.Context) error

// Watcher rebuilds the site when files under Root change.
type Watcher struct {
	Root     string
	Ignore   []string // absolute dirs whose events never trigger a rebuild
	Debounce time.Duration
	Rebuild  RebuildFunc
	Logger   *slog.Logger
}

// Run watches until ctx is canceled. Rebuilds never overlap; a change during
// a rebuild schedules exactly one more.
func (w *Watcher) Run(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return derrors.WrapError(err, derrors.CategoryFileSystem, "create file watcher").Build()
	}
	defer func() { _ = fw.Close() }()
	w.addDirsRecursive(fw, w.Root, logger)

	rebuildReq, trigger, stop := newDebouncer(debounce)
	defer stop()
	done := w.startRebuildWorker(ctx, rebuildReq, logger)
	defer func() { <-done }()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if w.ignored(ev.Name) {
				continue
			}
			if ev.Op&fsnotify.Create == fsnotify.Create {
				if fi, statErr := os.Stat(ev.Name); statErr == nil && fi.IsDir() {
					w.addDirsRecursive(fw, ev.Name, logger)
				}
			}
			logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case werr, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(werr))
		}
	}
}

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

// startRebuildWorker runs rebuilds sequentially. Requests arriving while a
// rebuild runs collapse into one pending rebuild.
func (w *Watcher) startRebuildWorker(ctx context.Context, rebuildReq <-chan struct{}, logger *slog.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-rebuildReq:
			}
			for {
				logger.Info("Change detected; rebuilding site")
				if err := w.Rebuild(ctx); err != nil {
					logger.Warn("Rebuild failed", logfields.Error(err))
				}
				select {
				case <-rebuildReq:
					if ctx.Err() != nil {
						return
					}
					continue
				default:
				}
				break
			}
		}
	}()
	return done
}

func (w *Watcher) addDirsRecursive(fw *fsnotify.Watcher, root string, logger *slog.Logger) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && (w.ignored(path) || strings.HasPrefix(d.Name(), ".")) {
			return filepath.SkipDir
		}
		if addErr := fw.Add(path); addErr != nil {
			logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(addErr))
		}
		return nil
	})
}

func (w *Watcher) ignored(path string) bool {
	if shouldIgnoreEvent(path) {
		return true
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	for _, dir := range w.Ignore {
		if abs == dir || strings.HasPrefix(abs, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// shouldIgnoreEvent reports editor scratch files and OS metadata.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."):
		return true
	case strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"):
		return true
	case base == "Thumbs.db":
		return true
	}
	return false
}
