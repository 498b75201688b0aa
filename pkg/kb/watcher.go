package kb

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Invalidator receives change notifications for knowledge bases. The
// registry implements this to drop its cached engine when a catalog file
// changes on disk.
type Invalidator interface {
	Invalidate(name string)
}

// Watcher follows the knowledge directory and fans catalog-file changes
// into an Invalidator until closed.
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *zap.Logger
	done    chan struct{}
}

// NewWatcher starts watching the catalog's directory.
func NewWatcher(c *Catalog, inv Invalidator, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating knowledge watcher: %w", err)
	}

	if err := fw.Add(c.Dir()); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watching knowledge dir: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		logger:  logger,
		done:    make(chan struct{}),
	}
	go w.run(inv)

	return w, nil
}

func (w *Watcher) run(inv Invalidator) {
	defer close(w.done)

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			base := filepath.Base(event.Name)
			if !strings.HasSuffix(base, catalogExt) {
				continue
			}

			name := strings.TrimSuffix(base, catalogExt)
			w.logger.Debug("knowledge base changed",
				zap.String("name", name),
				zap.String("op", event.Op.String()),
			)
			inv.Invalidate(name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("knowledge watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher and waits for the event loop to drain.
func (w *Watcher) Close() error {
	err := w.watcher.Close()
	<-w.done
	return err
}
