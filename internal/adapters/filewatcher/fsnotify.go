// Package filewatcher monitors exported sketch files for outside edits.
// Clean Architecture: Adapter implementing ports.SketchWatcher.
//
// Editors rarely produce one clean event per save: writes arrive in
// bursts, and atomic-save tools (this module's own sketch export
// included) write a temp file and rename it over the target. Raw
// fsnotify events are therefore coalesced per path over a short settle
// window, so the console reports one change per save, not one per
// syscall.
package filewatcher

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tsao100/AICAD-sub000/internal/domain/ports"
)

// defaultSettle is how long a path must stay quiet before its coalesced
// event is emitted.
const defaultSettle = 250 * time.Millisecond

// FSNotifyWatcher implements ports.SketchWatcher over fsnotify.
type FSNotifyWatcher struct {
	watcher    *fsnotify.Watcher
	extensions []string
	settle     time.Duration
}

// NewFSNotifyWatcher creates a sketch file watcher. With no extensions
// given it watches the formats the sketch exporter writes.
func NewFSNotifyWatcher(extensions []string) (*FSNotifyWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if len(extensions) == 0 {
		extensions = []string{".sk", ".sketch"}
	}
	return &FSNotifyWatcher{
		watcher:    w,
		extensions: extensions,
		settle:     defaultSettle,
	}, nil
}

// Watch starts monitoring dir. Events for watched extensions are
// coalesced per path and emitted once the path has settled.
func (w *FSNotifyWatcher) Watch(ctx context.Context, dir string) (<-chan ports.FileEvent, error) {
	if err := w.watcher.Add(dir); err != nil {
		return nil, err
	}

	events := make(chan ports.FileEvent, 100)

	go func() {
		defer close(events)

		pending := make(map[string]ports.FileOperation)
		var flush <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if !w.isWatchedExtension(event.Name) {
					continue
				}
				op, mapped := mapOperation(event.Op)
				if !mapped {
					continue
				}
				if prev, seen := pending[event.Name]; seen {
					op = coalesce(prev, op)
				}
				pending[event.Name] = op
				flush = time.After(w.settle)

			case <-flush:
				for path, op := range pending {
					select {
					case events <- ports.FileEvent{Path: path, Operation: op}:
					case <-ctx.Done():
						return
					}
				}
				pending = make(map[string]ports.FileOperation)
				flush = nil

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Printf("[ERROR] watching sketch files: %v", err)
			}
		}
	}()

	return events, nil
}

// Stop closes the underlying watcher; the event channel closes with it.
func (w *FSNotifyWatcher) Stop() error {
	return w.watcher.Close()
}

// mapOperation translates a raw fsnotify op. Rename means the path
// stopped existing under its old name, which save-via-rename tools and
// file moves both produce, so it reports as a deletion of that path.
func mapOperation(op fsnotify.Op) (ports.FileOperation, bool) {
	switch {
	case op.Has(fsnotify.Create):
		return ports.FileCreated, true
	case op.Has(fsnotify.Write):
		return ports.FileModified, true
	case op.Has(fsnotify.Remove), op.Has(fsnotify.Rename):
		return ports.FileDeleted, true
	}
	return 0, false
}

// coalesce folds a new raw operation into the one already pending for
// the same path within the settle window.
func coalesce(prev, next ports.FileOperation) ports.FileOperation {
	switch {
	case next == ports.FileDeleted:
		return ports.FileDeleted
	case prev == ports.FileCreated:
		// Still a new file overall, however many writes follow.
		return ports.FileCreated
	case prev == ports.FileDeleted && next == ports.FileCreated:
		// Removed and recreated in one burst: the user sees a changed file.
		return ports.FileModified
	default:
		return next
	}
}

func (w *FSNotifyWatcher) isWatchedExtension(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}
