// Package ports defines interfaces for external dependencies.
// Clean Architecture: These are the boundaries - usecases depend on these
// abstractions, not concrete implementations. The renderer, the persistent
// feature store, coordinate parsing and file watching are all collaborators
// whose concrete form is irrelevant to the core's correctness.
package ports

import (
	"context"

	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
)

// Renderer draws entities, previews and view furniture for the current
// state. It extends the Painter contract entities emit through with the
// preview/committed distinction: preview geometry is transient and must
// never end up persisted.
type Renderer interface {
	entities.Painter

	// BeginPreview marks subsequent paint calls as rubber-band preview.
	BeginPreview()
	// EndPreview returns to committed-geometry painting.
	EndPreview()
	// Clear wipes the drawing surface before a repaint.
	Clear()
}

// FeatureStore durably records and reloads the feature graph.
type FeatureStore interface {
	// Save persists the whole document atomically; on error no partial
	// state may remain committed.
	Save(ctx context.Context, doc *entities.Document) error

	// Load rebuilds a document by name. The returned document's id
	// allocator must resume past every stored feature id.
	Load(ctx context.Context, name string) (*entities.Document, error)

	// Close releases the underlying storage.
	Close() error
}

// PointParser resolves typed coordinate text (absolute, @relative, polar)
// into a plane-local point. prev is the previous picked point for relative
// forms; nil when no previous point exists.
type PointParser interface {
	Parse(text string, prev *entities.Vec2) (entities.Vec2, error)
}

// Messenger surfaces prompts and recoverable errors to whatever input
// channel the UI exposes.
type Messenger interface {
	Prompt(msg string)
	Info(msg string)
	Error(msg string)
}

// SketchWatcher monitors a directory of sketch files for external changes.
type SketchWatcher interface {
	// Watch starts monitoring the directory and emits events.
	Watch(ctx context.Context, dir string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a sketch file change on disk.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)
