package entities

import (
	"fmt"

	"github.com/deeean/go-vector/vector3"
	"github.com/google/uuid"
)

// FeatureKind tags the feature variants held by a document.
type FeatureKind int

const (
	FeatureSketch FeatureKind = iota
	FeatureExtrude
)

// Feature is a node in the document's dependency graph. Like Entity, the
// variant set is closed.
type Feature interface {
	FeatureID() int
	FeatureName() string
	FeatureKind() FeatureKind

	sealedFeature()
}

// SketchNode is a named 2D entity collection attached to a plane.
// The plane is immutable once the sketch is created; entities are appended
// in draw/query order during sketch-edit mode and never deleted here.
type SketchNode struct {
	ID       int
	Name     string
	Plane    Plane
	Entities []Entity
}

func (s *SketchNode) FeatureID() int           { return s.ID }
func (s *SketchNode) FeatureName() string      { return s.Name }
func (s *SketchNode) FeatureKind() FeatureKind { return FeatureSketch }
func (s *SketchNode) sealedFeature()           {}

// AddEntity appends a primitive to the sketch.
func (s *SketchNode) AddEntity(e Entity) {
	s.Entities = append(s.Entities, e)
}

// ExtrudeNode sweeps a sketch's profile along Direction by Height. The
// sketch is referenced by id, not by pointer: a lookup that misses means
// the dependency is dangling and the extrude degrades gracefully.
type ExtrudeNode struct {
	ID        int
	Name      string
	Height    float64
	Direction *vector3.Vector3
	SketchID  int

	// Derived from Height/Direction/sketch on Evaluate.
	CapOrigin    *vector3.Vector3
	ProfileCount int
	Evaluated    bool
}

func (e *ExtrudeNode) FeatureID() int           { return e.ID }
func (e *ExtrudeNode) FeatureName() string      { return e.Name }
func (e *ExtrudeNode) FeatureKind() FeatureKind { return FeatureExtrude }
func (e *ExtrudeNode) sealedFeature()           {}

// Evaluate recomputes the cached derived geometry. It is re-run after every
// height edit. A missing sketch leaves the node un-evaluated rather than
// failing: the referent may legitimately be gone.
func (e *ExtrudeNode) Evaluate(doc *Document) {
	e.Evaluated = false
	sketch := doc.FindSketch(e.SketchID)
	if sketch == nil {
		return
	}
	dir := e.Direction
	if dir == nil || dir.Magnitude() < 1e-12 {
		dir = sketch.Plane.Normal
	}
	e.CapOrigin = sketch.Plane.Origin.Add(dir.Normalize().MulScalar(e.Height))
	e.ProfileCount = len(sketch.Entities)
	e.Evaluated = true
}

// Document owns the feature graph: every sketch and extrude in insertion
// order, addressed by unique monotonic ids. Ids are never reused, even
// after a (currently unsupported) deletion.
type Document struct {
	ID       uuid.UUID
	Name     string
	Features []Feature

	// Hide-only visibility, kept outside the nodes themselves.
	Hidden map[int]bool

	nextID int
}

// NewDocument creates an empty document with a fresh identity.
func NewDocument(name string) *Document {
	return &Document{
		ID:     uuid.New(),
		Name:   name,
		Hidden: make(map[int]bool),
		nextID: 1,
	}
}

// NextID returns the id the next created feature would receive.
func (d *Document) NextID() int { return d.nextID }

func (d *Document) allocID() int {
	id := d.nextID
	d.nextID++
	return id
}

// CreateSketch allocates a sketch on the given plane and appends it to the
// feature list.
func (d *Document) CreateSketch(plane Plane, name string) *SketchNode {
	id := d.allocID()
	if name == "" {
		name = fmt.Sprintf("Sketch%d", id)
	}
	s := &SketchNode{ID: id, Name: name, Plane: plane}
	d.Features = append(d.Features, s)
	return s
}

// CreateExtrude allocates an extrude referencing sketchID. Returns nil when
// the sketch does not exist; callers must check.
func (d *Document) CreateExtrude(sketchID int, height float64, direction *vector3.Vector3, name string) *ExtrudeNode {
	if d.FindSketch(sketchID) == nil {
		return nil
	}
	id := d.allocID()
	if name == "" {
		name = fmt.Sprintf("Extrude%d", id)
	}
	e := &ExtrudeNode{
		ID:        id,
		Name:      name,
		Height:    height,
		Direction: direction,
		SketchID:  sketchID,
	}
	e.Evaluate(d)
	d.Features = append(d.Features, e)
	return e
}

// FindFeature scans the feature list for id. Linear, which is fine at the
// scale a document holds; nil means the id is absent or dangling.
func (d *Document) FindFeature(id int) Feature {
	for _, f := range d.Features {
		if f.FeatureID() == id {
			return f
		}
	}
	return nil
}

// FindSketch returns the sketch with the given id, or nil.
func (d *Document) FindSketch(id int) *SketchNode {
	if s, ok := d.FindFeature(id).(*SketchNode); ok {
		return s
	}
	return nil
}

// Sketches returns the document's sketches in insertion order.
func (d *Document) Sketches() []*SketchNode {
	var out []*SketchNode
	for _, f := range d.Features {
		if s, ok := f.(*SketchNode); ok {
			out = append(out, s)
		}
	}
	return out
}

// RestoreID registers a feature loaded from storage, keeping nextID past
// every existing id so reloaded documents never hand out duplicates.
func (d *Document) RestoreID(id int) {
	if id >= d.nextID {
		d.nextID = id + 1
	}
}

// AppendLoaded appends a feature rebuilt by a store, bumping nextID.
func (d *Document) AppendLoaded(f Feature) {
	d.Features = append(d.Features, f)
	d.RestoreID(f.FeatureID())
}

// SetHidden flips a feature's hide-only visibility flag.
func (d *Document) SetHidden(id int, hidden bool) {
	d.Hidden[id] = hidden
}

// IsHidden reports whether a feature is hidden from display.
func (d *Document) IsHidden(id int) bool {
	return d.Hidden[id]
}
