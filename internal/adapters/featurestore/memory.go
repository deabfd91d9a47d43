// Package featurestore provides feature-graph store adapters.
// The in-memory store backs tests and scratch sessions; it can be swapped
// for the SQLite adapter without changing usecases.
package featurestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
)

// InMemoryStore keeps saved documents in process memory. Documents are
// round-tripped through the same record encoding as the SQLite store so
// that a load always yields an independent copy.
type InMemoryStore struct {
	mu   sync.Mutex
	docs map[string]*savedDoc
}

type savedDoc struct {
	id       string
	features []savedFeature
	hidden   map[int]bool
}

type savedFeature struct {
	id       int
	kind     entities.FeatureKind
	name     string
	plane    string
	height   float64
	dir      string
	sketchID int
	records  []string
}

// NewInMemoryStore creates an empty in-memory feature store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{docs: make(map[string]*savedDoc)}
}

// Save snapshots the document under its name.
func (s *InMemoryStore) Save(ctx context.Context, doc *entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := &savedDoc{id: doc.ID.String(), hidden: make(map[int]bool)}
	for _, f := range doc.Features {
		if doc.IsHidden(f.FeatureID()) {
			saved.hidden[f.FeatureID()] = true
		}
		switch n := f.(type) {
		case *entities.SketchNode:
			recs := make([]string, 0, len(n.Entities))
			for _, e := range n.Entities {
				recs = append(recs, encodeEntity(e))
			}
			saved.features = append(saved.features, savedFeature{
				id:      n.ID,
				kind:    entities.FeatureSketch,
				name:    n.Name,
				plane:   encodePlane(n.Plane),
				records: recs,
			})
		case *entities.ExtrudeNode:
			saved.features = append(saved.features, savedFeature{
				id:       n.ID,
				kind:     entities.FeatureExtrude,
				name:     n.Name,
				height:   n.Height,
				dir:      encodeVec3(n.Direction),
				sketchID: n.SketchID,
			})
		}
	}
	s.docs[doc.Name] = saved
	return nil
}

// Load rebuilds an independent copy of the named document.
func (s *InMemoryStore) Load(ctx context.Context, name string) (*entities.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, ok := s.docs[name]
	if !ok {
		return nil, fmt.Errorf("document %q: not found", name)
	}

	doc := entities.NewDocument(name)
	if id, err := uuid.Parse(saved.id); err == nil {
		doc.ID = id
	}
	for _, f := range saved.features {
		switch f.kind {
		case entities.FeatureSketch:
			node := &entities.SketchNode{
				ID:    f.id,
				Name:  f.name,
				Plane: decodePlane(f.plane),
			}
			for _, rec := range f.records {
				if e, ok := decodeEntity(rec); ok {
					node.Entities = append(node.Entities, e)
				}
			}
			doc.AppendLoaded(node)
		case entities.FeatureExtrude:
			node := &entities.ExtrudeNode{
				ID:        f.id,
				Name:      f.name,
				Height:    f.height,
				Direction: decodeVec3(f.dir),
				SketchID:  f.sketchID,
			}
			doc.AppendLoaded(node)
			node.Evaluate(doc)
		}
	}
	for id := range saved.hidden {
		doc.SetHidden(id, true)
	}
	return doc, nil
}

// Close is a no-op for the in-memory store.
func (s *InMemoryStore) Close() error { return nil }
