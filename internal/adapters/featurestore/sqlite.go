// Package featurestore provides feature-graph store adapters.
// Clean Architecture: Adapter implementing ports.FeatureStore.
// SQLite gives durable single-file persistence of the whole document.
package featurestore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/deeean/go-vector/vector3"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
)

// SQLiteStore persists documents and their features in a SQLite file.
type SQLiteStore struct {
	mu sync.Mutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the store under dataPath.
func NewSQLiteStore(dataPath string) (*SQLiteStore, error) {
	if dataPath == "" {
		dataPath = "./data"
	}
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataPath, "features.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS features (
		doc_id TEXT NOT NULL,
		feature_id INTEGER NOT NULL,
		position INTEGER NOT NULL,
		kind TEXT NOT NULL,
		name TEXT NOT NULL,
		plane TEXT,
		height REAL,
		direction TEXT,
		sketch_id INTEGER,
		entity_records TEXT,
		hidden INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (doc_id, feature_id)
	);
	CREATE INDEX IF NOT EXISTS idx_features_doc ON features(doc_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save replaces the stored copy of the document in one transaction; a
// failure rolls back so no partial graph is ever committed.
func (s *SQLiteStore) Save(ctx context.Context, doc *entities.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM features WHERE doc_id = ?", doc.ID.String()); err != nil {
		return fmt.Errorf("clearing features: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO documents (id, name) VALUES (?, ?)
	`, doc.ID.String(), doc.Name); err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO features
			(doc_id, feature_id, position, kind, name, plane, height, direction, sketch_id, entity_records, hidden)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for pos, f := range doc.Features {
		hidden := 0
		if doc.IsHidden(f.FeatureID()) {
			hidden = 1
		}
		switch n := f.(type) {
		case *entities.SketchNode:
			recs := make([]string, 0, len(n.Entities))
			for _, e := range n.Entities {
				recs = append(recs, encodeEntity(e))
			}
			_, err = stmt.ExecContext(ctx,
				doc.ID.String(), n.ID, pos, "sketch", n.Name,
				encodePlane(n.Plane), nil, nil, nil,
				strings.Join(recs, "\n"), hidden)
		case *entities.ExtrudeNode:
			_, err = stmt.ExecContext(ctx,
				doc.ID.String(), n.ID, pos, "extrude", n.Name,
				nil, n.Height, encodeVec3(n.Direction), n.SketchID,
				nil, hidden)
		}
		if err != nil {
			return fmt.Errorf("inserting feature %d: %w", f.FeatureID(), err)
		}
	}

	return tx.Commit()
}

// Load rebuilds a document by name. The id allocator resumes past the
// highest stored feature id.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*entities.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var docID string
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM documents WHERE name = ?", name).Scan(&docID)
	if err != nil {
		return nil, fmt.Errorf("document %q: %w", name, err)
	}

	doc := entities.NewDocument(name)
	if id, err := uuid.Parse(docID); err == nil {
		doc.ID = id
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT feature_id, kind, name, plane, height, direction, sketch_id, entity_records, hidden
		FROM features
		WHERE doc_id = ?
		ORDER BY position
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying features: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var featureID, hidden int
		var kind, fname string
		var plane, direction, records sql.NullString
		var height sql.NullFloat64
		var sketchID sql.NullInt64
		if err := rows.Scan(&featureID, &kind, &fname, &plane, &height,
			&direction, &sketchID, &records, &hidden); err != nil {
			return nil, fmt.Errorf("scanning feature row: %w", err)
		}

		switch kind {
		case "sketch":
			node := &entities.SketchNode{
				ID:    featureID,
				Name:  fname,
				Plane: decodePlane(plane.String),
			}
			if records.Valid {
				for _, line := range strings.Split(records.String, "\n") {
					if line == "" {
						continue
					}
					if e, ok := decodeEntity(line); ok {
						node.Entities = append(node.Entities, e)
					}
				}
			}
			doc.AppendLoaded(node)
		case "extrude":
			node := &entities.ExtrudeNode{
				ID:        featureID,
				Name:      fname,
				Height:    height.Float64,
				Direction: decodeVec3(direction.String),
				SketchID:  int(sketchID.Int64),
			}
			doc.AppendLoaded(node)
			node.Evaluate(doc)
		default:
			// Unknown feature kinds are skipped, not fatal.
			continue
		}
		if hidden == 1 {
			doc.SetHidden(featureID, true)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading features: %w", err)
	}

	return doc, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DocumentNames lists the stored document names.
func (s *SQLiteStore) DocumentNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name FROM documents ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

// encodePlane renders a plane as "kind ox oy oz nx ny nz ux uy uz vx vy vz".
func encodePlane(p entities.Plane) string {
	parts := []string{strconv.Itoa(int(p.Kind))}
	for _, v := range []*vector3.Vector3{p.Origin, p.Normal, p.UAxis, p.VAxis} {
		parts = append(parts,
			formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
	}
	return strings.Join(parts, " ")
}

func decodePlane(s string) entities.Plane {
	fields := strings.Fields(s)
	if len(fields) != 13 {
		return entities.NewStandardPlane(entities.PlaneXY)
	}
	kind, err := strconv.Atoi(fields[0])
	if err != nil {
		return entities.NewStandardPlane(entities.PlaneXY)
	}
	vecs := make([]*vector3.Vector3, 4)
	for i := 0; i < 4; i++ {
		x, e1 := strconv.ParseFloat(fields[1+i*3], 64)
		y, e2 := strconv.ParseFloat(fields[2+i*3], 64)
		z, e3 := strconv.ParseFloat(fields[3+i*3], 64)
		if e1 != nil || e2 != nil || e3 != nil {
			return entities.NewStandardPlane(entities.PlaneXY)
		}
		vecs[i] = vector3.New(x, y, z)
	}
	return entities.Plane{
		Kind:   entities.PlaneKind(kind),
		Origin: vecs[0],
		Normal: vecs[1],
		UAxis:  vecs[2],
		VAxis:  vecs[3],
	}
}

func encodeVec3(v *vector3.Vector3) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%s %s %s",
		formatFloat(v.X), formatFloat(v.Y), formatFloat(v.Z))
}

func decodeVec3(s string) *vector3.Vector3 {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return nil
	}
	x, e1 := strconv.ParseFloat(fields[0], 64)
	y, e2 := strconv.ParseFloat(fields[1], 64)
	z, e3 := strconv.ParseFloat(fields[2], 64)
	if e1 != nil || e2 != nil || e3 != nil {
		return nil
	}
	return vector3.New(x, y, z)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
