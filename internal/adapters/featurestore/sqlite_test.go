package featurestore

import (
	"context"
	"math"
	"testing"

	"github.com/deeean/go-vector/vector3"

	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
)

// buildDocument assembles a document with a populated sketch, an extrude on
// it, and one hidden feature, exercising every column the stores persist.
func buildDocument() *entities.Document {
	doc := entities.NewDocument("bracket")

	sketch := doc.CreateSketch(entities.NewStandardPlane(entities.PlaneXZ), "")
	sketch.AddEntity(&entities.LineEntity{
		From: entities.Vec2{X: 0, Y: 0}, To: entities.Vec2{X: 20, Y: 0}})
	sketch.AddEntity(&entities.ArcEntity{Def: entities.ArcDef{
		Center: entities.Vec2{X: 10, Y: 0}, Radius: 10, Start: 0, Sweep: math.Pi}})
	sketch.AddEntity(&entities.PolylineEntity{Points: []entities.Vec2{
		{X: 0, Y: 0}, {X: 0, Y: 5}, {X: 20, Y: 5}}})

	doc.CreateExtrude(sketch.ID, 12.5, vector3.New(0, 1, 0), "")
	doc.SetHidden(sketch.ID, true)
	return doc
}

func verifyRoundTrip(t *testing.T, orig, loaded *entities.Document) {
	t.Helper()

	if len(loaded.Features) != len(orig.Features) {
		t.Fatalf("feature count: got %d, want %d", len(loaded.Features), len(orig.Features))
	}
	if loaded.NextID() != orig.NextID() {
		t.Errorf("id allocator: got %d, want %d", loaded.NextID(), orig.NextID())
	}

	sketch, ok := loaded.Features[0].(*entities.SketchNode)
	if !ok {
		t.Fatalf("first feature is %T, want sketch", loaded.Features[0])
	}
	if len(sketch.Entities) != 3 {
		t.Fatalf("sketch entities: got %d, want 3", len(sketch.Entities))
	}
	if sketch.Plane.Kind != entities.PlaneXZ {
		t.Errorf("plane kind: got %v, want %v", sketch.Plane.Kind, entities.PlaneXZ)
	}
	if !loaded.IsHidden(sketch.ID) {
		t.Error("sketch should still be hidden after reload")
	}

	arc, ok := sketch.Entities[1].(*entities.ArcEntity)
	if !ok {
		t.Fatalf("second entity is %T, want arc", sketch.Entities[1])
	}
	if arc.Def.Radius != 10 || arc.Def.Sweep != math.Pi {
		t.Errorf("arc did not round trip: %+v", arc.Def)
	}

	// Polylines come back as one entity, not flattened segments.
	poly, ok := sketch.Entities[2].(*entities.PolylineEntity)
	if !ok {
		t.Fatalf("third entity is %T, want polyline", sketch.Entities[2])
	}
	wantPts := []entities.Vec2{{X: 0, Y: 0}, {X: 0, Y: 5}, {X: 20, Y: 5}}
	if len(poly.Points) != len(wantPts) {
		t.Fatalf("polyline vertices: got %d, want %d", len(poly.Points), len(wantPts))
	}
	for i := range wantPts {
		if poly.Points[i] != wantPts[i] {
			t.Errorf("polyline vertex %d: got %v, want %v", i, poly.Points[i], wantPts[i])
		}
	}

	extrude, ok := loaded.Features[1].(*entities.ExtrudeNode)
	if !ok {
		t.Fatalf("second feature is %T, want extrude", loaded.Features[1])
	}
	if extrude.Height != 12.5 || extrude.SketchID != sketch.ID {
		t.Errorf("extrude fields: %+v", extrude)
	}
	if !extrude.Evaluated {
		t.Error("extrude should be re-evaluated on load")
	}
	if extrude.ProfileCount != 3 {
		t.Errorf("profile count: got %d, want 3", extrude.ProfileCount)
	}
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	doc := buildDocument()
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.Load(ctx, "bracket")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.ID != doc.ID {
		t.Errorf("document identity: got %s, want %s", loaded.ID, doc.ID)
	}
	verifyRoundTrip(t, doc, loaded)
}

func TestSQLiteStore_SaveReplacesPreviousCopy(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	doc := buildDocument()
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("first save: %v", err)
	}

	doc.CreateSketch(entities.NewStandardPlane(entities.PlaneYZ), "Second")
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := store.Load(ctx, "bracket")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Features) != 3 {
		t.Errorf("expected 3 features after resave, got %d", len(loaded.Features))
	}
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	doc := buildDocument()
	if err := store.Save(ctx, doc); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := NewSQLiteStore(dir)
	if err != nil {
		t.Fatalf("reopening store: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load(ctx, "bracket")
	if err != nil {
		t.Fatalf("load after reopen: %v", err)
	}
	verifyRoundTrip(t, doc, loaded)
}

func TestSQLiteStore_LoadUnknownDocument(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer store.Close()

	if _, err := store.Load(context.Background(), "missing"); err == nil {
		t.Error("loading an unknown document should fail")
	}
}

func TestSQLiteStore_DocumentNames(t *testing.T) {
	store, err := NewSQLiteStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, name := range []string{"zeta", "alpha"} {
		doc := entities.NewDocument(name)
		doc.CreateSketch(entities.NewStandardPlane(entities.PlaneXY), "")
		if err := store.Save(ctx, doc); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	names, err := store.DocumentNames(ctx)
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("expected sorted [alpha zeta], got %v", names)
	}
}

func TestEntityEncoding_PolylineRoundTrip(t *testing.T) {
	orig := &entities.PolylineEntity{Points: []entities.Vec2{
		{X: 0, Y: 0}, {X: 1.5, Y: 0}, {X: 1.5, Y: -2.25}}}

	back, ok := decodeEntity(encodeEntity(orig))
	if !ok {
		t.Fatal("polyline record did not decode")
	}
	poly, ok := back.(*entities.PolylineEntity)
	if !ok {
		t.Fatalf("decoded %T, want polyline", back)
	}
	for i := range orig.Points {
		if poly.Points[i] != orig.Points[i] {
			t.Errorf("vertex %d: got %v, want %v", i, poly.Points[i], orig.Points[i])
		}
	}
}

func TestEntityEncoding_MalformedPolylineRejected(t *testing.T) {
	for _, bad := range []string{
		"POLYLINE",
		"POLYLINE 0 0",
		"POLYLINE 0 0 1",
		"POLYLINE 0 0 one 1",
	} {
		if _, ok := decodeEntity(bad); ok {
			t.Errorf("decodeEntity(%q) should reject", bad)
		}
	}
}

func TestPlaneEncoding_RoundTrip(t *testing.T) {
	plane, ok := entities.PlaneFromNormal(vector3.New(1, 2, 3), vector3.New(0, 0, 1))
	if !ok {
		t.Fatal("plane construction failed")
	}

	decoded := decodePlane(encodePlane(plane))
	if decoded.Kind != plane.Kind {
		t.Errorf("kind: got %v, want %v", decoded.Kind, plane.Kind)
	}
	if decoded.Origin.X != 1 || decoded.Origin.Y != 2 || decoded.Origin.Z != 3 {
		t.Errorf("origin: got %+v", decoded.Origin)
	}
	if decoded.Normal.Z != 1 {
		t.Errorf("normal: got %+v", decoded.Normal)
	}
}

func TestPlaneEncoding_MalformedFallsBackToXY(t *testing.T) {
	for _, bad := range []string{"", "1 2 3", "x 0 0 0 0 0 1 0 0 0 0 0 0"} {
		p := decodePlane(bad)
		if p.Kind != entities.PlaneXY {
			t.Errorf("decodePlane(%q): expected XY fallback, got kind %v", bad, p.Kind)
		}
	}
}
