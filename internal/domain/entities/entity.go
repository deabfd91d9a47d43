package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// EntityKind tags the closed set of sketch primitives.
type EntityKind int

const (
	KindLine EntityKind = iota
	KindArc
	KindPolyline
)

// String returns the record token used in the sketch text format.
func (k EntityKind) String() string {
	switch k {
	case KindLine:
		return "LINE"
	case KindArc:
		return "ARC"
	default:
		return "POLYLINE"
	}
}

// Painter receives plane-local draw calls. Renderers implement a superset
// of this; entities depend only on what they actually emit.
type Painter interface {
	PaintLine(a, b Vec2)
	PaintArc(center Vec2, radius, start, sweep float64)
}

// Entity is a sketch-local 2D primitive. The variant set {Line, Arc,
// Polyline} is closed: the unexported marker keeps outside packages from
// adding variants, so paint/serialize switches stay exhaustive.
// Entities are owned by exactly one sketch and hold their defining points
// in that sketch plane's local coordinates.
type Entity interface {
	Kind() EntityKind
	Paint(p Painter)
	// Records renders the entity as sketch-file lines. Polylines flatten
	// to one LINE record per segment.
	Records() []string
	Clone() Entity

	sealedEntity()
}

// LineEntity is a straight segment between two points.
type LineEntity struct {
	From Vec2
	To   Vec2
}

func (e *LineEntity) Kind() EntityKind { return KindLine }

func (e *LineEntity) Paint(p Painter) {
	p.PaintLine(e.From, e.To)
}

func (e *LineEntity) Records() []string {
	return []string{fmt.Sprintf("LINE %s %s %s %s",
		ftoa(e.From.X), ftoa(e.From.Y), ftoa(e.To.X), ftoa(e.To.Y))}
}

func (e *LineEntity) Clone() Entity {
	c := *e
	return &c
}

func (e *LineEntity) sealedEntity() {}

// ArcEntity is a circular arc committed from a 3-point fit.
type ArcEntity struct {
	Def ArcDef
}

func (e *ArcEntity) Kind() EntityKind { return KindArc }

func (e *ArcEntity) Paint(p Painter) {
	p.PaintArc(e.Def.Center, e.Def.Radius, e.Def.Start, e.Def.Sweep)
}

func (e *ArcEntity) Records() []string {
	return []string{fmt.Sprintf("ARC %s %s %s %s %s",
		ftoa(e.Def.Center.X), ftoa(e.Def.Center.Y),
		ftoa(e.Def.Radius), ftoa(e.Def.Start), ftoa(e.Def.Sweep))}
}

func (e *ArcEntity) Clone() Entity {
	c := *e
	return &c
}

func (e *ArcEntity) sealedEntity() {}

// PolylineEntity is an ordered vertex chain; a closed polyline repeats its
// first vertex as the last.
type PolylineEntity struct {
	Points []Vec2
}

func (e *PolylineEntity) Kind() EntityKind { return KindPolyline }

func (e *PolylineEntity) Paint(p Painter) {
	for i := 1; i < len(e.Points); i++ {
		p.PaintLine(e.Points[i-1], e.Points[i])
	}
}

func (e *PolylineEntity) Records() []string {
	recs := make([]string, 0, len(e.Points))
	for i := 1; i < len(e.Points); i++ {
		recs = append(recs, fmt.Sprintf("LINE %s %s %s %s",
			ftoa(e.Points[i-1].X), ftoa(e.Points[i-1].Y),
			ftoa(e.Points[i].X), ftoa(e.Points[i].Y)))
	}
	return recs
}

func (e *PolylineEntity) Clone() Entity {
	c := &PolylineEntity{Points: make([]Vec2, len(e.Points))}
	copy(c.Points, e.Points)
	return c
}

func (e *PolylineEntity) sealedEntity() {}

// ParseRecord rebuilds an entity from one sketch-file line. Unknown leading
// tokens or malformed numbers report ok=false so loaders can skip the
// record without failing the whole file.
func ParseRecord(line string) (Entity, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}

	switch strings.ToUpper(fields[0]) {
	case "LINE":
		nums, ok := parseFloats(fields[1:], 4)
		if !ok {
			return nil, false
		}
		return &LineEntity{
			From: Vec2{X: nums[0], Y: nums[1]},
			To:   Vec2{X: nums[2], Y: nums[3]},
		}, true
	case "ARC":
		nums, ok := parseFloats(fields[1:], 5)
		if !ok {
			return nil, false
		}
		return &ArcEntity{Def: ArcDef{
			Center: Vec2{X: nums[0], Y: nums[1]},
			Radius: nums[2],
			Start:  nums[3],
			Sweep:  nums[4],
		}}, true
	default:
		return nil, false
	}
}

// ftoa formats a coordinate losslessly for the text format.
func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func parseFloats(fields []string, n int) ([]float64, bool) {
	if len(fields) != n {
		return nil, false
	}
	nums := make([]float64, n)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, false
		}
		nums[i] = v
	}
	return nums, true
}
