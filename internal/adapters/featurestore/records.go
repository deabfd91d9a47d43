package featurestore

import (
	"strconv"
	"strings"

	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
)

// The store payload is private to this package and must reproduce the
// saved entity values exactly. It therefore keeps polylines as one
// POLYLINE record instead of reusing the sketch text format, which
// flattens them to independent segments.

// encodeEntity renders one entity as one store record.
func encodeEntity(e entities.Entity) string {
	if p, ok := e.(*entities.PolylineEntity); ok {
		parts := make([]string, 0, 1+2*len(p.Points))
		parts = append(parts, "POLYLINE")
		for _, pt := range p.Points {
			parts = append(parts, formatFloat(pt.X), formatFloat(pt.Y))
		}
		return strings.Join(parts, " ")
	}
	return e.Records()[0]
}

// decodeEntity rebuilds an entity from one store record. Unknown or
// malformed records report ok=false and are skipped by the loaders.
func decodeEntity(line string) (entities.Entity, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	if strings.ToUpper(fields[0]) != "POLYLINE" {
		return entities.ParseRecord(line)
	}

	coords := fields[1:]
	if len(coords) < 4 || len(coords)%2 != 0 {
		return nil, false
	}
	pts := make([]entities.Vec2, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		x, err1 := strconv.ParseFloat(coords[i], 64)
		y, err2 := strconv.ParseFloat(coords[i+1], 64)
		if err1 != nil || err2 != nil {
			return nil, false
		}
		pts = append(pts, entities.Vec2{X: x, Y: y})
	}
	return &entities.PolylineEntity{Points: pts}, true
}
