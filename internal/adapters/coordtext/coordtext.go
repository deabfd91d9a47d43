// Package coordtext parses typed coordinate entry.
// Clean Architecture: Adapter implementing ports.PointParser.
//
// Grammar, in order of precedence:
//
//	@X,Y or @X Y   relative to the previous point
//	D<A            polar: distance D at angle A degrees CCW from +X,
//	               combinable with the @ prefix
//	X,Y or X Y     absolute Cartesian
//
// Separators are any run of commas and/or whitespace.
package coordtext

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
)

// Parser implements ports.PointParser.
type Parser struct{}

// New returns the coordinate text parser.
func New() *Parser {
	return &Parser{}
}

// Parse resolves one typed line into a point. A parse failure leaves the
// caller's pending request untouched; the error is for re-prompting.
func (p *Parser) Parse(text string, prev *entities.Vec2) (entities.Vec2, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return entities.Vec2{}, fmt.Errorf("empty coordinate")
	}

	relative := false
	if strings.HasPrefix(s, "@") {
		if prev == nil {
			return entities.Vec2{}, fmt.Errorf("relative coordinate %q needs a previous point", text)
		}
		relative = true
		s = strings.TrimSpace(s[1:])
	}

	var d entities.Vec2
	if strings.Contains(s, "<") {
		polar, err := parsePolar(s)
		if err != nil {
			return entities.Vec2{}, err
		}
		d = polar
	} else {
		cart, err := parseCartesian(s)
		if err != nil {
			return entities.Vec2{}, err
		}
		d = cart
	}

	if relative {
		return prev.Add(d), nil
	}
	return d, nil
}

// parsePolar handles D<A: distance D at angle A degrees, CCW from +X.
func parsePolar(s string) (entities.Vec2, error) {
	parts := strings.SplitN(s, "<", 2)
	dist, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	ang, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil {
		return entities.Vec2{}, fmt.Errorf("bad polar coordinate %q", s)
	}
	rad := ang * math.Pi / 180
	return entities.Vec2{
		X: dist * math.Cos(rad),
		Y: dist * math.Sin(rad),
	}, nil
}

// parseCartesian handles X,Y / X Y with any run of separators.
func parseCartesian(s string) (entities.Vec2, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	if len(fields) != 2 {
		return entities.Vec2{}, fmt.Errorf("expected two coordinates in %q", s)
	}
	x, err1 := strconv.ParseFloat(fields[0], 64)
	y, err2 := strconv.ParseFloat(fields[1], 64)
	if err1 != nil || err2 != nil {
		return entities.Vec2{}, fmt.Errorf("non-numeric coordinate in %q", s)
	}
	return entities.Vec2{X: x, Y: y}, nil
}
