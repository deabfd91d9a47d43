package usecases

import (
	"github.com/tsao100/AICAD-sub000/internal/domain/entities"
	"github.com/tsao100/AICAD-sub000/internal/domain/ports"
)

// RubberBandMode selects the in-progress construction being previewed.
type RubberBandMode int

const (
	RubberNone RubberBandMode = iota
	RubberLine
	RubberPolyline
	RubberRectangle
	RubberArc3Point
)

// RubberBand holds the transient preview of an in-progress entity. It is
// mutated on every pointer move while active and cleared when the owning
// command commits or cancels. Preview geometry is purely a function of
// this state and is never persisted.
type RubberBand struct {
	Mode         RubberBandMode
	ActiveFlag   bool
	StartPoint   entities.Vec2
	CurrentPoint entities.Vec2
	Intermediate []entities.Vec2
}

// Begin arms the preview in the given mode anchored at start.
func (r *RubberBand) Begin(mode RubberBandMode, start entities.Vec2) {
	r.Mode = mode
	r.ActiveFlag = true
	r.StartPoint = start
	r.CurrentPoint = start
	r.Intermediate = nil
}

// Active reports whether a preview is live.
func (r *RubberBand) Active() bool { return r.ActiveFlag }

// Update tracks the live cursor position.
func (r *RubberBand) Update(current entities.Vec2) {
	if !r.ActiveFlag {
		return
	}
	r.CurrentPoint = current
}

// Push records an intermediate picked point (polyline vertices, the second
// arc point) and re-anchors line-style previews there.
func (r *RubberBand) Push(p entities.Vec2) {
	if !r.ActiveFlag {
		return
	}
	r.Intermediate = append(r.Intermediate, p)
}

// Clear drops all preview state.
func (r *RubberBand) Clear() {
	*r = RubberBand{}
}

// Paint draws the current preview through the renderer. The arc preview
// resolves through the same CircleFrom3Points fit that commit uses, so
// preview equals result; a collinear stage degrades to a straight line.
func (r *RubberBand) Paint(renderer ports.Renderer) {
	if !r.ActiveFlag {
		return
	}
	renderer.BeginPreview()
	defer renderer.EndPreview()

	switch r.Mode {
	case RubberLine:
		renderer.PaintLine(r.anchor(), r.CurrentPoint)

	case RubberPolyline:
		prev := r.StartPoint
		for _, p := range r.Intermediate {
			renderer.PaintLine(prev, p)
			prev = p
		}
		renderer.PaintLine(prev, r.CurrentPoint)

	case RubberRectangle:
		corners := RectangleCorners(r.StartPoint, r.CurrentPoint)
		for i := 1; i < len(corners); i++ {
			renderer.PaintLine(corners[i-1], corners[i])
		}

	case RubberArc3Point:
		if len(r.Intermediate) == 0 {
			renderer.PaintLine(r.StartPoint, r.CurrentPoint)
			return
		}
		def, ok := entities.CircleFrom3Points(r.StartPoint, r.Intermediate[0], r.CurrentPoint)
		if !ok {
			renderer.PaintLine(r.StartPoint, r.CurrentPoint)
			return
		}
		renderer.PaintArc(def.Center, def.Radius, def.Start, def.Sweep)
	}
}

func (r *RubberBand) anchor() entities.Vec2 {
	if n := len(r.Intermediate); n > 0 {
		return r.Intermediate[n-1]
	}
	return r.StartPoint
}

// RectangleCorners expands two opposite corners into the closed 5-point
// outline (first corner repeated last), winding through (c2.x, c1.y).
func RectangleCorners(c1, c2 entities.Vec2) []entities.Vec2 {
	return []entities.Vec2{
		c1,
		{X: c2.X, Y: c1.Y},
		c2,
		{X: c1.X, Y: c2.Y},
		c1,
	}
}
