package entities

import "math"

// MinScale is the zoom floor; the screen transform must stay invertible,
// so the scale is never driven to zero.
const MinScale = 1e-6

// Viewport is the invertible affine mapping between world and screen
// coordinates: screen = (world - pan) * scale.
type Viewport struct {
	PanX  float64
	PanY  float64
	Scale float64

	// GridSpacing, when positive, enables snapping of delivered points.
	GridSpacing float64
	SnapEnabled bool

	// MinScale, when positive, overrides the default zoom floor.
	MinScale float64
}

// NewViewport returns a viewport at the world origin with unit scale.
func NewViewport() *Viewport {
	return &Viewport{Scale: 1}
}

// ToScreen maps a world point to screen coordinates.
func (v *Viewport) ToScreen(w Vec2) Vec2 {
	return Vec2{
		X: (w.X - v.PanX) * v.Scale,
		Y: (w.Y - v.PanY) * v.Scale,
	}
}

// ToWorld maps a screen point back to world coordinates. Exact inverse of
// ToScreen up to floating-point tolerance.
func (v *Viewport) ToWorld(s Vec2) Vec2 {
	return Vec2{
		X: s.X/v.Scale + v.PanX,
		Y: s.Y/v.Scale + v.PanY,
	}
}

// Pan shifts the view by a world-space displacement.
func (v *Viewport) Pan(dx, dy float64) {
	v.PanX += dx
	v.PanY += dy
}

// Zoom multiplies the current scale, clamping at the zoom floor.
func (v *Viewport) Zoom(factor float64) {
	floor := v.MinScale
	if floor <= 0 {
		floor = MinScale
	}
	s := v.Scale * factor
	if s < floor {
		s = floor
	}
	v.Scale = s
}

// Snap rounds a world point to the grid when snapping is enabled.
func (v *Viewport) Snap(p Vec2) Vec2 {
	if !v.SnapEnabled || v.GridSpacing <= 0 {
		return p
	}
	g := v.GridSpacing
	return Vec2{
		X: math.Round(p.X/g) * g,
		Y: math.Round(p.Y/g) * g,
	}
}
