// Package entities contains the core geometric and feature-model objects.
// These are the enterprise business rules - pure domain objects with no
// knowledge of rendering, storage or the command surface.
package entities

import (
	"math"

	"github.com/deeean/go-vector/vector3"
)

// Vec2 is a point or displacement in a sketch plane's local 2D coordinates.
type Vec2 struct {
	X float64
	Y float64
}

// Add returns the component-wise sum of two vectors.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns the component-wise difference of two vectors.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Dist returns the Euclidean distance between two points.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Cross returns the z component of the cross product of two 2D vectors.
// Its sign encodes winding: positive for a counter-clockwise turn.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

// PlaneKind identifies one of the standard sketch planes, or a custom one.
type PlaneKind int

const (
	PlaneXY PlaneKind = iota
	PlaneXZ
	PlaneYZ
	PlaneCustom
)

// String returns the plane name used in listings and persistence.
func (k PlaneKind) String() string {
	switch k {
	case PlaneXY:
		return "XY"
	case PlaneXZ:
		return "XZ"
	case PlaneYZ:
		return "YZ"
	default:
		return "CUSTOM"
	}
}

// Plane is an oriented 2D coordinate frame embedded in 3D space.
// Normal, UAxis and VAxis are mutually orthonormal; a plane is immutable
// once attached to a sketch.
type Plane struct {
	Kind   PlaneKind
	Origin *vector3.Vector3
	Normal *vector3.Vector3
	UAxis  *vector3.Vector3
	VAxis  *vector3.Vector3
}

// NewStandardPlane returns one of the three axis-aligned planes through the origin.
func NewStandardPlane(kind PlaneKind) Plane {
	switch kind {
	case PlaneXZ:
		return Plane{
			Kind:   PlaneXZ,
			Origin: vector3.New(0, 0, 0),
			Normal: vector3.New(0, -1, 0),
			UAxis:  vector3.New(1, 0, 0),
			VAxis:  vector3.New(0, 0, 1),
		}
	case PlaneYZ:
		return Plane{
			Kind:   PlaneYZ,
			Origin: vector3.New(0, 0, 0),
			Normal: vector3.New(1, 0, 0),
			UAxis:  vector3.New(0, 1, 0),
			VAxis:  vector3.New(0, 0, 1),
		}
	default:
		return Plane{
			Kind:   PlaneXY,
			Origin: vector3.New(0, 0, 0),
			Normal: vector3.New(0, 0, 1),
			UAxis:  vector3.New(1, 0, 0),
			VAxis:  vector3.New(0, 1, 0),
		}
	}
}

// PlaneFromNormal builds a custom plane at origin with the given normal.
// The in-plane axes are derived with cross products against whichever world
// axis is least aligned with the normal, so the frame stays orthonormal.
func PlaneFromNormal(origin, normal *vector3.Vector3) (Plane, bool) {
	if normal.Magnitude() < 1e-12 {
		return Plane{}, false
	}
	n := normal.Normalize()

	ref := vector3.New(0, 0, 1)
	if math.Abs(n.Dot(ref)) > 0.9 {
		ref = vector3.New(1, 0, 0)
	}
	u := ref.Cross(n).Normalize()
	v := n.Cross(u)

	return Plane{
		Kind:   PlaneCustom,
		Origin: origin,
		Normal: n,
		UAxis:  u,
		VAxis:  v,
	}, true
}

// ToWorld3 maps a plane-local 2D point into world space.
func (p Plane) ToWorld3(local Vec2) *vector3.Vector3 {
	u := p.UAxis.MulScalar(local.X)
	v := p.VAxis.MulScalar(local.Y)
	return p.Origin.Add(u).Add(v)
}

// ToLocal projects a world-space point onto the plane's 2D frame.
func (p Plane) ToLocal(world *vector3.Vector3) Vec2 {
	d := world.Sub(p.Origin)
	return Vec2{X: d.Dot(p.UAxis), Y: d.Dot(p.VAxis)}
}
