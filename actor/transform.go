package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position and an orientation in 2D space
type Transform struct {
	Position mgl64.Vec2
	Rotation float64 // radians, counter-clockwise
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec2{0, 0},
		Rotation: 0,
	}
}

// Matrix returns the rotation part of the transform as a 2x2 matrix
func (t Transform) Matrix() mgl64.Mat2 {
	return mgl64.Rotate2D(t.Rotation)
}

// WorldPoint transforms a point from local to world space
func (t Transform) WorldPoint(local mgl64.Vec2) mgl64.Vec2 {
	return t.Matrix().Mul2x1(local).Add(t.Position)
}

// Cross returns the z component of the 3D cross product of a and b
func Cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}

// CrossScalar returns s × v, the velocity induced by an angular speed s at arm v
func CrossScalar(s float64, v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-s * v.Y(), s * v.X()}
}

// Perp rotates v by 90 degrees counter-clockwise
func Perp(v mgl64.Vec2) mgl64.Vec2 {
	return mgl64.Vec2{-v.Y(), v.X()}
}
