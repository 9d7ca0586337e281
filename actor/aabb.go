package actor

import "github.com/go-gl/mathgl/mgl64"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec2
	Max mgl64.Vec2
}

// NewAABB builds the box centered on center, extending halfWidth and halfHeight on each side
func NewAABB(center mgl64.Vec2, halfWidth, halfHeight float64) AABB {
	half := mgl64.Vec2{halfWidth, halfHeight}
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec2) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y()
}

// Overlaps checks if two AABBs overlap.
// Touching boxes overlap; the test is symmetric.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y()
}

// Contains checks if a fully encloses other
func (a AABB) Contains(other AABB) bool {
	return a.Min.X() <= other.Min.X() && a.Min.Y() <= other.Min.Y() &&
		a.Max.X() >= other.Max.X() && a.Max.Y() >= other.Max.Y()
}

// Center returns the middle point of the box
func (a AABB) Center() mgl64.Vec2 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Quadrants splits the box in four at its center.
// Order: bottom-left, bottom-right, top-right, top-left.
func (a AABB) Quadrants() [4]AABB {
	c := a.Center()

	return [4]AABB{
		{Min: a.Min, Max: c},
		{Min: mgl64.Vec2{c.X(), a.Min.Y()}, Max: mgl64.Vec2{a.Max.X(), c.Y()}},
		{Min: c, Max: a.Max},
		{Min: mgl64.Vec2{a.Min.X(), c.Y()}, Max: mgl64.Vec2{c.X(), a.Max.Y()}},
	}
}
