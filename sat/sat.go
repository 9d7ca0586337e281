// Package sat implements the Separating Axis Test between two oriented boxes.
//
// Two convex shapes do not overlap if there exists an axis on which their
// projections are disjoint. For boxes the only candidate axes are the face
// normals of both boxes; since opposite faces share the same normal line,
// each box contributes two axes, four in total.
//
// When the boxes do overlap, the axis with the smallest overlap gives the
// Minimum Translation Vector: the contact normal and the penetration depth.
//
// References:
//   - Ericson: "Real-Time Collision Detection" (2004), chapter 4.4
package sat

import (
	"math"

	"github.com/akmonengine/kin2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// ParallelTolerance is the threshold under which two boxes are considered to
// share their axes, in which case the second box's axes are redundant.
const ParallelTolerance = 1e-4

// Result is the Minimum Translation Vector of an overlap
type Result struct {
	// Normal points from the first box toward the second
	Normal mgl64.Vec2
	// Depth is the overlap along Normal, never negative
	Depth float64
}

// interval is the shadow of a box on an axis
type interval struct {
	min float64
	max float64
}

func (i interval) contains(other interval) bool {
	return i.min <= other.min && other.max <= i.max
}

// Project returns the [min, max] interval of the vertices projected onto axis
func Project(vertices [4]mgl64.Vec2, axis mgl64.Vec2) (float64, float64) {
	p := project(vertices, axis)
	return p.min, p.max
}

func project(vertices [4]mgl64.Vec2, axis mgl64.Vec2) interval {
	first := vertices[0].Dot(axis)
	result := interval{min: first, max: first}

	for i := 1; i < 4; i++ {
		p := vertices[i].Dot(axis)
		result.min = math.Min(result.min, p)
		result.max = math.Max(result.max, p)
	}

	return result
}

// Test performs the separating axis test between two boxes.
//
// Algorithm:
//  1. For each candidate axis, project both boxes onto it
//  2. Disjoint projections → separating axis found, early exit
//  3. Otherwise measure the overlap, keep the smallest one
//
// The second box's axes are skipped when both boxes have parallel axes.
//
// Returns:
//   - Result: normal (from a toward b) and depth of the smallest overlap
//   - bool: true if the boxes collide
func Test(a, b *actor.Box) (Result, bool) {
	result := Result{Depth: math.MaxFloat64}

	verticesA := a.Vertices()
	verticesB := b.Vertices()
	normalsA := a.Normals()
	normalsB := b.Normals()

	if !testAxes(verticesA, verticesB, normalsA, &result) {
		return Result{}, false
	}

	if !Parallel(normalsA, normalsB) {
		if !testAxes(verticesA, verticesB, normalsB, &result) {
			return Result{}, false
		}
	}

	return result, true
}

// Parallel reports whether two boxes share the same pair of axes.
// Boxes rotated by a multiple of 90 degrees from each other are parallel too.
func Parallel(normalsA, normalsB [2]mgl64.Vec2) bool {
	c := math.Abs(actor.Cross(normalsA[0], normalsB[0]))
	d := math.Abs(normalsA[0].Dot(normalsB[0]))

	return c < ParallelTolerance || d < ParallelTolerance
}

func testAxes(verticesA, verticesB [4]mgl64.Vec2, axes [2]mgl64.Vec2, result *Result) bool {
	for _, axis := range axes {
		// shape of each box on a 1D line
		shapeA := project(verticesA, axis)
		shapeB := project(verticesB, axis)

		if shapeA.max < shapeB.min || shapeB.max < shapeA.min {
			return false
		}

		depth := math.Max(0, math.Min(shapeA.max, shapeB.max)-math.Max(shapeA.min, shapeB.min))
		// b lies on the negative side of the axis
		flip := shapeA.max-shapeB.max > 0

		// a contained interval must be pushed out through the nearest end
		aContainsB := shapeA.contains(shapeB)
		if aContainsB || shapeB.contains(shapeA) {
			mins := math.Abs(shapeA.min - shapeB.min)
			maxs := math.Abs(shapeA.max - shapeB.max)
			depth += math.Min(mins, maxs)
			if aContainsB {
				flip = mins < maxs
			} else {
				flip = mins >= maxs
			}
		}

		// smallest depth wins, ties keep the first axis
		if depth < result.Depth {
			result.Depth = depth
			result.Normal = axis
			if flip {
				result.Normal = axis.Mul(-1)
			}
		}
	}

	return true
}
