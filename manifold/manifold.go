// Package manifold builds the contact points of two overlapping boxes.
//
// Every vertex of each box is matched against every edge of the other box;
// the closest vertex/edge pair gives the main contact point. A second, distinct
// vertex at nearly the same distance means the boxes touch face to face, and
// gives the second contact point. Corner contacts yield a single point.
package manifold

import (
	"math"

	"github.com/akmonengine/kin2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DistanceTolerance is how much farther than the closest vertex a second
	// vertex may be and still count as a contact
	DistanceTolerance = 0.1

	// PositionTolerance is the distance under which two contact points are the same
	PositionTolerance = 0.005

	// MaxPoints is the largest manifold a pair of boxes can produce
	MaxPoints = 2
)

type candidate struct {
	point    mgl64.Vec2
	distance float64
}

// PointSegmentDistance returns the distance from p to the segment [a, b]
// and the point of the segment closest to p.
func PointSegmentDistance(p, a, b mgl64.Vec2) (float64, mgl64.Vec2) {
	ab := b.Sub(a)
	length := ab.LenSqr()

	closest := a
	if length > 0 {
		t := mgl64.Clamp(p.Sub(a).Dot(ab)/length, 0, 1)
		closest = a.Add(ab.Mul(t))
	}

	return p.Sub(closest).Len(), closest
}

// closestOnEdges returns, for each point, its closest point on the polygon outline
func closestOnEdges(points, polygon [4]mgl64.Vec2, out []candidate) []candidate {
	for _, p := range points {
		best := candidate{distance: math.MaxFloat64}

		prev := polygon[len(polygon)-1]
		for _, cur := range polygon {
			distance, cp := PointSegmentDistance(p, prev, cur)
			if distance < best.distance {
				best = candidate{point: cp, distance: distance}
			}
			prev = cur
		}

		out = append(out, best)
	}

	return out
}

// Generate returns the 1 or 2 contact points between two overlapping boxes.
func Generate(a, b *actor.Box) []mgl64.Vec2 {
	candidates := make([]candidate, 0, 8)
	candidates = closestOnEdges(a.Vertices(), b.Vertices(), candidates)
	candidates = closestOnEdges(b.Vertices(), a.Vertices(), candidates)

	first := 0
	for i, c := range candidates {
		if c.distance < candidates[first].distance {
			first = i
		}
	}

	points := make([]mgl64.Vec2, 1, MaxPoints)
	points[0] = candidates[first].point

	second := -1
	for i, c := range candidates {
		if i == first || c.distance-candidates[first].distance > DistanceTolerance {
			continue
		}
		if c.point.Sub(points[0]).Len() <= PositionTolerance {
			continue
		}
		if second == -1 || c.distance < candidates[second].distance {
			second = i
		}
	}

	if second != -1 {
		points = append(points, candidates[second].point)
	}

	return points
}
