package kin2d

import (
	"github.com/akmonengine/kin2d/actor"
	"github.com/akmonengine/kin2d/constraint"
	"github.com/akmonengine/kin2d/manifold"
	"github.com/akmonengine/kin2d/sat"
)

// Pair represents two shapes whose bounding boxes overlap
type Pair struct {
	ShapeA *actor.Box
	ShapeB *actor.Box
}

// BroadPhase returns the candidate pairs of the bodies, using the quadtree.
// Only dynamic bodies issue queries, so static/static pairs are never produced.
// Each pair is reported once, with ShapeA belonging to the querying dynamic body.
// Pairs come out in body order, then in shape order, then in tree order.
func BroadPhase(tree *QuadTree[*actor.Box], bodies []*actor.RigidBody) []Pair {
	pairs := make([]Pair, 0, len(bodies))
	// shapes that already issued their query
	traversed := make(map[*actor.Box]struct{})
	// candidates of the current query, a straddling shape is visited once per leaf
	seen := make(map[*actor.Box]struct{})

	for _, body := range bodies {
		if body.IsStatic() || !body.HasShapes() {
			continue
		}

		for _, shape := range body.Shapes() {
			aabb := shape.GetAABB()
			clear(seen)

			tree.Query(aabb, func(candidate *actor.Box) {
				if candidate == shape || candidate.Body() == body {
					return
				}
				if _, ok := traversed[candidate]; ok {
					return
				}
				if _, ok := seen[candidate]; ok {
					return
				}
				seen[candidate] = struct{}{}

				if !aabb.Overlaps(candidate.GetAABB()) {
					return
				}
				pairs = append(pairs, Pair{ShapeA: shape, ShapeB: candidate})
			})

			traversed[shape] = struct{}{}
		}
	}

	return pairs
}

// NarrowPhase runs the separating axis test on a candidate pair.
// The bounding boxes are checked again: an earlier correction may have moved the bodies apart.
func NarrowPhase(pair Pair) (*constraint.ContactConstraint, bool) {
	if !pair.ShapeA.GetAABB().Overlaps(pair.ShapeB.GetAABB()) {
		return nil, false
	}

	result, collision := sat.Test(pair.ShapeA, pair.ShapeB)
	if !collision {
		return nil, false
	}

	return constraint.NewContactConstraint(pair.ShapeA, pair.ShapeB, result.Normal, result.Depth), true
}

// resolve separates the bodies, measures the contact points on the corrected poses,
// then applies the impulses
func resolve(contact *constraint.ContactConstraint, iterations int) {
	contact.SolvePosition()
	contact.Points = manifold.Generate(contact.ShapeA, contact.ShapeB)
	contact.SolveVelocity(iterations)
}
