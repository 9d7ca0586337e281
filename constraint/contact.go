package constraint

import (
	"math"

	"github.com/akmonengine/kin2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultVelocityIterations is the number of normal impulse passes per contact.
	// The first pass splits the impulse evenly between the contact points,
	// the next ones correct what the split left over.
	DefaultVelocityIterations = 8

	// effective masses under this value are degenerate
	minEffectiveMass = 1e-10
	// tangent velocities under this value produce no friction
	minTangentSpeed = 1e-9
)

// ContactConstraint is the collision of two boxes for one substep.
// It is rebuilt from scratch every substep and never persisted.
type ContactConstraint struct {
	ShapeA *actor.Box
	ShapeB *actor.Box
	BodyA  *actor.RigidBody
	BodyB  *actor.RigidBody

	// Normal points from A toward B
	Normal mgl64.Vec2
	Depth  float64
	Points []mgl64.Vec2

	Restitution     float64
	StaticFriction  float64
	DynamicFriction float64
}

// NewContactConstraint combines the materials of both shapes for a measured overlap
func NewContactConstraint(shapeA, shapeB *actor.Box, normal mgl64.Vec2, depth float64) *ContactConstraint {
	return &ContactConstraint{
		ShapeA:          shapeA,
		ShapeB:          shapeB,
		BodyA:           shapeA.Body(),
		BodyB:           shapeB.Body(),
		Normal:          normal,
		Depth:           depth,
		Restitution:     ComputeRestitution(shapeA.Material, shapeB.Material),
		StaticFriction:  ComputeStaticFriction(shapeA.Material, shapeB.Material),
		DynamicFriction: ComputeDynamicFriction(shapeA.Material, shapeB.Material),
	}
}

// SolvePosition pushes both bodies apart along the normal by the penetration depth.
// Each body moves in proportion to the other's share of the total mass,
// so a static body never moves and its partner absorbs the whole correction.
// The shapes of the moved bodies are refreshed.
func (c *ContactConstraint) SolvePosition() {
	if c.Depth <= 0 {
		return
	}

	invMassA := c.BodyA.GetInverseMass()
	invMassB := c.BodyB.GetInverseMass()
	totalInvMass := invMassA + invMassB
	if totalInvMass <= 0 {
		return
	}

	correction := c.Normal.Mul(c.Depth / totalInvMass)

	if invMassA > 0 {
		c.BodyA.Translate(correction.Mul(-invMassA))
	}
	if invMassB > 0 {
		c.BodyB.Translate(correction.Mul(invMassB))
	}
}

type contactPoint struct {
	rA, rB        mgl64.Vec2
	effectiveMass float64
	// normal velocity the point must reach
	targetVelocity float64
	// accumulated normal impulse, never negative
	impulse float64
}

func (c *ContactConstraint) relativeVelocity(rA, rB mgl64.Vec2) mgl64.Vec2 {
	return c.BodyB.VelocityAt(rB).Sub(c.BodyA.VelocityAt(rA))
}

func (c *ContactConstraint) effectiveMass(rA, rB, direction mgl64.Vec2) float64 {
	rnA := actor.Perp(rA).Dot(direction)
	rnB := actor.Perp(rB).Dot(direction)

	return c.BodyA.GetInverseMass() + c.BodyB.GetInverseMass() +
		rnA*rnA*c.BodyA.GetInverseInertia() +
		rnB*rnB*c.BodyB.GetInverseInertia()
}

func (c *ContactConstraint) applyImpulse(impulse, rA, rB mgl64.Vec2) {
	c.BodyA.ApplyImpulse(impulse.Mul(-1), rA)
	c.BodyB.ApplyImpulse(impulse, rB)
}

// SolveVelocity applies the normal impulses (restitution) then the friction impulses.
// Points where the bodies already separate are skipped.
func (c *ContactConstraint) SolveVelocity(iterations int) {
	if len(c.Points) == 0 {
		return
	}
	iterations = max(1, iterations)

	bodyA := c.BodyA
	bodyB := c.BodyB
	count := float64(len(c.Points))

	// ========== NORMAL IMPULSE (restitution) ==========
	points := make([]contactPoint, 0, len(c.Points))
	for _, position := range c.Points {
		rA := position.Sub(bodyA.Transform.Position)
		rB := position.Sub(bodyB.Transform.Position)

		normalVel := c.relativeVelocity(rA, rB).Dot(c.Normal)
		if normalVel > 0 {
			// already separating
			continue
		}

		effectiveMass := c.effectiveMass(rA, rB, c.Normal)
		if effectiveMass < minEffectiveMass {
			continue
		}

		points = append(points, contactPoint{
			rA:             rA,
			rB:             rB,
			effectiveMass:  effectiveMass,
			targetVelocity: -c.Restitution * normalVel,
			// split evenly between the contact points
			impulse: -(1.0 + c.Restitution) * normalVel / effectiveMass / count,
		})
	}

	for _, p := range points {
		c.applyImpulse(c.Normal.Mul(p.impulse), p.rA, p.rB)
	}

	// sequential passes on the accumulated impulses
	for iter := 0; iter < iterations-1; iter++ {
		for i := range points {
			p := &points[i]

			normalVel := c.relativeVelocity(p.rA, p.rB).Dot(c.Normal)
			lambda := -(normalVel - p.targetVelocity) / p.effectiveMass

			// CRITICAL: Prevent attractive impulses
			newImpulse := math.Max(p.impulse+lambda, 0)
			lambda = newImpulse - p.impulse
			p.impulse = newImpulse

			c.applyImpulse(c.Normal.Mul(lambda), p.rA, p.rB)
		}
	}

	// ========== TANGENTIAL IMPULSE (friction) ==========
	frictionImpulses := make([]mgl64.Vec2, len(points))
	for i, p := range points {
		if p.impulse <= 0 {
			continue
		}

		relativeVel := c.relativeVelocity(p.rA, p.rB)
		tangentVel := relativeVel.Sub(c.Normal.Mul(relativeVel.Dot(c.Normal)))
		tangentSpeed := tangentVel.Len()
		if tangentSpeed < minTangentSpeed {
			continue
		}
		tangentDir := tangentVel.Mul(1.0 / tangentSpeed)

		effectiveMassTangent := c.effectiveMass(p.rA, p.rB, tangentDir)
		if effectiveMassTangent < minEffectiveMass {
			continue
		}

		lambdaTangent := -relativeVel.Dot(tangentDir) / effectiveMassTangent / count

		// Coulomb's law: |F_friction| ≤ μ * |F_normal|
		if math.Abs(lambdaTangent) <= p.impulse*c.StaticFriction {
			frictionImpulses[i] = tangentDir.Mul(lambdaTangent)
		} else {
			frictionImpulses[i] = tangentDir.Mul(-p.impulse * c.DynamicFriction)
		}
	}

	for i, p := range points {
		c.applyImpulse(frictionImpulses[i], p.rA, p.rB)
	}

	clampSmallVelocities(bodyA)
	clampSmallVelocities(bodyB)
}
