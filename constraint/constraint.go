package constraint

import (
	"github.com/akmonengine/kin2d/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type Constraint interface {
	SolvePosition()
	SolveVelocity(iterations int)
}

// ComputeRestitution: if one bounces, it bounces
func ComputeRestitution(matA, matB actor.Material) float64 {
	return max(matA.Restitution, matB.Restitution)
}

func ComputeStaticFriction(matA, matB actor.Material) float64 {
	return (matA.StaticFriction + matB.StaticFriction) / 2.0
}

func ComputeDynamicFriction(matA, matB actor.Material) float64 {
	return (matA.DynamicFriction + matB.DynamicFriction) / 2.0
}

func clampSmallVelocities(rb *actor.RigidBody) {
	const velocityThreshold = 1e-5

	if rb.Velocity.Len() < velocityThreshold {
		rb.Velocity = mgl64.Vec2{0, 0}
	}
	if rb.AngularVelocity < velocityThreshold && rb.AngularVelocity > -velocityThreshold {
		rb.AngularVelocity = 0
	}
}
