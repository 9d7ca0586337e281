package actor

import (
	"errors"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// ErrShapeNotOwned is returned when removing a shape from a body that does not own it
var ErrShapeNotOwned = errors.New("shape is not owned by this body")

// BodyType represents the type of rigid body
type BodyType int

const (
	// BodyTypeDynamic bodies are affected by forces, gravity, and collisions
	// They have finite mass and can move freely
	BodyTypeDynamic BodyType = iota

	// BodyTypeStatic bodies are immovable and have infinite mass
	// They are not affected by forces or gravity (e.g., ground, walls)
	BodyTypeStatic
)

// RigidBody represents a rigid body in the physics simulation.
// Transform.Position is the world position of the center of mass.
type RigidBody struct {
	ID uint32

	Transform Transform

	Velocity        mgl64.Vec2 // Linear velocity (m/s)
	AngularVelocity float64    // rad/s, counter-clockwise

	accumulatedForce  mgl64.Vec2
	accumulatedTorque float64

	BodyType BodyType

	shapes []*Box

	mass           float64
	inverseMass    float64
	inertia        float64
	inverseInertia float64
	centerOfMass   mgl64.Vec2 // body space

	// running sums over the shapes, so a shape can be removed without a full recomputation
	totalMass     float64
	massMoment    mgl64.Vec2 // Σ m·c
	originInertia float64    // Σ I + m·|c|², around the body origin
}

// NewRigidBody creates a body without shapes
func NewRigidBody(transform Transform, bodyType BodyType) *RigidBody {
	return &RigidBody{
		Transform: transform,
		BodyType:  bodyType,
	}
}

// IsStatic reports whether the body is immovable
func (rb *RigidBody) IsStatic() bool {
	return rb.BodyType == BodyTypeStatic
}

// Shapes returns the boxes owned by the body, in insertion order
func (rb *RigidBody) Shapes() []*Box {
	return rb.shapes
}

// HasShapes reports whether at least one box is attached
func (rb *RigidBody) HasShapes() bool {
	return len(rb.shapes) > 0
}

// AddShape attaches a detached box to the body and adds its mass
func (rb *RigidBody) AddShape(box *Box) {
	box.body = rb
	rb.shapes = append(rb.shapes, box)
	rb.addMass(box)
	rb.UpdateGeometry()
}

// RemoveShape detaches a box and removes its mass
func (rb *RigidBody) RemoveShape(box *Box) error {
	k := slices.Index(rb.shapes, box)
	if k == -1 || box.body != rb {
		return ErrShapeNotOwned
	}

	rb.shapes = slices.Delete(rb.shapes, k, k+1)
	rb.removeMass(box)
	box.body = nil
	box.UpdateWorldGeometry()
	rb.UpdateGeometry()

	return nil
}

func (rb *RigidBody) addMass(box *Box) {
	rb.totalMass += box.mass
	rb.massMoment = rb.massMoment.Add(box.Offset.Mul(box.mass))
	// parallel axis theorem around the body origin
	rb.originInertia += box.inertia + box.mass*box.Offset.Dot(box.Offset)
	rb.computeMassData()
}

func (rb *RigidBody) removeMass(box *Box) {
	rb.totalMass -= box.mass
	rb.massMoment = rb.massMoment.Sub(box.Offset.Mul(box.mass))
	rb.originInertia -= box.inertia + box.mass*box.Offset.Dot(box.Offset)
	rb.computeMassData()
}

func (rb *RigidBody) computeMassData() {
	const epsilon = 1e-12

	if len(rb.shapes) == 0 || rb.totalMass <= epsilon {
		rb.totalMass = 0
		rb.massMoment = mgl64.Vec2{}
		rb.originInertia = 0
	}

	rb.mass = rb.totalMass
	rb.centerOfMass = mgl64.Vec2{}
	if rb.mass > 0 {
		rb.centerOfMass = rb.massMoment.Mul(1.0 / rb.mass)
	}

	// move the inertia from the origin to the center of mass
	rb.inertia = rb.originInertia - rb.mass*rb.centerOfMass.Dot(rb.centerOfMass)
	if rb.inertia < epsilon {
		rb.inertia = 0
	}

	rb.inverseMass = 0
	rb.inverseInertia = 0
	if rb.BodyType == BodyTypeStatic {
		return
	}

	if rb.mass > 0 {
		rb.inverseMass = 1.0 / rb.mass
	} else {
		// Force all dynamic bodies to have a positive mass
		rb.inverseMass = 1.0
	}
	if rb.inertia > 0 {
		rb.inverseInertia = 1.0 / rb.inertia
	}
}

// GetMass returns the sum of the shapes' masses
func (rb *RigidBody) GetMass() float64 {
	return rb.mass
}

// GetInverseMass returns 0 for static bodies
func (rb *RigidBody) GetInverseMass() float64 {
	return rb.inverseMass
}

// GetInertia returns the rotational inertia around the center of mass
func (rb *RigidBody) GetInertia() float64 {
	return rb.inertia
}

// GetInverseInertia returns 0 for static bodies
func (rb *RigidBody) GetInverseInertia() float64 {
	return rb.inverseInertia
}

// CenterOfMass returns the center of mass in body space
func (rb *RigidBody) CenterOfMass() mgl64.Vec2 {
	return rb.centerOfMass
}

// UpdateGeometry refreshes the world data of every attached shape
func (rb *RigidBody) UpdateGeometry() {
	for _, box := range rb.shapes {
		box.UpdateWorldGeometry()
	}
}

// SetTransform moves the body and refreshes its shapes
func (rb *RigidBody) SetTransform(transform Transform) {
	rb.Transform = transform
	rb.UpdateGeometry()
}

// Translate moves the body by delta and refreshes its shapes
func (rb *RigidBody) Translate(delta mgl64.Vec2) {
	rb.Transform.Position = rb.Transform.Position.Add(delta)
	rb.UpdateGeometry()
}

// WorldPoint converts a point relative to the center of mass to world space
func (rb *RigidBody) WorldPoint(local mgl64.Vec2) mgl64.Vec2 {
	return rb.Transform.WorldPoint(local)
}

// Integrate advances the body by dt with explicit Euler.
// Static bodies discard their accumulated forces and keep a zero velocity.
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec2) {
	if rb.BodyType == BodyTypeStatic {
		rb.Velocity = mgl64.Vec2{}
		rb.AngularVelocity = 0
		rb.ClearForces()
		return
	}

	// ========== LINEAR ==========
	acceleration := rb.accumulatedForce.Mul(rb.inverseMass).Add(gravity)
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Transform.Position = rb.Transform.Position.Add(rb.Velocity.Mul(dt))

	// ========== ANGULAR ==========
	angularAcceleration := rb.accumulatedTorque * rb.inverseInertia
	rb.AngularVelocity += angularAcceleration * dt
	rb.Transform.Rotation += rb.AngularVelocity * dt

	rb.ClearForces()
	rb.UpdateGeometry()
}

// AddForce accumulates a force applied at the center of mass, until the next integration
func (rb *RigidBody) AddForce(force mgl64.Vec2) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
	}
}

// AddForceAtPoint accumulates a force applied at a world point, producing a torque
func (rb *RigidBody) AddForceAtPoint(force mgl64.Vec2, point mgl64.Vec2) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedForce = rb.accumulatedForce.Add(force)
		rb.accumulatedTorque += Cross(point.Sub(rb.Transform.Position), force)
	}
}

// AddTorque accumulates a torque, until the next integration
func (rb *RigidBody) AddTorque(torque float64) {
	if rb.BodyType != BodyTypeStatic {
		rb.accumulatedTorque += torque
	}
}

// ApplyLinearVelocity adds a velocity change
func (rb *RigidBody) ApplyLinearVelocity(velocity mgl64.Vec2) {
	if rb.BodyType != BodyTypeStatic {
		rb.Velocity = rb.Velocity.Add(velocity)
	}
}

// ApplyAngularVelocity adds an angular velocity change
func (rb *RigidBody) ApplyAngularVelocity(velocity float64) {
	if rb.BodyType != BodyTypeStatic {
		rb.AngularVelocity += velocity
	}
}

// ApplyImpulse changes the velocities as if impulse was applied at arm from the center of mass
func (rb *RigidBody) ApplyImpulse(impulse mgl64.Vec2, arm mgl64.Vec2) {
	rb.Velocity = rb.Velocity.Add(impulse.Mul(rb.inverseMass))
	rb.AngularVelocity += Cross(arm, impulse) * rb.inverseInertia
}

// VelocityAt returns the velocity of the body point at arm from the center of mass
func (rb *RigidBody) VelocityAt(arm mgl64.Vec2) mgl64.Vec2 {
	return rb.Velocity.Add(CrossScalar(rb.AngularVelocity, arm))
}

// ClearForces resets the accumulated force and torque
func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec2{}
	rb.accumulatedTorque = 0
}

// GetForce returns the force accumulated since the last integration
func (rb *RigidBody) GetForce() mgl64.Vec2 {
	return rb.accumulatedForce
}

// GetTorque returns the torque accumulated since the last integration
func (rb *RigidBody) GetTorque() float64 {
	return rb.accumulatedTorque
}
