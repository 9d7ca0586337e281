package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box represents an oriented box collision shape attached to a rigid body.
// The box is defined by its half-extents (half-width, half-height) and
// its offset from the body origin. It has no rotation of its own: its
// orientation is the body's.
//
// The world vertices, normals and AABB are derived data: they must be
// refreshed with UpdateWorldGeometry whenever the owning body moves.
type Box struct {
	HalfExtents mgl64.Vec2
	Offset      mgl64.Vec2
	Material    Material
	IsTrigger   bool

	mass    float64
	inertia float64

	vertices [4]mgl64.Vec2
	normals  [2]mgl64.Vec2
	aabb     AABB

	body *RigidBody
}

// NewBox creates a detached box from its definition.
// The box becomes part of a body with RigidBody.AddShape.
func NewBox(def BoxDef) *Box {
	b := &Box{
		HalfExtents: mgl64.Vec2{def.HalfWidth, def.HalfHeight},
		Offset:      def.Offset,
		Material:    def.material(),
		IsTrigger:   def.IsTrigger,
	}
	b.computeMassData()
	b.UpdateWorldGeometry()

	return b
}

// Body returns the owning body, nil for a detached box
func (b *Box) Body() *RigidBody {
	return b.body
}

// SetDimensions changes the half-extents, updating the mass of the owning body
func (b *Box) SetDimensions(halfWidth, halfHeight float64) {
	b.reshape(func() {
		b.HalfExtents = mgl64.Vec2{halfWidth, halfHeight}
	})
}

// SetDensity changes the density, updating the mass of the owning body
func (b *Box) SetDensity(density float64) {
	b.reshape(func() {
		b.Material.Density = density
	})
}

func (b *Box) reshape(change func()) {
	if b.body != nil {
		b.body.removeMass(b)
	}

	change()
	b.computeMassData()

	if b.body != nil {
		b.body.addMass(b)
		b.body.UpdateGeometry()
		return
	}
	b.UpdateWorldGeometry()
}

// ComputeMass calculates the mass of the box for a given density
func (b *Box) ComputeMass(density float64) float64 {
	// Area = 4 * hx * hy (full dimensions are 2*halfExtents)
	return density * 4.0 * b.HalfExtents.X() * b.HalfExtents.Y()
}

// ComputeInertia calculates the rotational inertia around the box center
func (b *Box) ComputeInertia(mass float64) float64 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2

	// I = (m/12) * (w² + h²)
	return mass / 12.0 * (x*x + y*y)
}

func (b *Box) computeMassData() {
	b.mass = b.ComputeMass(b.Material.Density)
	b.inertia = b.ComputeInertia(b.mass)
}

// GetMass returns the mass contribution of the box
func (b *Box) GetMass() float64 {
	return b.mass
}

// GetInertia returns the inertia of the box around its own center
func (b *Box) GetInertia() float64 {
	return b.inertia
}

// UpdateWorldGeometry recomputes the world vertices, the face normals and the AABB
// from the owning body's position and rotation.
func (b *Box) UpdateWorldGeometry() {
	transform := NewTransform()
	center := b.Offset
	if b.body != nil {
		transform = b.body.Transform
		// shapes are placed relative to the center of mass, which is the body position
		center = b.Offset.Sub(b.body.centerOfMass)
	}

	hx, hy := b.HalfExtents.X(), b.HalfExtents.Y()
	corners := [4]mgl64.Vec2{
		{-hx, -hy},
		{+hx, -hy},
		{+hx, +hy},
		{-hx, +hy},
	}

	rotation := transform.Matrix()
	// opposite faces share their normal line, two normals are enough
	b.normals[0] = rotation.Mul2x1(mgl64.Vec2{-1, 0})
	b.normals[1] = rotation.Mul2x1(mgl64.Vec2{0, -1})

	min := mgl64.Vec2{math.Inf(1), math.Inf(1)}
	max := mgl64.Vec2{math.Inf(-1), math.Inf(-1)}
	for i, corner := range corners {
		v := rotation.Mul2x1(corner.Add(center)).Add(transform.Position)
		b.vertices[i] = v

		min[0] = math.Min(min[0], v[0])
		min[1] = math.Min(min[1], v[1])
		max[0] = math.Max(max[0], v[0])
		max[1] = math.Max(max[1], v[1])
	}

	b.aabb = AABB{Min: min, Max: max}
}

// GetAABB returns the AABB computed by the last UpdateWorldGeometry
func (b *Box) GetAABB() AABB {
	return b.aabb
}

// Vertices returns the world vertices in counter-clockwise order
func (b *Box) Vertices() [4]mgl64.Vec2 {
	return b.vertices
}

// Normals returns the two world face normals
func (b *Box) Normals() [2]mgl64.Vec2 {
	return b.normals
}

// Rotation returns the world rotation of the box
func (b *Box) Rotation() float64 {
	if b.body == nil {
		return 0
	}
	return b.body.Transform.Rotation
}

// WorldCenter returns the center of the box in world space
func (b *Box) WorldCenter() mgl64.Vec2 {
	return b.vertices[0].Add(b.vertices[2]).Mul(0.5)
}
