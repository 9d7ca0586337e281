package actor

import "github.com/go-gl/mathgl/mgl64"

// Material holds the surface and density properties of a shape
type Material struct {
	Density     float64
	Restitution float64 // 0= no rebound, 1= perfect restitution

	StaticFriction  float64
	DynamicFriction float64
}

// BoxDef describes a box shape to attach to a body
type BoxDef struct {
	HalfWidth  float64
	HalfHeight float64
	// Offset of the box center from the body origin, in body space
	Offset mgl64.Vec2

	Density         float64
	Restitution     float64
	StaticFriction  float64
	DynamicFriction float64

	// Triggers are detected but never resolved
	IsTrigger bool
}

// DefaultBoxDef returns a 2x2 box of density 1, no restitution and full friction
func DefaultBoxDef() BoxDef {
	return BoxDef{
		HalfWidth:       1.0,
		HalfHeight:      1.0,
		Density:         1.0,
		Restitution:     0.0,
		StaticFriction:  1.0,
		DynamicFriction: 1.0,
	}
}

func (def BoxDef) material() Material {
	return Material{
		Density:         def.Density,
		Restitution:     def.Restitution,
		StaticFriction:  def.StaticFriction,
		DynamicFriction: def.DynamicFriction,
	}
}
