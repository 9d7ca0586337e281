package kin2d

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/akmonengine/kin2d/actor"
	"github.com/akmonengine/kin2d/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrBodyNotFound is returned for a body the world does not own
	ErrBodyNotFound = errors.New("body not found in world")
	// ErrShapeNotFound is returned for a shape that is detached or owned by a foreign body
	ErrShapeNotFound = errors.New("shape not found in world")
	// ErrInvalidSubsteps is returned by Step when the substep count is lower than 1
	ErrInvalidSubsteps = errors.New("substeps must be at least 1")
)

// WorldConfig holds the settings of a World
type WorldConfig struct {
	// Bounds is the root region of the quadtree; shapes outside it still collide
	Bounds actor.AABB
	// Gravity acceleration (m/s², or N/kg)
	Gravity mgl64.Vec2
	Tree    QuadTreeConfig
	// CleanupInterval is the simulated time between two collapses of empty quadtree branches,
	// 0 disables the cleanup
	CleanupInterval float64
	// VelocityIterations is the number of normal impulse passes per contact
	VelocityIterations int
}

// DefaultWorldConfig returns a 1024x1024 world centered on the origin, with earth gravity
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		Bounds:             actor.NewAABB(mgl64.Vec2{}, 512, 512),
		Gravity:            mgl64.Vec2{0, -9.81},
		Tree:               DefaultQuadTreeConfig(),
		CleanupInterval:    0.25,
		VelocityIterations: constraint.DefaultVelocityIterations,
	}
}

type World struct {
	// List of all rigid bodies in the world, in creation order
	bodies []*actor.RigidBody
	// Gravity acceleration (m/s², or N/kg)
	Gravity            mgl64.Vec2
	VelocityIterations int
	CleanupInterval    float64

	Tree   *QuadTree[*actor.Box]
	Events Events
	// Logger receives the structural errors Step cannot return, nil disables logging
	Logger *slog.Logger

	nextID       uint32
	sinceCleanup float64
}

// NewWorld creates an empty world
func NewWorld(config WorldConfig) *World {
	return &World{
		Gravity:            config.Gravity,
		VelocityIterations: config.VelocityIterations,
		CleanupInterval:    config.CleanupInterval,
		Tree:               NewQuadTree[*actor.Box](config.Bounds, config.Tree),
		Events:             NewEvents(),
	}
}

// CreateBody creates a body without shapes at position, the world position of its center of mass
func (w *World) CreateBody(position mgl64.Vec2, rotation float64, bodyType actor.BodyType) *actor.RigidBody {
	body := actor.NewRigidBody(actor.Transform{Position: position, Rotation: rotation}, bodyType)
	w.AddBody(body)

	return body
}

// AddBody adds a rigid body built outside the world, with its shapes.
// The body is given a new ID.
func (w *World) AddBody(body *actor.RigidBody) {
	body.ID = w.nextID
	w.nextID++
	w.bodies = append(w.bodies, body)

	body.UpdateGeometry()
	for _, shape := range body.Shapes() {
		w.insertShape(shape)
	}
}

// DestroyBody removes a rigid body and all its shapes from the world
func (w *World) DestroyBody(body *actor.RigidBody) error {
	k := slices.Index(w.bodies, body)
	if k == -1 {
		return ErrBodyNotFound
	}
	w.bodies = slices.Delete(w.bodies, k, k+1)
	w.Events.forget(body)

	var errs []error
	for _, shape := range body.Shapes() {
		if err := w.Tree.Remove(shape); err != nil {
			errs = append(errs, fmt.Errorf("destroy body %d: %w", body.ID, err))
		}
	}

	return errors.Join(errs...)
}

// CreateShape attaches a new box to a body of the world
func (w *World) CreateShape(body *actor.RigidBody, def actor.BoxDef) (*actor.Box, error) {
	if !slices.Contains(w.bodies, body) {
		return nil, fmt.Errorf("create shape: %w", ErrBodyNotFound)
	}

	box := actor.NewBox(def)
	body.AddShape(box)
	w.insertShape(box)

	return box, nil
}

// DestroyShape detaches a box from its body and removes it from the world
func (w *World) DestroyShape(box *actor.Box) error {
	body := box.Body()
	if body == nil || !slices.Contains(w.bodies, body) {
		return ErrShapeNotFound
	}

	treeErr := w.Tree.Remove(box)
	if err := body.RemoveShape(box); err != nil {
		return errors.Join(treeErr, fmt.Errorf("destroy shape of body %d: %w", body.ID, err))
	}
	if !body.HasShapes() {
		w.Events.forget(body)
	}

	return treeErr
}

func (w *World) insertShape(shape *actor.Box) {
	if err := w.Tree.Update(shape, shape.GetAABB()); err != nil {
		w.logError("quadtree insert", shape, err)
	}
}

// SetGravity changes the acceleration applied to every dynamic body
func (w *World) SetGravity(gravity mgl64.Vec2) {
	w.Gravity = gravity
}

// SetTreeBounds moves the quadtree root region, and files every shape again
func (w *World) SetTreeBounds(bounds actor.AABB) {
	w.Tree.Reset(bounds)
	for _, body := range w.bodies {
		for _, shape := range body.Shapes() {
			w.insertShape(shape)
		}
	}
}

// IterateBodies calls fn for every body, in creation order.
// fn must not create or destroy bodies.
func (w *World) IterateBodies(fn func(body *actor.RigidBody)) {
	for _, body := range w.bodies {
		fn(body)
	}
}

// Len returns the number of bodies
func (w *World) Len() int {
	return len(w.bodies)
}

// Step advances the world by dt, split in substeps iterations of
// integration, reindexing and collision resolution.
// Events are sent once all the substeps are done.
func (w *World) Step(dt float64, substeps int) error {
	if substeps < 1 {
		return fmt.Errorf("step with %d substeps: %w", substeps, ErrInvalidSubsteps)
	}
	h := dt / float64(substeps)

	for iter := 0; iter < substeps; iter++ {
		// Phase 1: Integrate forces and velocities
		w.integrate(h)

		// Phase 2: File the moved shapes
		w.reindex()

		// Phase 3.0: Collision pair finding - Broad phase
		// Phase 3.1: Collision pair finding - narrow phase, then resolution
		for _, pair := range BroadPhase(w.Tree, w.bodies) {
			contact, collision := NarrowPhase(pair)
			if !collision {
				continue
			}

			w.Events.recordCollision(contact)
			if contact.ShapeA.IsTrigger || contact.ShapeB.IsTrigger {
				continue
			}
			resolve(contact, w.VelocityIterations)
		}

		w.cleanup(h)
	}

	w.Events.flush()

	return nil
}

func (w *World) integrate(h float64) {
	for _, body := range w.bodies {
		body.Integrate(h, w.Gravity)
	}
}

// reindex moves every shape whose bounding box changed since it was filed
func (w *World) reindex() {
	for _, body := range w.bodies {
		for _, shape := range body.Shapes() {
			if err := w.Tree.Update(shape, shape.GetAABB()); err != nil {
				w.logError("quadtree reindex", shape, err)
			}
		}
	}
}

func (w *World) cleanup(h float64) {
	if w.CleanupInterval <= 0 {
		return
	}

	w.sinceCleanup += h
	if w.sinceCleanup >= w.CleanupInterval {
		w.Tree.Cleanup()
		w.sinceCleanup = 0
	}
}

func (w *World) logError(msg string, shape *actor.Box, err error) {
	if w.Logger == nil {
		return
	}

	attrs := []any{slog.Any("error", err)}
	if body := shape.Body(); body != nil {
		attrs = append(attrs, slog.Uint64("body", uint64(body.ID)))
	}
	w.Logger.Error(msg, attrs...)
}
