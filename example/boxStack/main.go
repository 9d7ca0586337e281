package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/akmonengine/kin2d"
	"github.com/akmonengine/kin2d/actor"
	"github.com/akmonengine/kin2d/sat"
	"github.com/go-gl/mathgl/mgl64"
)

// CollisionDebugger prints the narrow phase of a pair of shapes
type CollisionDebugger interface {
	DebugSAT(shapeA, shapeB *actor.Box)
}

// SimpleDebugger prints to the standard output
type SimpleDebugger struct{}

func (d *SimpleDebugger) DebugSAT(shapeA, shapeB *actor.Box) {
	result, collision := sat.Test(shapeA, shapeB)
	if !collision {
		fmt.Printf("   No collision\n")
		return
	}

	fmt.Printf("🔍 SAT Debug:\n")
	fmt.Printf("   Shape A center: %v\n", shapeA.WorldCenter())
	fmt.Printf("   Shape B center: %v\n", shapeB.WorldCenter())
	fmt.Printf("   Normal: %v\n", result.Normal)
	fmt.Printf("   Depth: %.6f\n", result.Depth)
}

// SetupScene creates a static ground with a stack of boxes, the top one tilted
func SetupScene() (*kin2d.World, []*actor.RigidBody) {
	world := kin2d.NewWorld(kin2d.DefaultWorldConfig())
	world.Logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

	// Create ground
	ground := world.CreateBody(mgl64.Vec2{0, 0}, 0, actor.BodyTypeStatic)
	groundDef := actor.DefaultBoxDef()
	groundDef.HalfWidth = 20
	groundDef.HalfHeight = 0.5
	if _, err := world.CreateShape(ground, groundDef); err != nil {
		panic(err)
	}

	boxDef := actor.DefaultBoxDef()
	boxDef.HalfWidth = 0.5
	boxDef.HalfHeight = 0.5
	boxDef.StaticFriction = 0.6
	boxDef.DynamicFriction = 0.4

	boxes := make([]*actor.RigidBody, 0, 5)
	for i := 0; i < 5; i++ {
		rotation := 0.0
		if i == 4 {
			rotation = 0.3
		}

		box := world.CreateBody(mgl64.Vec2{0, 1.5 + float64(i)*1.5}, rotation, actor.BodyTypeDynamic)
		if _, err := world.CreateShape(box, boxDef); err != nil {
			panic(err)
		}
		boxes = append(boxes, box)
	}

	world.Events.Subscribe(kin2d.COLLISION_ENTER, func(event kin2d.Event) {
		e := event.(kin2d.CollisionEnterEvent)
		fmt.Printf("💥 Collision enter: body %d / body %d\n", e.BodyA.ID, e.BodyB.ID)
	})
	world.Events.Subscribe(kin2d.COLLISION_EXIT, func(event kin2d.Event) {
		e := event.(kin2d.CollisionExitEvent)
		fmt.Printf("👋 Collision exit: body %d / body %d\n", e.BodyA.ID, e.BodyB.ID)
	})

	return world, boxes
}

func main() {
	fmt.Println("🧪 Box stack falling on the ground")
	fmt.Println("==================================")

	world, boxes := SetupScene()
	var debugger CollisionDebugger = &SimpleDebugger{}

	const dt float64 = 1.0 / 60.0
	const substeps int = 4
	const maxSteps int = 240

	for step := 0; step < maxSteps; step++ {
		if err := world.Step(dt, substeps); err != nil {
			fmt.Println("step failed:", err)
			os.Exit(1)
		}

		if step%30 != 0 {
			continue
		}

		fmt.Printf("--- STEP %d ---\n", step+1)
		world.IterateBodies(func(body *actor.RigidBody) {
			if body.IsStatic() {
				return
			}
			fmt.Printf("  Body %d: position %v rotation %.3f velocity %v\n",
				body.ID, body.Transform.Position, body.Transform.Rotation, body.Velocity)
		})
		debugger.DebugSAT(boxes[3].Shapes()[0], boxes[4].Shapes()[0])
	}

	fmt.Println("Done!")
}
