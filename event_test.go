package kin2d

import (
	"testing"

	"github.com/akmonengine/kin2d/actor"
	"github.com/akmonengine/kin2d/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// createTestBody creates a dynamic body with one unit box for event testing
func createTestBody(id uint32, isTrigger bool) *actor.RigidBody {
	rb := actor.NewRigidBody(actor.NewTransform(), actor.BodyTypeDynamic)
	rb.ID = id

	def := actor.DefaultBoxDef()
	def.IsTrigger = isTrigger
	rb.AddShape(actor.NewBox(def))

	return rb
}

// createTestConstraint creates a ContactConstraint between the first shapes of two bodies
func createTestConstraint(bodyA, bodyB *actor.RigidBody) *constraint.ContactConstraint {
	return constraint.NewContactConstraint(bodyA.Shapes()[0], bodyB.Shapes()[0], mgl64.Vec2{1, 0}, 0.1)
}

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	for _, e := range ec.events {
		if e.Type() == eventType {
			return true
		}
	}
	return false
}

func subscribeAll(events *Events, capture *eventCapture) {
	for _, eventType := range []EventType{TRIGGER_ENTER, COLLISION_ENTER, TRIGGER_STAY, COLLISION_STAY, TRIGGER_EXIT, COLLISION_EXIT} {
		events.Subscribe(eventType, capture.capture)
	}
}

// =============================================================================
// Pair Key Tests
// =============================================================================

func TestMakePairKey_Ordering(t *testing.T) {
	bodyA := createTestBody(1, false)
	bodyB := createTestBody(2, false)

	k1 := makePairKey(bodyA, bodyB, false)
	k2 := makePairKey(bodyB, bodyA, false)

	if k1 != k2 {
		t.Errorf("pair keys differ with the order of the bodies: %v != %v", k1, k2)
	}
	if k1.bodyA != bodyA {
		t.Errorf("expected the lowest ID first, got body %d", k1.bodyA.ID)
	}
}

func TestMakePairKey_TriggerIsDistinct(t *testing.T) {
	bodyA := createTestBody(1, false)
	bodyB := createTestBody(2, false)

	if makePairKey(bodyA, bodyB, false) == makePairKey(bodyA, bodyB, true) {
		t.Error("trigger and collision pairs should not share a key")
	}
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)

	if len(events.listeners[COLLISION_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for COLLISION_ENTER, got %d", len(events.listeners[COLLISION_ENTER]))
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	captures := []*eventCapture{{}, {}, {}}
	for _, c := range captures {
		events.Subscribe(COLLISION_ENTER, c.capture)
	}

	bodyA := createTestBody(1, false)
	bodyB := createTestBody(2, false)
	events.recordCollision(createTestConstraint(bodyA, bodyB))
	events.flush()

	for i, c := range captures {
		if c.count() != 1 {
			t.Errorf("Capture%d expected 1 event, got %d", i+1, c.count())
		}
	}
}

func TestEvents_NoListener(t *testing.T) {
	events := NewEvents()

	bodyA := createTestBody(1, false)
	bodyB := createTestBody(2, false)
	events.recordCollision(createTestConstraint(bodyA, bodyB))
	events.flush()

	if len(events.buffer) != 0 {
		t.Errorf("buffer should be empty after flush, got %d events", len(events.buffer))
	}
}

// =============================================================================
// Enter / Stay / Exit Tests
// =============================================================================

func TestEvents_Lifecycle(t *testing.T) {
	tests := []struct {
		name      string
		isTrigger bool
		enter     EventType
		stay      EventType
		exit      EventType
	}{
		{"collision", false, COLLISION_ENTER, COLLISION_STAY, COLLISION_EXIT},
		{"trigger", true, TRIGGER_ENTER, TRIGGER_STAY, TRIGGER_EXIT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := NewEvents()
			capture := &eventCapture{}
			subscribeAll(&events, capture)

			bodyA := createTestBody(1, false)
			bodyB := createTestBody(2, tt.isTrigger)
			c := createTestConstraint(bodyA, bodyB)

			// Frame 1: Enter
			events.recordCollision(c)
			events.flush()
			if capture.count() != 1 || !capture.hasEventType(tt.enter) {
				t.Fatalf("frame 1: expected a single enter event, got %v", capture.events)
			}

			// Frame 2: Stay
			capture.reset()
			events.recordCollision(c)
			events.flush()
			if capture.count() != 1 || !capture.hasEventType(tt.stay) {
				t.Fatalf("frame 2: expected a single stay event, got %v", capture.events)
			}

			// Frame 3: Exit
			capture.reset()
			events.flush()
			if capture.count() != 1 || !capture.hasEventType(tt.exit) {
				t.Fatalf("frame 3: expected a single exit event, got %v", capture.events)
			}

			// Frame 4: nothing
			capture.reset()
			events.flush()
			if capture.count() != 0 {
				t.Errorf("frame 4: expected no event, got %v", capture.events)
			}
		})
	}
}

func TestEvents_SubstepsRecordOnce(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	bodyA := createTestBody(1, false)
	bodyB := createTestBody(2, false)

	// the same pair found in several substeps, both ways round
	events.recordCollision(createTestConstraint(bodyA, bodyB))
	events.recordCollision(createTestConstraint(bodyB, bodyA))
	events.recordCollision(createTestConstraint(bodyA, bodyB))
	events.flush()

	if capture.count() != 1 {
		t.Errorf("Expected 1 event, got %d", capture.count())
	}
}

func TestEvents_EventBodies(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_ENTER, capture.capture)

	bodyA := createTestBody(7, false)
	bodyB := createTestBody(3, false)
	events.recordCollision(createTestConstraint(bodyA, bodyB))
	events.flush()

	if capture.count() != 1 {
		t.Fatalf("Expected 1 event, got %d", capture.count())
	}
	enter, ok := capture.events[0].(CollisionEnterEvent)
	if !ok {
		t.Fatalf("Expected CollisionEnterEvent, got %T", capture.events[0])
	}
	if enter.BodyA != bodyB || enter.BodyB != bodyA {
		t.Errorf("Expected bodies ordered by ID (3, 7), got (%d, %d)", enter.BodyA.ID, enter.BodyB.ID)
	}
}

func TestEvents_MultipleFrames_EnterExitEnter(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	bodyA := createTestBody(1, false)
	bodyB := createTestBody(2, false)
	c := createTestConstraint(bodyA, bodyB)

	expected := []struct {
		colliding bool
		eventType EventType
	}{
		{true, COLLISION_ENTER},
		{false, COLLISION_EXIT},
		{true, COLLISION_ENTER},
	}

	for i, frame := range expected {
		capture.reset()
		if frame.colliding {
			events.recordCollision(c)
		}
		events.flush()

		if capture.count() != 1 || !capture.hasEventType(frame.eventType) {
			t.Errorf("frame %d: expected event type %d, got %v", i+1, frame.eventType, capture.events)
		}
	}
}

func TestEvents_Forget(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	subscribeAll(&events, capture)

	bodyA := createTestBody(1, false)
	bodyB := createTestBody(2, false)
	events.recordCollision(createTestConstraint(bodyA, bodyB))
	events.flush()

	capture.reset()
	events.forget(bodyA)
	events.flush()

	if capture.count() != 0 {
		t.Errorf("a forgotten body should not emit an exit event, got %v", capture.events)
	}
}
