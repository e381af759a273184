package component

import "github.com/jakecoffman/cp"

// BodyStatus tells other systems whether a body is resting on the ground or
// airborne. Tethering forces a body InAir for the duration of the hold.
type BodyStatus int

const (
	StatusGrounded BodyStatus = iota
	StatusInAir
)

// PhysicsBody stores Chipmunk2D runtime data plus the per-body tuning the
// space itself does not track. Body and Shape are nil until the physics
// system (or an entity builder) registers them with the space.
type PhysicsBody struct {
	Body  *cp.Body
	Shape *cp.Shape

	Mass   float64
	Moment float64
	Radius float64

	// Static marks a body anchored to the world. A can-unanchor tether gun
	// detaches it, converting the body to dynamic for good.
	Static bool

	// AngularDamping and LinearDamping are applied per body by the physics
	// system after each space step.
	AngularDamping float64
	LinearDamping  float64

	// SleepForbidden keeps the body awake; the physics system re-activates
	// it whenever the space puts it to sleep.
	SleepForbidden bool

	Status BodyStatus
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
