package system

import (
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/tethersim/common"
	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
	"github.com/milk9111/tethersim/joints"
)

const defaultBodyRadius = 0.5

// NewSpace creates the Chipmunk space the simulation steps. Top-down world:
// no gravity, sleeping enabled.
func NewSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SleepTimeThreshold = 0.5
	return space
}

// PhysicsSystem owns the space step. It materializes bodies for entities
// that gained a PhysicsBody component, enforces per-body damping and
// no-sleep flags, flushes anchors marked for destruction, and writes body
// poses back to transforms.
type PhysicsSystem struct {
	space  *cp.Space
	joints *joints.Registry
}

func NewPhysicsSystem(space *cp.Space, reg *joints.Registry) *PhysicsSystem {
	return &PhysicsSystem{space: space, joints: reg}
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil || ps.space == nil {
		return
	}

	// Entities marked for destroy: pull their joints and bodies out of the
	// space here, where the space is owned, then destroy the entity.
	ecs.ForEach(w, component.PendingDestroyComponent.Kind(), func(e ecs.Entity, _ *component.PendingDestroy) {
		ps.joints.RemoveAll(e)
		if pb, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok && pb.Body != nil {
			if pb.Shape != nil {
				ps.space.RemoveShape(pb.Shape)
			}
			ps.space.RemoveBody(pb.Body)
			pb.Body = nil
			pb.Shape = nil
		}
		w.QueueDestroy(e)
	})

	// Materialize bodies added since last tick.
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if pb.Body == nil {
			ps.ensureBody(e, pb, tr)
		}
		if pb.SleepForbidden && pb.Body != nil && pb.Body.IsSleeping() {
			pb.Body.Activate()
		}
	})

	ps.space.Step(common.TickDelta)

	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
		if pb.Body == nil {
			return
		}
		applyBodyDamping(pb, common.TickDelta)
		pos := pb.Body.Position()
		tr.X = pos.X
		tr.Y = pos.Y
		tr.Rotation = pb.Body.Angle()
	})
}

func (ps *PhysicsSystem) ensureBody(e ecs.Entity, pb *component.PhysicsBody, tr *component.Transform) {
	radius := pb.Radius
	if radius <= 0 {
		radius = defaultBodyRadius
		pb.Radius = radius
	}

	var body *cp.Body
	if pb.Static {
		body = cp.NewStaticBody()
	} else {
		mass := pb.Mass
		if mass <= 0 {
			mass = 1
			pb.Mass = mass
		}
		moment := cp.MomentForCircle(mass, 0, radius*2, cp.Vector{})
		body = cp.NewBody(mass, moment)
		pb.Moment = moment
	}
	body.SetPosition(cp.Vector{X: tr.X, Y: tr.Y})
	body.SetAngle(tr.Rotation)
	body.UserData = e

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0.6)

	ps.space.AddBody(body)
	ps.space.AddShape(shape)
	pb.Body = body
	pb.Shape = shape
}

// applyBodyDamping decays velocities for bodies carrying their own damping
// values; the space itself runs with no global damping.
func applyBodyDamping(pb *component.PhysicsBody, dt float64) {
	body := pb.Body
	if body == nil || pb.Static {
		return
	}
	if pb.AngularDamping > 0 {
		body.SetAngularVelocity(body.AngularVelocity() / (1 + dt*pb.AngularDamping))
	}
	if pb.LinearDamping > 0 {
		v := body.Velocity()
		k := 1 / (1 + dt*pb.LinearDamping)
		body.SetVelocity(v.X*k, v.Y*k)
	}
}

// applyAngularImpulse adds an instantaneous angular impulse to the body,
// scaled by its moment of inertia.
func applyAngularImpulse(pb *component.PhysicsBody, impulse float64) {
	if pb == nil || pb.Body == nil {
		return
	}
	moment := pb.Moment
	if moment <= 0 || math.IsInf(moment, 1) {
		return
	}
	pb.Body.SetAngularVelocity(pb.Body.AngularVelocity() + impulse/moment)
}
