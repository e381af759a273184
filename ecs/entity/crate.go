package entity

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
)

// CrateOpts tunes a spawned physics prop.
type CrateOpts struct {
	Mass   float64
	Radius float64
	// Static anchors the crate to the world until something detaches it.
	Static         bool
	AngularDamping float64
	LinearDamping  float64
}

// NewCrate spawns an inert physics prop at x, y. The body joins the space
// immediately.
func NewCrate(w *ecs.World, space *cp.Space, x, y float64, opts CrateOpts) ecs.Entity {
	e := ecs.CreateEntity(w)

	mass := opts.Mass
	if mass <= 0 {
		mass = 1
	}
	radius := opts.Radius
	if radius <= 0 {
		radius = 0.5
	}

	var body *cp.Body
	var moment float64
	if opts.Static {
		body = cp.NewStaticBody()
	} else {
		moment = cp.MomentForCircle(mass, 0, radius*2, cp.Vector{})
		body = cp.NewBody(mass, moment)
	}
	body.SetPosition(cp.Vector{X: x, Y: y})
	body.UserData = e

	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0.6)

	if space != nil {
		space.AddBody(body)
		space.AddShape(shape)
	}

	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X: x, Y: y, Anchored: opts.Static,
	})
	_ = ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Body:           body,
		Shape:          shape,
		Mass:           mass,
		Moment:         moment,
		Radius:         radius,
		Static:         opts.Static,
		AngularDamping: opts.AngularDamping,
		LinearDamping:  opts.LinearDamping,
	})
	return e
}
