package entity

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
)

// NewTetherAnchorAt spawns the invisible kinematic body a tether joint
// pulls its target toward. The body joins the space immediately so the
// joint can be created in the same tick.
func NewTetherAnchorAt(w *ecs.World, space *cp.Space, gun ecs.Entity, x, y float64) ecs.Entity {
	e := ecs.CreateEntity(w)

	body := cp.NewKinematicBody()
	body.SetPosition(cp.Vector{X: x, Y: y})
	body.UserData = e
	if space != nil {
		space.AddBody(body)
	}

	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y})
	_ = ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Body: body,
	})
	_ = ecs.Add(w, e, component.TetherAnchorComponent.Kind(), &component.TetherAnchor{
		Gun: component.EntityRef(gun),
	})
	return e
}
