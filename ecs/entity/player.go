package entity

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
)

// NewPlayer spawns a controllable mob with empty hands at x, y.
func NewPlayer(w *ecs.World, space *cp.Space, x, y float64) ecs.Entity {
	e := NewCrate(w, space, x, y, CrateOpts{Mass: 70, Radius: 0.35, LinearDamping: 4})
	_ = ecs.Add(w, e, component.MobComponent.Kind(), &component.Mob{Alive: true})
	_ = ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{CanMove: true})
	_ = ecs.Add(w, e, component.HandsComponent.Kind(), &component.Hands{})
	return e
}

// NewMob spawns a living creature with a physics body at x, y.
func NewMob(w *ecs.World, space *cp.Space, x, y float64, opts CrateOpts) ecs.Entity {
	e := NewCrate(w, space, x, y, opts)
	_ = ecs.Add(w, e, component.MobComponent.Kind(), &component.Mob{Alive: true})
	_ = ecs.Add(w, e, component.MoverComponent.Kind(), &component.Mover{CanMove: true})
	return e
}

// NewStrap spawns seat/restraint furniture with a physics body at x, y.
func NewStrap(w *ecs.World, space *cp.Space, x, y float64, opts CrateOpts) ecs.Entity {
	e := NewCrate(w, space, x, y, opts)
	_ = ecs.Add(w, e, component.StrapComponent.Kind(), &component.Strap{})
	return e
}
