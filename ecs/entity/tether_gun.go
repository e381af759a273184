package entity

import (
	"fmt"

	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
	"github.com/milk9111/tethersim/prefabs"
)

// NewTetherGun spawns a tether weapon from its prefab spec. The gun has no
// physics body of its own; it rides in a holder's hands and its transform
// tracks the holder.
func NewTetherGun(w *ecs.World, spec *prefabs.TetherGunSpec) (ecs.Entity, error) {
	if w == nil || spec == nil {
		return 0, fmt.Errorf("tether gun: nil world or spec")
	}
	e := ecs.CreateEntity(w)
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{})
	_ = ecs.Add(w, e, component.AppearanceComponent.Kind(), &component.Appearance{})
	_ = ecs.Add(w, e, component.TetherGunComponent.Kind(), &component.TetherGun{
		Variant:        spec.Name,
		MaxDistance:    spec.MaxDistance,
		MassLimit:      spec.MassLimit,
		CanTetherAlive: spec.CanTetherAlive,
		CanUnanchor:    spec.CanUnanchor,
		Frequency:      spec.Frequency,
		DampingRatio:   spec.DampingRatio,
		MaxForce:       spec.MaxForce,
		Sound:          spec.Sound,
	})
	return e, nil
}
