package system

import (
	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
)

// HeldSystem pins every active held item to its holder's position. The
// tether flow depends on this: move-request range checks measure from the
// gun entity, which must track the player carrying it.
type HeldSystem struct{}

func NewHeldSystem() *HeldSystem {
	return &HeldSystem{}
}

func (h *HeldSystem) Update(w *ecs.World) {
	if h == nil || w == nil {
		return
	}
	ecs.ForEach2(w, component.HandsComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, hands *component.Hands, tr *component.Transform) {
		if !hands.Active.Valid() {
			return
		}
		item := ecs.Entity(hands.Active)
		itr, ok := ecs.Get(w, item, component.TransformComponent.Kind())
		if !ok {
			return
		}
		itr.X = tr.X
		itr.Y = tr.Y
	})
}
