package system

import (
	"github.com/milk9111/tethersim/ecs"
	"github.com/milk9111/tethersim/ecs/component"
)

// Movement blocking and buckle interception for tethered entities. These
// are query-style helpers other systems call on demand rather than a
// per-tick System: nothing here needs to run when no state changed.

// RefreshMovement recomputes whether e may move under its own control.
// Called whenever something that suppresses movement starts or stops.
func RefreshMovement(w *ecs.World, e ecs.Entity) {
	mover, ok := ecs.Get(w, e, component.MoverComponent.Kind())
	if !ok {
		return
	}
	mover.CanMove = !ecs.Has(w, e, component.TetheredComponent.Kind())
}

// CanMove reports whether e may currently move under its own control.
func CanMove(w *ecs.World, e ecs.Entity) bool {
	if ecs.Has(w, e, component.TetheredComponent.Kind()) {
		return false
	}
	if mover, ok := ecs.Get(w, e, component.MoverComponent.Kind()); ok {
		return mover.CanMove
	}
	return true
}

// AttemptBuckle tries to buckle rider onto seat. Tethered riders are
// rejected; a rider already on the seat is a no-op success.
func AttemptBuckle(w *ecs.World, rider, seat ecs.Entity) bool {
	strap, ok := ecs.Get(w, seat, component.StrapComponent.Kind())
	if !ok || !ecs.IsAlive(w, rider) {
		return false
	}
	if ecs.Has(w, rider, component.TetheredComponent.Kind()) {
		return false
	}
	ref := component.EntityRef(rider)
	for _, occ := range strap.Occupants {
		if occ == ref {
			return true
		}
	}
	strap.Occupants = append(strap.Occupants, ref)
	w.MarkChanged(seat)
	return true
}

// Unbuckle removes rider from seat's occupants.
func Unbuckle(w *ecs.World, rider, seat ecs.Entity) bool {
	strap, ok := ecs.Get(w, seat, component.StrapComponent.Kind())
	if !ok {
		return false
	}
	ref := component.EntityRef(rider)
	for i, occ := range strap.Occupants {
		if occ == ref {
			strap.Occupants = append(strap.Occupants[:i], strap.Occupants[i+1:]...)
			w.MarkChanged(seat)
			return true
		}
	}
	return false
}
