package ecs

import "github.com/milk9111/tethersim/ecs/component"

// Add attaches a component value to an entity. The stored pointer stays live;
// callers mutate component state through the pointer Get returns.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	if !IsAlive(w, e) {
		return component.ErrEntityNotAlive
	}
	w.store(kind.ID(), true).Set(int(e.id()), value)
	return nil
}

// Remove detaches a component from an entity immediately. Prefer
// World.QueueRemove while iterating.
func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !kind.Valid() || !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).Remove(int(e.id()))
}

// Has reports whether the entity carries the component.
func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if !kind.Valid() || !IsAlive(w, e) {
		return false
	}
	return w.store(kind.ID(), false).Has(int(e.id()))
}

// Get returns the entity's component pointer, if present.
func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if !kind.Valid() || !IsAlive(w, e) {
		return nil, false
	}
	v := w.store(kind.ID(), false).Get(int(e.id()))
	if v == nil {
		return nil, false
	}
	cast, ok := v.(*T)
	return cast, ok
}

// ForEach visits every live entity carrying the component.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(e Entity, v *T)) {
	if w == nil || !kind.Valid() || fn == nil {
		return
	}
	s := w.store(kind.ID(), false)
	if s == nil {
		return
	}
	// Snapshot ids so fn may queue removals without invalidating iteration.
	ids := make([]int, len(s.Entities()))
	copy(ids, s.Entities())
	for _, id := range ids {
		if id <= 0 || id > len(w.gens) {
			continue
		}
		e := makeEntity(entityID(id), w.gens[id-1])
		v, ok := Get(w, e, kind)
		if !ok {
			continue
		}
		fn(e, v)
	}
}

// ForEach2 visits every live entity carrying both components.
func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(e Entity, a *A, b *B)) {
	if w == nil || fn == nil {
		return
	}
	ForEach(w, ka, func(e Entity, a *A) {
		b, ok := Get(w, e, kb)
		if !ok {
			return
		}
		fn(e, a, b)
	})
}
