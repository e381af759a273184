package ecs

import "github.com/milk9111/tethersim/ecs/component"

// System updates a world once per simulation tick.
type System interface {
	Update(w *World)
}

// World owns entities, component stores, and system order. All access happens
// on the simulation goroutine; nothing here is safe for concurrent use.
type World struct {
	nextID entityID
	gens   []generation
	free   []entityID

	stores  map[component.ComponentID]*SparseSet
	systems []System

	pendingRemovals []pendingRemoval
	pendingDestroys []Entity

	changed map[Entity]struct{}
}

type pendingRemoval struct {
	entity Entity
	kind   component.ComponentID
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{
		stores:  make(map[component.ComponentID]*SparseSet),
		changed: make(map[Entity]struct{}),
	}
}

// CreateEntity allocates a new entity handle.
func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	var id entityID
	if n := len(w.free); n > 0 {
		id = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		w.nextID++
		id = w.nextID
		w.gens = append(w.gens, 0)
	}
	return makeEntity(id, w.gens[id-1])
}

// DestroyEntity removes all components for e and frees its handle. Returns
// false if e was not alive.
func DestroyEntity(w *World, e Entity) bool {
	if !IsAlive(w, e) {
		return false
	}
	id := int(e.id())
	for _, s := range w.stores {
		s.Remove(id)
	}
	w.gens[e.id()-1]++
	w.free = append(w.free, e.id())
	delete(w.changed, e)
	return true
}

// IsAlive reports whether an entity handle is still valid.
func IsAlive(w *World, e Entity) bool {
	if w == nil || e.id() == 0 || int(e.id()) > len(w.gens) {
		return false
	}
	return w.gens[e.id()-1] == e.generation()
}

// Entities returns all live entity handles.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	free := make(map[entityID]struct{}, len(w.free))
	for _, id := range w.free {
		free[id] = struct{}{}
	}
	out := make([]Entity, 0, int(w.nextID)-len(w.free))
	for id := entityID(1); id <= w.nextID; id++ {
		if _, dead := free[id]; dead {
			continue
		}
		out = append(out, makeEntity(id, w.gens[id-1]))
	}
	return out
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs all systems once, then flushes deferred removals and destroys.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		s.Update(w)
	}
	w.Flush()
}

// QueueRemove defers a component removal to the end of the current tick.
// Safe to call while iterating the component's store.
func (w *World) QueueRemove(e Entity, kind component.ComponentID) {
	if w == nil || !IsAlive(w, e) {
		return
	}
	w.pendingRemovals = append(w.pendingRemovals, pendingRemoval{entity: e, kind: kind})
}

// QueueDestroy defers an entity destruction to the end of the current tick.
func (w *World) QueueDestroy(e Entity) {
	if w == nil || !IsAlive(w, e) {
		return
	}
	w.pendingDestroys = append(w.pendingDestroys, e)
}

// Flush applies deferred removals and destroys queued during this tick.
func (w *World) Flush() {
	if w == nil {
		return
	}
	for _, p := range w.pendingRemovals {
		if !IsAlive(w, p.entity) {
			continue
		}
		if s := w.stores[p.kind]; s != nil {
			s.Remove(int(p.entity.id()))
		}
	}
	w.pendingRemovals = w.pendingRemovals[:0]

	for _, e := range w.pendingDestroys {
		DestroyEntity(w, e)
	}
	w.pendingDestroys = w.pendingDestroys[:0]
}

// MarkChanged records an entity as dirty for replication.
func (w *World) MarkChanged(e Entity) {
	if w == nil || !IsAlive(w, e) {
		return
	}
	w.changed[e] = struct{}{}
}

// DrainChanged returns and clears the set of dirty entities.
func (w *World) DrainChanged() []Entity {
	if w == nil || len(w.changed) == 0 {
		return nil
	}
	out := make([]Entity, 0, len(w.changed))
	for e := range w.changed {
		out = append(out, e)
	}
	clear(w.changed)
	return out
}

func (w *World) store(id component.ComponentID, create bool) *SparseSet {
	if w == nil || id == 0 {
		return nil
	}
	s, ok := w.stores[id]
	if !ok && create {
		s = &SparseSet{}
		w.stores[id] = s
	}
	return s
}
