package ecs

import "fmt"

// Entity is a generational handle: the low half is a slot index into the
// world, the high half is the slot's generation when the handle was issued.
// A destroyed-and-reused slot bumps its generation, so handles held across
// a destroy (joint registries, gun state, strap occupants) go stale instead
// of silently pointing at the slot's new occupant.
type Entity uint64

type entityID uint32
type generation uint32

const generationShift = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<generationShift | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint64(e) >> generationShift)
}

func (e Entity) String() string {
	return fmt.Sprintf("%d@%d", e.id(), e.generation())
}

// Valid reports whether the handle refers to some entity. It says nothing
// about liveness; use IsAlive for that.
func (e Entity) Valid() bool {
	return e > 0
}
