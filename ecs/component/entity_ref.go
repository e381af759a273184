package component

// EntityRef is a raw entity handle stored inside a component. Components
// cannot import the ecs package (the ecs package imports this one), so
// cross-entity references are carried as the handle's underlying bits and
// converted back by systems.
type EntityRef uint64

// NoEntity is the zero reference.
const NoEntity EntityRef = 0

func (r EntityRef) Valid() bool {
	return r != 0
}
