package component

// Mover caches whether an entity may currently move under its own control.
// Recomputed by the blocker system whenever something that suppresses
// movement (such as a tether) starts or stops.
type Mover struct {
	CanMove bool
}

var MoverComponent = NewComponent[Mover]()
