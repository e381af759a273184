package component

// Tethered marks an entity as currently held by a tether gun. At most one
// per entity; its presence suppresses the entity's own movement and any
// buckle attempts. Removal is deferred to end of tick.
type Tethered struct {
	// Tetherer is the gun entity holding this one.
	Tetherer EntityRef
	// OriginalAngularDamping is written once at tether start and restored
	// when the tether stops.
	OriginalAngularDamping float64
}

var TetheredComponent = NewComponent[Tethered]()
