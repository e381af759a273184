package component

// Thrown marks an entity as in flight after being thrown (or tethered; the
// tether reuses it so collision-damage suppression treats held objects the
// same way). Landed flips true when the flight ends; the component is then
// queue-removed.
type Thrown struct {
	Thrower EntityRef
	Landed  bool
}

var ThrownComponent = NewComponent[Thrown]()
