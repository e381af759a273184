package component

// TetherAnchor tags the ephemeral kinematic body a tether joint pulls its
// target toward. It exists only for the duration of one tether session.
type TetherAnchor struct {
	// Gun is the weapon entity that spawned this anchor.
	Gun EntityRef
}

var TetherAnchorComponent = NewComponent[TetherAnchor]()
