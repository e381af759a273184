package component

// Hands tracks what a mob is holding. Only the active item matters to the
// tether flow: move requests act on the sender's active-hand weapon.
type Hands struct {
	Active EntityRef
}

var HandsComponent = NewComponent[Hands]()
