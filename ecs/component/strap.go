package component

// Strap marks seat/restraint furniture that entities can buckle to.
type Strap struct {
	Occupants []EntityRef
}

// HasOccupants reports whether anyone is buckled to the strap.
func (s *Strap) HasOccupants() bool {
	return len(s.Occupants) > 0
}

var StrapComponent = NewComponent[Strap]()
