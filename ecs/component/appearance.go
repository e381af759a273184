package component

// Visual-state keys replicated to clients.
const (
	VisualTethered = "tethered"
	VisualLight    = "light"
)

// Appearance holds named boolean visual flags for an entity.
type Appearance struct {
	Flags map[string]bool
}

// SetFlag sets a visual flag, allocating the map on first use.
func (a *Appearance) SetFlag(key string, on bool) {
	if a.Flags == nil {
		a.Flags = make(map[string]bool)
	}
	a.Flags[key] = on
}

// Flag reads a visual flag; absent keys are false.
func (a *Appearance) Flag(key string) bool {
	return a.Flags[key]
}

var AppearanceComponent = NewComponent[Appearance]()
